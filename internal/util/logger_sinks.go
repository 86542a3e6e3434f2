package util

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// StreamSink writes records to an io.Writer
type StreamSink struct {
	mu     sync.Mutex
	writer io.Writer
	closer io.Closer
	format LogFormat
}

// NewStreamSink creates a sink over writer; a nil writer discards
func NewStreamSink(writer io.Writer, format LogFormat) *StreamSink {
	if writer == nil {
		writer = io.Discard
	}
	return &StreamSink{writer: writer, format: format}
}

// NewFileSink appends records to path
func NewFileSink(path string, format LogFormat) (*StreamSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &StreamSink{writer: file, closer: file, format: format}, nil
}

// Write renders one record per line
func (s *StreamSink) Write(record LogRecord) error {
	line, err := renderRecord(record, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = fmt.Fprintln(s.writer, line)
	return err
}

// Close closes the underlying file, if any
func (s *StreamSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func renderRecord(record LogRecord, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(record)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var b strings.Builder
	b.WriteString(record.Timestamp.Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(record.Level)
	b.WriteString("] ")
	b.WriteString(record.Message)

	if len(record.Fields) > 0 {
		keys := make([]string, 0, len(record.Fields))
		for k := range record.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, record.Fields[k])
		}
	}
	return b.String(), nil
}
