package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/util"
)

const entryExtension = ".jsonl"

// FileScanner discovers entry files. The source may be a single file or a
// directory searched recursively for *.jsonl files.
type FileScanner struct {
	source string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(source string) *FileScanner {
	return &FileScanner{source: source}
}

// Source returns the scanned path
func (s *FileScanner) Source() string {
	return s.source
}

// Scan returns the entry files in lexical order. A missing source yields no
// files and no error, so a fresh install starts with an empty log.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	info, err := os.Stat(s.source)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogDebugf("Entry source does not exist yet: %s", s.source)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat entry source %s: %w", s.source, err)
	}
	if !info.IsDir() {
		return []string{s.source}, nil
	}

	var files []string
	dirCount := 0
	err = filepath.WalkDir(s.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.LogDebugf("Skip path (error): %s - %v", path, err)
			if d != nil && d.IsDir() && path != s.source {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirCount++
			return nil
		}
		if IsEntryFile(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebugf("Entry scan completed: duration %v, scanned %d directories, found %d entry files",
		time.Since(start), dirCount, len(files))

	return files, err
}

// Dirs returns the directories a watcher must observe to see new entry files
func (s *FileScanner) Dirs() ([]string, error) {
	info, err := os.Stat(s.source)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{filepath.Dir(s.source)}, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Dir(s.source)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(s.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// IsEntryFile reports whether path names an entry file
func IsEntryFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), entryExtension)
}
