package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// EntryLine is one JSONL entry line as written by a medication logging client
type EntryLine struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// EntryGenerator writes entry files under a base directory
type EntryGenerator struct {
	baseDir string
}

// NewEntryGenerator creates a generator rooted at baseDir
func NewEntryGenerator(baseDir string) *EntryGenerator {
	return &EntryGenerator{baseDir: baseDir}
}

// BaseDir returns the directory files are written to
func (g *EntryGenerator) BaseDir() string {
	return g.baseDir
}

// Entry builds a line with an explicit id
func Entry(id string, ts time.Time, text string) EntryLine {
	return EntryLine{ID: id, Timestamp: ts.UTC().Format(time.RFC3339Nano), Text: text}
}

// GeneratePercocetCourse writes a dose every interval starting at start, count times
func (g *EntryGenerator) GeneratePercocetCourse(filename string, start time.Time, interval time.Duration, count int) (string, error) {
	lines := make([]EntryLine, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, Entry(
			fmt.Sprintf("percocet-%d", i),
			start.Add(time.Duration(i)*interval),
			"Percocet 5-325 (1 tablet)",
		))
	}
	return g.WriteJSONL(filename, lines)
}

// GenerateMixedDay writes a realistic day: combined mentions, an unconfigured
// mention and acetaminophen from two products
func (g *EntryGenerator) GenerateMixedDay(filename string, start time.Time) (string, error) {
	lines := []EntryLine{
		Entry("mixed-1", start, "Percocet 5-325 (1 tablet), Tylenol 650mg"),
		Entry("mixed-2", start.Add(3*time.Hour), "ibuprofen 400mg and melatonin"),
		Entry("mixed-3", start.Add(5*time.Hour), "Tylenol Extra Strength"),
		Entry("mixed-4", start.Add(8*time.Hour), "tylenol 1300mg; gabapentin 300mg"),
	}
	return g.WriteJSONL(filename, lines)
}

// WriteJSONL writes lines to filename under the base directory
func (g *EntryGenerator) WriteJSONL(filename string, lines []EntryLine) (string, error) {
	var b strings.Builder
	for _, line := range lines {
		data, err := sonic.Marshal(line)
		if err != nil {
			return "", err
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return g.WriteRaw(filename, b.String())
}

// WriteRaw writes content verbatim, for malformed-input cases
func (g *EntryGenerator) WriteRaw(filename, content string) (string, error) {
	path := filepath.Join(g.baseDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// AppendJSONL appends lines to an existing file
func (g *EntryGenerator) AppendJSONL(filename string, lines []EntryLine) error {
	path := filepath.Join(g.baseDir, filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, line := range lines {
		data, err := sonic.Marshal(line)
		if err != nil {
			return err
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
