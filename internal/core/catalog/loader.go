package catalog

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// FileSpec is the on-disk catalog layout
type FileSpec struct {
	Themes      []Theme     `json:"themes" yaml:"themes"`
	Medications []EntrySpec `json:"medications" yaml:"medications"`
	Users       []UserSpec  `json:"users" yaml:"users"`
}

// EntrySpec declares one medication
type EntrySpec struct {
	ID             string          `json:"id" yaml:"id"`
	DisplayName    string          `json:"displayName" yaml:"displayName"`
	Patterns       []string        `json:"patterns" yaml:"patterns"`
	Dose           DoseSpec        `json:"dose" yaml:"dose"`
	ActiveDuration *ActiveDuration `json:"activeDuration,omitempty" yaml:"activeDuration,omitempty"`
	Ingredients    []Ingredient    `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	StandardDoses  []StandardDose  `json:"standardDoses,omitempty" yaml:"standardDoses,omitempty"`
	Theme          string          `json:"theme" yaml:"theme"`
}

// DoseSpec configures a RegexExtractor
type DoseSpec struct {
	Amount string `json:"amount" yaml:"amount"`
	Count  string `json:"count,omitempty" yaml:"count,omitempty"`
	Unit   string `json:"unit" yaml:"unit"`
}

// LoadFile reads a .yaml, .yml or .json catalog
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog bytes in the given format ("yaml", "yml" or "json")
func Parse(data []byte, format string) (*Catalog, error) {
	var spec FileSpec

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case "json":
		if err := sonic.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return FromSpec(spec, WithVersion(fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))))
}

// FromSpec compiles every pattern and builds the catalog
func FromSpec(spec FileSpec, opts ...Option) (*Catalog, error) {
	entries := make([]*Entry, 0, len(spec.Medications))

	for _, ms := range spec.Medications {
		entry, err := compileEntry(ms)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	opts = append([]Option{WithThemes(spec.Themes...), WithUsers(spec.Users...)}, opts...)
	return New(entries, opts...)
}

func compileEntry(ms EntrySpec) (*Entry, error) {
	patterns := make([]*regexp.Regexp, 0, len(ms.Patterns))
	for _, expr := range ms.Patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidEntry, ms.ID, expr, err)
		}
		patterns = append(patterns, re)
	}

	extractor, err := NewRegexExtractor(ms.Dose.Amount, ms.Dose.Count, ms.Dose.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntry, ms.ID, err)
	}

	return &Entry{
		ID:             ms.ID,
		DisplayName:    ms.DisplayName,
		Patterns:       patterns,
		Extractor:      extractor,
		ActiveDuration: ms.ActiveDuration,
		Ingredients:    ms.Ingredients,
		StandardDoses:  ms.StandardDoses,
		Theme:          ms.Theme,
	}, nil
}
