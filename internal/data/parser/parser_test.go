package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/data/cache"
	"github.com/penwyp/go-dose-monitor/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestNewParser(t *testing.T) {
	p := NewParser(4)
	assert.Equal(t, 4, p.concurrency)
	assert.Empty(t, p.cache)

	assert.Equal(t, 1, NewParser(0).concurrency)
}

func TestParseReader(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"a","timestamp":"2024-03-01T08:00:00Z","text":"Percocet 5-325 (1 tablet)"}`,
		``,
		`{"id":"b","timestamp":1709283600000,"rawText":"tylenol 500mg"}`,
		`not json`,
		`{"id":"c","timestamp":"yesterday","text":"advil"}`,
		`{"id":"d","text":"no timestamp"}`,
		`{"id":"e","timestamp":"2024-03-01T10:00:00Z","text":"   "}`,
		`{"timestamp":"2024-03-01T11:00:00+01:00","text":"gabapentin 300mg"}`,
	}, "\n")

	entries, skipped, err := ParseReader(strings.NewReader(input), "inline")
	require.NoError(t, err)

	assert.Equal(t, 4, skipped)
	require.Len(t, entries, 3)

	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, t0, entries[0].Timestamp)
	assert.Equal(t, "Percocet 5-325 (1 tablet)", entries[0].RawText)

	assert.Equal(t, "b", entries[1].ID)
	assert.True(t, entries[1].Timestamp.Equal(t0.Add(time.Hour)))
	assert.Equal(t, "tylenol 500mg", entries[1].RawText)

	assert.NotEmpty(t, entries[2].ID, "missing ids are derived")
	assert.Equal(t, DeriveID(entries[2].Timestamp, "gabapentin 300mg"), entries[2].ID)
}

func TestDeriveID(t *testing.T) {
	id := DeriveID(t0, "tylenol 500mg")

	assert.Len(t, id, 36)
	assert.Equal(t, id, DeriveID(t0, "tylenol 500mg"))
	assert.Equal(t, id, DeriveID(t0.In(time.FixedZone("X", 7200)), "tylenol 500mg"), "same instant, other zone")
	assert.NotEqual(t, id, DeriveID(t0.Add(time.Second), "tylenol 500mg"))
	assert.NotEqual(t, id, DeriveID(t0, "tylenol 650mg"))
}

func TestParseFileCachesUntilChanged(t *testing.T) {
	gen := fixtures.NewEntryGenerator(t.TempDir())
	path, err := gen.GeneratePercocetCourse("day.jsonl", t0, 4*time.Hour, 2)
	require.NoError(t, err)

	p := NewParser(1)
	first, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, first, 2)

	again, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, gen.AppendJSONL("day.jsonl", []fixtures.EntryLine{
		fixtures.Entry("late", t0.Add(12*time.Hour), "ibuprofen 200mg"),
	}))

	grown, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, grown, 3)
}

type recordingCache struct {
	files map[string]*cache.CachedFile
	gets  int
	sets  int
}

func (c *recordingCache) Get(path string) cache.CacheResult {
	c.gets++
	if data, ok := c.files[path]; ok {
		return cache.CacheResult{Data: data, Found: true}
	}
	return cache.CacheResult{MissReason: cache.MissReasonNotFound}
}

func (c *recordingCache) Set(data *cache.CachedFile) error {
	c.sets++
	c.files[data.FilePath] = data
	return nil
}

func (c *recordingCache) Clear() error   { return nil }
func (c *recordingCache) Preload() error { return nil }

func TestParseFileUsesFileCache(t *testing.T) {
	gen := fixtures.NewEntryGenerator(t.TempDir())
	path, err := gen.GeneratePercocetCourse("day.jsonl", t0, 4*time.Hour, 2)
	require.NoError(t, err)

	store := &recordingCache{files: make(map[string]*cache.CachedFile)}

	p := NewParser(1)
	p.SetFileCache(store)
	first, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, store.sets)

	// A fresh parser is served from the file cache
	store.files[path].Entries = []model.LogEntry{{ID: "cached", Timestamp: t0, RawText: "tylenol 500mg"}}
	fresh := NewParser(1)
	fresh.SetFileCache(store)
	cached, err := fresh.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "cached", cached[0].ID)
	assert.Equal(t, 1, store.sets)

	// Stale cache entries are ignored and rewritten
	require.NoError(t, gen.AppendJSONL("day.jsonl", []fixtures.EntryLine{
		fixtures.Entry("late", t0.Add(12*time.Hour), "ibuprofen 200mg"),
	}))
	grown, err := fresh.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, grown, len(first)+1)
	assert.Equal(t, 2, store.sets)
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewParser(1).ParseFile("/nonexistent/entries.jsonl")
	assert.Error(t, err)
}

func TestParseFiles(t *testing.T) {
	gen := fixtures.NewEntryGenerator(t.TempDir())
	a, err := gen.GeneratePercocetCourse("a.jsonl", t0, 4*time.Hour, 3)
	require.NoError(t, err)
	b, err := gen.GenerateMixedDay("nested/b.jsonl", t0)
	require.NoError(t, err)

	results, err := NewParser(2).ParseFiles(context.Background(), []string{a, "/missing.jsonl", b})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, a, results[0].File)
	assert.Len(t, results[0].Entries, 3)
	assert.Error(t, results[1].Error)
	assert.Len(t, results[2].Entries, 4)
}

func TestParseFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(1).ParseFiles(ctx, []string{"a.jsonl"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge(t *testing.T) {
	results := []ParseResult{
		{Entries: []model.LogEntry{
			{ID: "late", Timestamp: t0.Add(2 * time.Hour), RawText: "x"},
			{ID: "tie-1", Timestamp: t0, RawText: "first at t0"},
		}},
		{Entries: []model.LogEntry{
			{ID: "late", Timestamp: t0.Add(5 * time.Hour), RawText: "duplicate"},
			{ID: "tie-2", Timestamp: t0, RawText: "second at t0"},
			{ID: "early", Timestamp: t0.Add(-time.Hour), RawText: "y"},
		}},
	}

	merged := Merge(results)

	ids := make([]string, 0, len(merged))
	for _, e := range merged {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, ids)
	assert.Equal(t, "x", merged[3].RawText, "first occurrence of an id wins")
}
