package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/data/cache"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// entryNamespace scopes the name-based ids derived for entries without one
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("go-dose-monitor/entry"))

// Parser reads JSONL entry files. Parsed files are cached until their
// size, mtime or tail fingerprint changes.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cachedFile
	fileCache   cache.Cache
}

type cachedFile struct {
	state   util.FileState
	entries []model.LogEntry
}

// ParseResult represents the result of parsing a single file
type ParseResult struct {
	File    string
	Entries []model.LogEntry
	Skipped int
	Error   error
}

// NewParser creates a parser loading at most concurrency files at once
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedFile),
	}
}

// SetFileCache enables a persistent cache consulted when the in-memory one misses
func (p *Parser) SetFileCache(c cache.Cache) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileCache = c
}

// ParseFile parses the entry file at path
func (p *Parser) ParseFile(path string) ([]model.LogEntry, error) {
	state, err := util.StatFile(path)
	if err != nil {
		util.LogDebugf("Failed to stat entry file: %s - %v", path, err)
		return nil, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && !cached.state.Changed(state) {
		p.mu.Unlock()
		return cached.entries, nil
	}
	fileCache := p.fileCache
	p.mu.Unlock()

	if fileCache != nil {
		result := fileCache.Get(path)
		if result.Found && !result.Data.State.Changed(state) {
			p.store(path, state, result.Data.Entries)
			return result.Data.Entries, nil
		}
		util.LogDebugf("File cache miss for %s: %s", path, result.MissReason)
	}

	util.LogDebugf("Start parsing entry file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	entries, skipped, err := ParseReader(file, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if skipped > 0 {
		util.LogDebugf("Skipped %d invalid lines in %s", skipped, path)
	}

	p.store(path, state, entries)
	if fileCache != nil {
		if err := fileCache.Set(&cache.CachedFile{FilePath: path, State: state, Entries: entries}); err != nil {
			util.LogWarnf("Failed to write file cache for %s: %v", path, err)
		}
	}

	return entries, nil
}

func (p *Parser) store(path string, state util.FileState, entries []model.LogEntry) {
	p.mu.Lock()
	p.cache[path] = cachedFile{state: state, entries: entries}
	p.mu.Unlock()
}

// ParseReader decodes one entry per line. Blank lines are ignored; lines that
// are not valid JSON, lack a timestamp or carry no text are counted as skipped.
func ParseReader(r io.Reader, source string) ([]model.LogEntry, int, error) {
	var entries []model.LogEntry
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry model.LogEntry
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			util.LogDebugf("Skip invalid JSON line %s:%d - %v", source, lineNo, err)
			skipped++
			continue
		}
		if entry.Timestamp.IsZero() || strings.TrimSpace(entry.RawText) == "" {
			util.LogDebugf("Skip incomplete entry %s:%d", source, lineNo)
			skipped++
			continue
		}
		if entry.ID == "" {
			entry.ID = DeriveID(entry.Timestamp, entry.RawText)
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return entries, skipped, nil
}

// DeriveID returns a stable name-based UUID for an entry without an id
func DeriveID(ts time.Time, text string) string {
	name := ts.UTC().Format(time.RFC3339Nano) + "\x00" + text
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

// ParseFiles parses files concurrently, bounded by the parser concurrency.
// A file that fails to parse is reported in its result and does not stop the rest.
// Results keep the order of files.
func (p *Parser) ParseFiles(ctx context.Context, files []string) ([]ParseResult, error) {
	start := time.Now()
	results := make([]ParseResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := p.ParseFile(file)
			if err != nil {
				util.LogWarnf("Entry file parsing failed: %s - %v", file, err)
			}
			results[i] = ParseResult{File: file, Entries: entries, Error: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	return results, nil
}

// Invalidate drops the cached parse of path
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, path)
}
