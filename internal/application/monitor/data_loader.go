package monitor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/data/cache"
	"github.com/penwyp/go-dose-monitor/internal/data/parser"
	"github.com/penwyp/go-dose-monitor/internal/data/scanner"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// DataLoader reads the catalog and the entry files
type DataLoader struct {
	config  *MonitorConfig
	scanner *scanner.FileScanner
	parser  *parser.Parser
}

// NewDataLoader creates a new DataLoader instance
func NewDataLoader(config *MonitorConfig) *DataLoader {
	dl := &DataLoader{
		config:  config,
		scanner: scanner.NewFileScanner(config.EntriesPath),
		parser:  parser.NewParser(config.Concurrency),
	}
	if config.CacheDir != "" {
		if fileCache := openFileCache(config.CacheDir, config.ResetCache); fileCache != nil {
			dl.parser.SetFileCache(fileCache)
		}
	}
	return dl
}

// openFileCache returns nil when the cache directory is unusable; parsing then works uncached
func openFileCache(dir string, reset bool) *cache.FileCache {
	fileCache, err := cache.NewFileCache(dir)
	if err != nil {
		util.LogWarnf("Failed to create file cache in %s: %v", dir, err)
		return nil
	}
	if reset {
		if err := fileCache.Clear(); err != nil {
			util.LogWarnf("Failed to clear file cache: %v", err)
		} else {
			util.LogInfof("Cleared file cache in %s", dir)
		}
		return fileCache
	}
	if err := fileCache.Preload(); err != nil {
		util.LogWarnf("Failed to preload file cache: %v", err)
	}
	return fileCache
}

// LoadCatalog reads the configured catalog, or returns the built-in one when no path is set
func (dl *DataLoader) LoadCatalog() (*catalog.Catalog, error) {
	if dl.config.CatalogPath == "" {
		return catalog.Default()
	}
	c, err := catalog.LoadFile(dl.config.CatalogPath)
	if err != nil {
		return nil, err
	}
	util.LogInfof("Loaded catalog %s: %d medications, version %s", dl.config.CatalogPath, c.Len(), c.Version())
	return c, nil
}

// LoadEntries scans, parses and merges every entry file. Unreadable files are logged and skipped.
func (dl *DataLoader) LoadEntries(ctx context.Context) ([]model.LogEntry, error) {
	files, err := dl.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}

	results, err := dl.parser.ParseFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}

	entries := parser.Merge(results)
	util.LogDebugf("Loaded %d entries from %d files", len(entries), len(files))
	return entries, nil
}

// WatchPaths returns the directories holding entry files and the catalog
func (dl *DataLoader) WatchPaths() ([]string, error) {
	dirs, err := dl.scanner.Dirs()
	if err != nil {
		return nil, fmt.Errorf("failed to list entry directories: %w", err)
	}
	if dl.config.CatalogPath != "" {
		catalogDir := filepath.Dir(dl.config.CatalogPath)
		found := false
		for _, d := range dirs {
			if d == catalogDir {
				found = true
				break
			}
		}
		if !found {
			dirs = append(dirs, catalogDir)
		}
	}
	return dirs, nil
}

// IsCatalogFile reports whether path is the configured catalog
func (dl *DataLoader) IsCatalogFile(path string) bool {
	return dl.config.CatalogPath != "" && filepath.Clean(path) == filepath.Clean(dl.config.CatalogPath)
}

// IsWatched reports whether changes to path affect the monitor
func (dl *DataLoader) IsWatched(path string) bool {
	return scanner.IsEntryFile(path) || dl.IsCatalogFile(path)
}

// Invalidate drops the cached parse of an entry file
func (dl *DataLoader) Invalidate(path string) {
	dl.parser.Invalidate(path)
}
