package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// CachedFile is the persisted parse of one entry file
type CachedFile struct {
	FilePath string           `json:"filePath"`
	State    util.FileState   `json:"state"`
	Entries  []model.LogEntry `json:"entries"`
	CachedAt time.Time        `json:"cachedAt"`
}

type CacheResult struct {
	Data       *CachedFile
	Found      bool
	MissReason CacheMissReason
}

// Cache persists parsed entry files between runs
type Cache interface {
	Get(path string) CacheResult
	Set(data *CachedFile) error
	Clear() error
	Preload() error
}

// FileCache keeps one JSON file per entry file under baseDir, fronted by memory
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*CachedFile
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*CachedFile),
	}, nil
}

// cacheKey names the cache file of an entry file path
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

func (c *FileCache) Get(path string) CacheResult {
	key := cacheKey(path)

	c.mu.RLock()
	memData, exists := c.memoryCache[key]
	c.mu.RUnlock()

	// First, check memory cache
	if exists {
		if reason := c.validateCachedData(memData); reason == MissReasonNone {
			return CacheResult{Data: memData, Found: true, MissReason: MissReasonNone}
		}
		// Remove invalid entry from memory cache
		c.mu.Lock()
		delete(c.memoryCache, key)
		c.mu.Unlock()
	}

	// Second, check file cache
	return c.getFromFile(key)
}

func (c *FileCache) getFromFile(key string) CacheResult {
	data, err := c.readCacheFile(filepath.Join(c.baseDir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return CacheResult{MissReason: MissReasonNotFound}
		}
		util.LogDebugf("Unreadable cache file for key %s: %v", key, err)
		return CacheResult{MissReason: MissReasonError}
	}

	if reason := c.validateCachedData(data); reason != MissReasonNone {
		return CacheResult{MissReason: reason}
	}

	// Add valid data to memory cache for future access
	c.mu.Lock()
	c.memoryCache[key] = data
	c.mu.Unlock()

	return CacheResult{Data: data, Found: true, MissReason: MissReasonNone}
}

func (c *FileCache) readCacheFile(cachePath string) (*CachedFile, error) {
	raw, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	var data CachedFile
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// validateCachedData compares the cached state with the file on disk
func (c *FileCache) validateCachedData(data *CachedFile) CacheMissReason {
	current, err := util.StatFile(data.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to stat: %v", data.FilePath, err)
		return MissReasonError
	}

	if current.Size != data.State.Size {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			data.FilePath, data.State.Size, current.Size)
		return MissReasonSize
	}
	if current.ModTime != data.State.ModTime {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			data.FilePath, data.State.ModTime, current.ModTime)
		return MissReasonModTime
	}
	if current.Fingerprint != data.State.Fingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			data.FilePath, data.State.Fingerprint, current.Fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set writes the parse of data.FilePath. The write goes through a temp file so
// a crash never leaves a truncated cache file behind.
func (c *FileCache) Set(data *CachedFile) error {
	if data.CachedAt.IsZero() {
		data.CachedAt = time.Now()
	}

	encoded, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return err
	}

	key := cacheKey(data.FilePath)
	cachePath := filepath.Join(c.baseDir, key+".json")

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.baseDir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store cache file: %w", err)
	}

	c.memoryCache[key] = data
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Clear memory cache
	c.memoryCache = make(map[string]*CachedFile)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.baseDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *FileCache) Preload() error {
	util.LogDebug("Start preloading cache files into memory...")

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	var cacheFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			cacheFiles = append(cacheFiles, filepath.Join(c.baseDir, entry.Name()))
		}
	}

	if len(cacheFiles) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return nil
	}

	// Use worker pool for concurrent loading
	numWorkers := runtime.NumCPU()
	if numWorkers > len(cacheFiles) {
		numWorkers = len(cacheFiles)
	}

	filesChan := make(chan string, len(cacheFiles))
	resultsChan := make(chan preloadResult, len(cacheFiles))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go c.preloadWorker(filesChan, resultsChan, &wg)
	}

	for _, file := range cacheFiles {
		filesChan <- file
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, invalid, errors := 0, 0, 0
	for result := range resultsChan {
		switch {
		case result.err != nil:
			errors++
			util.LogWarnf("Failed to preload cache file %s: %v", result.filePath, result.err)
		case c.validateCachedData(result.data) == MissReasonNone:
			c.mu.Lock()
			c.memoryCache[result.key] = result.data
			c.mu.Unlock()
			loaded++
		default:
			invalid++
		}
	}

	util.LogInfof("Cache preload complete: %d loaded, %d invalid, %d errors (total %d)",
		loaded, invalid, errors, len(cacheFiles))
	return nil
}

type preloadResult struct {
	filePath string
	key      string
	data     *CachedFile
	err      error
}

func (c *FileCache) preloadWorker(filesChan <-chan string, resultsChan chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for filePath := range filesChan {
		result := preloadResult{
			filePath: filePath,
			key:      strings.TrimSuffix(filepath.Base(filePath), ".json"),
		}
		result.data, result.err = c.readCacheFile(filePath)
		resultsChan <- result
	}
}

// GetCacheStats returns the number of entries in memory and on disk
func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	memoryCount = len(c.memoryCache)
	c.mu.RUnlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return memoryCount, 0
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			fileCount++
		}
	}
	return memoryCount, fileCount
}
