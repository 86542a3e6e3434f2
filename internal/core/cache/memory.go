package cache

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
	"sync"

	"github.com/penwyp/go-dose-monitor/internal/core/constants"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// ProjectionEntry is a cached timeline with access tracking
type ProjectionEntry struct {
	*timeline.Timeline
	Key          string
	LastAccessed uint64
	Hits         int
}

// ProjectionCache memoizes timelines keyed by entries, catalog version and row selection.
// The window filter is never cached; it runs on every tick over the cached timeline.
type ProjectionCache struct {
	mu       sync.Mutex
	entries  map[string]*ProjectionEntry
	capacity int
	clock    uint64

	// Double buffering across catalog reloads
	pendingClear  bool
	shadowEntries map[string]*ProjectionEntry
	lastValid     *timeline.Timeline
}

// NewProjectionCache creates a cache holding at most capacity timelines.
// A non-positive capacity uses constants.DefaultProjectionCacheSize.
func NewProjectionCache(capacity int) *ProjectionCache {
	if capacity <= 0 {
		capacity = constants.DefaultProjectionCacheSize
	}
	return &ProjectionCache{
		entries:  make(map[string]*ProjectionEntry),
		capacity: capacity,
	}
}

// Key derives the cache key. Entries are hashed in order, so callers pass them sorted.
func Key(entries []model.LogEntry, catalogVersion string, rowIDs []string) string {
	h := crc32.NewIEEE()
	for _, e := range entries {
		h.Write([]byte(e.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(e.Timestamp.UnixNano(), 10)))
		h.Write([]byte{0})
		h.Write([]byte(e.RawText))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%08x:%d:%s:%s", h.Sum32(), len(entries), catalogVersion, strings.Join(rowIDs, ","))
}

func (pc *ProjectionCache) tick() uint64 {
	pc.clock++
	return pc.clock
}

// Set stores a timeline, evicting the least recently accessed entry when full
func (pc *ProjectionCache) Set(key string, tl *timeline.Timeline) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	entry := &ProjectionEntry{Timeline: tl, Key: key, LastAccessed: pc.tick()}

	// If pending clear, add to shadow buffer instead
	target := pc.entries
	if pc.pendingClear && pc.shadowEntries != nil {
		target = pc.shadowEntries
	}

	if _, exists := target[key]; !exists && len(target) >= pc.capacity {
		pc.evictOldest(target)
	}
	target[key] = entry

	if tl != nil {
		pc.lastValid = tl
	}
}

func (pc *ProjectionCache) evictOldest(target map[string]*ProjectionEntry) {
	var oldest *ProjectionEntry
	for _, e := range target {
		if oldest == nil || e.LastAccessed < oldest.LastAccessed {
			oldest = e
		}
	}
	if oldest != nil {
		delete(target, oldest.Key)
		util.LogDebugf("ProjectionCache: evicted %s after %d hits", oldest.Key, oldest.Hits)
	}
}

// Get returns the cached timeline for key
func (pc *ProjectionCache) Get(key string) (*timeline.Timeline, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	entry, ok := pc.entries[key]
	if !ok || entry == nil {
		return nil, false
	}
	entry.LastAccessed = pc.tick()
	entry.Hits++
	return entry.Timeline, true
}

// GetOrBuild returns the cached timeline or builds and stores it. The second result reports a hit.
func (pc *ProjectionCache) GetOrBuild(key string, build func() *timeline.Timeline) (*timeline.Timeline, bool) {
	if tl, ok := pc.Get(key); ok {
		return tl, true
	}
	tl := build()
	pc.Set(key, tl)
	return tl, false
}

// Len returns the number of live entries
func (pc *ProjectionCache) Len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return len(pc.entries)
}

// LastValid returns the most recently stored timeline, surviving clears
func (pc *ProjectionCache) LastValid() *timeline.Timeline {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.lastValid
}

// Clear marks the cache for replacement. Reads keep hitting the old entries
// until CommitClear swaps in whatever was Set since.
func (pc *ProjectionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.pendingClear = true
	pc.shadowEntries = make(map[string]*ProjectionEntry)

	util.LogInfo("ProjectionCache: Marked for pending clear, maintaining data until new data is ready")
}

// CommitClear performs the actual clear after new data is built
func (pc *ProjectionCache) CommitClear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.pendingClear && pc.shadowEntries != nil {
		pc.entries = pc.shadowEntries
		pc.shadowEntries = nil
		pc.pendingClear = false
		util.LogInfo("ProjectionCache: Committed clear with new data")
	}
}

// CancelClear cancels a pending clear operation
func (pc *ProjectionCache) CancelClear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.pendingClear = false
	pc.shadowEntries = nil
	util.LogInfo("ProjectionCache: Cancelled pending clear")
}
