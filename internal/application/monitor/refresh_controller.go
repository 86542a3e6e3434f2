package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/cache"
	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/data/aggregator"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Snapshot is the immutable result of one refresh. Views are composed from it on every tick.
type Snapshot struct {
	Catalog    *catalog.Catalog
	User       *catalog.UserConfig // nil when the user is not configured
	UserID     string
	Entries    []model.LogEntry
	Doses      []model.ParsedDose // resolved entries, in log order
	Timeline   *timeline.Timeline
	Aggregator *aggregator.Aggregator
	CacheHit   bool
	LoadedAt   time.Time
}

// RefreshController reloads entries and rebuilds the projected timeline when inputs change
type RefreshController struct {
	dataLoader *DataLoader
	cache      *cache.ProjectionCache
	clock      func() time.Time

	mu           sync.Mutex
	catalog      *catalog.Catalog
	catalogStale bool

	refreshMutex sync.Mutex // Prevent concurrent refreshes
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(dataLoader *DataLoader, projections *cache.ProjectionCache, clock func() time.Time) *RefreshController {
	if clock == nil {
		clock = time.Now
	}
	return &RefreshController{
		dataLoader:   dataLoader,
		cache:        projections,
		clock:        clock,
		catalogStale: true,
	}
}

// MarkCatalogStale makes the next refresh reload the catalog file
func (rc *RefreshController) MarkCatalogStale() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.catalogStale = true
}

// currentCatalog returns the catalog to project with and whether it replaced the previous one.
// A catalog that fails to reload keeps the previous one in service.
func (rc *RefreshController) currentCatalog() (*catalog.Catalog, bool, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if !rc.catalogStale && rc.catalog != nil {
		return rc.catalog, false, nil
	}

	loaded, err := rc.dataLoader.LoadCatalog()
	if err != nil {
		if rc.catalog == nil {
			return nil, false, err
		}
		util.LogErrorf("Catalog reload failed, keeping version %s: %v", rc.catalog.Version(), err)
		rc.catalogStale = false
		return rc.catalog, false, nil
	}

	changed := rc.catalog != nil && rc.catalog.Version() != loaded.Version()
	rc.catalog = loaded
	rc.catalogStale = false
	return loaded, changed, nil
}

// Refresh loads the current entries and returns a snapshot. The projection is
// rebuilt only when the entries, the catalog or the visualized rows changed.
func (rc *RefreshController) Refresh(ctx context.Context) (*Snapshot, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	cat, catalogChanged, err := rc.currentCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if catalogChanged {
		util.LogInfof("Catalog changed, version %s", cat.Version())
		rc.cache.Clear()
	}

	entries, err := rc.dataLoader.LoadEntries(ctx)
	if err != nil {
		if catalogChanged {
			rc.cache.CancelClear()
		}
		return nil, err
	}

	userID := rc.dataLoader.config.UserID
	user, ok := cat.GetUserMedicationConfig(userID)
	rowEntries := cat.Entries()
	if ok {
		rowEntries = user.VisualizedMedications
	} else {
		user = nil
		util.LogWarnf("User %q is not configured, showing every catalog medication", userID)
	}

	rowIDs := make([]string, 0, len(rowEntries))
	for _, e := range rowEntries {
		rowIDs = append(rowIDs, e.ID)
	}

	key := cache.Key(entries, cat.Version(), rowIDs)
	tl, hit := rc.cache.GetOrBuild(key, func() *timeline.Timeline {
		return timeline.NewBuilder(cat, timeline.WithRowEntries(rowEntries)).Build(entries)
	})
	if catalogChanged {
		rc.cache.CommitClear()
	}

	util.LogDebugf("Refresh complete: %d entries, %d doses, %d rows, cache hit %v",
		len(entries), len(tl.Doses), len(tl.Rows), hit)

	return &Snapshot{
		Catalog:    cat,
		User:       user,
		UserID:     userID,
		Entries:    entries,
		Doses:      tl.Parsed,
		Timeline:   tl,
		Aggregator: aggregator.NewAggregator(cat),
		CacheHit:   hit,
		LoadedAt:   rc.clock(),
	}, nil
}
