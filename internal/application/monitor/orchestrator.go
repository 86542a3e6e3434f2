package monitor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-dose-monitor/internal/core/cache"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/presentation/display"
	"github.com/penwyp/go-dose-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Orchestrator coordinates loading, projection and the live view. Projection
// reruns only after file changes; every tick re-filters the cached timeline.
type Orchestrator struct {
	config *MonitorConfig

	// Core components
	dataLoader   *DataLoader
	refreshCtrl  *RefreshController
	stateManager *StateManager

	// UI components
	display DisplayController
	keys    KeyInput
	paused  bool

	// Monitoring
	watcher    FileMonitor
	newWatcher func(paths []string, filter func(string) bool) (FileMonitor, error)

	clock func() time.Time
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithDisplay replaces the terminal display
func WithDisplay(d DisplayController) Option {
	return func(o *Orchestrator) {
		o.display = d
	}
}

// WithKeyInput enables keyboard commands. The orchestrator closes keys when Run returns.
func WithKeyInput(keys KeyInput) Option {
	return func(o *Orchestrator) {
		o.keys = keys
	}
}

// WithClock replaces the wall clock
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *MonitorConfig, opts ...Option) (*Orchestrator, error) {
	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &Orchestrator{
		config:       config,
		dataLoader:   NewDataLoader(config),
		stateManager: NewStateManager(),
		clock:        func() time.Time { return util.GetTimeProvider().Now() },
		newWatcher: func(paths []string, filter func(string) bool) (FileMonitor, error) {
			return NewFileWatcher(paths, filter)
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.display == nil {
		o.display = display.NewTerminalDisplay(&display.DisplayConfig{
			Timezone:   config.Timezone,
			TimeFormat: config.TimeFormat,
			Color:      util.ColorEnabled(os.Stdout),
		})
	}
	o.refreshCtrl = NewRefreshController(o.dataLoader, cache.NewProjectionCache(config.CacheSize), o.clock)

	return o, nil
}

// Run starts the orchestrator main loop and returns when ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting Dose Monitor Top...")

	// Ensure cleanup on exit
	defer o.Close()

	// Enter alternate screen mode
	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	// Set initial loading state
	o.stateManager.SetLoadingState(true, "Loading catalog and entries...")
	o.updateDisplay()

	snapshot, err := o.refreshCtrl.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	o.stateManager.SetSnapshot(snapshot)
	o.stateManager.SetLoadingState(false, "")

	o.startWatcher()

	ticker := time.NewTicker(o.config.TickInterval)
	defer ticker.Stop()

	var fileEvents <-chan model.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}
	var keyEvents <-chan interaction.KeyEvent
	if o.keys != nil {
		keyEvents = o.keys.Events()
	}
	var debounce <-chan time.Time

	// Initial display with loaded data
	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down Dose Monitor Top...")
			return nil

		case <-ticker.C:
			if !o.paused {
				o.updateDisplay()
			}

		case event, ok := <-keyEvents:
			if !ok {
				keyEvents = nil
				continue
			}
			if o.handleKeyboard(ctx, event) {
				util.LogInfo("Quit requested from keyboard")
				return nil
			}
			o.updateDisplay()

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			o.handleFileChange(event)
			// Bursts of writes collapse into one refresh
			debounce = time.After(o.config.RefreshDebounce)

		case <-debounce:
			debounce = nil
			o.refreshData(ctx)
			o.updateDisplay()
		}
	}
}

// Load performs one refresh without UI and stores the snapshot
func (o *Orchestrator) Load(ctx context.Context) (*Snapshot, error) {
	snapshot, err := o.refreshCtrl.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	o.stateManager.SetSnapshot(snapshot)
	return snapshot, nil
}

// LoadView performs one refresh and composes the view at the current time
func (o *Orchestrator) LoadView(ctx context.Context) (display.View, *Snapshot, error) {
	snapshot, err := o.Load(ctx)
	if err != nil {
		return display.View{}, nil, err
	}
	return ComposeView(snapshot, o.clock(), o.config.LookBack, o.config.LookAhead), snapshot, nil
}

// Now returns the orchestrator clock reading
func (o *Orchestrator) Now() time.Time {
	return o.clock()
}

// updateDisplay updates the terminal display
func (o *Orchestrator) updateDisplay() {
	snapshot := o.stateManager.SnapshotForDisplay()
	view := ComposeView(snapshot, o.clock(), o.config.LookBack, o.config.LookAhead)
	if snapshot == nil {
		view.UserID = o.config.UserID
	}

	view.Paused = o.paused

	isLoading, loadingMessage := o.stateManager.GetLoadingState()
	view.Loading = isLoading
	if isLoading {
		view.Message = loadingMessage
	}
	if err := o.stateManager.LastError(); err != nil {
		view.Message = "Refresh failed: " + err.Error()
	}

	o.display.Render(view)
}

// refreshData performs data refresh, keeping the current snapshot on failure
func (o *Orchestrator) refreshData(ctx context.Context) {
	o.stateManager.SetLoadingState(true, "Refreshing data...")
	defer o.stateManager.SetLoadingState(false, "")

	snapshot, err := o.refreshCtrl.Refresh(ctx)
	if err != nil {
		util.LogErrorf("Failed to refresh data: %v", err)
		o.stateManager.SetLastError(err)
		return
	}
	o.stateManager.SetSnapshot(snapshot)
}

// startWatcher initializes the file watcher. Without one the view still ticks.
func (o *Orchestrator) startWatcher() {
	paths, err := o.dataLoader.WatchPaths()
	if err != nil {
		util.LogWarnf("File watching disabled: %v", err)
		return
	}
	watcher, err := o.newWatcher(paths, o.dataLoader.IsWatched)
	if err != nil {
		util.LogWarnf("File watching disabled: %v", err)
		return
	}
	o.watcher = watcher
}

// handleKeyboard applies one key press and reports whether to quit
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	switch interaction.ActionFor(event) {
	case interaction.ActionQuit:
		return true
	case interaction.ActionReload:
		// Force a catalog reload as well as an entry rescan
		o.refreshCtrl.MarkCatalogStale()
		o.refreshData(ctx)
	case interaction.ActionTogglePause:
		o.paused = !o.paused
	}
	return false
}

// handleFileChange handles file change events
func (o *Orchestrator) handleFileChange(event model.FileEvent) {
	util.LogDebugf("File changed: %s (%s)", event.Path, event.Operation)

	if o.dataLoader.IsCatalogFile(event.Path) {
		o.refreshCtrl.MarkCatalogStale()
		return
	}
	if strings.Contains(event.Operation, fsnotify.Remove.String()) || strings.Contains(event.Operation, fsnotify.Rename.String()) {
		o.dataLoader.Invalidate(event.Path)
	}
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	if o.keys != nil {
		if err := o.keys.Close(); err != nil {
			util.LogWarnf("Failed to restore terminal: %v", err)
		}
		o.keys = nil
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
		o.watcher = nil
	}
	return nil
}
