package monitor

import (
	"sync"
	"time"
)

// StateManager manages application state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	current  *Snapshot
	previous *Snapshot // Keep the previous snapshot while a refresh runs

	// Loading state
	isLoading      bool
	loadingMessage string

	lastError      error
	lastDataUpdate time.Time
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetSnapshot stores a successful refresh
func (sm *StateManager) SetSnapshot(s *Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current != nil {
		sm.previous = sm.current
	}
	sm.current = s
	sm.lastError = nil
	if s != nil {
		sm.lastDataUpdate = s.LoadedAt
	}
}

// Snapshot returns the latest snapshot, or nil before the first refresh
func (sm *StateManager) Snapshot() *Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// PreviousSnapshot returns the snapshot replaced by the latest refresh
func (sm *StateManager) PreviousSnapshot() *Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previous
}

// SnapshotForDisplay returns the latest snapshot, falling back to the previous one
func (sm *StateManager) SnapshotForDisplay() *Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.current != nil {
		return sm.current
	}
	return sm.previous
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// SetLastError records a failed refresh; the current snapshot stays in place
func (sm *StateManager) SetLastError(err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastError = err
}

// LastError returns the error of the last refresh, nil after a success
func (sm *StateManager) LastError() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastError
}

// GetLastDataUpdate returns the time of the last successful refresh
func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastDataUpdate
}
