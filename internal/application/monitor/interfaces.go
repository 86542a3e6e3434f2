package monitor

import (
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/presentation/display"
	"github.com/penwyp/go-dose-monitor/internal/presentation/interaction"
)

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// Render draws one frame
	Render(view display.View)
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}

// KeyInput delivers key presses from the terminal
type KeyInput interface {
	Events() <-chan interaction.KeyEvent
	Close() error
}
