// Package interaction turns raw terminal input into live view commands
package interaction

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
)

// Action is what a key asks the live view to do
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionReload
	ActionTogglePause
)

// ParseInput decodes one read from a raw terminal. Arrow keys and other
// escape sequences are ignored.
func ParseInput(buf []byte) (KeyEvent, bool) {
	if len(buf) == 0 {
		return KeyEvent{}, false
	}

	if buf[0] == 27 {
		if len(buf) == 1 {
			return KeyEvent{Key: 27, Type: KeyEscape}, true
		}
		return KeyEvent{}, false
	}

	return KeyEvent{Key: rune(buf[0]), Type: KeyChar}, true
}

// ActionFor maps a key to its live view action
func ActionFor(event KeyEvent) Action {
	if event.Type == KeyEscape {
		return ActionQuit
	}
	switch event.Key {
	case 'q', 'Q', 3: // 3 is Ctrl+C
		return ActionQuit
	case 'r', 'R':
		return ActionReload
	case 'p', 'P':
		return ActionTogglePause
	default:
		return ActionNone
	}
}
