package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected KeyEvent
		ok       bool
	}{
		{name: "Regular char", input: []byte{'q'}, expected: KeyEvent{Key: 'q', Type: KeyChar}, ok: true},
		{name: "Ctrl+C", input: []byte{3}, expected: KeyEvent{Key: 3, Type: KeyChar}, ok: true},
		{name: "Escape", input: []byte{27}, expected: KeyEvent{Key: 27, Type: KeyEscape}, ok: true},
		{name: "Arrow key", input: []byte{27, '[', 'A'}, ok: false},
		{name: "Empty", input: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := ParseInput(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, event)
			}
		})
	}
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionQuit, ActionFor(KeyEvent{Key: 'q', Type: KeyChar}))
	assert.Equal(t, ActionQuit, ActionFor(KeyEvent{Key: 'Q', Type: KeyChar}))
	assert.Equal(t, ActionQuit, ActionFor(KeyEvent{Key: 3, Type: KeyChar}))
	assert.Equal(t, ActionQuit, ActionFor(KeyEvent{Key: 27, Type: KeyEscape}))
	assert.Equal(t, ActionReload, ActionFor(KeyEvent{Key: 'r', Type: KeyChar}))
	assert.Equal(t, ActionTogglePause, ActionFor(KeyEvent{Key: 'p', Type: KeyChar}))
	assert.Equal(t, ActionNone, ActionFor(KeyEvent{Key: 'x', Type: KeyChar}))
}
