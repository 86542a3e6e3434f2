//go:build !linux && !darwin

package interaction

import "errors"

// KeyboardReader is unavailable on this platform
type KeyboardReader struct{}

func NewKeyboardReader() (*KeyboardReader, error) {
	return nil, errors.New("keyboard input is not supported on this platform")
}

func (kr *KeyboardReader) Events() <-chan KeyEvent { return nil }

func (kr *KeyboardReader) Close() error { return nil }
