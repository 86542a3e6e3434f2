package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorDim    = "\033[2m"
	ColorBold   = "\033[1m"

	ClearScreen    = "\033[2J"
	MoveCursorHome = "\033[H"
	HideCursor     = "\033[?25l"
	ShowCursor     = "\033[?25h"
)

const defaultTerminalWidth = 100

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled reports whether ANSI colour should be written to f. NO_COLOR disables it.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(f)
}

// TerminalWidth returns the column count of f, or a fallback when it is not a terminal
func TerminalWidth(f *os.File) int {
	if f == nil {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// GetDisplayWidth returns the column width of text, counting wide runes twice
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads or truncates text to exactly width columns
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if GetDisplayWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text in width columns
func PadLeft(text string, width int) string {
	if GetDisplayWidth(text) >= width {
		return text
	}
	return runewidth.FillLeft(text, width)
}

// HexColor wraps text in a 24-bit foreground colour given as #rrggbb.
// Malformed colours leave the text unchanged.
func HexColor(text, hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return text
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s%s", r, g, b, text, ColorReset)
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Colorize wraps text in an ANSI colour
func Colorize(text, color string) string {
	return color + text + ColorReset
}

// CreateProgressBar renders percentage as a bar of width cells
func CreateProgressBar(percentage float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int((percentage / 100) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// LimitColor picks green, yellow or red for a limit usage percentage
func LimitColor(percentage float64) string {
	switch {
	case percentage >= 90:
		return ColorRed
	case percentage >= 60:
		return ColorYellow
	default:
		return ColorGreen
	}
}
