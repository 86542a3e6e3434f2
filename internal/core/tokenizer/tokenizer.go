// Package tokenizer splits a raw log line into independent medication mentions.
package tokenizer

import (
	"strings"
	"unicode"
)

// Split breaks raw text into trimmed mentions, in order. Separators are
// ',', ';', '+', '&', line breaks and the standalone word "and", but only
// outside brackets, so "Percocet 5-325 (1 tablet, with food)" stays whole.
// A thousands comma such as "1,000mg" is part of the number, not a separator.
// Empty or whitespace-only input yields no mentions.
func Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	runes := []rune(raw)
	var mentions []string
	var current strings.Builder
	depth := 0

	flush := func() {
		if m := strings.TrimSpace(current.String()); m != "" {
			mentions = append(mentions, m)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}

		if depth == 0 {
			if isSeparator(r) && !isThousandsComma(runes, i) {
				flush()
				continue
			}
			if n := andWordLength(runes, i); n > 0 {
				flush()
				i += n - 1
				continue
			}
		}

		current.WriteRune(r)
	}
	flush()

	return mentions
}

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', '+', '&', '\n', '\r':
		return true
	}
	return false
}

// isThousandsComma reports whether the comma at i sits between a digit and
// exactly three digits, as in "1,000mg".
func isThousandsComma(runes []rune, i int) bool {
	if runes[i] != ',' || i == 0 || !unicode.IsDigit(runes[i-1]) {
		return false
	}
	if i+3 >= len(runes) {
		return false
	}
	for j := i + 1; j <= i+3; j++ {
		if !unicode.IsDigit(runes[j]) {
			return false
		}
	}
	return i+4 == len(runes) || !unicode.IsDigit(runes[i+4])
}

// andWordLength returns how many runes a whitespace-delimited "and" starting at i spans,
// including its surrounding whitespace, or 0 when there is none.
func andWordLength(runes []rune, i int) int {
	if !unicode.IsSpace(runes[i]) {
		return 0
	}
	j := i
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j+3 > len(runes) || !strings.EqualFold(string(runes[j:j+3]), "and") {
		return 0
	}
	k := j + 3
	if k < len(runes) && !unicode.IsSpace(runes[k]) {
		return 0
	}
	for k < len(runes) && unicode.IsSpace(runes[k]) {
		k++
	}
	return k - i
}
