// Package datecodec parses and formats dates written with CLDR-style
// patterns such as "yyyy/MM/dd".
package datecodec

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DefaultPattern is the date pattern used by reading-index entry lines.
const DefaultPattern = "yyyy/MM/dd"

// Parse parses text against pattern. Field values are resolved strictly:
// out-of-range values such as day 32 or February 30 are rejected rather than
// normalised. It reports false when pattern is invalid or text does not match.
func Parse(text, pattern string) (time.Time, bool) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format formats t with pattern. It returns "" when pattern is invalid.
func Format(t time.Time, pattern string) string {
	layout, err := Layout(pattern)
	if err != nil {
		return ""
	}
	return t.Format(layout)
}

// Layout translates pattern into a Go reference layout.
//
// Supported letters: y/u (2 or 4), M (1, 2, 3 or 4), d (1 or 2), H, m, s (2).
// Literals may be any rune that is not a letter, digit or underscore, since
// those would be read as layout elements by the time package.
func Layout(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("datecodec: empty pattern")
	}
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		if !unicode.IsLetter(r) {
			if unicode.IsDigit(r) || r == '_' {
				return "", fmt.Errorf("datecodec: unsupported literal %q in %q", r, pattern)
			}
			b.WriteRune(r)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		elem, ok := element(r, n)
		if !ok {
			return "", fmt.Errorf("datecodec: unsupported field %q in %q", strings.Repeat(string(r), n), pattern)
		}
		b.WriteString(elem)
		i += n
	}
	return b.String(), nil
}

func element(letter rune, width int) (string, bool) {
	switch letter {
	case 'y', 'u':
		switch width {
		case 2:
			return "06", true
		case 4:
			return "2006", true
		}
	case 'M':
		switch width {
		case 1:
			return "1", true
		case 2:
			return "01", true
		case 3:
			return "Jan", true
		case 4:
			return "January", true
		}
	case 'd':
		switch width {
		case 1:
			return "2", true
		case 2:
			return "02", true
		}
	case 'H':
		if width == 2 {
			return "15", true
		}
	case 'm':
		if width == 2 {
			return "04", true
		}
	case 's':
		if width == 2 {
			return "05", true
		}
	}
	return "", false
}
