// Package parser extracts the identifying code of a book from its notes file.
package parser

import "strings"

// Placeholder is the full-width dash used in notes tables for "not applicable".
const Placeholder = "－"

// Row labels recognised in a notes table.
const (
	LabelISBN13 = "ISBN-13"
	LabelISBN10 = "ISBN-10"
	LabelASIN   = "ASIN"
)

// Codes holds the last value seen for each label.
type Codes struct {
	ISBN13 string
	ISBN10 string
	ASIN   string
}

// Resolve picks the identifying code: ISBN-13 unless empty or the
// placeholder, then ISBN-10 unless empty, then ASIN as-is.
// Only the ISBN-13 value is compared against the placeholder.
func (c Codes) Resolve() string {
	if c.ISBN13 != "" && c.ISBN13 != Placeholder {
		return c.ISBN13
	}
	if c.ISBN10 != "" {
		return c.ISBN10
	}
	return c.ASIN
}

// Scan reads every line of data and records the third "|" field of lines
// mentioning a known label. Later lines overwrite earlier ones. Lines have no
// length limit, so inline data such as base64 images never hide later rows.
func Scan(data []byte) Codes {
	var c Codes
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, LabelISBN13) {
			if v, ok := tableValue(line); ok {
				c.ISBN13 = v
			}
		}
		if strings.Contains(line, LabelISBN10) {
			if v, ok := tableValue(line); ok {
				c.ISBN10 = v
			}
		}
		if strings.Contains(line, LabelASIN) {
			if v, ok := tableValue(line); ok {
				c.ASIN = v
			}
		}
	}
	return c
}

// ExtractCode returns the resolved identifying code of a notes file, or ""
// when none of the labels carry a value.
func ExtractCode(data []byte) string {
	return Scan(data).Resolve()
}

// tableValue returns the third "|"-separated field, e.g. the value column of
// "|ISBN-13|978-0132350884|".
func tableValue(line string) (string, bool) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return "", false
	}
	return strings.TrimSpace(fields[2]), true
}
