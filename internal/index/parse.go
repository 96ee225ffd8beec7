package index

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/datecodec"
	"github.com/yo-kondo/fmtbookdir/internal/models"
)

var (
	entryRe = regexp.MustCompile(`^1\. 20[0-9]{2}/[0-9]{2}/[0-9]{2} - \[`)
	titleRe = regexp.MustCompile(`\[.*]`)
	linkRe  = regexp.MustCompile(`\(.*\)`)
)

// MaxLineSize bounds a single index line. Longer lines fail the parse with
// bufio.ErrTooLong instead of being skipped.
const MaxLineSize = 16 << 20

const bom = "\ufeff"

// Parse reads index text and returns one Record per entry line, in order.
// A date that fails strict parsing aborts the whole parse with
// apperr.ErrMalformedDate; no records are returned in that case.
func Parse(r io.Reader, logger *slog.Logger) ([]models.Record, error) {
	var out []models.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		if !IsEntry(line) {
			continue
		}
		rec, err := parseEntry(line)
		if err != nil {
			logger.Error("index: malformed entry line",
				slog.Int("line_no", lineNo),
				slog.String("line", line))
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("index: scan: %w", err)
	}
	return out, nil
}

// IsEntry reports whether line has the structure of an index entry.
func IsEntry(line string) bool {
	return entryRe.MatchString(line)
}

func parseEntry(line string) (models.Record, error) {
	fields := strings.SplitN(line, separator, 3)

	dateText := strings.TrimPrefix(fields[0], itemPrefix)
	date, ok := datecodec.Parse(dateText, datecodec.DefaultPattern)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %q in %q", apperr.ErrMalformedDate, dateText, line)
	}

	var titleLink, author string
	if len(fields) > 1 {
		titleLink = fields[1]
	}
	if len(fields) > 2 {
		author = fields[2]
	}

	return models.NewRecord(date, unwrap(titleRe.FindString(titleLink)), unwrap(linkRe.FindString(titleLink)), author), nil
}

// unwrap strips the enclosing bracket pair from a regexp match.
func unwrap(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}
