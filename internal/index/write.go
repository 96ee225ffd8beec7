package index

import (
	"fmt"
	"strings"

	"github.com/yo-kondo/fmtbookdir/internal/datecodec"
	"github.com/yo-kondo/fmtbookdir/internal/models"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// Receipt proves that the rewritten index reached disk. Only Write returns a
// valid Receipt; the zero value is rejected by the delete phase.
type Receipt struct {
	path    string
	entries int
}

// Valid reports whether r was issued by a successful Write.
func (r Receipt) Valid() bool { return r.path != "" }

// Path returns the repository-relative path of the written index.
func (r Receipt) Path() string { return r.path }

// Entries returns the number of entry lines written.
func (r Receipt) Entries() int { return r.entries }

// Format renders records as index entry lines terminated by CRLF.
func Format(records []models.Record) []byte {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(FormatLine(r))
		b.WriteString(lineEnd)
	}
	return []byte(b.String())
}

// FormatLine renders one entry line without its terminator, using NewLink.
func FormatLine(r models.Record) string {
	return itemPrefix + datecodec.Format(r.ReadDate, datecodec.DefaultPattern) +
		separator + "[" + r.Title + "](" + r.NewLink + ")" +
		separator + r.Author
}

// Write replaces OutputFile under the repository root with the formatted
// records. The previous file, if any, is removed first.
func Write(store storage.Provider, records []models.Record) (Receipt, error) {
	exists, err := store.Exists(OutputFile)
	if err != nil {
		return Receipt{}, fmt.Errorf("index: write: %w", err)
	}
	if exists {
		if err := store.RemoveAll(OutputFile); err != nil {
			return Receipt{}, fmt.Errorf("index: remove previous output: %w", err)
		}
	}
	if err := store.Write(OutputFile, Format(records)); err != nil {
		return Receipt{}, fmt.Errorf("index: write: %w", err)
	}
	return Receipt{path: OutputFile, entries: len(records)}, nil
}
