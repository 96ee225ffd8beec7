// Package reorganize relocates each book's notes directory into the
// md/<year>/<code>/ layout and removes the original groupings afterwards.
//
// The phases must run as ResolveCodes → Plan → Copy → index.Write → Delete.
// Delete only accepts the values returned by Copy and index.Write, so it
// cannot run before both have succeeded.
package reorganize

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/models"
	"github.com/yo-kondo/fmtbookdir/internal/parser"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// LayoutRoot is the top-level directory of the reorganized layout.
const LayoutRoot = "md"

// Plan describes the relocation of one record. Paths are repository-relative.
type Plan struct {
	Index     int    // position of the record in the index
	SourceDir string // directory of OldLink
	TargetDir string // md/<year>/<code>
	DeleteDir string // first two segments of OldLink
	InPlace   bool   // SourceDir already is TargetDir; nothing to copy or delete
}

// ResolveCodes reads the notes file behind every record's OldLink and sets
// Code. The first unreadable file stops the run with apperr.ErrMissingLinkedFile.
func ResolveCodes(store storage.Provider, records []models.Record, logger *slog.Logger) error {
	for i := range records {
		r := &records[i]
		data, err := store.Read(r.OldLink)
		if err != nil {
			logger.Error("reorganize: linked file not readable",
				slog.String("title", r.Title),
				slog.String("link", r.OldLink))
			return fmt.Errorf("%w: %s: %w", apperr.ErrMissingLinkedFile, r.OldLink, err)
		}
		r.Code = parser.ExtractCode(data)
		if r.Code == "" {
			logger.Warn("reorganize: no ISBN or ASIN found",
				slog.String("title", r.Title),
				slog.String("link", r.OldLink))
		}
		logger.Debug("reorganize: code resolved", slog.String("record", r.String()))
	}
	return nil
}

// PlanAll fills NewLink on every record and returns the relocation plans in
// record order. Codes must already be resolved.
func PlanAll(records []models.Record) ([]Plan, error) {
	plans := make([]Plan, 0, len(records))
	for i := range records {
		p, err := PlanRecord(&records[i])
		if err != nil {
			return nil, err
		}
		p.Index = i
		plans = append(plans, p)
	}
	return plans, nil
}

// PlanRecord derives the source, target and delete directories of r and sets
// r.NewLink to md/<year>/<code>/<filename>.
func PlanRecord(r *models.Record) (Plan, error) {
	segments := strings.Split(r.OldLink, "/")
	if len(segments) < 2 {
		return Plan{}, fmt.Errorf("%w: %q has no directory to relocate", apperr.ErrUnsupportedLink, r.OldLink)
	}
	if strings.ContainsAny(r.Code, `/\`) || r.Code == "." || r.Code == ".." {
		return Plan{}, fmt.Errorf("%w: code %q of %q is not a directory name", apperr.ErrUnsupportedLink, r.Code, r.OldLink)
	}

	filename := segments[len(segments)-1]
	p := Plan{
		SourceDir: path.Clean(strings.Join(segments[:len(segments)-1], "/")),
		TargetDir: path.Join(LayoutRoot, r.ReadYear, r.Code),
		DeleteDir: path.Clean(segments[0] + "/" + segments[1]),
	}
	p.InPlace = p.SourceDir == p.TargetDir
	r.NewLink = LayoutRoot + "/" + r.ReadYear + "/" + r.Code + "/" + filename
	return p, nil
}

// SharedTargets returns, for every TargetDir fed by more than one distinct
// SourceDir, those sources in plan order. Copies into such a target
// overwrite each other, and every source is still deleted afterwards.
func SharedTargets(plans []Plan) map[string][]string {
	sources := make(map[string][]string)
	for _, p := range plans {
		dup := false
		for _, s := range sources[p.TargetDir] {
			if s == p.SourceDir {
				dup = true
				break
			}
		}
		if !dup {
			sources[p.TargetDir] = append(sources[p.TargetDir], p.SourceDir)
		}
	}
	out := make(map[string][]string)
	for target, srcs := range sources {
		if len(srcs) > 1 {
			out[target] = srcs
		}
	}
	return out
}

// within reports whether p equals dir or lies below it.
func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+"/")
}
