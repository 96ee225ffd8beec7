package reorganize

import (
	"fmt"
	"log/slog"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/index"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// DeleteReport lists what the delete phase removed and what it left alone.
type DeleteReport struct {
	Removed []string
	Skipped []string
}

// Delete removes the DeleteDir of every copied plan. It refuses to run
// without a completed Copy and a valid index.Receipt.
//
// A DeleteDir is skipped when it overlaps any TargetDir or holds an index
// file, so that a repeated run over an already-reorganized repository is a no-op.
func Delete(store storage.Provider, copied Copied, receipt index.Receipt, logger *slog.Logger) (DeleteReport, error) {
	var report DeleteReport
	if !copied.complete() {
		return report, fmt.Errorf("%w: delete requested before copy completed", apperr.ErrPhaseOrder)
	}
	if !receipt.Valid() {
		return report, fmt.Errorf("%w: delete requested before the new index was written", apperr.ErrPhaseOrder)
	}

	plans := copied.Plans()
	seen := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		if _, ok := seen[p.DeleteDir]; ok {
			continue
		}
		seen[p.DeleteDir] = struct{}{}

		if p.InPlace || protected(p.DeleteDir, plans, receipt) {
			logger.Warn("reorganize: keeping directory that overlaps the new layout",
				slog.String("dir", p.DeleteDir))
			report.Skipped = append(report.Skipped, p.DeleteDir)
			continue
		}
		if err := store.RemoveAll(p.DeleteDir); err != nil {
			return report, fmt.Errorf("reorganize: delete %s: %w", p.DeleteDir, err)
		}
		logger.Debug("reorganize: removed", slog.String("dir", p.DeleteDir))
		report.Removed = append(report.Removed, p.DeleteDir)
	}
	return report, nil
}

func protected(dir string, plans []Plan, receipt index.Receipt) bool {
	if within(index.SourceFile, dir) || within(receipt.Path(), dir) {
		return true
	}
	for _, p := range plans {
		if within(p.TargetDir, dir) || within(dir, p.TargetDir) {
			return true
		}
	}
	return false
}
