package reorganize

import (
	"fmt"
	"log/slog"

	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// Copied is returned by a Copy call that finished every plan.
type Copied struct {
	plans []Plan
	stats storage.CopyStats
}

// Plans returns the plans that were copied.
func (c Copied) Plans() []Plan { return c.plans }

// Stats returns the aggregated copy statistics.
func (c Copied) Stats() storage.CopyStats { return c.stats }

func (c Copied) complete() bool { return c.plans != nil }

// Copy merges every plan's SourceDir into its TargetDir, in order. It stops at
// the first failure; nothing is deleted by this phase.
func Copy(store storage.Provider, plans []Plan, logger *slog.Logger) (Copied, error) {
	var total storage.CopyStats
	for _, p := range plans {
		if p.InPlace {
			logger.Debug("reorganize: already in place", slog.String("dir", p.TargetDir))
			continue
		}
		stats, err := store.CopyDir(p.SourceDir, p.TargetDir)
		if err != nil {
			return Copied{}, fmt.Errorf("reorganize: copy %s to %s: %w", p.SourceDir, p.TargetDir, err)
		}
		total.Files += stats.Files
		total.Unchanged += stats.Unchanged
		total.Bytes += stats.Bytes
		logger.Debug("reorganize: copied",
			slog.String("from", p.SourceDir),
			slog.String("to", p.TargetDir),
			slog.Int("files", stats.Files),
			slog.Int("unchanged", stats.Unchanged))
	}
	return Copied{plans: append([]Plan{}, plans...), stats: total}, nil
}
