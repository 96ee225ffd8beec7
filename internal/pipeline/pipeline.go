// Package pipeline runs a complete reorganization of a reading-log repository.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/yo-kondo/fmtbookdir/internal/index"
	"github.com/yo-kondo/fmtbookdir/internal/models"
	"github.com/yo-kondo/fmtbookdir/internal/reorganize"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// Options controls a pipeline run.
type Options struct {
	// DryRun stops after planning; nothing on disk is modified.
	DryRun bool
}

// Result reports what a run did.
type Result struct {
	Records       []models.Record
	Plans         []reorganize.Plan
	SharedTargets map[string][]string // target dir -> distinct sources, only when more than one
	Copy          storage.CopyStats
	Index         index.Receipt
	Deleted       reorganize.DeleteReport
	DryRun        bool
}

// Run parses the index, resolves codes, copies every notes directory into the
// new layout, writes the rewritten index and finally deletes the originals.
// Any error stops the run in the phase where it occurred; parse and
// extraction errors therefore never reach a filesystem mutation.
func Run(ctx context.Context, store storage.Provider, logger *slog.Logger, opts Options) (*Result, error) {
	data, err := store.Read(index.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", index.SourceFile, err)
	}

	records, err := index.Parse(bytes.NewReader(data), logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline: parse %s: %w", index.SourceFile, err)
	}
	logger.Info("pipeline: index parsed", slog.Int("records", len(records)))

	if err := reorganize.ResolveCodes(store, records, logger); err != nil {
		return nil, fmt.Errorf("pipeline: resolve codes: %w", err)
	}

	plans, err := reorganize.PlanAll(records)
	if err != nil {
		return nil, fmt.Errorf("pipeline: plan: %w", err)
	}
	res := &Result{Records: records, Plans: plans, DryRun: opts.DryRun}
	res.SharedTargets = reorganize.SharedTargets(plans)
	for target, sources := range res.SharedTargets {
		logger.Warn("pipeline: several notes directories share one target; later copies overwrite earlier ones",
			slog.String("target", target),
			slog.Any("sources", sources))
	}

	if opts.DryRun {
		for _, p := range plans {
			logger.Info("pipeline: planned",
				slog.String("from", p.SourceDir),
				slog.String("to", p.TargetDir),
				slog.String("delete", p.DeleteDir),
				slog.Bool("in_place", p.InPlace))
		}
		logger.Info("pipeline: dry run, no changes made", slog.Int("plans", len(plans)))
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	copied, err := reorganize.Copy(store, plans, logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline: copy: %w", err)
	}
	res.Copy = copied.Stats()
	logger.Info("pipeline: copy finished",
		slog.Int("files", res.Copy.Files),
		slog.Int("unchanged", res.Copy.Unchanged),
		slog.Int64("bytes", res.Copy.Bytes))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	receipt, err := index.Write(store, records)
	if err != nil {
		return nil, fmt.Errorf("pipeline: write index: %w", err)
	}
	res.Index = receipt
	logger.Info("pipeline: index written",
		slog.String("path", receipt.Path()),
		slog.Int("entries", receipt.Entries()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report, err := reorganize.Delete(store, copied, receipt, logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline: delete: %w", err)
	}
	res.Deleted = report
	logger.Info("pipeline: originals removed",
		slog.Int("removed", len(report.Removed)),
		slog.Int("skipped", len(report.Skipped)))

	return res, nil
}
