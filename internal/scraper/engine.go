package scraper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine drives the scrape pipeline: resolve the work list, then for
// each item in order check policy, fetch with retry, extract, and
// write. Items are processed strictly sequentially and in isolation; a
// failure on one URL never aborts the run. Only a failing source or a
// failing writer is fatal.
type Engine struct {
	cfg       Config
	source    Source
	robots    RobotsPolicy
	fetcher   Fetcher
	retry     RetryPolicy
	pacer     *Pacer
	extractor Extractor
	writer    RecordWriter
	store     RecordStore
	archive   Archiver
	progress  *Progress
	logger    *zap.Logger
}

// NewEngine constructs an Engine. pacer, store, archive and progress
// may be nil; the corresponding steps are skipped.
func NewEngine(
	cfg Config,
	source Source,
	robots RobotsPolicy,
	fetcher Fetcher,
	retry RetryPolicy,
	pacer *Pacer,
	extractor Extractor,
	writer RecordWriter,
	store RecordStore,
	archive Archiver,
	progress *Progress,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		source:    source,
		robots:    robots,
		fetcher:   fetcher,
		retry:     retry,
		pacer:     pacer,
		extractor: extractor,
		writer:    writer,
		store:     store,
		archive:   archive,
		progress:  progress,
		logger:    logger,
	}
}

// Run executes the pipeline over the resolved work list.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))
	summary := Summary{RunID: runID}

	items, err := e.source.URLs(ctx)
	if err != nil {
		return summary, fmt.Errorf("resolve work list: %w", err)
	}
	summary.Total = len(items)
	if e.progress != nil {
		e.progress.Begin(runID, len(items))
	}
	logger.Info("run started", zap.Int("urls", len(items)))

	for i := range items {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run canceled: %w", err)
		}
		if err := e.processItem(ctx, runID, &items[i], logger); err != nil {
			return summary, err
		}
		switch items[i].State {
		case ItemDone:
			summary.Processed++
		case ItemSkipped:
			summary.Skipped++
		case ItemFailed:
			summary.Failed++
		}
	}

	logger.Info("run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// processItem handles one work item start to finish. A non-nil return
// is a run-level failure (output write); per-item problems are recorded
// on the item and swallowed.
func (e *Engine) processItem(ctx context.Context, runID string, item *WorkItem, logger *zap.Logger) error {
	target, err := canonicalizeURL(item.URL)
	if err != nil {
		item.State = ItemFailed
		SkipsTotal.WithLabelValues(SkipReasonBadURL).Inc()
		e.markFailed()
		logger.Warn("invalid url; skipping", zap.String("url", item.URL), zap.Error(err))
		return nil
	}

	if !e.robots.Allowed(ctx, target) {
		item.State = ItemSkipped
		SkipsTotal.WithLabelValues(SkipReasonRobots).Inc()
		e.markSkipped()
		logger.Warn("denied by robots.txt; skipping", zap.String("url", target))
		return nil
	}

	if e.pacer != nil {
		if err := e.pacer.Wait(ctx, target); err != nil {
			return fmt.Errorf("pacing wait: %w", err)
		}
	}

	page, attempts, err := FetchWithRetry(ctx, e.fetcher, e.retry, e.cfg.IdentityPool, target, logger)
	if err != nil {
		item.State = ItemFailed
		FetchErrors.Inc()
		SkipsTotal.WithLabelValues(SkipReasonFetchError).Inc()
		e.markFailed()
		logger.Error("fetch failed; skipping",
			zap.String("url", target),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return nil
	}

	rec, err := e.extractor.Extract(target, page.Body)
	if err != nil {
		// Lenient parsing means this is rare; the partial record is
		// still written.
		logger.Warn("extraction degraded", zap.String("url", target), zap.Error(err))
	}

	if e.archive != nil {
		if path, err := e.archive.Save(ctx, page); err != nil {
			logger.Warn("archive failed", zap.String("url", target), zap.Error(err))
		} else {
			logger.Debug("archived page body", zap.String("url", target), zap.String("path", path))
		}
	}

	if err := e.writer.Write(rec); err != nil {
		item.State = ItemFailed
		return fmt.Errorf("write output: %w", err)
	}

	if e.store != nil {
		if err := e.store.SaveRecord(ctx, runID, rec); err != nil {
			logger.Error("database mirror failed", zap.String("url", target), zap.Error(err))
		}
	}

	item.State = ItemDone
	PagesScraped.Inc()
	e.markProcessed()
	logger.Info("page scraped",
		zap.String("url", target),
		zap.Int("status", page.StatusCode),
		zap.Int("attempts", attempts),
		zap.Int("headings", len(rec.Headings)),
		zap.Int("links", len(rec.Links)),
		zap.Int("images", len(rec.Images)),
	)
	return nil
}

func (e *Engine) markProcessed() {
	if e.progress != nil {
		e.progress.MarkProcessed()
	}
}

func (e *Engine) markSkipped() {
	if e.progress != nil {
		e.progress.MarkSkipped()
	}
}

func (e *Engine) markFailed() {
	if e.progress != nil {
		e.progress.MarkFailed()
	}
}
