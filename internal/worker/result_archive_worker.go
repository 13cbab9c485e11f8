package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/store"
)

const (
	ArchiveBatchSize    = 100
	ArchiveBatchTimeout = 2 * time.Second
	ArchivePollTimeout  = 1 * time.Second
)

// ResultArchiver persists completed tests.
type ResultArchiver interface {
	UpsertBatch(ctx context.Context, batch []model.ResultRecord) error
	Upsert(ctx context.Context, rec model.ResultRecord) error
}

// ResultArchiveWorker drains the archive queue into PostgreSQL.
type ResultArchiveWorker struct {
	queue        store.Queue
	archiver     ResultArchiver
	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
	log          zerolog.Logger
}

func NewResultArchiveWorker(queue store.Queue, archiver ResultArchiver, cfg *config.Config, log zerolog.Logger) *ResultArchiveWorker {
	w := &ResultArchiveWorker{
		queue:        queue,
		archiver:     archiver,
		batchSize:    ArchiveBatchSize,
		batchTimeout: ArchiveBatchTimeout,
		pollTimeout:  ArchivePollTimeout,
		log:          logger.Component(log, "result_archive_worker"),
	}
	if cfg != nil && cfg.ArchiveBatchSize > 0 {
		w.batchSize = cfg.ArchiveBatchSize
	}
	if cfg != nil && cfg.ArchiveFlushInterval > 0 {
		w.batchTimeout = cfg.ArchiveFlushInterval
	}
	return w
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *ResultArchiveWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultArchiveWorker started")

	batch := make([]model.ResultRecord, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			raw, err := w.queue.Pop(ctx, config.WorkerKey.ArchiveResultsQueue, w.pollTimeout)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Queue pop error")
				}
				continue
			}

			var rec model.ResultRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, rec)
		}
	}
}

// ----------------------------------------------------------------
// Batch upsert with per-row fallback
// ----------------------------------------------------------------

func (w *ResultArchiveWorker) flushSafe(ctx context.Context, batch []model.ResultRecord) {
	if len(batch) == 0 {
		return
	}

	err := w.archiver.UpsertBatch(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Archived results")
		return
	}

	w.log.Warn().Err(err).Msg("bulk archive failed, using fallback")

	for _, rec := range batch {
		if err := w.archiver.Upsert(ctx, rec); err != nil {
			w.log.Error().Err(err).Str("test_id", rec.Test.TestID).Msg("single archive failed, requeueing")
			raw, _ := json.Marshal(rec)
			if err := w.queue.Push(ctx, config.WorkerKey.ArchiveResultsQueue, raw); err != nil {
				w.log.Error().Err(err).Msg("requeue failed, result dropped from archive")
			}
		}
	}
}
