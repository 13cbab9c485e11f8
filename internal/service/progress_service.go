package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/progress"
	"github.com/stemsi/careerpath/internal/store"
)

// ResultHistory reads archived results back when the cache has none.
type ResultHistory interface {
	ListByUser(ctx context.Context, userID string) ([]model.CompletedTest, error)
}

// ProgressService persists a user's completed tests.
type ProgressService struct {
	kv      store.KV
	queue   store.Queue
	history ResultHistory
	log     zerolog.Logger
}

// NewProgressService creates a new ProgressService. queue may be nil to
// skip archiving.
func NewProgressService(kv store.KV, queue store.Queue, log zerolog.Logger) *ProgressService {
	return &ProgressService{
		kv:    kv,
		queue: queue,
		log:   logger.Component(log, "progress_service"),
	}
}

// WithHistory enables rehydrating a cold cache from the result archive.
func (s *ProgressService) WithHistory(h ResultHistory) *ProgressService {
	s.history = h
	return s
}

// Load builds the aggregator of a user. Unreadable state is logged and
// treated as empty.
func (s *ProgressService) Load(ctx context.Context, userID string) *progress.Aggregator {
	tests, err := s.readTests(ctx, userID)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("Completed tests unreadable, starting empty")
		tests = nil
	case len(tests) == 0:
		tests = s.rehydrate(ctx, userID)
	}

	total := 0
	if err := store.GetJSON(ctx, s.kv, config.CacheKey.AcademicTotalKey(userID), &total); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn().Err(err).Msg("Academic total unreadable, using 0")
		total = 0
	}

	return progress.NewAggregator(tests, total)
}

// readTests decodes the completed-test hash of a user, oldest first.
// Undecodable fields are skipped.
func (s *ProgressService) readTests(ctx context.Context, userID string) ([]model.CompletedTest, error) {
	fields, err := s.kv.HGetAll(ctx, config.CacheKey.CompletedTestsKey(userID))
	if err != nil {
		return nil, err
	}

	tests := make([]model.CompletedTest, 0, len(fields))
	for field, raw := range fields {
		var t model.CompletedTest
		if err := json.Unmarshal(raw, &t); err != nil || t.TestID != field {
			s.log.Warn().Err(err).Str("test_id", field).Msg("Skipping unreadable completed test")
			continue
		}
		tests = append(tests, t)
	}

	sort.Slice(tests, func(i, j int) bool {
		if !tests[i].CompletedAt.Equal(tests[j].CompletedAt) {
			return tests[i].CompletedAt.Before(tests[j].CompletedAt)
		}
		return tests[i].TestID < tests[j].TestID
	})
	return tests, nil
}

// rehydrate copies archived results into an empty cache. Fields written by
// a concurrent Record are kept.
func (s *ProgressService) rehydrate(ctx context.Context, userID string) []model.CompletedTest {
	if s.history == nil {
		return nil
	}
	archived, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Result archive unreadable, starting empty")
		return nil
	}
	if len(archived) == 0 {
		return nil
	}

	key := config.CacheKey.CompletedTestsKey(userID)
	for _, t := range archived {
		raw, err := json.Marshal(t)
		if err == nil {
			_, err = s.kv.HSetNX(ctx, key, t.TestID, raw)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Rehydrated tests not cached")
			return archived
		}
	}

	tests, err := s.readTests(ctx, userID)
	if err != nil {
		return archived
	}
	return tests
}

// Summary returns the progress counters of a user.
func (s *ProgressService) Summary(ctx context.Context, userID string) progress.Summary {
	return s.Load(ctx, userID).Summary()
}

// Record upserts one result and queues it for archiving. Each test is its
// own hash field, so concurrent submissions of one user all survive.
func (s *ProgressService) Record(ctx context.Context, userID string, test model.CompletedTest) error {
	test = test.Normalized()
	raw, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("encode completed test: %w", err)
	}
	if err := s.kv.HSet(ctx, config.CacheKey.CompletedTestsKey(userID), test.TestID, raw); err != nil {
		return fmt.Errorf("save completed test: %w", err)
	}

	if s.queue != nil {
		rec, err := json.Marshal(model.ResultRecord{UserID: userID, Test: test})
		if err == nil {
			err = s.queue.Push(ctx, config.WorkerKey.ArchiveResultsQueue, rec)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("test_id", test.TestID).Msg("Archive enqueue failed")
		}
	}
	return nil
}

// SetAcademicTotal stores how many academic tests apply to a user.
func (s *ProgressService) SetAcademicTotal(ctx context.Context, userID string, n int) error {
	if n < 0 {
		n = 0
	}
	if err := store.SetJSON(ctx, s.kv, config.CacheKey.AcademicTotalKey(userID), n, 0); err != nil {
		return fmt.Errorf("save academic total: %w", err)
	}
	return nil
}
