package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/randomizer"
	"github.com/stemsi/careerpath/internal/store"
)

// Domain Errors
var (
	ErrNoQuestions      = errors.New("test has no questions")
	ErrIdentityRequired = errors.New("a user id is required")
)

// QuestionSource loads a test and its question bank.
type QuestionSource interface {
	LoadBank(ctx context.Context, testID string) (model.TestBank, error)
}

// ExamService serves randomized exams and grades submissions.
type ExamService struct {
	questions  QuestionSource
	kv         store.KV
	progress   *ProgressService
	cacheTTL   time.Duration
	defaultMax int
	log        zerolog.Logger
	now        func() time.Time
}

// NewExamService creates a new ExamService.
func NewExamService(
	questions QuestionSource,
	kv store.KV,
	progress *ProgressService,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		questions:  questions,
		kv:         kv,
		progress:   progress,
		cacheTTL:   cfg.QuestionBankCacheTTL,
		defaultMax: cfg.DefaultExamQuestions,
		log:        logger.Component(log, "exam_service"),
		now:        time.Now,
	}
}

// Bank returns a test and its questions, reading through the cache.
func (s *ExamService) Bank(ctx context.Context, testID string) (model.TestBank, error) {
	key := config.CacheKey.QuestionBankKey(testID)

	var bank model.TestBank
	err := store.GetJSON(ctx, s.kv, key, &bank)
	if err == nil && len(bank.Questions) > 0 {
		return bank, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn().Err(err).Str("test_id", testID).Msg("Question bank cache read failed")
	}

	bank, err = s.questions.LoadBank(ctx, testID)
	if err != nil {
		return model.TestBank{}, fmt.Errorf("load question bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return model.TestBank{}, ErrNoQuestions
	}

	if err := store.SetJSON(ctx, s.kv, key, bank, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID).Msg("Question bank cache write failed")
	}
	return bank, nil
}

// InvalidateBank drops the cached bank of a test.
func (s *ExamService) InvalidateBank(ctx context.Context, testID string) error {
	return s.kv.Del(ctx, config.CacheKey.QuestionBankKey(testID))
}

// Session builds the exam a user sees. The paper is capped by the test's own
// limit, or the configured default when the test sets none.
func (s *ExamService) Session(ctx context.Context, userID, testID string) (randomizer.Session, error) {
	bank, err := s.Bank(ctx, testID)
	if err != nil {
		return randomizer.Session{}, err
	}
	return s.session(bank, userID, testID), nil
}

func (s *ExamService) session(bank model.TestBank, userID, testID string) randomizer.Session {
	maxQuestions := bank.Meta.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = s.defaultMax
	}

	sess := randomizer.NewSession(bank.Questions, userID, testID, maxQuestions)
	s.log.Debug().
		Str("test_id", testID).
		Bool("deterministic", sess.Deterministic).
		Int("questions", len(sess.Questions)).
		Msg("Exam session built")
	return sess
}

// Submit re-derives the user's exam, grades the answers and records the
// result under the stored title and test type.
func (s *ExamService) Submit(ctx context.Context, userID, testID string, req model.SubmitAnswersRequest) (model.CompletedTest, error) {
	if strings.TrimSpace(userID) == "" {
		return model.CompletedTest{}, ErrIdentityRequired
	}

	bank, err := s.Bank(ctx, testID)
	if err != nil {
		return model.CompletedTest{}, err
	}
	sess := s.session(bank, userID, testID)

	score, total := sess.Grade(req.Answers)
	title := bank.Meta.Title
	if title == "" {
		title = testID
	}

	result := model.CompletedTest{
		TestID:         testID,
		Title:          title,
		Score:          score,
		TotalQuestions: total,
		CompletedAt:    s.now().UTC(),
		TestType:       bank.Meta.Type,
	}.Normalized()

	if err := s.progress.Record(ctx, userID, result); err != nil {
		return model.CompletedTest{}, err
	}

	s.log.Info().
		Str("test_id", testID).
		Str("test_type", string(result.TestType)).
		Int("score", score).
		Int("total", total).
		Msg("Test submitted")
	return result, nil
}
