package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuestions struct {
	banks map[string]model.TestBank
	err   error
	calls int
}

func (f *fakeQuestions) LoadBank(_ context.Context, testID string) (model.TestBank, error) {
	f.calls++
	if f.err != nil {
		return model.TestBank{}, f.err
	}
	return f.banks[testID], nil
}

func testBank(id string, typ model.TestType, maxQuestions, n int) model.TestBank {
	return model.TestBank{
		Meta:      model.TestMeta{ID: id, Title: id + " Title", Type: typ, MaxQuestions: maxQuestions},
		Questions: makeBank(n),
	}
}

func makeBank(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:   fmt.Sprintf("Q%d", i+1),
			Text: fmt.Sprintf("Question %d", i+1),
			Options: model.ListOptions(
				model.Option{ID: "A", Text: "right"},
				model.Option{ID: "B", Text: "wrong"},
				model.Option{ID: "C", Text: "also wrong"},
			),
			CorrectAnswer: "A",
		}
	}
	return qs
}

type fixture struct {
	kv       *store.MemoryStore
	source   *fakeQuestions
	progress *ProgressService
	exams    *ExamService
	roadmaps *RoadmapService
}

func newFixture() *fixture {
	log := zerolog.New(io.Discard)
	kv := store.NewMemoryStore()
	src := &fakeQuestions{banks: map[string]model.TestBank{
		"Aptitude_Test":    testBank("Aptitude_Test", model.TestTypePsychometric, 0, 10),
		"Capped_Test":      testBank("Capped_Test", model.TestTypePsychometric, 4, 10),
		"Science_Physics":  testBank("Science_Physics", model.TestTypeAcademic, 0, 5),
		"Commerce_Finance": testBank("Commerce_Finance", model.TestTypeAcademic, 0, 5),
	}}
	cfg := &config.Config{QuestionBankCacheTTL: time.Minute, DefaultExamQuestions: 0}

	progress := NewProgressService(kv, kv, log)
	exams := NewExamService(src, kv, progress, cfg, log)
	exams.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		kv:       kv,
		source:   src,
		progress: progress,
		exams:    exams,
		roadmaps: NewRoadmapService(kv, progress, log),
	}
}

func TestExamService_BankIsCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.exams.Bank(ctx, "Aptitude_Test")
	require.NoError(t, err)
	second, err := f.exams.Bank(ctx, "Aptitude_Test")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.source.calls)

	require.NoError(t, f.exams.InvalidateBank(ctx, "Aptitude_Test"))
	_, err = f.exams.Bank(ctx, "Aptitude_Test")
	require.NoError(t, err)
	assert.Equal(t, 2, f.source.calls)
}

func TestExamService_BankRecoversFromCorruptCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.kv.Set(ctx, config.CacheKey.QuestionBankKey("Aptitude_Test"), []byte("not json"), 0))

	bank, err := f.exams.Bank(ctx, "Aptitude_Test")
	require.NoError(t, err)
	assert.Len(t, bank.Questions, 10)
	assert.Equal(t, model.TestTypePsychometric, bank.Meta.Type)
}

func TestExamService_BankErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.exams.Bank(ctx, "Unknown_Test")
	assert.ErrorIs(t, err, ErrNoQuestions)

	boom := errors.New("db down")
	f.source.err = boom
	_, err = f.exams.Bank(ctx, "Other_Test")
	assert.ErrorIs(t, err, boom)
}

func TestExamService_SessionIsStablePerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.exams.Session(ctx, "a@x.com", "Aptitude_Test")
	require.NoError(t, err)
	b, err := f.exams.Session(ctx, "a@x.com", "Aptitude_Test")
	require.NoError(t, err)

	assert.True(t, a.Deterministic)
	assert.Equal(t, a.Questions, b.Questions)
	assert.Len(t, a.Questions, 10)
}

func TestExamService_SessionCap(t *testing.T) {
	f := newFixture()
	f.exams.defaultMax = 3
	ctx := context.Background()

	sess, err := f.exams.Session(ctx, "", "Aptitude_Test")
	require.NoError(t, err)
	assert.False(t, sess.Deterministic)
	assert.Len(t, sess.Questions, 3)

	// a per-test cap wins over the default
	sess, err = f.exams.Session(ctx, "u1", "Capped_Test")
	require.NoError(t, err)
	assert.Len(t, sess.Questions, 4)
}

func TestExamService_Submit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sess, err := f.exams.Session(ctx, "u1", "Capped_Test")
	require.NoError(t, err)
	answers := sess.AnswerKey()
	// one wrong answer
	answers[sess.Questions[0].ID] = "Z"

	got, err := f.exams.Submit(ctx, "u1", "Capped_Test", model.SubmitAnswersRequest{Answers: answers})
	require.NoError(t, err)

	assert.Equal(t, 3, got.Score)
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Equal(t, 75, got.Percentage)
	assert.Equal(t, "Capped_Test Title", got.Title)
	assert.Equal(t, model.TestTypePsychometric, got.TestType)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got.CompletedAt)

	summary := f.progress.Summary(ctx, "u1")
	assert.Equal(t, 1, summary.PsychometricCompleted)
	assert.Equal(t, []model.CompletedTest{got}, summary.Tests)

	raw, err := f.kv.Pop(ctx, config.WorkerKey.ArchiveResultsQueue, time.Second)
	require.NoError(t, err)
	var rec model.ResultRecord
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, 75, rec.Test.Percentage)
}

func TestExamService_SubmitGradesServedPaper(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	served, err := f.exams.Session(ctx, "u1", "Capped_Test")
	require.NoError(t, err)
	first := served.Questions[0]

	got, err := f.exams.Submit(ctx, "u1", "Capped_Test", model.SubmitAnswersRequest{
		Answers: map[string]string{first.ID: first.CorrectAnswer},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Equal(t, 25, got.Percentage)
}

func TestExamService_SubmitUsesStoredTestType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, id := range []string{"Science_Physics", "Commerce_Finance"} {
		sess, err := f.exams.Session(ctx, "u1", id)
		require.NoError(t, err)
		got, err := f.exams.Submit(ctx, "u1", id, model.SubmitAnswersRequest{Answers: sess.AnswerKey()})
		require.NoError(t, err)
		assert.Equal(t, model.TestTypeAcademic, got.TestType)
	}

	summary := f.progress.Summary(ctx, "u1")
	assert.Equal(t, 0, summary.PsychometricCompleted)
	assert.Equal(t, 2, summary.AcademicCompleted)
	assert.False(t, f.roadmaps.Analyze(ctx, "u1").IsComplete)
}

func TestExamService_SubmitFallsBackToTestID(t *testing.T) {
	f := newFixture()
	f.source.banks["Untitled_Test"] = model.TestBank{
		Meta:      model.TestMeta{ID: "Untitled_Test", Type: model.TestTypeAcademic},
		Questions: makeBank(2),
	}

	got, err := f.exams.Submit(context.Background(), "u1", "Untitled_Test", model.SubmitAnswersRequest{Answers: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "Untitled_Test", got.Title)
	assert.Equal(t, 0, got.Percentage)
}

func TestExamService_ResubmitReplaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := model.SubmitAnswersRequest{Answers: map[string]string{}}

	_, err := f.exams.Submit(ctx, "u1", "Aptitude_Test", req)
	require.NoError(t, err)

	sess, err := f.exams.Session(ctx, "u1", "Aptitude_Test")
	require.NoError(t, err)
	req.Answers = sess.AnswerKey()
	_, err = f.exams.Submit(ctx, "u1", "Aptitude_Test", req)
	require.NoError(t, err)

	tests := f.progress.Load(ctx, "u1").Tests()
	require.Len(t, tests, 1)
	assert.Equal(t, 100, tests[0].Percentage)
	assert.Equal(t, "Aptitude_Test Title", tests[0].Title)
}

func TestExamService_SubmitRequiresIdentity(t *testing.T) {
	f := newFixture()
	_, err := f.exams.Submit(context.Background(), " ", "Aptitude_Test", model.SubmitAnswersRequest{})
	assert.ErrorIs(t, err, ErrIdentityRequired)
	assert.Equal(t, 0, f.source.calls)
}

func TestProgressService_CorruptStateIsEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	key := config.CacheKey.CompletedTestsKey("u1")
	require.NoError(t, f.kv.HSet(ctx, key, "Broken_Test", []byte("{broken")))
	require.NoError(t, f.kv.HSet(ctx, key, "Moved_Test", []byte(`{"test_id":"Other_Test"}`)))
	require.NoError(t, f.kv.HSet(ctx, key, "Aptitude_Test", []byte(`{"test_id":"Aptitude_Test","test_type":"psychometric","percentage":40}`)))
	require.NoError(t, f.kv.Set(ctx, config.CacheKey.AcademicTotalKey("u1"), []byte(`"x"`), 0))

	agg := f.progress.Load(ctx, "u1")
	tests := agg.Tests()
	require.Len(t, tests, 1)
	assert.Equal(t, "Aptitude_Test", tests[0].TestID)
	assert.Equal(t, 0, agg.AcademicTotal())
}

// slowKV delays reads so that unguarded read-modify-write cycles overlap.
type slowKV struct {
	*store.MemoryStore
	delay time.Duration
}

func (s slowKV) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Get(ctx, key)
}

func (s slowKV) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.HGetAll(ctx, key)
}

func TestProgressService_ConcurrentRecordsKeepEveryTest(t *testing.T) {
	kv := slowKV{MemoryStore: store.NewMemoryStore(), delay: 5 * time.Millisecond}
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard))
	ctx := context.Background()

	ids := []string{"Aptitude_Test", "Emotional_Test", "Interest_Test", "Personality_Test", "Orientation_Test"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, svc.Record(ctx, "u1", model.CompletedTest{TestID: id, TestType: model.TestTypePsychometric, Percentage: 60}))
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 5, svc.Summary(ctx, "u1").PsychometricCompleted)
}

func TestProgressService_LoadOrdersByCompletion(t *testing.T) {
	kv := store.NewMemoryStore()
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Record(ctx, "u1", model.CompletedTest{TestID: "B_Test", CompletedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, svc.Record(ctx, "u1", model.CompletedTest{TestID: "A_Test", CompletedAt: base.Add(time.Minute)}))
	require.NoError(t, svc.Record(ctx, "u1", model.CompletedTest{TestID: "C_Test", CompletedAt: base.Add(time.Minute)}))

	var ids []string
	for _, tc := range svc.Load(ctx, "u1").Tests() {
		ids = append(ids, tc.TestID)
	}
	assert.Equal(t, []string{"A_Test", "C_Test", "B_Test"}, ids)
}

func TestProgressService_AcademicTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.progress.SetAcademicTotal(ctx, "u1", 3))
	assert.Equal(t, 3, f.progress.Summary(ctx, "u1").AcademicTotal)

	require.NoError(t, f.progress.SetAcademicTotal(ctx, "u1", -2))
	assert.Equal(t, 0, f.progress.Summary(ctx, "u1").AcademicTotal)
}

func TestProgressService_NoQueue(t *testing.T) {
	kv := store.NewMemoryStore()
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard))

	require.NoError(t, svc.Record(context.Background(), "u1", model.CompletedTest{TestID: "A", TestType: model.TestTypeAcademic, Percentage: 40}))
	assert.Equal(t, 1, svc.Summary(context.Background(), "u1").AcademicCompleted)
	assert.Equal(t, 0, kv.Len(config.WorkerKey.ArchiveResultsQueue))
}

type fakeHistory struct {
	tests []model.CompletedTest
	err   error
	calls int
}

func (f *fakeHistory) ListByUser(_ context.Context, _ string) ([]model.CompletedTest, error) {
	f.calls++
	return f.tests, f.err
}

func TestProgressService_RehydratesFromHistory(t *testing.T) {
	kv := store.NewMemoryStore()
	history := &fakeHistory{tests: []model.CompletedTest{
		{TestID: "Aptitude_Test", TestType: model.TestTypePsychometric, Percentage: 70},
	}}
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard)).WithHistory(history)
	ctx := context.Background()

	assert.Equal(t, 1, svc.Summary(ctx, "u1").PsychometricCompleted)
	assert.Equal(t, 1, svc.Summary(ctx, "u1").PsychometricCompleted)
	assert.Equal(t, 1, history.calls, "second load should hit the cache")

	fields, err := kv.HGetAll(ctx, config.CacheKey.CompletedTestsKey("u1"))
	require.NoError(t, err)
	assert.Contains(t, fields, "Aptitude_Test")
}

func TestProgressService_RehydrateKeepsNewerCacheFields(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	key := config.CacheKey.CompletedTestsKey("u1")
	history := &fakeHistory{tests: []model.CompletedTest{
		{TestID: "Aptitude_Test", TestType: model.TestTypePsychometric, Percentage: 30},
		{TestID: "Interest_Test", TestType: model.TestTypePsychometric, Percentage: 50},
	}}
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard)).WithHistory(history)

	tests := svc.rehydrate(ctx, "u1")
	require.Len(t, tests, 2)

	// a submission landing between the empty read and the copy wins
	require.NoError(t, kv.Del(ctx, key))
	require.NoError(t, kv.HSet(ctx, key, "Aptitude_Test", []byte(`{"test_id":"Aptitude_Test","test_type":"psychometric","percentage":90}`)))
	svc.rehydrate(ctx, "u1")

	got, ok := progressOf(svc.Load(ctx, "u1").Tests(), "Aptitude_Test")
	require.True(t, ok)
	assert.Equal(t, 90, got.Percentage)
}

func progressOf(tests []model.CompletedTest, id string) (model.CompletedTest, bool) {
	for _, t := range tests {
		if t.TestID == id {
			return t, true
		}
	}
	return model.CompletedTest{}, false
}

func TestProgressService_HistoryErrorStartsEmpty(t *testing.T) {
	kv := store.NewMemoryStore()
	history := &fakeHistory{err: errors.New("db down")}
	svc := NewProgressService(kv, nil, zerolog.New(io.Discard)).WithHistory(history)

	assert.Empty(t, svc.Load(context.Background(), "u1").Tests())
	fields, err := kv.HGetAll(context.Background(), config.CacheKey.CompletedTestsKey("u1"))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestRoadmapService_SaveProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := model.StudentProfile{EducationType: model.EducationSchool, Class: "12", Stream: "Science"}

	tests, err := f.roadmaps.SaveProfile(ctx, "u1", profile)
	require.NoError(t, err)
	assert.Len(t, tests, 4)
	assert.Equal(t, profile, f.roadmaps.Profile(ctx, "u1"))
	assert.Equal(t, 4, f.progress.Summary(ctx, "u1").AcademicTotal)

	tests, err = f.roadmaps.SaveProfile(ctx, "u1", model.StudentProfile{EducationType: model.EducationCollege, Course: "Diploma"})
	require.NoError(t, err)
	assert.Empty(t, tests)
	assert.NotNil(t, tests)
	assert.Equal(t, 0, f.progress.Summary(ctx, "u1").AcademicTotal)
}

func TestRoadmapService_Analyze(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.False(t, f.roadmaps.Analyze(ctx, "u1").IsComplete)

	for _, id := range []string{"Aptitude_Test", "Emotional_Test", "Interest_Test", "Personality_Test", "Orientation_Test"} {
		require.NoError(t, f.progress.Record(ctx, "u1", model.CompletedTest{TestID: id, Percentage: 70, TestType: model.TestTypePsychometric}))
	}

	a := f.roadmaps.Analyze(ctx, "u1")
	assert.True(t, a.IsComplete)
	assert.Len(t, a.TopRecommendations, 5)
	assert.Equal(t, 70, a.PsychometricSummary.Aptitude)
}
