package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/careerpath/internal/model"
)

// ResultRepository archives completed tests in PostgreSQL.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// upsertConflictSQL never lets an older result replace a newer one, so
// requeued records may arrive in any order.
const upsertConflictSQL = `
	ON CONFLICT (user_id, test_id) DO UPDATE SET
		title = EXCLUDED.title,
		score = EXCLUDED.score,
		total_questions = EXCLUDED.total_questions,
		percentage = EXCLUDED.percentage,
		test_type = EXCLUDED.test_type,
		completed_at = EXCLUDED.completed_at
	WHERE completed_tests.completed_at <= EXCLUDED.completed_at`

const upsertResultSQL = `
	INSERT INTO completed_tests (user_id, test_id, title, score, total_questions, percentage, test_type, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)` + upsertConflictSQL

const upsertResultBatchSQL = `
	INSERT INTO completed_tests (user_id, test_id, title, score, total_questions, percentage, test_type, completed_at)
	SELECT * FROM UNNEST(
		$1::text[],
		$2::text[],
		$3::text[],
		$4::int[],
		$5::int[],
		$6::int[],
		$7::text[],
		$8::timestamptz[]
	)` + upsertConflictSQL

// Upsert archives a single record.
func (r *ResultRepository) Upsert(ctx context.Context, rec model.ResultRecord) error {
	t := rec.Test
	_, err := r.pool.Exec(ctx, upsertResultSQL,
		rec.UserID, t.TestID, t.Title, t.Score, t.TotalQuestions, t.Percentage, string(t.TestType), t.CompletedAt,
	)
	return err
}

// UpsertBatch archives many records in one statement using UNNEST. When a
// batch holds the same (user, test) twice only the newest one is kept.
func (r *ResultRepository) UpsertBatch(ctx context.Context, batch []model.ResultRecord) error {
	batch = dedupeResults(batch)
	n := len(batch)
	if n == 0 {
		return nil
	}

	users := make([]string, 0, n)
	testIDs := make([]string, 0, n)
	titles := make([]string, 0, n)
	scores := make([]int32, 0, n)
	totals := make([]int32, 0, n)
	pcts := make([]int32, 0, n)
	types := make([]string, 0, n)
	completedAts := make([]time.Time, 0, n)

	for _, rec := range batch {
		t := rec.Test
		users = append(users, rec.UserID)
		testIDs = append(testIDs, t.TestID)
		titles = append(titles, t.Title)
		scores = append(scores, int32(t.Score))
		totals = append(totals, int32(t.TotalQuestions))
		pcts = append(pcts, int32(t.Percentage))
		types = append(types, string(t.TestType))
		completedAts = append(completedAts, t.CompletedAt)
	}

	_, err := r.pool.Exec(ctx, upsertResultBatchSQL, users, testIDs, titles, scores, totals, pcts, types, completedAts)
	return err
}

// ListByUser returns every archived result of a user, oldest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]model.CompletedTest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT test_id, title, score, total_questions, percentage, test_type, completed_at
		 FROM completed_tests WHERE user_id = $1
		 ORDER BY completed_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []model.CompletedTest{}
	for rows.Next() {
		var (
			t  model.CompletedTest
			tt string
		)
		if err := rows.Scan(&t.TestID, &t.Title, &t.Score, &t.TotalQuestions, &t.Percentage, &tt, &t.CompletedAt); err != nil {
			return nil, err
		}
		t.TestType = model.TestType(tt)
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// dedupeResults keeps the newest record per (user, test), the later one on
// equal times; ON CONFLICT cannot touch the same row twice in one statement.
func dedupeResults(batch []model.ResultRecord) []model.ResultRecord {
	type key struct{ user, test string }
	keep := make(map[key]int, len(batch))
	for i, rec := range batch {
		k := key{rec.UserID, rec.Test.TestID}
		if j, ok := keep[k]; ok && batch[j].Test.CompletedAt.After(rec.Test.CompletedAt) {
			continue
		}
		keep[k] = i
	}
	if len(keep) == len(batch) {
		return batch
	}
	out := make([]model.ResultRecord, 0, len(keep))
	for i, rec := range batch {
		if keep[key{rec.UserID, rec.Test.TestID}] == i {
			out = append(out, rec)
		}
	}
	return out
}
