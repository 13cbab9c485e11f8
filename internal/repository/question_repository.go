package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/careerpath/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// LoadBank retrieves a test and its questions. An unknown test yields a
// bank without questions.
func (r *QuestionRepository) LoadBank(ctx context.Context, testID string) (model.TestBank, error) {
	var (
		meta model.TestMeta
		tt   string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, test_type, max_questions FROM tests WHERE id = $1`, testID,
	).Scan(&meta.ID, &meta.Title, &tt, &meta.MaxQuestions)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TestBank{Meta: model.TestMeta{ID: testID}}, nil
	}
	if err != nil {
		return model.TestBank{}, fmt.Errorf("load test %s: %w", testID, err)
	}
	meta.Type = model.TestType(tt)

	questions, err := r.ListByTest(ctx, testID)
	if err != nil {
		return model.TestBank{}, err
	}
	return model.TestBank{Meta: meta, Questions: questions}, nil
}

// ListByTest retrieves the question bank of a test in authoring order.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_text, options, correct_answer
		 FROM questions WHERE test_id = $1
		 ORDER BY position`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q   model.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Text, &raw, &q.CorrectAnswer); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s/%s: %w", testID, q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ReplaceBank upserts the test row and replaces its questions atomically.
func (r *QuestionRepository) ReplaceBank(ctx context.Context, bank model.QuestionBankFile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO tests (id, title, test_type, max_questions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			test_type = EXCLUDED.test_type,
			max_questions = EXCLUDED.max_questions,
			updated_at = NOW()`,
		bank.TestID, bank.Title, string(bank.TestType), bank.MaxQuestions,
	)
	if err != nil {
		return fmt.Errorf("upsert test: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE test_id = $1`, bank.TestID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	rows := make([][]interface{}, 0, len(bank.Questions))
	for i, q := range bank.Questions {
		raw, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options of %s: %w", q.ID, err)
		}
		rows = append(rows, []interface{}{bank.TestID, q.ID, i, q.Text, raw, q.CorrectAnswer})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"questions"},
		[]string{"test_id", "id", "position", "question_text", "options", "correct_answer"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy questions: %w", err)
	}

	return tx.Commit(ctx)
}
