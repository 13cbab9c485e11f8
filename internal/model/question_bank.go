package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var testIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// maxQuestionCap bounds the per-test paper size.
const maxQuestionCap = 500

// TestMeta is the stored description of a test.
type TestMeta struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Type  TestType `json:"test_type"`
	// MaxQuestions caps the served paper; 0 means the configured default.
	MaxQuestions int `json:"max_questions"`
}

// TestBank is a test together with its questions in authoring order.
type TestBank struct {
	Meta      TestMeta   `json:"meta"`
	Questions []Question `json:"questions"`
}

// QuestionBankFile is the on-disk JSON format read by the seeder.
type QuestionBankFile struct {
	TestID       string     `json:"test_id"`
	Title        string     `json:"title"`
	TestType     TestType   `json:"test_type"`
	MaxQuestions int        `json:"max_questions"`
	Questions    []Question `json:"questions"`
}

// Meta returns the test description carried by the file.
func (b QuestionBankFile) Meta() TestMeta {
	return TestMeta{ID: b.TestID, Title: b.Title, Type: b.TestType, MaxQuestions: b.MaxQuestions}
}

// Prepare fills missing question ids with random UUIDs and checks the bank.
// Every question needs options and a correct answer naming one of them.
func (b *QuestionBankFile) Prepare() error {
	if !testIDPattern.MatchString(b.TestID) {
		return fmt.Errorf("invalid test_id %q", b.TestID)
	}
	if b.TestType != TestTypePsychometric && b.TestType != TestTypeAcademic {
		return fmt.Errorf("%s: invalid test_type %q", b.TestID, b.TestType)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("%s: no questions", b.TestID)
	}
	if b.MaxQuestions < 0 || b.MaxQuestions > maxQuestionCap {
		return fmt.Errorf("%s: max_questions %d out of range [0, %d]", b.TestID, b.MaxQuestions, maxQuestionCap)
	}
	if strings.TrimSpace(b.Title) == "" {
		b.Title = b.TestID
	}

	var errs []error
	seen := make(map[string]bool, len(b.Questions))
	for i := range b.Questions {
		q := &b.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate question id %q", b.TestID, q.ID))
		}
		seen[q.ID] = true

		if q.Options.Len() < 2 {
			errs = append(errs, fmt.Errorf("%s/%s: needs at least two options", b.TestID, q.ID))
			continue
		}
		if _, ok := q.Options.Find(q.CorrectAnswer); !ok && !hasOptionText(q.Options, q.CorrectAnswer) {
			errs = append(errs, fmt.Errorf("%s/%s: correct answer %q is not an option", b.TestID, q.ID, q.CorrectAnswer))
		}
	}
	return errors.Join(errs...)
}

func hasOptionText(o Options, text string) bool {
	for _, it := range o.Items {
		if it.Text == text {
			return true
		}
	}
	return false
}
