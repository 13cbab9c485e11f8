package model

import (
	"math"
	"time"
)

// TestType classifies an assessment.
type TestType string

const (
	TestTypePsychometric TestType = "psychometric"
	TestTypeAcademic     TestType = "academic"
)

// CompletedTest is the record of one finished assessment. A user holds at
// most one record per TestID.
type CompletedTest struct {
	TestID         string    `json:"test_id"`
	Title          string    `json:"title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	CompletedAt    time.Time `json:"completed_at"`
	TestType       TestType  `json:"test_type"`
}

// Percent returns round(score/total*100), or 0 when total is not positive.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Normalized recomputes Percentage from Score and TotalQuestions when the
// question count is known, and keeps the given percentage otherwise.
func (t CompletedTest) Normalized() CompletedTest {
	if t.TotalQuestions > 0 {
		t.Percentage = Percent(t.Score, t.TotalQuestions)
	}
	return t
}

// SubmitAnswersRequest is the payload for submitting a randomized exam.
// Title, type and question cap come from the stored test, never the client.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// ResultRecord is a completed test queued for the archive.
type ResultRecord struct {
	UserID string        `json:"user_id"`
	Test   CompletedTest `json:"test"`
}
