// Package progress tracks a user's completed assessments.
package progress

import (
	"github.com/stemsi/careerpath/internal/model"
)

// MandatoryPsychometricTests is the number of psychometric assessments every
// student must finish.
const MandatoryPsychometricTests = 5

// Aggregator holds at most one CompletedTest per test id, in submission order.
// All derived values are recomputed on every call.
type Aggregator struct {
	tests         []model.CompletedTest
	academicTotal int
}

// NewAggregator builds an aggregator from stored records. Duplicate ids
// collapse to the last occurrence.
func NewAggregator(tests []model.CompletedTest, academicTotal int) *Aggregator {
	a := &Aggregator{}
	for _, t := range tests {
		a.Add(t)
	}
	a.SetAcademicTotal(academicTotal)
	return a
}

// Add upserts a record: any record with the same TestID is removed and the
// new one is appended.
func (a *Aggregator) Add(test model.CompletedTest) {
	kept := a.tests[:0:0]
	for _, t := range a.tests {
		if t.TestID != test.TestID {
			kept = append(kept, t)
		}
	}
	a.tests = append(kept, test.Normalized())
}

// Tests returns a copy of the records.
func (a *Aggregator) Tests() []model.CompletedTest {
	out := make([]model.CompletedTest, len(a.tests))
	copy(out, a.tests)
	return out
}

// IsTestCompleted reports whether a record exists for testID.
func (a *Aggregator) IsTestCompleted(testID string) bool {
	_, ok := a.TestScore(testID)
	return ok
}

// TestScore returns the record for testID.
func (a *Aggregator) TestScore(testID string) (model.CompletedTest, bool) {
	for _, t := range a.tests {
		if t.TestID == testID {
			return t, true
		}
	}
	return model.CompletedTest{}, false
}

func (a *Aggregator) count(tt model.TestType) int {
	n := 0
	for _, t := range a.tests {
		if t.TestType == tt {
			n++
		}
	}
	return n
}

// PsychometricCompleted counts completed psychometric tests.
func (a *Aggregator) PsychometricCompleted() int {
	return a.count(model.TestTypePsychometric)
}

// PsychometricPercentage is the completed share of the mandatory tests.
func (a *Aggregator) PsychometricPercentage() int {
	return model.Percent(a.PsychometricCompleted(), MandatoryPsychometricTests)
}

// AcademicCompleted counts completed academic tests.
func (a *Aggregator) AcademicCompleted() int {
	return a.count(model.TestTypeAcademic)
}

// AcademicTotal is the number of academic tests that apply to the student.
// Zero means it has not been computed yet.
func (a *Aggregator) AcademicTotal() int {
	return a.academicTotal
}

// SetAcademicTotal replaces the academic denominator. Negative values are
// treated as zero.
func (a *Aggregator) SetAcademicTotal(n int) {
	if n < 0 {
		n = 0
	}
	a.academicTotal = n
}

// AcademicPercentage is the completed share of academic tests, 0 while the
// total is unknown.
func (a *Aggregator) AcademicPercentage() int {
	return model.Percent(a.AcademicCompleted(), a.academicTotal)
}

// AreAllExamsCompleted requires every mandatory psychometric test and every
// applicable academic test. An academic total of zero never counts as done.
func (a *Aggregator) AreAllExamsCompleted() bool {
	return a.PsychometricCompleted() == MandatoryPsychometricTests &&
		a.academicTotal > 0 &&
		a.AcademicCompleted() == a.academicTotal
}

// Summary is a snapshot of all counters.
type Summary struct {
	PsychometricCompleted  int                   `json:"psychometric_completed"`
	PsychometricTotal      int                   `json:"psychometric_total"`
	PsychometricPercentage int                   `json:"psychometric_percentage"`
	AcademicCompleted      int                   `json:"academic_completed"`
	AcademicTotal          int                   `json:"academic_total"`
	AcademicPercentage     int                   `json:"academic_percentage"`
	AllCompleted           bool                  `json:"all_completed"`
	Tests                  []model.CompletedTest `json:"tests"`
}

// Summary collects the derived counters.
func (a *Aggregator) Summary() Summary {
	return Summary{
		PsychometricCompleted:  a.PsychometricCompleted(),
		PsychometricTotal:      MandatoryPsychometricTests,
		PsychometricPercentage: a.PsychometricPercentage(),
		AcademicCompleted:      a.AcademicCompleted(),
		AcademicTotal:          a.academicTotal,
		AcademicPercentage:     a.AcademicPercentage(),
		AllCompleted:           a.AreAllExamsCompleted(),
		Tests:                  a.Tests(),
	}
}
