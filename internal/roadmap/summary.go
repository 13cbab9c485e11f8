package roadmap

import (
	"math"
	"strings"

	"github.com/stemsi/careerpath/internal/model"
)

// Substrings identifying the five mandatory psychometric sub-tests.
const (
	SubTestAptitude    = "Aptitude"
	SubTestEmotional   = "Emotional"
	SubTestInterest    = "Interest"
	SubTestPersonality = "Personality"
	SubTestOrientation = "Orientation"
)

// PsychometricSummary is the profile derived from psychometric results.
type PsychometricSummary struct {
	Aptitude              int      `json:"aptitude"`
	EmotionalIntelligence int      `json:"emotional_intelligence"`
	PersonalityScore      int      `json:"personality_score"`
	Interests             []string `json:"interests"`
	Personality           string   `json:"personality"`
	LearningStyle         string   `json:"learning_style"`
}

// AcademicStrengths holds the mean percentage per stream.
type AcademicStrengths struct {
	Science  int `json:"science"`
	Commerce int `json:"commerce"`
	Arts     int `json:"arts"`
}

// Of returns the strength for a stream name, 0 for anything else.
func (a AcademicStrengths) Of(stream string) int {
	switch {
	case strings.EqualFold(stream, StreamScience):
		return a.Science
	case strings.EqualFold(stream, StreamCommerce):
		return a.Commerce
	case strings.EqualFold(stream, StreamArts):
		return a.Arts
	default:
		return 0
	}
}

// findSubTest returns the first psychometric record whose id contains sub.
func findSubTest(tests []model.CompletedTest, sub string) (model.CompletedTest, bool) {
	for _, t := range tests {
		if t.TestType == model.TestTypePsychometric && containsFold(t.TestID, sub) {
			return t, true
		}
	}
	return model.CompletedTest{}, false
}

// DeriveSummary builds the psychometric profile. Missing sub-tests leave
// their numbers at 0 and their labels empty.
func DeriveSummary(tests []model.CompletedTest) PsychometricSummary {
	var s PsychometricSummary

	if t, ok := findSubTest(tests, SubTestAptitude); ok {
		s.Aptitude = t.Percentage
	}
	if t, ok := findSubTest(tests, SubTestEmotional); ok {
		s.EmotionalIntelligence = t.Percentage
		s.Personality = personalityLabel(t.Percentage)
	}
	if t, ok := findSubTest(tests, SubTestInterest); ok {
		s.Interests = interestLabels(t.Percentage)
	}
	if t, ok := findSubTest(tests, SubTestPersonality); ok {
		s.PersonalityScore = t.Percentage
	}
	if t, ok := findSubTest(tests, SubTestOrientation); ok {
		s.LearningStyle = learningStyleLabel(t.Percentage)
	}
	if s.Interests == nil {
		s.Interests = []string{}
	}
	return s
}

func interestLabels(pct int) []string {
	switch {
	case pct >= 80:
		return []string{"Technology", "Science", "Research"}
	case pct >= 60:
		return []string{"Business", "Communication", "Leadership"}
	case pct >= 40:
		return []string{"Arts", "Design", "Expression"}
	default:
		return []string{"Social Service", "Helping Others"}
	}
}

func personalityLabel(emotional int) string {
	switch {
	case emotional >= 80:
		return "Empathetic Leader"
	case emotional >= 60:
		return "Collaborative Team Player"
	default:
		return "Analytical Thinker"
	}
}

func learningStyleLabel(pct int) string {
	switch {
	case pct >= 80:
		return "Visual"
	case pct >= 60:
		return "Auditory"
	default:
		return "Kinesthetic"
	}
}

// DeriveAcademicStrengths averages academic results per stream.
func DeriveAcademicStrengths(tests []model.CompletedTest) AcademicStrengths {
	return AcademicStrengths{
		Science:  streamAverage(tests, StreamScience),
		Commerce: streamAverage(tests, StreamCommerce),
		Arts:     streamAverage(tests, StreamArts),
	}
}

func streamAverage(tests []model.CompletedTest, stream string) int {
	sum, n := 0, 0
	for _, t := range tests {
		if t.TestType == model.TestTypeAcademic && containsFold(t.TestID, stream) {
			sum += t.Percentage
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
