// Package roadmap turns assessment results into ranked career-field
// suggestions with the reasons behind each score.
package roadmap

import (
	"fmt"
	"strings"

	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/progress"
)

// lowScore is the cutoff below which a contributing sub-score earns a
// remediation step.
const lowScore = 50

// Analysis is the full roadmap for one student.
type Analysis struct {
	IsComplete            bool                `json:"is_complete"`
	CompletionPercentage  int                 `json:"completion_percentage"`
	TopRecommendations    []FieldAlignment    `json:"top_recommendations"`
	PsychometricSummary   PsychometricSummary `json:"psychometric_summary"`
	AcademicStrengths     AcademicStrengths   `json:"academic_strengths"`
	OverallRecommendation string              `json:"overall_recommendation"`
	NextSteps             []string            `json:"next_steps"`
}

// AnalyzeRoadmap runs Analyze against the built-in catalog.
func AnalyzeRoadmap(tests []model.CompletedTest, profile model.StudentProfile) Analysis {
	return Analyze(tests, profile, DefaultCatalog())
}

// Analyze scores the catalog once all mandatory psychometric tests are in.
// Until then it only reports completion.
func Analyze(tests []model.CompletedTest, profile model.StudentProfile, catalog []CareerFieldDefinition) Analysis {
	agg := progress.NewAggregator(tests, 0)
	tests = agg.Tests()
	done := agg.PsychometricCompleted()

	if done < progress.MandatoryPsychometricTests {
		remaining := progress.MandatoryPsychometricTests - done
		return Analysis{
			IsComplete:            false,
			CompletionPercentage:  model.Percent(done, progress.MandatoryPsychometricTests),
			TopRecommendations:    []FieldAlignment{},
			PsychometricSummary:   PsychometricSummary{Interests: []string{}},
			OverallRecommendation: "Complete all psychometric assessments to unlock your career roadmap.",
			NextSteps:             []string{fmt.Sprintf("Complete the remaining %d psychometric %s.", remaining, plural(remaining, "assessment", "assessments"))},
		}
	}

	p := Profile{
		Psychometric: DeriveSummary(tests),
		Academic:     DeriveAcademicStrengths(tests),
	}
	top := Rank(catalog, p, TopRecommendations)

	return Analysis{
		IsComplete:            true,
		CompletionPercentage:  100,
		TopRecommendations:    top,
		PsychometricSummary:   p.Psychometric,
		AcademicStrengths:     p.Academic,
		OverallRecommendation: overallRecommendation(top, p),
		NextSteps:             nextSteps(top, p, profile),
	}
}

// dominantOrder is the tie-break order for the dominant sub-score.
var dominantOrder = []Metric{MetricAptitude, MetricEmotional, MetricScience, MetricCommerce, MetricArts}

// Dominant returns the strongest sub-score; the first one wins ties.
func Dominant(p Profile) (Metric, int) {
	best, bestVal := dominantOrder[0], p.Value(dominantOrder[0])
	for _, m := range dominantOrder[1:] {
		if v := p.Value(m); v > bestVal {
			best, bestVal = m, v
		}
	}
	return best, int(bestVal)
}

func overallRecommendation(top []FieldAlignment, p Profile) string {
	if len(top) == 0 {
		return "No career fields are configured yet."
	}

	m, v := Dominant(p)
	msg := fmt.Sprintf("%s is your strongest match with %d%% alignment, driven mainly by your %s score of %d%%.",
		top[0].Field, top[0].AlignmentPercentage, m, v)
	if v == 0 {
		msg += " Complete more assessments to sharpen these recommendations."
	}
	return msg
}

func nextSteps(top []FieldAlignment, p Profile, profile model.StudentProfile) []string {
	if len(top) == 0 {
		return []string{}
	}
	best := top[0]

	steps := []string{
		fmt.Sprintf("Research careers in %s such as %s.", best.Field, joinFirst(best.CareerPaths, 3)),
		fmt.Sprintf("Connect with a mentor or professional working in %s.", best.Field),
		fmt.Sprintf("Pursue the suggested education path: %s.", best.EducationPath),
	}

	if best.weights.Aptitude > 0 && p.Psychometric.Aptitude < lowScore {
		steps = append(steps, "Strengthen logical reasoning with regular aptitude practice.")
	}
	if best.weights.Emotional > 0 && p.Psychometric.EmotionalIntelligence < lowScore {
		steps = append(steps, "Build communication and teamwork skills through group activities.")
	}
	if m, ok := streamMetric(best.Category); ok && best.weights.Of(m) > 0 && p.Value(m) < lowScore {
		steps = append(steps, fmt.Sprintf("Improve your %s subject fundamentals before specializing.", best.Category))
	}
	if profile.Stream != "" && !strings.EqualFold(profile.Stream, best.Category) {
		steps = append(steps, fmt.Sprintf("Discuss moving from the %s stream into %s with a career counselor.", profile.Stream, best.Category))
	}
	return steps
}

func streamMetric(category string) (Metric, bool) {
	switch {
	case strings.EqualFold(category, StreamScience):
		return MetricScience, true
	case strings.EqualFold(category, StreamCommerce):
		return MetricCommerce, true
	case strings.EqualFold(category, StreamArts):
		return MetricArts, true
	default:
		return 0, false
	}
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
