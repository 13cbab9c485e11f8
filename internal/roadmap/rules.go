package roadmap

import (
	"strings"
)

// Metric names one numeric input of the scorer.
type Metric int

const (
	MetricAptitude Metric = iota
	MetricEmotional
	MetricPersonality
	MetricScience
	MetricCommerce
	MetricArts
)

func (m Metric) String() string {
	switch m {
	case MetricAptitude:
		return "aptitude"
	case MetricEmotional:
		return "emotional intelligence"
	case MetricPersonality:
		return "personality"
	case MetricScience:
		return "science"
	case MetricCommerce:
		return "commerce"
	case MetricArts:
		return "arts"
	default:
		return "unknown"
	}
}

// Profile is everything the scorer looks at.
type Profile struct {
	Psychometric PsychometricSummary
	Academic     AcademicStrengths
}

// Value returns the 0–100 value of m.
func (p Profile) Value(m Metric) float64 {
	switch m {
	case MetricAptitude:
		return float64(p.Psychometric.Aptitude)
	case MetricEmotional:
		return float64(p.Psychometric.EmotionalIntelligence)
	case MetricPersonality:
		return float64(p.Psychometric.PersonalityScore)
	case MetricScience:
		return float64(p.Academic.Science)
	case MetricCommerce:
		return float64(p.Academic.Commerce)
	case MetricArts:
		return float64(p.Academic.Arts)
	default:
		return 0
	}
}

// Weights is the linear part of a field's formula.
type Weights struct {
	Aptitude    float64
	Emotional   float64
	Personality float64
	Science     float64
	Commerce    float64
	Arts        float64
}

// Of returns the weight of m.
func (w Weights) Of(m Metric) float64 {
	switch m {
	case MetricAptitude:
		return w.Aptitude
	case MetricEmotional:
		return w.Emotional
	case MetricPersonality:
		return w.Personality
	case MetricScience:
		return w.Science
	case MetricCommerce:
		return w.Commerce
	case MetricArts:
		return w.Arts
	default:
		return 0
	}
}

var allMetrics = []Metric{MetricAptitude, MetricEmotional, MetricPersonality, MetricScience, MetricCommerce, MetricArts}

// Linear evaluates the weighted sum.
func (w Weights) Linear(p Profile) float64 {
	var total float64
	for _, m := range allMetrics {
		total += w.Of(m) * p.Value(m)
	}
	return total
}

// Condition decides whether a rule fires.
type Condition func(Profile) bool

// Rule adds Points to the running total when its condition holds. Reason is
// reported back as rationale.
type Rule struct {
	Points float64
	Reason string
	When   Condition
}

// Above holds when m is strictly greater than threshold.
func Above(m Metric, threshold float64) Condition {
	return func(p Profile) bool { return p.Value(m) > threshold }
}

// Below holds when m is strictly less than threshold.
func Below(m Metric, threshold float64) Condition {
	return func(p Profile) bool { return p.Value(m) < threshold }
}

// HasInterest holds when one of the derived interests equals label.
func HasInterest(label string) Condition {
	return func(p Profile) bool {
		for _, in := range p.Psychometric.Interests {
			if strings.EqualFold(in, label) {
				return true
			}
		}
		return false
	}
}

// PersonalityHas holds when the personality label contains keyword.
func PersonalityHas(keyword string) Condition {
	return func(p Profile) bool {
		return containsFold(p.Psychometric.Personality, keyword)
	}
}

// LearningStyleIs holds when the learning style equals style.
func LearningStyleIs(style string) Condition {
	return func(p Profile) bool {
		return p.Psychometric.LearningStyle != "" && strings.EqualFold(p.Psychometric.LearningStyle, style)
	}
}

func containsFold(s, sub string) bool {
	if s == "" || sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
