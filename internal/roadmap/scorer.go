package roadmap

import (
	"math"
	"sort"
)

// TopRecommendations is how many fields an analysis returns.
const TopRecommendations = 5

// FieldAlignment is a scored catalog entry.
type FieldAlignment struct {
	Field               string   `json:"field"`
	Category            string   `json:"category"`
	AlignmentPercentage int      `json:"alignment_percentage"`
	Strengths           []string `json:"strengths"`
	Considerations      []string `json:"considerations"`
	Description         string   `json:"description"`
	CareerPaths         []string `json:"career_paths"`
	EducationPath       string   `json:"education_path"`
	Skills              []string `json:"skills"`
	Requirements        []string `json:"requirements"`
	Color               string   `json:"color"`

	weights Weights
}

// ScoreField evaluates one definition. Contributions are summed first and
// the total is clamped to [0, 100] once.
func ScoreField(def CareerFieldDefinition, p Profile) FieldAlignment {
	total := def.Weights.Linear(p)

	strengths := []string{}
	considerations := []string{}
	for _, r := range def.Rules {
		if r.When == nil || !r.When(p) {
			continue
		}
		total += r.Points
		if r.Points >= 0 {
			strengths = append(strengths, r.Reason)
		} else {
			considerations = append(considerations, r.Reason)
		}
	}

	return FieldAlignment{
		Field:               def.Field,
		Category:            def.Category,
		AlignmentPercentage: clampPercent(total),
		Strengths:           strengths,
		Considerations:      considerations,
		Description:         def.Description,
		CareerPaths:         def.CareerPaths,
		EducationPath:       def.EducationPath,
		Skills:              def.Skills,
		Requirements:        def.Requirements,
		Color:               def.Color,
		weights:             def.Weights,
	}
}

func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round(v))
}

// Rank scores every definition and returns at most limit results, highest
// first. Equal scores keep catalog order.
func Rank(catalog []CareerFieldDefinition, p Profile, limit int) []FieldAlignment {
	scored := make([]FieldAlignment, len(catalog))
	for i, def := range catalog {
		scored[i] = ScoreField(def, p)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].AlignmentPercentage > scored[j].AlignmentPercentage
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
