// Package curriculum maps a student's education profile to the academic
// test ids that apply to them.
package curriculum

import (
	"strings"

	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/roadmap"
)

// Senior secondary subject tests per stream.
var streamTests = map[string][]string{
	roadmap.StreamScience:  {"Science_Physics", "Science_Chemistry", "Science_Mathematics", "Science_Biology"},
	roadmap.StreamCommerce: {"Commerce_Accountancy", "Commerce_BusinessStudies", "Commerce_Economics"},
	roadmap.StreamArts:     {"Arts_History", "Arts_PoliticalScience", "Arts_Geography"},
}

// Foundation tests for school students before stream selection.
var foundationTests = []string{
	"Science_Foundation_Mathematics",
	"Science_Foundation_GeneralScience",
	"Commerce_Foundation_Basics",
	"Arts_Foundation_SocialStudies",
	"Arts_Foundation_English",
}

// courseStreams maps a normalized course degree onto a stream.
var courseStreams = map[string]string{
	"btech":  roadmap.StreamScience,
	"be":     roadmap.StreamScience,
	"bsc":    roadmap.StreamScience,
	"bca":    roadmap.StreamScience,
	"mbbs":   roadmap.StreamScience,
	"bpharm": roadmap.StreamScience,
	"bcom":   roadmap.StreamCommerce,
	"bba":    roadmap.StreamCommerce,
	"ca":     roadmap.StreamCommerce,
	"ba":     roadmap.StreamArts,
	"llb":    roadmap.StreamArts,
	"bdes":   roadmap.StreamArts,
}

// AcademicTests returns the academic test ids for profile, or nil when the
// profile does not select any.
func AcademicTests(profile model.StudentProfile) []string {
	switch profile.EducationType {
	case model.EducationSchool:
		if isSeniorClass(profile.Class) {
			return StreamTests(profile.Stream)
		}
		if strings.TrimSpace(profile.Class) == "" {
			return nil
		}
		return append([]string(nil), foundationTests...)
	case model.EducationCollege:
		return StreamTests(CourseStream(profile.Course))
	default:
		return nil
	}
}

// StreamTests returns a copy of the subject tests for stream.
func StreamTests(stream string) []string {
	for _, name := range roadmap.Streams {
		if strings.EqualFold(name, strings.TrimSpace(stream)) {
			return append([]string(nil), streamTests[name]...)
		}
	}
	return nil
}

// CourseStream infers the stream of a college course from its first
// recognised degree word, "" when none is recognised.
func CourseStream(course string) string {
	words := strings.FieldsFunc(strings.ToLower(course), func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '(' || r == ')' || r == '-'
	})
	for _, w := range words {
		if stream, ok := courseStreams[strings.ReplaceAll(w, ".", "")]; ok {
			return stream
		}
	}
	return ""
}

func isSeniorClass(class string) bool {
	c := strings.ToLower(strings.TrimSpace(class))
	c = strings.TrimPrefix(c, "class ")
	c = strings.TrimSuffix(c, "th")
	return c == "11" || c == "12"
}
