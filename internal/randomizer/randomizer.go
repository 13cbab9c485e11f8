package randomizer

import (
	"math/rand/v2"

	"github.com/stemsi/careerpath/internal/model"
)

// Session is one randomized paper for a (user, test) pair. It is rebuilt on
// every request and never stored.
type Session struct {
	UserID        string           `json:"-"`
	TestID        string           `json:"test_id"`
	Deterministic bool             `json:"deterministic"`
	Questions     []model.Question `json:"-"`
}

// NewSession randomizes questions for the user. Anonymous users get the
// non-deterministic fallback.
func NewSession(questions []model.Question, userID, testID string, maxQuestions int) Session {
	return Session{
		UserID:        userID,
		TestID:        testID,
		Deterministic: userID != "",
		Questions:     RandomizeExamForUser(questions, userID, testID, maxQuestions),
	}
}

// Papers returns the questions without correct answers.
func (s Session) Papers() []model.QuestionPaper {
	out := make([]model.QuestionPaper, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Paper()
	}
	return out
}

// AnswerKey maps question id to the correct option id of this paper.
func (s Session) AnswerKey() map[string]string {
	key := make(map[string]string, len(s.Questions))
	for _, q := range s.Questions {
		key[q.ID] = q.CorrectAnswer
	}
	return key
}

// Grade counts answers matching the paper's answer key. Answers for
// questions outside the paper, and questions without a key, never score.
func (s Session) Grade(answers map[string]string) (score, total int) {
	for _, q := range s.Questions {
		if a, ok := answers[q.ID]; ok && q.CorrectAnswer != "" && a == q.CorrectAnswer {
			score++
		}
	}
	return score, len(s.Questions)
}

// RandomizeExamForUser shuffles question order, caps the paper at
// maxQuestions (0 or less means no cap) and shuffles each question's options
// from the same stream, relabelling them A, B, C, ... The result depends only
// on the arguments.
func RandomizeExamForUser(questions []model.Question, userID, testID string, maxQuestions int) []model.Question {
	if len(questions) == 0 {
		return []model.Question{}
	}
	if userID == "" {
		return SimpleRandomizeQuestions(questions, maxQuestions)
	}

	g := ForExam(userID, testID)
	shuffled := truncate(Shuffle(g, questions), maxQuestions)

	out := make([]model.Question, len(shuffled))
	for i, q := range shuffled {
		out[i] = shuffleOptions(g, q)
	}
	return out
}

// SimpleRandomizeQuestions shuffles question order with a non-seeded source.
// Options are left as they are. Two calls give different papers, so this
// must not back anything that needs to be re-derived later.
func SimpleRandomizeQuestions(questions []model.Question, maxQuestions int) []model.Question {
	if len(questions) == 0 {
		return []model.Question{}
	}

	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.Options = q.Options.Clone()
		out[i] = q
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return truncate(out, maxQuestions)
}

func truncate(qs []model.Question, maxQuestions int) []model.Question {
	if maxQuestions > 0 && maxQuestions < len(qs) {
		return qs[:maxQuestions]
	}
	return qs
}

func shuffleOptions(g *Generator, q model.Question) model.Question {
	if q.Options.Len() == 0 {
		q.Options = q.Options.Clone()
		return q
	}

	correct := correctIndex(q)
	order := make([]int, q.Options.Len())
	for i := range order {
		order[i] = i
	}
	order = Shuffle(g, order)

	// An answer naming no option is cleared so it cannot alias a new label.
	items := make([]model.Option, len(order))
	remapped := ""
	for pos, src := range order {
		label := Label(pos)
		items[pos] = model.Option{ID: label, Text: q.Options.Items[src].Text}
		if src == correct {
			remapped = label
		}
	}

	q.Options = model.Options{Shape: q.Options.Shape, Items: items}
	q.CorrectAnswer = remapped
	return q
}

// correctIndex locates the correct option by id, then by text. It returns -1
// when the question's answer refers to neither.
func correctIndex(q model.Question) int {
	for i, it := range q.Options.Items {
		if it.ID == q.CorrectAnswer {
			return i
		}
	}
	for i, it := range q.Options.Items {
		if it.Text == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Label returns the canonical option id for a zero-based position:
// A..Z, then AA, AB, ...
func Label(pos int) string {
	var buf []byte
	for n := pos; ; n = n/26 - 1 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		if n < 26 {
			break
		}
	}
	return string(buf)
}
