package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_DecodeList(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"Q1","question_text":"Capital of France?",
		"options":[{"id":"B","text":"Rome"},{"id":"A","text":"Paris"}],
		"correct_answer":"A"}`), &q))

	assert.Equal(t, ShapeList, q.Options.Shape)
	assert.Equal(t, []Option{{ID: "B", Text: "Rome"}, {ID: "A", Text: "Paris"}}, q.Options.Items)
	assert.Equal(t, "A", q.CorrectAnswer)
}

func TestOptions_DecodeMapKeepsDocumentOrder(t *testing.T) {
	var o Options
	require.NoError(t, json.Unmarshal([]byte(`{"C":"Never","A":"Always","B":"Sometimes"}`), &o))

	assert.Equal(t, ShapeMap, o.Shape)
	assert.Equal(t, []Option{{ID: "C", Text: "Never"}, {ID: "A", Text: "Always"}, {ID: "B", Text: "Sometimes"}}, o.Items)
}

func TestOptions_DecodeErrors(t *testing.T) {
	var o Options
	assert.Error(t, json.Unmarshal([]byte(`"A"`), &o))
	assert.Error(t, json.Unmarshal([]byte(`{"A":1}`), &o))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &o))

	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.Equal(t, 0, o.Len())
}

func TestOptions_EncodeKeepsShape(t *testing.T) {
	raw, err := json.Marshal(MapOptions(map[string]string{"B": "Rome", "A": "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, `{"A":"Paris","B":"Rome"}`, string(raw))

	raw, err = json.Marshal(ListOptions(Option{ID: "A", Text: "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"A","text":"Paris"}]`, string(raw))

	raw, err = json.Marshal(Options{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestOptions_RoundTrip(t *testing.T) {
	in := `{"Z":"last","A":"first"}`
	var o Options
	require.NoError(t, json.Unmarshal([]byte(in), &o))
	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestOptions_FindAndClone(t *testing.T) {
	o := ListOptions(Option{ID: "A", Text: "x"}, Option{ID: "B", Text: "y"})

	got, ok := o.Find("B")
	assert.True(t, ok)
	assert.Equal(t, "y", got.Text)
	_, ok = o.Find("C")
	assert.False(t, ok)

	c := o.Clone()
	c.Items[0].Text = "changed"
	assert.Equal(t, "x", o.Items[0].Text)
}

func TestQuestion_PaperHidesAnswer(t *testing.T) {
	q := Question{ID: "Q1", Text: "t", Options: ListOptions(Option{ID: "A", Text: "x"}), CorrectAnswer: "A"}
	raw, err := json.Marshal(q.Paper())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 0, Percent(5, -1))
	assert.Equal(t, 100, Percent(7, 7))
}

func TestCompletedTest_Normalized(t *testing.T) {
	ct := CompletedTest{Score: 3, TotalQuestions: 4, Percentage: 10, CompletedAt: time.Now()}
	assert.Equal(t, 75, ct.Normalized().Percentage)

	ct = CompletedTest{Percentage: 42}
	assert.Equal(t, 42, ct.Normalized().Percentage)
}

func bankFile() QuestionBankFile {
	return QuestionBankFile{
		TestID:   "Aptitude_Test",
		TestType: TestTypePsychometric,
		Questions: []Question{
			{ID: "Q1", Text: "a", Options: MapOptions(map[string]string{"A": "yes", "B": "no"}), CorrectAnswer: "A"},
			{Text: "b", Options: ListOptions(Option{ID: "A", Text: "up"}, Option{ID: "B", Text: "down"}), CorrectAnswer: "down"},
		},
	}
}

func TestQuestionBankFile_Prepare(t *testing.T) {
	b := bankFile()
	require.NoError(t, b.Prepare())

	assert.Equal(t, "Aptitude_Test", b.Title)
	assert.NotEmpty(t, b.Questions[1].ID)
	assert.Len(t, b.Questions[1].ID, 36)
	assert.Equal(t, TestMeta{ID: "Aptitude_Test", Title: "Aptitude_Test", Type: TestTypePsychometric}, b.Meta())
}

func TestQuestionBankFile_PrepareRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*QuestionBankFile)
	}{
		{"bad id", func(b *QuestionBankFile) { b.TestID = "bad id" }},
		{"bad type", func(b *QuestionBankFile) { b.TestType = "quiz" }},
		{"empty", func(b *QuestionBankFile) { b.Questions = nil }},
		{"duplicate", func(b *QuestionBankFile) { b.Questions[1].ID = "Q1" }},
		{"one option", func(b *QuestionBankFile) { b.Questions[0].Options = ListOptions(Option{ID: "A", Text: "x"}) }},
		{"unknown answer", func(b *QuestionBankFile) { b.Questions[0].CorrectAnswer = "Z" }},
		{"negative cap", func(b *QuestionBankFile) { b.MaxQuestions = -1 }},
		{"cap too large", func(b *QuestionBankFile) { b.MaxQuestions = 501 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := bankFile()
			tc.mutate(&b)
			assert.Error(t, b.Prepare())
		})
	}
}

func TestUpdateProfileRequest_Profile(t *testing.T) {
	req := UpdateProfileRequest{EducationType: EducationCollege, Course: "B.Tech"}
	assert.Equal(t, StudentProfile{EducationType: EducationCollege, Course: "B.Tech"}, req.Profile())
}
