package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestOptionLetter(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{3, "D"},
		{25, "Z"},
		{26, "#26"},
		{-1, "#-1"},
	}
	for _, tt := range tests {
		if got := OptionLetter(tt.i); got != tt.want {
			t.Errorf("OptionLetter(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

func TestQuestionContentBlocksSurviveEncoding(t *testing.T) {
	q := Question{
		ID:      uuid.New(),
		ExamID:  uuid.New(),
		Section: "phys",
		Type:    QuestionTypeSingleChoice,
		Contents: []ContentBlock{
			{Type: BlockText, Value: "A block slides down an incline."},
			{Type: BlockImage, Value: "https://cdn.example.com/incline.png", Width: 320, Height: 180},
			{Type: BlockLaTeX, Value: `Find $\mu$ if $a = g/2$.\\Take $g = 10$.`},
			{Type: BlockTable, Rows: [][]string{{"m (kg)", "a (m/s²)"}, {"2", "5"}}},
		},
		Options: []Option{
			{{Type: BlockLaTeX, Value: `$\mu = 0.5$`}},
			{{Type: BlockLaTeX, Value: `$\mu = 0.58$`}},
			{{Type: BlockText, Value: "cannot be determined"}},
		},
		CorrectAnswer:  "B",
		MarksCorrect:   4,
		MarksIncorrect: -1,
		OrderNum:       7,
	}

	raw, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	var back Question
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(back, q) {
		t.Fatalf("round trip changed the question:\n got %+v\nwant %+v", back, q)
	}
	// Block order is positional and must hold.
	if back.Contents[1].Type != BlockImage || back.Contents[1].Width != 320 {
		t.Fatalf("image block mangled: %+v", back.Contents[1])
	}
	if len(back.Contents[3].Rows) != 2 || back.Contents[3].Rows[1][1] != "5" {
		t.Fatalf("table block mangled: %+v", back.Contents[3])
	}
}

func TestQuestionForStudentHidesAnswer(t *testing.T) {
	s := QuestionForStudent{
		ID:       uuid.New(),
		Section:  "chem",
		Type:     QuestionTypeNumerical,
		Contents: []ContentBlock{{Type: BlockText, Value: "pH of 0.01 M HCl?"}},
	}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["correct_answer"]; ok {
		t.Fatal("student payload leaked correct_answer")
	}
}
