package attempt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sankalp-edu/examhall-backend/internal/model"
)

func mcq(section, correct string, marksCorrect, marksIncorrect float64) model.Question {
	return model.Question{
		ID:             uuid.New(),
		Section:        section,
		Type:           model.QuestionTypeSingleChoice,
		CorrectAnswer:  correct,
		MarksCorrect:   marksCorrect,
		MarksIncorrect: marksIncorrect,
	}
}

func TestAnswerMatches(t *testing.T) {
	tests := []struct {
		selected, correct string
		want              bool
	}{
		{"B", "B", true},
		{"b", "B", true},
		{" b ", "B", true},
		{"A", "B", false},
		{"3.14", " 3.14", true},
		{"", "B", false},
	}
	for _, tc := range tests {
		if got := AnswerMatches(tc.selected, tc.correct); got != tc.want {
			t.Fatalf("AnswerMatches(%q, %q) = %v, want %v", tc.selected, tc.correct, got, tc.want)
		}
	}
}

func TestScoreNegativeMarkingNormalization(t *testing.T) {
	// Same wrong answer must yield the same deduction whether the authored
	// incorrect-marks value was negative or (incorrectly) positive.
	for _, authored := range []float64{-1, 1} {
		q := mcq("maths", "C", 4, authored)
		sections := BuildSections([]model.Question{q})

		sheet := NewSheet()
		sheet.Select("maths", 0, q.ID.String(), "A")

		sum := Score(sections, sheet, 3600, time.Hour)
		sec := sum.Sections[0]
		if sec.Negative != 1 {
			t.Fatalf("authored=%v: negative = %v, want 1", authored, sec.Negative)
		}
		if sec.Total != -1 {
			t.Fatalf("authored=%v: total = %v, want -1", authored, sec.Total)
		}
	}
}

func TestScoreTwoSectionScenario(t *testing.T) {
	q1 := mcq("phys", "B", 4, -1)
	q2 := mcq("phys", "C", 4, -1)
	q3 := mcq("chem", "A", 4, -1)
	q4 := mcq("chem", "D", 4, -1)
	sections := BuildSections([]model.Question{q1, q2, q3, q4})

	sheet := NewSheet()
	sheet.Select("phys", 0, q1.ID.String(), "B") // correct
	sheet.Select("phys", 1, q2.ID.String(), "A") // wrong

	sum := Score(sections, sheet, 7200, 30*time.Minute)

	if len(sum.Sections) != 2 {
		t.Fatalf("sections scored = %d, want 2 (untouched section still reported)", len(sum.Sections))
	}
	phys, chem := sum.Sections[0], sum.Sections[1]
	if phys.Positive != 4 || phys.Negative != 1 || phys.Total != 3 {
		t.Fatalf("phys = %+v, want positive=4 negative=1 total=3", phys)
	}
	if chem.Positive != 0 || chem.Negative != 0 || chem.Total != 0 {
		t.Fatalf("chem = %+v, want all zero", chem)
	}
	if sum.TotalScore != 3 {
		t.Fatalf("grand total = %v, want 3", sum.TotalScore)
	}
	if sum.Attempted != 2 {
		t.Fatalf("attempted = %d, want 2 (both phys slides carry answers)", sum.Attempted)
	}
	if sum.TimeSpentSeconds != 7200-1800 {
		t.Fatalf("time spent = %d, want %d", sum.TimeSpentSeconds, 7200-1800)
	}
}

func TestScoreReviewCounting(t *testing.T) {
	q1 := mcq("phys", "B", 4, -1)
	q2 := mcq("phys", "C", 4, -1)
	sections := BuildSections([]model.Question{q1, q2})

	sheet := NewSheet()
	sheet.MarkForReview("phys", 0, q1.ID.String()) // no answer → marked_for_review
	sheet.Select("phys", 1, q2.ID.String(), "C")
	sheet.MarkForReview("phys", 1, q2.ID.String()) // answered_marked

	sum := Score(sections, sheet, 3600, time.Hour)
	if sum.MarkedForReview != 2 {
		t.Fatalf("marked for review = %d, want 2", sum.MarkedForReview)
	}
	// The review-marked answer still scores.
	if sum.Sections[0].Positive != 4 {
		t.Fatalf("positive = %v, want 4", sum.Sections[0].Positive)
	}
}

func TestScoreTimeSpentClamped(t *testing.T) {
	sections := BuildSections([]model.Question{mcq("phys", "B", 4, -1)})
	sheet := NewSheet()

	// Remaining larger than duration (clock skew) must not go negative.
	sum := Score(sections, sheet, 600, time.Hour)
	if sum.TimeSpentSeconds != 0 {
		t.Fatalf("time spent = %d, want 0", sum.TimeSpentSeconds)
	}
}

func TestBuildSectionsFirstSeenOrder(t *testing.T) {
	qs := []model.Question{
		mcq("phys", "A", 4, -1),
		mcq("chem", "B", 4, -1),
		mcq("phys", "C", 4, -1),
		mcq("maths", "D", 4, -1),
	}
	sections := BuildSections(qs)

	var names []string
	for _, s := range sections {
		names = append(names, s.Name)
	}
	want := []string{"phys", "chem", "maths"}
	if len(names) != len(want) {
		t.Fatalf("sections = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sections = %v, want %v", names, want)
		}
	}
	if len(sections[0].Questions) != 2 {
		t.Fatalf("phys questions = %d, want 2", len(sections[0].Questions))
	}
	if QuestionCount(sections) != 4 {
		t.Fatalf("question count = %d, want 4", QuestionCount(sections))
	}
}
