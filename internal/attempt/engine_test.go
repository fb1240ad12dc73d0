package attempt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sankalp-edu/examhall-backend/internal/model"
)

func testExam(durationMinutes int) *model.Exam {
	return &model.Exam{
		ID:              uuid.New(),
		Title:           "Mock JEE Paper 1",
		DurationMinutes: durationMinutes,
		Status:          model.ExamStatusPublished,
	}
}

func testEngine(t *testing.T, now time.Time) (*Engine, []model.Question) {
	t.Helper()
	qs := []model.Question{
		mcq("phys", "B", 4, -1),
		mcq("phys", "C", 4, -1),
		mcq("chem", "A", 4, -1),
		mcq("chem", "D", 4, -1),
	}
	exam := testExam(120)
	deadline := NewDeadline(now, 120*time.Minute)
	return NewEngine(exam, qs, deadline, func() time.Time { return now }), qs
}

func TestEngineNavigationBoundaries(t *testing.T) {
	e, _ := testEngine(t, time.Now())

	// Walk forward across the section boundary.
	moves := 0
	for e.Next() {
		moves++
	}
	if moves != 3 {
		t.Fatalf("moves = %d, want 3", moves)
	}
	sec, slide := e.Pos()
	if sec != 1 || slide != 1 {
		t.Fatalf("pos = (%d,%d), want (1,1)", sec, slide)
	}

	// Next at the last slide of the last section is a no-op, not an error.
	if e.Next() {
		t.Fatal("Next past the end moved the cursor")
	}
	if sec, slide = e.Pos(); sec != 1 || slide != 1 {
		t.Fatalf("pos after boundary no-op = (%d,%d), want (1,1)", sec, slide)
	}
}

func TestEnginePaletteVisitSetsNotAnswered(t *testing.T) {
	e, _ := testEngine(t, time.Now())

	if got := e.StatusOf("chem", 1); got != StatusNotVisited {
		t.Fatalf("status before visit = %s", got)
	}
	if err := e.Visit(1, 1); err != nil {
		t.Fatal(err)
	}
	// Transition happens on the click itself, before any answer.
	if got := e.StatusOf("chem", 1); got != StatusNotAnswered {
		t.Fatalf("status after palette click = %s, want %s", got, StatusNotAnswered)
	}
}

func TestEngineVisitOutOfRange(t *testing.T) {
	e, _ := testEngine(t, time.Now())
	if err := e.Visit(5, 0); err == nil {
		t.Fatal("expected error for out-of-range section")
	}
	if err := e.Visit(0, 99); err == nil {
		t.Fatal("expected error for out-of-range slide")
	}
}

func TestEngineSubmitScenario(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start
	qs := []model.Question{
		mcq("phys", "B", 4, -1),
		mcq("phys", "C", 4, -1),
		mcq("chem", "A", 4, -1),
		mcq("chem", "D", 4, -1),
	}
	exam := testExam(120)
	e := NewEngine(exam, qs, NewDeadline(start, 120*time.Minute), func() time.Time { return now })

	if err := e.Visit(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.Select("B"); err != nil { // correct
		t.Fatal(err)
	}
	e.Next()
	if err := e.Select("A"); err != nil { // wrong
		t.Fatal(err)
	}

	now = start.Add(90 * time.Minute)
	result, summary, err := e.Submit(42, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(result.Sections))
	}
	if s := result.Sections[0]; s.Positive != 4 || s.Negative != 1 || s.Total != 3 {
		t.Fatalf("phys score = %+v", s)
	}
	if s := result.Sections[1]; s.Total != 0 {
		t.Fatalf("chem score = %+v, want 0", s)
	}
	if result.TimeSpentSeconds != 90*60 {
		t.Fatalf("time spent = %d, want %d", result.TimeSpentSeconds, 90*60)
	}
	if summary.Attempted != 2 {
		t.Fatalf("attempted = %d, want 2", summary.Attempted)
	}
	if !result.Completed || result.AutoSubmitted {
		t.Fatalf("flags = completed=%v auto=%v", result.Completed, result.AutoSubmitted)
	}
	if result.StudentID != 42 || result.ExamID != exam.ID {
		t.Fatalf("identity pair = (%d,%s)", result.StudentID, result.ExamID)
	}
}

func TestEngineSubmitIsOneShot(t *testing.T) {
	// Manual first, timer second — and the reverse — must both yield
	// exactly one result.
	for _, firstAuto := range []bool{false, true} {
		e, _ := testEngine(t, time.Now())

		if _, _, err := e.Submit(1, firstAuto); err != nil {
			t.Fatalf("first submit (auto=%v): %v", firstAuto, err)
		}
		_, _, err := e.Submit(1, !firstAuto)
		if !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("second submit error = %v, want ErrAlreadySubmitted", err)
		}
		if !e.Submitted() {
			t.Fatal("Submitted() = false after submit")
		}
	}
}

func TestEngineReopenAllowsResubmit(t *testing.T) {
	e, _ := testEngine(t, time.Now())

	if err := e.Select("B"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	first, _, err := e.Submit(1, false)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	e.Reopen()
	if e.Submitted() {
		t.Fatal("Submitted() = true after Reopen")
	}

	second, _, err := e.Submit(1, false)
	if err != nil {
		t.Fatalf("resubmit after Reopen: %v", err)
	}
	if second.TotalScore != first.TotalScore {
		t.Fatalf("resubmit score = %g, want %g", second.TotalScore, first.TotalScore)
	}
}

func TestEngineClearResponse(t *testing.T) {
	e, qs := testEngine(t, time.Now())

	if err := e.Visit(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.Select("B"); err != nil {
		t.Fatal(err)
	}
	if err := e.ClearResponse(); err != nil {
		t.Fatal(err)
	}

	if _, ok := e.AnswerOf("phys", qs[0].ID.String()); ok {
		t.Fatal("answer survived clear")
	}
	if got := e.StatusOf("phys", 0); got != StatusNotAnswered {
		t.Fatalf("status = %s, want %s", got, StatusNotAnswered)
	}
}

func TestEngineMarkForReviewVariants(t *testing.T) {
	e, _ := testEngine(t, time.Now())

	if err := e.Visit(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.MarkForReview(); err != nil {
		t.Fatal(err)
	}
	if got := e.StatusOf("phys", 0); got != StatusMarkedForReview {
		t.Fatalf("status = %s, want %s", got, StatusMarkedForReview)
	}

	if err := e.Select("B"); err != nil {
		t.Fatal(err)
	}
	if err := e.MarkForReview(); err != nil {
		t.Fatal(err)
	}
	if got := e.StatusOf("phys", 0); got != StatusAnsweredMarked {
		t.Fatalf("status = %s, want %s", got, StatusAnsweredMarked)
	}
}

func TestEngineRestoreAfterReconnect(t *testing.T) {
	start := time.Now()
	e1, qs := testEngine(t, start)

	if err := e1.Visit(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e1.Select("B"); err != nil {
		t.Fatal(err)
	}
	e1.Next()
	if err := e1.MarkForReview(); err != nil {
		t.Fatal(err)
	}

	// New engine (fresh connection), hydrated from the autosave maps.
	exam := testExam(120)
	e2 := NewEngine(exam, qs, e1.Deadline(), func() time.Time { return start })
	e2.Restore(e1.FlatAnswers(), e1.FlatStatuses())

	if v, ok := e2.AnswerOf("phys", qs[0].ID.String()); !ok || v != "B" {
		t.Fatalf("restored answer = %q ok=%v", v, ok)
	}
	if got := e2.StatusOf("phys", 1); got != StatusMarkedForReview {
		t.Fatalf("restored status = %s, want %s", got, StatusMarkedForReview)
	}
}

func TestEngineIntegrityFlow(t *testing.T) {
	e, _ := testEngine(t, time.Now())

	if prompt := e.ReportIntegrity(ViolationContextMenu); prompt {
		t.Fatal("context menu should not demand a re-entry prompt")
	}
	if prompt := e.ReportIntegrity(ViolationFullscreenExit); !prompt {
		t.Fatal("fullscreen exit must demand a re-entry prompt")
	}
	e.AcknowledgeIntegrity()

	if got := len(e.Violations()); got != 2 {
		t.Fatalf("violations = %d, want 2", got)
	}

	// After submit the guard is stopped: further events are dropped.
	if _, _, err := e.Submit(1, true); err != nil {
		t.Fatal(err)
	}
	if prompt := e.ReportIntegrity(ViolationFullscreenExit); prompt {
		t.Fatal("stopped guard still prompting")
	}
	if got := len(e.Violations()); got != 2 {
		t.Fatalf("violations after stop = %d, want 2", got)
	}
}
