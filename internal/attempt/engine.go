package attempt

import (
	"errors"
	"sync"
	"time"

	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// ErrAlreadySubmitted is returned by Submit after the first successful
// call. Callers treat it as a silent no-op: it exists so the timer firing
// after a manual submit (or the reverse) can never produce two results.
var ErrAlreadySubmitted = errors.New("attempt already submitted")

// Engine owns all mutable state of one exam attempt. It is shared between
// the connection's reader goroutine and the countdown goroutine, so every
// operation takes the mutex; there is no other concurrent owner.
type Engine struct {
	mu sync.Mutex

	exam     *model.Exam
	sections []Section

	sheet    *Sheet
	nav      *Navigator
	deadline Deadline
	guard    *Guard
	clock    func() time.Time

	submitted bool
}

// NewEngine assembles the attempt state machine from loaded exam data and
// the fixed deadline. A nil clock means time.Now. The integrity guard is
// armed immediately (exam start is fullscreen entry).
func NewEngine(exam *model.Exam, questions []model.Question, deadline Deadline, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}

	sections := BuildSections(questions)
	guard := NewGuard(clock)
	guard.Start()

	return &Engine{
		exam:     exam,
		sections: sections,
		sheet:    NewSheet(),
		nav:      NewNavigator(sections),
		deadline: deadline,
		guard:    guard,
		clock:    clock,
	}
}

// Sections returns the partitioned question set.
func (e *Engine) Sections() []Section {
	return e.sections
}

// Deadline returns the attempt's fixed deadline.
func (e *Engine) Deadline() Deadline {
	return e.deadline
}

// Remaining returns the time left, recomputed from the deadline.
func (e *Engine) Remaining() time.Duration {
	return e.deadline.Remaining(e.clock())
}

// Visit moves the cursor to (section, slide), as direct palette navigation
// does, downgrading a not-visited slide to not-answered before it is shown.
func (e *Engine) Visit(section, slide int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.nav.Goto(section, slide); err != nil {
		return err
	}
	e.sheet.Visit(e.nav.SectionName(), slide)
	return nil
}

// Select stores value as the answer of the question under the cursor,
// replacing any prior selection, and marks the slide answered.
func (e *Engine) Select(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.nav.Current()
	if err != nil {
		return err
	}
	_, slide := e.nav.Pos()
	e.sheet.Select(e.nav.SectionName(), slide, q.ID.String(), value)
	return nil
}

// ClearResponse removes the current question's answer and forces its slide
// to not-answered.
func (e *Engine) ClearResponse() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.nav.Current()
	if err != nil {
		return err
	}
	_, slide := e.nav.Pos()
	e.sheet.Clear(e.nav.SectionName(), slide, q.ID.String())
	return nil
}

// MarkForReview flags the current slide for review, preserving its answer
// if one exists.
func (e *Engine) MarkForReview() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.nav.Current()
	if err != nil {
		return err
	}
	_, slide := e.nav.Pos()
	e.sheet.MarkForReview(e.nav.SectionName(), slide, q.ID.String())
	return nil
}

// Next advances to the next slide (crossing into the next section when the
// current one is exhausted) and opens it. At the end of the last section it
// is a no-op and returns false. Backs both "Save & Next" and "Mark for
// Review & Next".
func (e *Engine) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.nav.Next() {
		return false
	}
	_, slide := e.nav.Pos()
	e.sheet.Visit(e.nav.SectionName(), slide)
	return true
}

// Pos returns the cursor's (section index, slide index).
func (e *Engine) Pos() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nav.Pos()
}

// Cursor describes the slide under the cursor with everything the
// transport needs to mirror it: section name, indexes, question ID and
// the slide's current status.
func (e *Engine) Cursor() (section string, sectionIdx, slide int, questionID string, status Status, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.nav.Current()
	if err != nil {
		return "", 0, 0, "", StatusNotVisited, err
	}
	sectionIdx, slide = e.nav.Pos()
	section = e.nav.SectionName()
	return section, sectionIdx, slide, q.ID.String(), e.sheet.Status(section, slide), nil
}

// StatusOf returns the palette status of an arbitrary slide.
func (e *Engine) StatusOf(section string, slide int) Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheet.Status(section, slide)
}

// AnswerOf returns the stored answer for a question.
func (e *Engine) AnswerOf(section, questionID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheet.Answer(section, questionID)
}

// FlatAnswers exposes the answer sheet in autosave hash form.
func (e *Engine) FlatAnswers() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheet.FlatAnswers()
}

// FlatStatuses exposes the status sheet in autosave hash form.
func (e *Engine) FlatStatuses() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheet.FlatStatuses()
}

// Restore hydrates sheet state from autosaved flat maps after a reconnect.
func (e *Engine) Restore(flatAnswers, flatStatuses map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sheet.Restore(flatAnswers, flatStatuses)
}

// ReportIntegrity records an integrity event; the returned flag tells the
// client to show the fullscreen re-entry prompt.
func (e *Engine) ReportIntegrity(kind ViolationKind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guard.Report(kind)
}

// AcknowledgeIntegrity marks the re-entry prompt accepted.
func (e *Engine) AcknowledgeIntegrity() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.guard.Acknowledge()
}

// Violations returns the integrity events recorded so far.
func (e *Engine) Violations() []Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guard.Violations()
}

// Submitted reports whether the one-shot submit has fired.
func (e *Engine) Submitted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitted
}

// Submit scores the attempt and assembles the immutable result record.
// The first call wins whether it came from the user or the timer's
// zero-crossing; any later call returns ErrAlreadySubmitted without
// touching state. Persistence happens outside the engine so a failed
// write never loses the computed summary.
func (e *Engine) Submit(studentID int, auto bool) (*model.ExamResult, *Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.submitted {
		return nil, nil, ErrAlreadySubmitted
	}
	e.submitted = true
	e.guard.Stop()

	now := e.clock()
	durationSeconds := e.exam.DurationMinutes * 60
	summary := Score(e.sections, e.sheet, durationSeconds, e.deadline.Remaining(now))

	result := &model.ExamResult{
		ExamID:           e.exam.ID,
		StudentID:        studentID,
		Answers:          e.sheet.AnswerSnapshot(),
		Statuses:         e.sheet.StatusSnapshot(),
		Sections:         summary.Sections,
		TotalScore:       summary.TotalScore,
		TimeSpentSeconds: summary.TimeSpentSeconds,
		Attempted:        summary.Attempted,
		MarkedForReview:  summary.MarkedForReview,
		Completed:        true,
		AutoSubmitted:    auto,
		SubmittedAt:      now,
	}
	return result, &summary, nil
}

// Reopen clears the submitted flag so a failed persistence attempt can be
// retried. Restarts the integrity guard, since the attempt is live again.
func (e *Engine) Reopen() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitted = false
	e.guard.Start()
}
