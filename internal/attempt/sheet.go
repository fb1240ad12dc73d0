package attempt

import (
	"strconv"
	"strings"

	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// FieldSep joins (section, question id) and (section, slide) into flat hash
// fields for autosave. Section names must not contain it.
const FieldSep = "|"

// JoinField builds a flat autosave hash field from a section and a sub key.
func JoinField(section, sub string) string {
	return section + FieldSep + sub
}

// SplitField is the inverse of JoinField. ok is false if the separator is
// missing.
func SplitField(field string) (section, sub string, ok bool) {
	i := strings.Index(field, FieldSep)
	if i < 0 {
		return "", "", false
	}
	return field[:i], field[i+1:], true
}

// Sheet owns the answer store and the status tracker of one attempt.
// Answers are keyed by (section, question id), statuses by (section, slide
// index); both use explicit keyed containers so the state domain stays
// closed. At most one answer exists per question at any time.
type Sheet struct {
	answers  map[string]map[string]string
	statuses map[string]map[int]Status
}

// NewSheet returns an empty Sheet: every slide not visited, no answers.
func NewSheet() *Sheet {
	return &Sheet{
		answers:  make(map[string]map[string]string),
		statuses: make(map[string]map[int]Status),
	}
}

// Visit records that a slide has been opened. A not-visited slide becomes
// not-answered; any other status is left untouched.
func (s *Sheet) Visit(section string, slide int) {
	if s.Status(section, slide) == StatusNotVisited {
		s.setStatus(section, slide, StatusNotAnswered)
	}
}

// Select stores the single chosen value for a question, overwriting any
// prior value, and marks the slide answered.
func (s *Sheet) Select(section string, slide int, questionID, value string) {
	sec, ok := s.answers[section]
	if !ok {
		sec = make(map[string]string)
		s.answers[section] = sec
	}
	sec[questionID] = value
	s.setStatus(section, slide, StatusAnswered)
}

// Clear removes the stored answer for a question and forces the slide to
// not-answered. An emptied section is removed entirely.
func (s *Sheet) Clear(section string, slide int, questionID string) {
	if sec, ok := s.answers[section]; ok {
		delete(sec, questionID)
		if len(sec) == 0 {
			delete(s.answers, section)
		}
	}
	s.setStatus(section, slide, StatusNotAnswered)
}

// MarkForReview flags the slide for review: marked-for-review when no
// answer is recorded for the question, answered-and-marked otherwise.
func (s *Sheet) MarkForReview(section string, slide int, questionID string) {
	if _, ok := s.Answer(section, questionID); ok {
		s.setStatus(section, slide, StatusAnsweredMarked)
	} else {
		s.setStatus(section, slide, StatusMarkedForReview)
	}
}

// Answer returns the selected value for a question; ok is false when no
// answer has been given.
func (s *Sheet) Answer(section, questionID string) (string, bool) {
	sec, ok := s.answers[section]
	if !ok {
		return "", false
	}
	v, ok := sec[questionID]
	return v, ok
}

// Status returns the slide's status, StatusNotVisited when no entry exists.
func (s *Sheet) Status(section string, slide int) Status {
	if sec, ok := s.statuses[section]; ok {
		if st, ok := sec[slide]; ok {
			return st
		}
	}
	return StatusNotVisited
}

func (s *Sheet) setStatus(section string, slide int, st Status) {
	sec, ok := s.statuses[section]
	if !ok {
		sec = make(map[int]Status)
		s.statuses[section] = sec
	}
	sec[slide] = st
}

// AttemptedCount counts slides whose status implies a selected answer
// (answered plus answered-and-marked-for-review).
func (s *Sheet) AttemptedCount() int {
	n := 0
	for _, sec := range s.statuses {
		for _, st := range sec {
			if st.HasAnswer() {
				n++
			}
		}
	}
	return n
}

// ReviewCount counts slides marked for review, with or without an answer.
func (s *Sheet) ReviewCount() int {
	n := 0
	for _, sec := range s.statuses {
		for _, st := range sec {
			if st.Reviewed() {
				n++
			}
		}
	}
	return n
}

// AnswerSnapshot serializes the answer store as plain nested objects for
// the immutable result record.
func (s *Sheet) AnswerSnapshot() model.AnswerSnapshot {
	out := make(model.AnswerSnapshot, len(s.answers))
	for section, sec := range s.answers {
		cp := make(map[string]string, len(sec))
		for qid, v := range sec {
			cp[qid] = v
		}
		out[section] = cp
	}
	return out
}

// StatusSnapshot serializes the status tracker as plain nested objects,
// slide indices as decimal strings.
func (s *Sheet) StatusSnapshot() model.StatusSnapshot {
	out := make(model.StatusSnapshot, len(s.statuses))
	for section, sec := range s.statuses {
		cp := make(map[string]string, len(sec))
		for slide, st := range sec {
			cp[strconv.Itoa(slide)] = string(st)
		}
		out[section] = cp
	}
	return out
}

// FlatAnswers returns the answer store as a flat "section|question_id" map,
// the shape autosaved to the Redis hash.
func (s *Sheet) FlatAnswers() map[string]string {
	out := make(map[string]string)
	for section, sec := range s.answers {
		for qid, v := range sec {
			out[JoinField(section, qid)] = v
		}
	}
	return out
}

// FlatStatuses returns the status tracker as a flat "section|slide" map.
func (s *Sheet) FlatStatuses() map[string]string {
	out := make(map[string]string)
	for section, sec := range s.statuses {
		for slide, st := range sec {
			out[JoinField(section, strconv.Itoa(slide))] = string(st)
		}
	}
	return out
}

// Restore hydrates the sheet from flat autosave maps, as read back from
// Redis after a reload or reconnect. Malformed fields are skipped.
func (s *Sheet) Restore(flatAnswers, flatStatuses map[string]string) {
	for field, v := range flatAnswers {
		section, qid, ok := SplitField(field)
		if !ok {
			continue
		}
		sec, exists := s.answers[section]
		if !exists {
			sec = make(map[string]string)
			s.answers[section] = sec
		}
		sec[qid] = v
	}
	for field, tag := range flatStatuses {
		section, slideStr, ok := SplitField(field)
		if !ok {
			continue
		}
		slide, err := strconv.Atoi(slideStr)
		if err != nil {
			continue
		}
		if st := ParseStatus(tag); st != StatusNotVisited {
			s.setStatus(section, slide, st)
		}
	}
}
