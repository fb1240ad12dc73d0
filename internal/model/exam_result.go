package model

import (
	"time"

	"github.com/google/uuid"
)

// SectionScore holds computed marks for one section. Negative is always a
// non-negative magnitude regardless of the sign convention used in question
// metadata; Total = Positive - Negative.
type SectionScore struct {
	Section  string  `json:"section"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Total    float64 `json:"total"`
}

// AnswerSnapshot is the full answer sheet serialized as plain nested
// objects: section → question id → selected value.
type AnswerSnapshot map[string]map[string]string

// StatusSnapshot is the full status sheet serialized as plain nested
// objects: section → slide index (decimal string) → status tag.
type StatusSnapshot map[string]map[string]string

// ExamResult is the immutable record of a completed attempt. Exactly one
// row exists per (student, exam); it is never updated after creation.
type ExamResult struct {
	ID               uuid.UUID      `json:"id"`
	ExamID           uuid.UUID      `json:"exam_id"`
	StudentID        int            `json:"student_id"`
	Answers          AnswerSnapshot `json:"answers"`
	Statuses         StatusSnapshot `json:"statuses"`
	Sections         []SectionScore `json:"sections"`
	TotalScore       float64        `json:"total_score"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	Attempted        int            `json:"attempted"`
	MarkedForReview  int            `json:"marked_for_review"`
	Completed        bool           `json:"completed"`
	AutoSubmitted    bool           `json:"auto_submitted"`
	SubmittedAt      time.Time      `json:"submitted_at"`
}
