package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
	ExamStatusArchived  ExamStatus = "ARCHIVED"
)

// Exam represents an exam entity. Immutable once published; the attempt
// engine only ever reads it.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	AuthorID        int        `json:"author_id"`
	DurationMinutes int        `json:"duration_minutes"`
	Sections        []string   `json:"sections"`
	TotalMarks      float64    `json:"total_marks"`
	AccessCode      string     `json:"access_code,omitempty"`
	Status          ExamStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=255"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalMarks      float64 `json:"total_marks" binding:"omitempty,min=0"`
	AccessCode      string  `json:"access_code" binding:"omitempty,min=4,max=20"`
}

// UpdateExamRequest is the payload for updating a draft exam.
type UpdateExamRequest struct {
	Title           string   `json:"title" binding:"omitempty,min=3,max=255"`
	DurationMinutes int      `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	TotalMarks      *float64 `json:"total_marks" binding:"omitempty,min=0"`
	AccessCode      string   `json:"access_code" binding:"omitempty,min=4,max=20"`
}

// SectionPayload is one named section of the student-facing paper.
type SectionPayload struct {
	Name      string               `json:"name"`
	Questions []QuestionForStudent `json:"questions"`
}

// ExamPayload is the Redis-cached paper sent to students (no correct answers).
type ExamPayload struct {
	ExamID     uuid.UUID        `json:"exam_id"`
	Title      string           `json:"title"`
	Duration   int              `json:"duration_minutes"`
	TotalMarks float64          `json:"total_marks"`
	Sections   []SectionPayload `json:"sections"`
}
