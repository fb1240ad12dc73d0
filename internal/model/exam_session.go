package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates exam attempt states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// ExamSession represents a student's exam attempt. Deadline is the absolute
// wall-clock submit deadline fixed at join time; remaining time is always
// recomputed from it, never counted down.
type ExamSession struct {
	ID         uuid.UUID     `json:"id"`
	ExamID     uuid.UUID     `json:"exam_id"`
	StudentID  int           `json:"student_id"`
	StartedAt  time.Time     `json:"started_at"`
	Deadline   time.Time     `json:"deadline"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Status     SessionStatus `json:"status"`
}

// JoinExamRequest is the payload for a student joining an exam.
type JoinExamRequest struct {
	AccessCode string `json:"access_code" binding:"required,min=4,max=20"`
}

// ExamSessionState is returned on page reload so the client can rebuild
// the exam view: autosaved answers, statuses and the remaining time
// recomputed from the persisted deadline.
type ExamSessionState struct {
	ExamID           uuid.UUID         `json:"exam_id"`
	StudentID        int               `json:"student_id"`
	AutosavedAnswers map[string]string `json:"autosaved_answers"`
	Statuses         map[string]string `json:"statuses"`
	RemainingSeconds float64           `json:"remaining_seconds"`
	RemainingDisplay string            `json:"remaining_display"`
}
