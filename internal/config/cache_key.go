package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// AttemptDeadlineKey returns the cache key holding the absolute submit
// deadline (unix seconds) of a student's exam attempt. Persisting the
// deadline, not the remaining time, is what makes reloads safe.
func (r *CacheKeyStruct) AttemptDeadlineKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:deadline", studentID, examID)
}

// AttemptAnswersKey returns the cache key for a student's autosaved answers.
// Hash fields are "section|question_id".
func (r *CacheKeyStruct) AttemptAnswersKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:answers", studentID, examID)
}

// AttemptStatusesKey returns the cache key for a student's question statuses.
// Hash fields are "section|slide".
func (r *CacheKeyStruct) AttemptStatusesKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:statuses", studentID, examID)
}

// AttemptSubmittedKey returns the cache key flagging an attempt as submitted.
func (r *CacheKeyStruct) AttemptSubmittedKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:submitted", studentID, examID)
}

// ExamPayloadKey returns the cache key for an exam's student-facing paper.
func (r *CacheKeyStruct) ExamPayloadKey(examID string) string {
	return fmt.Sprintf("exam:%s:payload", examID)
}

// ExamDurationKey returns the cache key for an exam's duration in minutes.
func (r *CacheKeyStruct) ExamDurationKey(examID string) string {
	return fmt.Sprintf("exam:%s:duration", examID)
}

// ExamAnswerKey returns the cache key for an exam's answer key hash.
func (r *CacheKeyStruct) ExamAnswerKey(examID string) string {
	return fmt.Sprintf("exam:%s:key", examID)
}

// ExamMarksKey returns the cache key for an exam's per-question marks hash.
func (r *CacheKeyStruct) ExamMarksKey(examID string) string {
	return fmt.Sprintf("exam:%s:marks", examID)
}

var CacheKey = NewCacheKeyStruct()
