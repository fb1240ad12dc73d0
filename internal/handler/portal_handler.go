package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sankalp-edu/examhall-backend/internal/attempt"
	"github.com/sankalp-edu/examhall-backend/internal/middleware"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/response"
	"github.com/sankalp-edu/examhall-backend/internal/service"
	"github.com/sankalp-edu/examhall-backend/internal/validator"
)

// PortalHandler handles the student-facing exam portal.
type PortalHandler struct {
	examService    *service.ExamService
	attemptService *service.AttemptService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(examService *service.ExamService, attemptService *service.AttemptService) *PortalHandler {
	return &PortalHandler{examService: examService, attemptService: attemptService}
}

// GetLobby godoc
// GET /api/v1/portal/exams
// Lists the student's exam sessions with their completion state.
func (h *PortalHandler) GetLobby(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessions, err := h.attemptService.ListSessions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	type lobbyEntry struct {
		model.ExamSession
		Title string `json:"title"`
	}

	entries := make([]lobbyEntry, 0, len(sessions))
	for _, sess := range sessions {
		entry := lobbyEntry{ExamSession: sess}
		if exam, err := h.examService.GetByID(c.Request.Context(), sess.ExamID); err == nil {
			entry.Title = exam.Title
		}
		entries = append(entries, entry)
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": entries})
}

// GetExam godoc
// GET /api/v1/portal/exams/:examId
// Published exam metadata only; the paper lives behind /paper.
func (h *PortalHandler) GetExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
		return
	}
	if exam.Status != model.ExamStatusPublished {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	// The access code is an entry secret, not metadata.
	exam.AccessCode = ""
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// JoinExam godoc
// POST /api/v1/portal/exams/join
// Exchanges an access code for a session. Idempotent: re-joining resumes
// the existing session with its original deadline.
func (h *PortalHandler) JoinExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.JoinExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, session, err := h.attemptService.JoinExam(c.Request.Context(), req.AccessCode, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAccessCode) {
			response.Fail(c, http.StatusNotFound, response.ErrInvalidAccessCode)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	remaining := attempt.Deadline{At: session.Deadline}.Remaining(time.Now())

	response.Success(c, http.StatusOK, gin.H{
		"exam": gin.H{
			"id":               exam.ID,
			"title":            exam.Title,
			"duration_minutes": exam.DurationMinutes,
			"sections":         exam.Sections,
			"total_marks":      exam.TotalMarks,
		},
		"session":           session,
		"remaining_seconds": int(remaining.Seconds()),
		"remaining_display": attempt.FormatRemaining(remaining),
	})
}

// GetPaper godoc
// GET /api/v1/portal/exams/:examId/paper
// Returns the cached sectioned paper (no correct answers). Requires a
// joined session.
func (h *PortalHandler) GetPaper(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Deadline lookup doubles as the session check.
	if _, err := h.attemptService.GetDeadline(c.Request.Context(), examID, claims.UserID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusForbidden, response.ErrExamNotAvailable)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
		return
	}

	payload, err := h.examService.GetExamPayload(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotPublished) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotPublished)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// GetState godoc
// GET /api/v1/portal/exams/:examId/state
// Rebuilds the attempt view after a reload: autosaved answers, palette
// statuses and the remaining time recomputed from the fixed deadline.
func (h *PortalHandler) GetState(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.GetExamState(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// GetResult godoc
// GET /api/v1/portal/exams/:examId/result
// Returns the student's graded result once the worker has persisted it.
func (h *PortalHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.GetResult(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrResultNotReady) {
			response.Fail(c, http.StatusNotFound, response.ErrResultNotReady)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}
