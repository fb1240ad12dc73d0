package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/response"
	"github.com/sankalp-edu/examhall-backend/internal/service"
	"github.com/sankalp-edu/examhall-backend/internal/validator"
)

// QuestionHandler handles admin question authoring endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// List godoc
// GET /api/v1/admin/exams/:examId/questions
// Authoring view: includes correct answers.
func (h *QuestionHandler) List(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	questions, err := h.questionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Add godoc
// POST /api/v1/admin/exams/:examId/questions
func (h *QuestionHandler) Add(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := questionFromRequest(&req)
	if err := h.questionService.Add(c.Request.Context(), authorScope(c), examID, question); err != nil {
		failQuestionWrite(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ReplaceAll godoc
// PUT /api/v1/admin/exams/:examId/questions
// Bulk replaces the paper of a draft exam in one transaction.
func (h *QuestionHandler) ReplaceAll(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions := make([]model.Question, len(req.Questions))
	for i := range req.Questions {
		questions[i] = *questionFromRequest(&req.Questions[i])
	}

	if err := h.questionService.ReplaceAll(c.Request.Context(), authorScope(c), examID, questions); err != nil {
		failQuestionWrite(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(questions)})
}

func questionFromRequest(req *model.AddQuestionRequest) *model.Question {
	return &model.Question{
		Section:        req.Section,
		Type:           model.QuestionType(req.Type),
		Contents:       req.Contents,
		Options:        req.Options,
		CorrectAnswer:  req.CorrectAnswer,
		Topic:          req.Topic,
		Difficulty:     req.Difficulty,
		MarksCorrect:   req.MarksCorrect,
		MarksIncorrect: req.MarksIncorrect,
		OrderNum:       req.OrderNum,
	}
}

func failQuestionWrite(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotExamAuthor):
		response.Fail(c, http.StatusForbidden, response.ErrNotExamAuthor)
	case errors.Is(err, service.ErrExamNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrExamNotDraft)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
