package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
)

// QuestionService handles question authoring logic. Questions are only
// editable while the exam is a DRAFT; published papers change through
// ReplaceAll plus an explicit cache refresh.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	examRepo     *repository.ExamRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, examRepo *repository.ExamRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, examRepo: examRepo}
}

// ListByExam retrieves all questions for an exam, authoring view.
func (s *QuestionService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListByExam(ctx, examID)
}

// Add appends a question to a draft exam.
func (s *QuestionService) Add(ctx context.Context, authorID int, examID uuid.UUID, question *model.Question) error {
	if err := s.checkDraft(ctx, authorID, examID); err != nil {
		return err
	}
	question.ExamID = examID
	return s.questionRepo.Create(ctx, question)
}

// ReplaceAll swaps the full question list of a draft exam.
func (s *QuestionService) ReplaceAll(ctx context.Context, authorID int, examID uuid.UUID, questions []model.Question) error {
	if err := s.checkDraft(ctx, authorID, examID); err != nil {
		return err
	}
	for i := range questions {
		questions[i].ExamID = examID
	}
	return s.questionRepo.ReplaceAll(ctx, examID, questions)
}

func (s *QuestionService) checkDraft(ctx context.Context, authorID int, examID uuid.UUID) error {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return ErrExamNotFound
	}
	if authorID != 0 && exam.AuthorID != authorID {
		return ErrNotExamAuthor
	}
	if exam.Status != model.ExamStatusDraft {
		return ErrExamNotDraft
	}
	return nil
}
