package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sankalp-edu/examhall-backend/internal/attempt"
	"github.com/sankalp-edu/examhall-backend/internal/config"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
	"github.com/sankalp-edu/examhall-backend/internal/response"
)

// Domain Errors
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrNotExamAuthor    = errors.New("not the author of this exam")
	ErrNoQuestions      = errors.New("exam has no questions, cannot publish")
	ErrExamNotDraft     = errors.New("exam status is not DRAFT")
	ErrExamNotPublished = errors.New("exam status is not PUBLISHED")
	ErrPayloadUpstream  = errors.New("exam payload unavailable")
)

// ExamService handles exam business logic and Redis caching. It owns the
// load path: a published exam's sectioned paper, answer key and marks hash
// live in Redis and are the only thing the attempt path reads.
type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	return exam, err
}

// GetByAccessCode retrieves a published exam by its access code.
func (s *ExamService) GetByAccessCode(ctx context.Context, code string) (*model.Exam, error) {
	exam, err := s.examRepo.GetByAccessCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	return exam, err
}

// ListByAuthor retrieves exams, filtered by author if not superadmin.
func (s *ExamService) ListByAuthor(ctx context.Context, authorID, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	exams, total, err := s.examRepo.ListByAuthorPaginated(ctx, authorID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if exams == nil {
		exams = []model.Exam{}
	}

	return exams, response.NewPagination(page, perPage, int64(total)), nil
}

// Create inserts a new exam as DRAFT.
func (s *ExamService) Create(ctx context.Context, exam *model.Exam) error {
	exam.Status = model.ExamStatusDraft
	return s.examRepo.Create(ctx, exam)
}

// Update modifies an existing draft exam.
func (s *ExamService) Update(ctx context.Context, authorID int, exam *model.Exam) error {
	existing, err := s.GetByID(ctx, exam.ID)
	if err != nil {
		return err
	}
	if authorID != 0 && existing.AuthorID != authorID {
		return ErrNotExamAuthor
	}
	if existing.Status != model.ExamStatusDraft {
		return ErrExamNotDraft
	}
	return s.examRepo.Update(ctx, exam)
}

// Publish changes exam status to PUBLISHED and caches the payload, answer
// key and marks hash in Redis. The ordered section list and total marks are
// derived from the questions here, so the stored exam always agrees with
// the paper students see.
func (s *ExamService) Publish(ctx context.Context, examID uuid.UUID, authorID int) error {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return err
	}

	if authorID != 0 && exam.AuthorID != authorID {
		return ErrNotExamAuthor
	}
	if exam.Status != model.ExamStatusDraft {
		return ErrExamNotDraft
	}

	sections, totalMarks, err := s.WarmExamCache(ctx, exam)
	if err != nil {
		return err
	}

	if err := s.examRepo.UpdateSections(ctx, examID, sections, totalMarks); err != nil {
		return fmt.Errorf("update sections: %w", err)
	}
	if err := s.examRepo.UpdateStatus(ctx, examID, model.ExamStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("exam_id", examID.String()).Msg("Exam published")
	return nil
}

// RefreshCache re-caches the payload + answer key for a published exam.
// Called when questions are updated after publish.
func (s *ExamService) RefreshCache(ctx context.Context, examID uuid.UUID, authorID int) error {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return err
	}

	if authorID != 0 && exam.AuthorID != authorID {
		return ErrNotExamAuthor
	}
	if exam.Status != model.ExamStatusPublished {
		return ErrExamNotPublished
	}

	if _, _, err := s.WarmExamCache(ctx, exam); err != nil {
		return err
	}

	s.log.Info().Str("exam_id", examID.String()).Msg("Cache refreshed")
	return nil
}

// WarmExamCache loads an exam's paper, answer key and marks hash from
// PostgreSQL into Redis. Returns the derived section order and total marks.
func (s *ExamService) WarmExamCache(ctx context.Context, exam *model.Exam) ([]string, float64, error) {
	questions, err := s.questionRepo.ListByExam(ctx, exam.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, 0, ErrNoQuestions
	}

	// Partition into sections preserving first-seen order, the same order
	// the attempt engine and the palette use.
	grouped := attempt.BuildSections(questions)

	sectionNames := make([]string, len(grouped))
	sectionPayloads := make([]model.SectionPayload, len(grouped))
	var totalMarks float64

	for i, sec := range grouped {
		sectionNames[i] = sec.Name
		sp := model.SectionPayload{Name: sec.Name}
		for _, q := range sec.Questions {
			totalMarks += q.MarksCorrect
			sp.Questions = append(sp.Questions, model.QuestionForStudent{
				ID:             q.ID,
				Section:        q.Section,
				Type:           q.Type,
				Contents:       q.Contents,
				Options:        q.Options,
				Topic:          q.Topic,
				Difficulty:     q.Difficulty,
				MarksCorrect:   q.MarksCorrect,
				MarksIncorrect: q.MarksIncorrect,
				OrderNum:       q.OrderNum,
			})
		}
		sectionPayloads[i] = sp
	}

	payload := model.ExamPayload{
		ExamID:     exam.ID,
		Title:      exam.Title,
		Duration:   exam.DurationMinutes,
		TotalMarks: totalMarks,
		Sections:   sectionPayloads,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal payload: %w", err)
	}

	// Answer key and marks hashes for in-memory grading on submit.
	answerKey := make(map[string]interface{}, len(questions))
	marks := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		answerKey[q.ID.String()] = q.CorrectAnswer
		marks[q.ID.String()] = fmt.Sprintf("%g|%g", q.MarksCorrect, q.MarksIncorrect)
	}

	examID := exam.ID.String()
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.ExamPayloadKey(examID), payloadJSON, 0)
	pipe.Set(ctx, config.CacheKey.ExamDurationKey(examID), exam.DurationMinutes, 0)
	pipe.Del(ctx, config.CacheKey.ExamAnswerKey(examID))
	pipe.HSet(ctx, config.CacheKey.ExamAnswerKey(examID), answerKey)
	pipe.Del(ctx, config.CacheKey.ExamMarksKey(examID))
	pipe.HSet(ctx, config.CacheKey.ExamMarksKey(examID), marks)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, 0, fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("exam_id", examID).
		Int("questions", attempt.QuestionCount(grouped)).
		Int("sections", len(sectionNames)).
		Msg("Cache warmed")
	return sectionNames, totalMarks, nil
}

// PrewarmAllCaches loads all published exams into Redis on application startup.
// This prevents any lazy-loading race conditions under thundering herd traffic.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	exams, err := s.examRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published exams: %w", err)
	}

	if len(exams) == 0 {
		s.log.Info().Msg("No published exams to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(exams)).Msg("Prewarming published exams...")

	warmed := 0
	for i := range exams {
		if _, _, err := s.WarmExamCache(ctx, &exams[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("exam_id", exams[i].ID.String()).
				Msg("Failed to warm exam, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(exams)).
		Msg("Prewarming complete")
	return nil
}

// GetExamPayload retrieves the cached student paper from Redis. A missing
// key means the exam isn't published; a broken or unreachable cache is the
// upstream failure the portal reports as retryable.
func (s *ExamService) GetExamPayload(ctx context.Context, examID uuid.UUID) (*model.ExamPayload, error) {
	key := config.CacheKey.ExamPayloadKey(examID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrExamNotPublished
		}
		return nil, fmt.Errorf("%w: %s", ErrPayloadUpstream, err)
	}

	var payload model.ExamPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPayloadUpstream, err)
	}
	return &payload, nil
}

// GetAnswerKey retrieves the answer key from Redis for instant grading.
func (s *ExamService) GetAnswerKey(ctx context.Context, examID uuid.UUID) (map[string]string, error) {
	key := config.CacheKey.ExamAnswerKey(examID.String())
	result, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}
	if len(result) == 0 {
		return nil, errors.New("answer key not found in cache")
	}
	return result, nil
}
