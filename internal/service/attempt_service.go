package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sankalp-edu/examhall-backend/internal/attempt"
	"github.com/sankalp-edu/examhall-backend/internal/config"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
)

// Attempt domain errors.
var (
	ErrInvalidAccessCode = errors.New("invalid exam access code")
	ErrAlreadySubmitted  = errors.New("exam already submitted")
	ErrResultNotReady    = errors.New("result not available yet")
	ErrSessionNotFound   = errors.New("no session for this exam")
)

// AutosavePayload is one queued answer write, drained to PostgreSQL by the
// autosave worker.
type AutosavePayload struct {
	ExamID     string `json:"exam_id"`
	StudentID  int    `json:"student_id"`
	Section    string `json:"section"`
	QuestionID string `json:"question_id"`
	Value      string `json:"value"` // empty means cleared
	Timestamp  int64  `json:"timestamp"`
}

// IntegrityPayload is one queued proctoring event.
type IntegrityPayload struct {
	ExamID    string `json:"exam_id"`
	StudentID int    `json:"student_id"`
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"`
}

// AttemptService orchestrates exam attempts: joining, state recovery,
// autosave fan-out, and the one-shot submit. All hot-path state lives in
// Redis; PostgreSQL is written through the workers.
type AttemptService struct {
	examService *ExamService
	sessionRepo *repository.SessionRepository
	resultRepo  *repository.ResultRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	examService *ExamService,
	sessionRepo *repository.SessionRepository,
	resultRepo *repository.ResultRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		examService: examService,
		sessionRepo: sessionRepo,
		resultRepo:  resultRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// JoinExam validates the access code and creates (or resumes) a session.
// The absolute deadline is fixed once at first join and persisted to both
// PostgreSQL and Redis; every later remaining-time figure is recomputed
// from it, so reloads and reconnects never reset the clock.
func (s *AttemptService) JoinExam(ctx context.Context, accessCode string, studentID int) (*model.Exam, *model.ExamSession, error) {
	exam, err := s.examService.GetByAccessCode(ctx, accessCode)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			return nil, nil, ErrInvalidAccessCode
		}
		return nil, nil, err
	}

	existing, err := s.sessionRepo.GetByExamAndStudent(ctx, exam.ID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("check existing session: %w", err)
	}
	if existing != nil {
		// Self-heal the cached deadline for resumed sessions.
		s.cacheDeadline(ctx, exam.ID, studentID, existing.Deadline)
		return exam, existing, nil
	}

	now := time.Now()
	session := &model.ExamSession{
		ExamID:    exam.ID,
		StudentID: studentID,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(exam.DurationMinutes) * time.Minute),
		Status:    model.SessionStatusInProgress,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Concurrent join on another connection won the insert.
			existing, fetchErr := s.sessionRepo.GetByExamAndStudent(ctx, exam.ID, studentID)
			if fetchErr != nil {
				return nil, nil, fmt.Errorf("concurrent join detected, fetch failed: %w", fetchErr)
			}
			s.cacheDeadline(ctx, exam.ID, studentID, existing.Deadline)
			return exam, existing, nil
		}
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.cacheDeadline(ctx, exam.ID, studentID, session.Deadline)
	return exam, session, nil
}

func (s *AttemptService) cacheDeadline(ctx context.Context, examID uuid.UUID, studentID int, deadline time.Time) {
	key := config.CacheKey.AttemptDeadlineKey(examID.String(), studentID)
	if err := s.rdb.Set(ctx, key, deadline.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to cache deadline")
	}
}

// GetDeadline resolves the attempt deadline from Redis, falling back to
// PostgreSQL on a cache miss and self-healing the cache.
func (s *AttemptService) GetDeadline(ctx context.Context, examID uuid.UUID, studentID int) (attempt.Deadline, error) {
	key := config.CacheKey.AttemptDeadlineKey(examID.String(), studentID)

	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		sec, perr := strconv.ParseInt(val, 10, 64)
		if perr == nil {
			return attempt.DeadlineFromUnix(sec), nil
		}
		// fall through to the DB on a corrupt value
	} else if !errors.Is(err, redis.Nil) {
		return attempt.Deadline{}, fmt.Errorf("redis error getting deadline: %w", err)
	}

	sess, dbErr := s.sessionRepo.GetByExamAndStudent(ctx, examID, studentID)
	if dbErr != nil {
		if errors.Is(dbErr, pgx.ErrNoRows) {
			return attempt.Deadline{}, ErrSessionNotFound
		}
		return attempt.Deadline{}, fmt.Errorf("deadline not in cache or db: %w", dbErr)
	}

	s.cacheDeadline(ctx, examID, studentID, sess.Deadline)
	return attempt.Deadline{At: sess.Deadline}, nil
}

// GetExamState rebuilds the attempt view for a reload: autosaved answers,
// statuses, and the remaining time recomputed from the persisted deadline.
func (s *AttemptService) GetExamState(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamSessionState, error) {
	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.AttemptAnswersKey(examID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}
	statuses, err := s.rdb.HGetAll(ctx, config.CacheKey.AttemptStatusesKey(examID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get statuses: %w", err)
	}

	deadline, err := s.GetDeadline(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	remaining := deadline.Remaining(time.Now())

	return &model.ExamSessionState{
		ExamID:           examID,
		StudentID:        studentID,
		AutosavedAnswers: answers,
		Statuses:         statuses,
		RemainingSeconds: remaining.Seconds(),
		RemainingDisplay: attempt.FormatRemaining(remaining),
	}, nil
}

// BuildEngine hydrates an in-memory attempt engine for one WebSocket
// connection: questions from the cached paper, grading data from the answer
// key and marks hashes, sheet state from the autosave hashes. The engine
// is connection-local; Redis remains the state of record between connects.
func (s *AttemptService) BuildEngine(ctx context.Context, examID uuid.UUID, studentID int) (*attempt.Engine, error) {
	payload, err := s.examService.GetExamPayload(ctx, examID)
	if err != nil {
		return nil, err
	}
	answerKey, err := s.examService.GetAnswerKey(ctx, examID)
	if err != nil {
		return nil, err
	}
	marks, err := s.rdb.HGetAll(ctx, config.CacheKey.ExamMarksKey(examID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("get marks: %w", err)
	}

	var questions []model.Question
	for _, sec := range payload.Sections {
		for _, q := range sec.Questions {
			mc, mi := q.MarksCorrect, q.MarksIncorrect
			if raw, ok := marks[q.ID.String()]; ok {
				if pmc, pmi, perr := parseMarks(raw); perr == nil {
					mc, mi = pmc, pmi
				}
			}
			questions = append(questions, model.Question{
				ID:             q.ID,
				ExamID:         examID,
				Section:        q.Section,
				Type:           q.Type,
				Contents:       q.Contents,
				Options:        q.Options,
				CorrectAnswer:  answerKey[q.ID.String()],
				MarksCorrect:   mc,
				MarksIncorrect: mi,
				OrderNum:       q.OrderNum,
			})
		}
	}
	if len(questions) == 0 {
		return nil, ErrExamNotPublished
	}

	deadline, err := s.GetDeadline(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		ID:              examID,
		Title:           payload.Title,
		DurationMinutes: payload.Duration,
		TotalMarks:      payload.TotalMarks,
		Status:          model.ExamStatusPublished,
	}

	engine := attempt.NewEngine(exam, questions, deadline, time.Now)

	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.AttemptAnswersKey(examID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("restore answers: %w", err)
	}
	statuses, err := s.rdb.HGetAll(ctx, config.CacheKey.AttemptStatusesKey(examID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("restore statuses: %w", err)
	}
	engine.Restore(answers, statuses)

	return engine, nil
}

func parseMarks(raw string) (float64, float64, error) {
	var mc, mi float64
	if _, err := fmt.Sscanf(raw, "%g|%g", &mc, &mi); err != nil {
		return 0, 0, err
	}
	return mc, mi, nil
}

// IsSubmitted reports whether the attempt already has a submit recorded in
// Redis. Used to refuse reconnects into a finished attempt.
func (s *AttemptService) IsSubmitted(ctx context.Context, examID uuid.UUID, studentID int) (bool, error) {
	n, err := s.rdb.Exists(ctx, config.CacheKey.AttemptSubmittedKey(examID.String(), studentID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveAnswer mirrors one answer write into the Redis autosave hash and
// queues the durable PostgreSQL write. An empty value records a clear.
func (s *AttemptService) SaveAnswer(ctx context.Context, examID uuid.UUID, studentID int, section, questionID, value string) error {
	field := attempt.JoinField(section, questionID)
	key := config.CacheKey.AttemptAnswersKey(examID.String(), studentID)

	if value == "" {
		if err := s.rdb.HDel(ctx, key, field).Err(); err != nil {
			return fmt.Errorf("autosave clear: %w", err)
		}
	} else {
		if err := s.rdb.HSet(ctx, key, field, value).Err(); err != nil {
			return fmt.Errorf("autosave answer: %w", err)
		}
	}

	payload, _ := json.Marshal(AutosavePayload{
		ExamID:     examID.String(),
		StudentID:  studentID,
		Section:    section,
		QuestionID: questionID,
		Value:      value,
		Timestamp:  time.Now().Unix(),
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		// The Redis hash already has the answer; the queue write is the
		// durable copy. Log loudly but don't fail the action.
		s.log.Error().Err(err).Int("student_id", studentID).Msg("Failed to queue autosave")
	}
	return nil
}

// SaveStatus mirrors one palette status into the Redis status hash.
func (s *AttemptService) SaveStatus(ctx context.Context, examID uuid.UUID, studentID int, section string, slide int, status attempt.Status) error {
	field := attempt.JoinField(section, strconv.Itoa(slide))
	key := config.CacheKey.AttemptStatusesKey(examID.String(), studentID)
	return s.rdb.HSet(ctx, key, field, string(status)).Err()
}

// RecordIntegrity queues a proctoring event for durable storage. Advisory
// only: failures are logged and never surface to the attempt.
func (s *AttemptService) RecordIntegrity(ctx context.Context, examID uuid.UUID, studentID int, kind attempt.ViolationKind) {
	payload, _ := json.Marshal(IntegrityPayload{
		ExamID:    examID.String(),
		StudentID: studentID,
		Kind:      string(kind),
		Timestamp: time.Now().Unix(),
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistIntegrityQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to queue integrity event")
	}
}

// Submit finalizes an attempt exactly once. The Redis SETNX flag is the
// cross-connection guard: whichever trigger claims it first (manual click
// or timer expiry, on any connection) wins, and every later attempt gets
// ErrAlreadySubmitted. The graded result is queued for the result worker,
// which owns the write-once PostgreSQL insert.
func (s *AttemptService) Submit(ctx context.Context, engine *attempt.Engine, examID uuid.UUID, studentID int, auto bool) (*model.ExamResult, *attempt.Summary, error) {
	submittedKey := config.CacheKey.AttemptSubmittedKey(examID.String(), studentID)
	claimed, err := s.rdb.SetNX(ctx, submittedKey, time.Now().Unix(), 0).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("claim submit: %w", err)
	}
	if !claimed {
		return nil, nil, ErrAlreadySubmitted
	}

	result, summary, err := engine.Submit(studentID, auto)
	if err != nil {
		if errors.Is(err, attempt.ErrAlreadySubmitted) {
			return nil, nil, ErrAlreadySubmitted
		}
		// Grading failed after claiming the flag; release it so the
		// student can retry instead of being locked out ungraded.
		s.rdb.Del(ctx, submittedKey)
		return nil, nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		engine.Reopen()
		s.rdb.Del(ctx, submittedKey)
		return nil, summary, fmt.Errorf("marshal result: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, data).Err(); err != nil {
		// Reopen the engine and release the flag so a manual retry can
		// claim the submit again. The summary is still returned alongside
		// the error so the client sees the graded totals it earned.
		engine.Reopen()
		s.rdb.Del(ctx, submittedKey)
		return nil, summary, fmt.Errorf("queue result: %w", err)
	}

	// The result snapshot carries the full sheet; the hot-path copies can go.
	s.rdb.Del(ctx,
		config.CacheKey.AttemptAnswersKey(examID.String(), studentID),
		config.CacheKey.AttemptStatusesKey(examID.String(), studentID),
		config.CacheKey.AttemptDeadlineKey(examID.String(), studentID),
	)

	s.log.Info().
		Str("exam_id", examID.String()).
		Int("student_id", studentID).
		Bool("auto", auto).
		Float64("total_score", result.TotalScore).
		Msg("Attempt submitted")

	return result, summary, nil
}

// GetResult retrieves a persisted result. A submitted-but-not-yet-drained
// attempt reports ErrResultNotReady so the portal can poll.
func (s *AttemptService) GetResult(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamResult, error) {
	result, err := s.resultRepo.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotReady
		}
		return nil, err
	}
	return result, nil
}

// GetExamResults retrieves paginated results for an exam (examiner view).
func (s *AttemptService) GetExamResults(ctx context.Context, examID uuid.UUID, page, perPage int) ([]repository.ResultRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}
	if perPage > 200 {
		perPage = 200
	}
	return s.resultRepo.ListByExam(ctx, examID, page, perPage)
}

// ListSessions returns a student's sessions for the lobby overlay.
func (s *AttemptService) ListSessions(ctx context.Context, studentID int) ([]model.ExamSession, error) {
	return s.sessionRepo.ListByStudent(ctx, studentID)
}
