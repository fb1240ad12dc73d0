package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sankalp-edu/examhall-backend/internal/config"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
)

// ResultWorker drains graded results into their write-once PostgreSQL rows
// and closes the matching session. The submit path already claimed the
// Redis flag, so every queued result is final.
type ResultWorker struct {
	resultRepo  *repository.ResultRepository
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(resultRepo *repository.ResultRepository, sessionRepo *repository.SessionRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		resultRepo:  resultRepo,
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "result_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ResultWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistResultsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			time.Sleep(time.Second)
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.persistResult(ctx, []byte(result[1])); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *ResultWorker) persistResult(ctx context.Context, raw []byte) error {
	var res model.ExamResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// Malformed JSON can never succeed on retry. Log and discard.
		w.log.Error().Err(err).Msg("Discarding malformed result")
		return nil
	}

	if err := w.resultRepo.Insert(ctx, &res); err != nil {
		if errors.Is(err, repository.ErrResultExists) {
			// A requeued duplicate. The first insert won; nothing to do
			// beyond making sure the session is closed.
			w.log.Warn().
				Str("exam_id", res.ExamID.String()).
				Int("student_id", res.StudentID).
				Msg("Result already persisted, skipping insert")
		} else {
			return err
		}
	}

	if err := w.sessionRepo.Complete(ctx, res.ExamID, res.StudentID, res.SubmittedAt); err != nil {
		w.log.Error().Err(err).
			Str("exam_id", res.ExamID.String()).
			Int("student_id", res.StudentID).
			Msg("Session close failed")
		// The result row is safe; do not requeue and risk a duplicate loop.
	}

	w.log.Info().
		Str("exam_id", res.ExamID.String()).
		Int("student_id", res.StudentID).
		Float64("total_score", res.TotalScore).
		Bool("auto", res.AutoSubmitted).
		Msg("Result persisted")
	return nil
}

func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResultsQueue).Result()
		if err != nil {
			break
		}
		if err := w.persistResult(ctx, []byte(result)); err != nil {
			w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, result)
			break
		}
		drained++
	}
	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining results")
	}
}
