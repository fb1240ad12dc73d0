package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// ErrResultExists is returned when a result row already exists for the
// (student, exam) pair. Results are write-once.
var ErrResultExists = errors.New("result already recorded for this exam")

// ResultRow is a result joined with the student identity, as listed for
// examiners.
type ResultRow struct {
	StudentID     int     `json:"student_id"`
	Name          string  `json:"name"`
	RollNumber    string  `json:"roll_number"`
	TotalScore    float64 `json:"total_score"`
	Attempted     int     `json:"attempted"`
	AutoSubmitted bool    `json:"auto_submitted"`
	SubmittedAt   string  `json:"submitted_at"`
}

// ResultRepository handles exam result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert persists a result. The unique (exam_id, student_id) constraint
// enforces write-once: a second insert for the same pair does nothing and
// returns ErrResultExists, leaving the first submission untouched.
func (r *ResultRepository) Insert(ctx context.Context, res *model.ExamResult) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_results (exam_id, student_id, answers, statuses, sections,
		                           total_score, time_spent_seconds, attempted, marked_for_review,
		                           completed, auto_submitted, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (exam_id, student_id) DO NOTHING
		 RETURNING id`,
		res.ExamID, res.StudentID, res.Answers, res.Statuses, res.Sections,
		res.TotalScore, res.TimeSpentSeconds, res.Attempted, res.MarkedForReview,
		res.Completed, res.AutoSubmitted, res.SubmittedAt,
	).Scan(&res.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrResultExists
	}
	return err
}

// GetByExamAndStudent retrieves a single result.
func (r *ResultRepository) GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, answers, statuses, sections,
		        total_score, time_spent_seconds, attempted, marked_for_review,
		        completed, auto_submitted, submitted_at
		 FROM exam_results
		 WHERE exam_id = $1 AND student_id = $2`, examID, studentID,
	).Scan(&res.ID, &res.ExamID, &res.StudentID, &res.Answers, &res.Statuses, &res.Sections,
		&res.TotalScore, &res.TimeSpentSeconds, &res.Attempted, &res.MarkedForReview,
		&res.Completed, &res.AutoSubmitted, &res.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByExam retrieves all student results for an exam with pagination,
// ordered by total score descending.
func (r *ResultRepository) ListByExam(ctx context.Context, examID uuid.UUID, page, perPage int) ([]ResultRow, int64, error) {
	offset := (page - 1) * perPage

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_results WHERE exam_id = $1`, examID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, s.roll_number,
		       er.total_score, er.attempted, er.auto_submitted,
		       to_char(er.submitted_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM exam_results er
		JOIN students s ON er.student_id = s.id
		WHERE er.exam_id = $1
		ORDER BY er.total_score DESC, s.roll_number ASC
		LIMIT $2 OFFSET $3`, examID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []ResultRow
	for rows.Next() {
		var row ResultRow
		if err := rows.Scan(&row.StudentID, &row.Name, &row.RollNumber,
			&row.TotalScore, &row.Attempted, &row.AutoSubmitted, &row.SubmittedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}
