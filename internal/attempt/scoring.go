package attempt

import (
	"math"
	"strings"
	"time"

	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// Summary is the read-only scoring outcome surfaced to the student after
// submit, and the computed part of the persisted result.
type Summary struct {
	Sections         []model.SectionScore `json:"sections"`
	TotalScore       float64              `json:"total_score"`
	TimeSpentSeconds int                  `json:"time_spent_seconds"`
	Attempted        int                  `json:"attempted"`
	MarkedForReview  int                  `json:"marked_for_review"`
}

// AnswerMatches compares a selected value against the stored correct answer
// using case-insensitive, whitespace-trimmed equality. Covers both option
// letters and literal numerical values.
func AnswerMatches(selected, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(correct))
}

// Score walks every recorded answer section by section, applies
// positive/negative marks per question and aggregates the summary
// statistics. Incorrect marks are coerced to a non-negative magnitude
// before subtraction, whatever sign convention the question metadata used;
// every section appears in the output, untouched ones with zero totals.
func Score(sections []Section, sheet *Sheet, durationSeconds int, remaining time.Duration) Summary {
	out := Summary{
		Sections:        make([]model.SectionScore, 0, len(sections)),
		Attempted:       sheet.AttemptedCount(),
		MarkedForReview: sheet.ReviewCount(),
	}

	for _, sec := range sections {
		score := model.SectionScore{Section: sec.Name}
		for _, q := range sec.Questions {
			selected, ok := sheet.Answer(sec.Name, q.ID.String())
			if !ok {
				continue
			}
			if AnswerMatches(selected, q.CorrectAnswer) {
				score.Positive += q.MarksCorrect
			} else {
				score.Negative += math.Abs(q.MarksIncorrect)
			}
		}
		score.Total = score.Positive - score.Negative
		out.Sections = append(out.Sections, score)
		out.TotalScore += score.Total
	}

	out.TimeSpentSeconds = durationSeconds - int(remaining.Seconds())
	if out.TimeSpentSeconds < 0 {
		out.TimeSpentSeconds = 0
	}
	if out.TimeSpentSeconds > durationSeconds {
		out.TimeSpentSeconds = durationSeconds
	}

	return out
}
