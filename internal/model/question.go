package model

import (
	"fmt"

	"github.com/google/uuid"
)

// BlockType tags a content block. Questions and options are ordered
// sequences of these blocks.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockLaTeX BlockType = "latex"
	BlockTable BlockType = "table"
)

// ContentBlock is one element of a question or option body. Exactly one
// interpretation applies depending on Type:
//   - text:  Value is plain text
//   - image: Value is a URL, Width/Height are display dimensions
//   - latex: Value is LaTeX markup, possibly mixing $...$ inline math,
//     literal \\ line breaks and plain text
//   - table: Rows holds the cell grid
type ContentBlock struct {
	Type   BlockType  `json:"type"`
	Value  string     `json:"value,omitempty"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
}

// Option is an answer choice: an ordered block sequence addressed by its
// positional letter (A, B, C, ...).
type Option []ContentBlock

// OptionLetter returns the positional letter for an option index (0 → "A").
func OptionLetter(i int) string {
	if i < 0 || i >= 26 {
		return fmt.Sprintf("#%d", i)
	}
	return string(rune('A' + i))
}

// QuestionType distinguishes how the correct answer is expressed.
type QuestionType string

const (
	// QuestionTypeSingleChoice stores an option letter as the correct answer.
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE"
	// QuestionTypeNumerical stores a literal numeric/text value; no options.
	QuestionTypeNumerical QuestionType = "NUMERICAL"
)

// Question represents a single exam question. Immutable during an attempt.
// MarksIncorrect keeps the authored sign (conventionally non-positive);
// scoring normalizes to a magnitude before subtracting.
type Question struct {
	ID             uuid.UUID      `json:"id"`
	ExamID         uuid.UUID      `json:"exam_id"`
	Section        string         `json:"section"`
	Type           QuestionType   `json:"type"`
	Contents       []ContentBlock `json:"contents"`
	Options        []Option       `json:"options,omitempty"`
	CorrectAnswer  string         `json:"correct_answer,omitempty"`
	Topic          string         `json:"topic,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	MarksCorrect   float64        `json:"marks_correct"`
	MarksIncorrect float64        `json:"marks_incorrect"`
	OrderNum       int            `json:"order_num"`
}

// QuestionForStudent is a question stripped of its correct answer,
// as embedded in the cached exam payload.
type QuestionForStudent struct {
	ID             uuid.UUID      `json:"id"`
	Section        string         `json:"section"`
	Type           QuestionType   `json:"type"`
	Contents       []ContentBlock `json:"contents"`
	Options        []Option       `json:"options,omitempty"`
	Topic          string         `json:"topic,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	MarksCorrect   float64        `json:"marks_correct"`
	MarksIncorrect float64        `json:"marks_incorrect"`
	OrderNum       int            `json:"order_num"`
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	Section        string         `json:"section" binding:"required,min=1,max=100"`
	Type           string         `json:"type" binding:"required,oneof=SINGLE_CHOICE NUMERICAL"`
	Contents       []ContentBlock `json:"contents" binding:"required,min=1"`
	Options        []Option       `json:"options" binding:"omitempty"`
	CorrectAnswer  string         `json:"correct_answer" binding:"required,max=64"`
	Topic          string         `json:"topic" binding:"omitempty,max=100"`
	Difficulty     string         `json:"difficulty" binding:"omitempty,max=20"`
	MarksCorrect   float64        `json:"marks_correct" binding:"required"`
	MarksIncorrect float64        `json:"marks_incorrect"`
	OrderNum       int            `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing an exam's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}
