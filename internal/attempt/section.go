// Package attempt implements the state machine of one exam attempt: section
// navigation, per-question answer/status tracking, the countdown deadline,
// scoring with negative marking and the advisory integrity guard. The engine
// is pure in-memory state with an injectable clock; persistence and transport
// live in the service, handler and worker packages.
package attempt

import (
	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// Section is a named grouping of questions, navigated as a unit. Derived
// from the flattened question list at load time; not separately persisted.
type Section struct {
	Name      string
	Questions []model.Question
}

// BuildSections partitions questions into sections by each question's
// declared section name, preserving first-seen order. Question order within
// a section follows the input order.
func BuildSections(questions []model.Question) []Section {
	var sections []Section
	index := make(map[string]int)

	for _, q := range questions {
		i, ok := index[q.Section]
		if !ok {
			i = len(sections)
			index[q.Section] = i
			sections = append(sections, Section{Name: q.Section})
		}
		sections[i].Questions = append(sections[i].Questions, q)
	}

	return sections
}

// QuestionCount returns the total number of questions across sections.
func QuestionCount(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Questions)
	}
	return n
}
