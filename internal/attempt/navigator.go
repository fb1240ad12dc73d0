package attempt

import (
	"fmt"

	"github.com/sankalp-edu/examhall-backend/internal/model"
)

// Navigator tracks the currently viewed section and slide. Slide indices
// are zero-based within each section.
type Navigator struct {
	sections []Section
	section  int
	slide    int
}

// NewNavigator positions the cursor on slide 0 of the first section.
func NewNavigator(sections []Section) *Navigator {
	return &Navigator{sections: sections}
}

// Pos returns the current (section index, slide index).
func (n *Navigator) Pos() (int, int) {
	return n.section, n.slide
}

// SectionName returns the name of the current section, or "" when the exam
// has no sections.
func (n *Navigator) SectionName() string {
	if n.section >= len(n.sections) {
		return ""
	}
	return n.sections[n.section].Name
}

// Current returns the question under the cursor.
func (n *Navigator) Current() (*model.Question, error) {
	if n.section >= len(n.sections) {
		return nil, fmt.Errorf("no sections loaded")
	}
	sec := n.sections[n.section]
	if n.slide >= len(sec.Questions) {
		return nil, fmt.Errorf("slide %d out of range in section %q", n.slide, sec.Name)
	}
	return &sec.Questions[n.slide], nil
}

// Goto moves the cursor to an arbitrary (section, slide) pair, as a palette
// click does.
func (n *Navigator) Goto(section, slide int) error {
	if section < 0 || section >= len(n.sections) {
		return fmt.Errorf("section index %d out of range", section)
	}
	if slide < 0 || slide >= len(n.sections[section].Questions) {
		return fmt.Errorf("slide %d out of range in section %q", slide, n.sections[section].Name)
	}
	n.section = section
	n.slide = slide
	return nil
}

// Next advances to the next slide in the current section, or to slide 0 of
// the next section when the current one is exhausted. At the last slide of
// the last section it is a no-op boundary and returns false.
func (n *Navigator) Next() bool {
	if n.section >= len(n.sections) {
		return false
	}
	if n.slide+1 < len(n.sections[n.section].Questions) {
		n.slide++
		return true
	}
	if n.section+1 < len(n.sections) {
		n.section++
		n.slide = 0
		return true
	}
	return false
}
