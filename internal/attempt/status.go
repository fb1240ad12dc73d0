package attempt

// Status is the palette state of one question slide. The five values are
// mutually exclusive; StatusNotVisited is the implicit default and is never
// stored — absence of an entry means not visited. Once a slide has been
// opened it never returns to StatusNotVisited.
type Status string

const (
	StatusNotVisited      Status = "not_visited"
	StatusNotAnswered     Status = "not_answered"
	StatusAnswered        Status = "answered"
	StatusMarkedForReview Status = "marked_for_review"
	StatusAnsweredMarked  Status = "answered_marked_for_review"
)

// HasAnswer reports whether the status implies a selected answer exists.
func (s Status) HasAnswer() bool {
	return s == StatusAnswered || s == StatusAnsweredMarked
}

// Reviewed reports whether the status counts toward the marked-for-review
// statistic.
func (s Status) Reviewed() bool {
	return s == StatusMarkedForReview || s == StatusAnsweredMarked
}

// ParseStatus converts a stored tag back into a Status. Unknown tags map to
// StatusNotVisited so a corrupt autosave entry degrades to the default.
func ParseStatus(tag string) Status {
	switch Status(tag) {
	case StatusNotAnswered, StatusAnswered, StatusMarkedForReview, StatusAnsweredMarked:
		return Status(tag)
	default:
		return StatusNotVisited
	}
}
