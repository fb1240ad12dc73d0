package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect     Action = "select"
	ActionClear      Action = "clear"
	ActionVisit      Action = "visit"
	ActionMarkReview Action = "mark_review"
	ActionSaveNext   Action = "save_next"
	ActionIntegrity  Action = "integrity"
	ActionSubmit     Action = "submit"
	ActionPing       Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// SelectRequest records the answer for the question currently on screen.
type SelectRequest struct {
	Action Action `json:"action"`
	Value  string `json:"value"`
}

// VisitRequest moves the cursor to a palette position.
type VisitRequest struct {
	Action  Action `json:"action"`
	Section int    `json:"section"`
	Slide   int    `json:"slide"`
}

// SaveNextRequest saves an answer (optional) and advances to the next slide.
type SaveNextRequest struct {
	Action Action `json:"action"`
	Value  string `json:"value,omitempty"`
}

// IntegrityRequest reports a proctoring event observed by the client.
type IntegrityRequest struct {
	Action Action `json:"action"`
	Kind   string `json:"kind"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState           Event = "state"
	EventSaved           Event = "saved"
	EventTick            Event = "tick"
	EventIntegrityPrompt Event = "integrity_prompt"
	EventSubmitted       Event = "submitted"
	EventSubmitFailed    Event = "submit_failed"
	EventError           Event = "error"
	EventPong            Event = "pong"
)

// StateResponse hydrates the client after connect or reconnect.
type StateResponse struct {
	Event            Event             `json:"event"`
	Answers          map[string]string `json:"answers"`
	Statuses         map[string]string `json:"statuses"`
	Section          int               `json:"section"`
	Slide            int               `json:"slide"`
	RemainingSeconds int               `json:"remaining_seconds"`
	RemainingDisplay string            `json:"remaining_display"`
}

// SavedResponse acknowledges a state-changing action. It carries the new
// status of the touched question so the palette can repaint one cell.
type SavedResponse struct {
	Event   Event  `json:"event"`
	Section int    `json:"section"`
	Slide   int    `json:"slide"`
	Status  string `json:"status"`
}

// TickResponse is the periodic countdown update.
type TickResponse struct {
	Event            Event  `json:"event"`
	RemainingSeconds int    `json:"remaining_seconds"`
	RemainingDisplay string `json:"remaining_display"`
}

// IntegrityPromptResponse tells the client to show the fullscreen
// re-entry dialog.
type IntegrityPromptResponse struct {
	Event Event  `json:"event"`
	Kind  string `json:"kind"`
}

// SubmittedResponse confirms grading. Auto is true when the timer, not the
// student, triggered the submit.
type SubmittedResponse struct {
	Event      Event   `json:"event"`
	TotalScore float64 `json:"total_score"`
	Attempted  int     `json:"attempted"`
	Auto       bool    `json:"auto"`
}

// SubmitFailedResponse reports a submit that did not produce a stored
// result. When grading succeeded but persistence failed, the graded
// totals ride along so the client can still show the summary.
type SubmitFailedResponse struct {
	Event      Event    `json:"event"`
	Reason     string   `json:"reason"`
	TotalScore *float64 `json:"total_score,omitempty"`
	Attempted  *int     `json:"attempted,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
