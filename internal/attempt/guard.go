package attempt

import (
	"time"
)

// ViolationKind classifies an integrity event reported by the client.
type ViolationKind string

const (
	ViolationFullscreenExit ViolationKind = "fullscreen_exit"
	ViolationEscapeKey      ViolationKind = "escape_key"
	ViolationReloadShortcut ViolationKind = "reload_shortcut"
	ViolationHistoryNav     ViolationKind = "history_nav"
	ViolationContextMenu    ViolationKind = "context_menu"
)

// Violation is one recorded integrity event.
type Violation struct {
	Kind ViolationKind `json:"kind"`
	At   time.Time     `json:"at"`
}

// Guard is the advisory integrity monitor of one attempt. It is explicitly
// started at exam start and stopped at teardown, tracks whether the client
// viewport is in fullscreen, and records reported violations. It is not a
// security boundary: it fails open and never touches exam state.
type Guard struct {
	active     bool
	fullscreen bool
	violations []Violation
	clock      func() time.Time
}

// NewGuard creates a stopped guard. A nil clock means time.Now.
func NewGuard(clock func() time.Time) *Guard {
	if clock == nil {
		clock = time.Now
	}
	return &Guard{clock: clock}
}

// Start arms the guard. The exam enters fullscreen at start, so the
// fullscreen flag begins true.
func (g *Guard) Start() {
	g.active = true
	g.fullscreen = true
}

// Stop disarms the guard; subsequent reports are ignored. The mirror of
// removing every listener at unmount.
func (g *Guard) Stop() {
	g.active = false
}

// Active reports whether the guard is armed.
func (g *Guard) Active() bool { return g.active }

// Fullscreen reports the last known fullscreen state.
func (g *Guard) Fullscreen() bool { return g.fullscreen }

// Report records an integrity event and returns whether the client should
// show the fullscreen re-entry prompt. Events on a stopped guard are
// dropped (fail open).
func (g *Guard) Report(kind ViolationKind) (prompt bool) {
	if !g.active {
		return false
	}
	g.violations = append(g.violations, Violation{Kind: kind, At: g.clock()})

	switch kind {
	case ViolationFullscreenExit, ViolationEscapeKey:
		g.fullscreen = false
		return true
	default:
		return false
	}
}

// Acknowledge marks the re-entry prompt as accepted: the client re-entered
// fullscreen.
func (g *Guard) Acknowledge() {
	if g.active {
		g.fullscreen = true
	}
}

// Violations returns a copy of the recorded events.
func (g *Guard) Violations() []Violation {
	out := make([]Violation, len(g.violations))
	copy(out, g.violations)
	return out
}
