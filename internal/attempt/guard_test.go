package attempt

import (
	"testing"
	"time"
)

func TestGuardLifecycle(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	g := NewGuard(func() time.Time { return at })

	// Stopped guard drops everything.
	if g.Report(ViolationFullscreenExit) {
		t.Fatal("stopped guard prompted")
	}
	if len(g.Violations()) != 0 {
		t.Fatal("stopped guard recorded an event")
	}

	g.Start()
	if !g.Active() || !g.Fullscreen() {
		t.Fatal("started guard should be active and fullscreen")
	}

	g.Stop()
	if g.Report(ViolationEscapeKey) {
		t.Fatal("report after stop prompted")
	}
	if len(g.Violations()) != 0 {
		t.Fatal("report after stop recorded")
	}
}

func TestGuardPromptRules(t *testing.T) {
	tests := []struct {
		kind   ViolationKind
		prompt bool
	}{
		{ViolationFullscreenExit, true},
		{ViolationEscapeKey, true},
		{ViolationReloadShortcut, false},
		{ViolationHistoryNav, false},
		{ViolationContextMenu, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g := NewGuard(nil)
			g.Start()
			if got := g.Report(tt.kind); got != tt.prompt {
				t.Errorf("Report(%s) prompt = %v, want %v", tt.kind, got, tt.prompt)
			}
			if got := len(g.Violations()); got != 1 {
				t.Errorf("violations = %d, want 1", got)
			}
		})
	}
}

func TestGuardFullscreenRoundTrip(t *testing.T) {
	g := NewGuard(nil)
	g.Start()

	g.Report(ViolationFullscreenExit)
	if g.Fullscreen() {
		t.Fatal("fullscreen flag survived an exit event")
	}
	g.Acknowledge()
	if !g.Fullscreen() {
		t.Fatal("acknowledge did not restore fullscreen")
	}

	// Acknowledge on a stopped guard is a no-op.
	g.Report(ViolationEscapeKey)
	g.Stop()
	g.Acknowledge()
	if g.Fullscreen() {
		t.Fatal("acknowledge after stop restored fullscreen")
	}
}

func TestGuardViolationTimestamps(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	g := NewGuard(func() time.Time { return at })
	g.Start()

	g.Report(ViolationHistoryNav)
	vs := g.Violations()
	if len(vs) != 1 || !vs[0].At.Equal(at) || vs[0].Kind != ViolationHistoryNav {
		t.Fatalf("violations = %+v", vs)
	}

	// Returned slice is a copy.
	vs[0].Kind = ViolationContextMenu
	if g.Violations()[0].Kind != ViolationHistoryNav {
		t.Fatal("Violations exposed internal slice")
	}
}
