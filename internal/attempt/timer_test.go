package attempt

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDeadlineRemainingIsPure(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d := NewDeadline(start, 90*time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"at start", start, 90 * time.Minute},
		{"halfway", start.Add(45 * time.Minute), 45 * time.Minute},
		{"one second left", start.Add(90*time.Minute - time.Second), time.Second},
		{"exactly zero", start.Add(90 * time.Minute), 0},
		{"past deadline clamps", start.Add(2 * time.Hour), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Remaining(tc.now); got != tc.want {
				t.Fatalf("Remaining = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeadlineSurvivesReload(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d := NewDeadline(start, 60*time.Minute)

	// Simulated reload: persist unix seconds, rebuild, clock moved on.
	rebuilt := DeadlineFromUnix(d.At.Unix())
	now := start.Add(25 * time.Minute)

	if got, want := rebuilt.Remaining(now), 35*time.Minute; got != want {
		t.Fatalf("remaining after reload = %v, want %v (not reset to full duration)", got, want)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{90 * time.Minute, "01:30"},
		{2*time.Hour + 5*time.Minute, "02:05"},
		{61 * time.Second, "00:01"},
		{60 * time.Second, "60"},
		{45 * time.Second, "45"},
		{0, "0"},
		{-3 * time.Second, "0"},
	}

	for _, tc := range tests {
		if got := FormatRemaining(tc.remaining); got != tc.want {
			t.Fatalf("FormatRemaining(%v) = %q, want %q", tc.remaining, got, tc.want)
		}
	}
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	start := time.Now()
	d := NewDeadline(start, time.Hour)

	// Frozen clock already past the deadline: first loop iteration expires.
	clock := func() time.Time { return start.Add(2 * time.Hour) }
	c := NewCountdown(d, time.Millisecond, clock)

	var expired atomic.Int32
	done := make(chan struct{})
	go func() {
		c.Run(nil, func() { expired.Add(1) })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not stop after expiry")
	}
	if n := expired.Load(); n != 1 {
		t.Fatalf("expire fired %d times, want 1", n)
	}
}

func TestCountdownStopSuppressesExpire(t *testing.T) {
	start := time.Now()
	d := NewDeadline(start, time.Hour)
	clock := func() time.Time { return start } // far from deadline

	c := NewCountdown(d, 10*time.Millisecond, clock)

	var expired atomic.Int32
	done := make(chan struct{})
	go func() {
		c.Run(nil, func() { expired.Add(1) })
		close(done)
	}()

	c.Stop()
	c.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not stop")
	}
	if n := expired.Load(); n != 0 {
		t.Fatalf("expire fired %d times after Stop, want 0", n)
	}
}
