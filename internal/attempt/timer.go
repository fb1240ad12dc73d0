package attempt

import (
	"fmt"
	"sync"
	"time"
)

// Deadline is the absolute wall-clock instant an attempt must submit by,
// fixed once at join time. Remaining time is always a pure function of
// (deadline, now); it is never decremented, so missed ticks and process
// restarts self-correct.
type Deadline struct {
	At time.Time
}

// NewDeadline computes the deadline from a start instant and the exam
// duration.
func NewDeadline(start time.Time, duration time.Duration) Deadline {
	return Deadline{At: start.Add(duration)}
}

// DeadlineFromUnix rebuilds a persisted deadline from unix seconds.
func DeadlineFromUnix(sec int64) Deadline {
	return Deadline{At: time.Unix(sec, 0)}
}

// Remaining returns the time left at now, clamped to zero.
func (d Deadline) Remaining(now time.Time) time.Duration {
	r := d.At.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether the deadline has passed at now.
func (d Deadline) Expired(now time.Time) bool {
	return !d.At.After(now)
}

// FormatRemaining renders remaining time for display: "HH:MM" while more
// than a minute is left, bare seconds once remaining is at or below 60s.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int(remaining.Seconds())
	if secs <= 60 {
		return fmt.Sprintf("%d", secs)
	}
	return fmt.Sprintf("%02d:%02d", secs/3600, (secs%3600)/60)
}

// Countdown drives an attempt's tick loop. Each tick recomputes remaining
// time from the fixed deadline; ticks never overlap because the loop is a
// single goroutine. When remaining hits zero the expire callback fires
// exactly once and the loop stops.
type Countdown struct {
	deadline Deadline
	interval time.Duration
	clock    func() time.Time

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewCountdown creates a countdown over deadline ticking at interval.
// A nil clock means time.Now.
func NewCountdown(deadline Deadline, interval time.Duration, clock func() time.Time) *Countdown {
	if clock == nil {
		clock = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		deadline: deadline,
		interval: interval,
		clock:    clock,
		stopped:  make(chan struct{}),
	}
}

// Run blocks, invoking onTick with the remaining time on every tick and
// onExpire once when remaining reaches zero. It returns when expired or
// stopped. Call in its own goroutine.
func (c *Countdown) Run(onTick func(remaining time.Duration), onExpire func()) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		remaining := c.deadline.Remaining(c.clock())
		if remaining <= 0 {
			if onExpire != nil {
				onExpire()
			}
			return
		}
		if onTick != nil {
			onTick(remaining)
		}

		select {
		case <-c.stopped:
			return
		case <-ticker.C:
		}
	}
}

// Stop terminates the tick loop without firing onExpire. Safe to call more
// than once and after expiry.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}
