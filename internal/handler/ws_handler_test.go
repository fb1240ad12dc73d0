package handler

import (
	"errors"
	"testing"

	"github.com/sankalp-edu/examhall-backend/internal/attempt"
	"github.com/sankalp-edu/examhall-backend/internal/service"
	ws "github.com/sankalp-edu/examhall-backend/internal/websocket"
)

func TestSubmitFailureEventCarriesGradedTotals(t *testing.T) {
	// Grading finished but the result queue write failed: the totals must
	// survive into the submit_failed payload.
	summary := &attempt.Summary{TotalScore: 8, Attempted: 2}
	resp := submitFailureEvent(summary, errors.New("queue result: connection refused"))

	if resp.Event != ws.EventSubmitFailed {
		t.Fatalf("event = %s, want %s", resp.Event, ws.EventSubmitFailed)
	}
	if resp.Reason != "submit failed, please retry" {
		t.Fatalf("reason = %q", resp.Reason)
	}
	if resp.TotalScore == nil || *resp.TotalScore != 8 {
		t.Fatalf("total score = %v, want 8", resp.TotalScore)
	}
	if resp.Attempted == nil || *resp.Attempted != 2 {
		t.Fatalf("attempted = %v, want 2", resp.Attempted)
	}
}

func TestSubmitFailureEventWithoutSummary(t *testing.T) {
	// Failure before grading (flag claim, Redis outage): nothing to show.
	resp := submitFailureEvent(nil, errors.New("claim submit: i/o timeout"))
	if resp.TotalScore != nil || resp.Attempted != nil {
		t.Fatalf("totals present without a summary: %+v", resp)
	}
}

func TestSubmitFailureEventDuplicate(t *testing.T) {
	// A duplicate from a second connection reports the rejection only; the
	// totals belong to whichever submit claimed the flag first.
	summary := &attempt.Summary{TotalScore: 8, Attempted: 2}
	resp := submitFailureEvent(summary, service.ErrAlreadySubmitted)

	if resp.Reason != "already submitted" {
		t.Fatalf("reason = %q, want already submitted", resp.Reason)
	}
	if resp.TotalScore != nil || resp.Attempted != nil {
		t.Fatalf("duplicate carried totals: %+v", resp)
	}
}
