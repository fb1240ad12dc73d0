package attempt

import (
	"testing"
)

func TestSheetStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Sheet)
		want Status
	}{
		{
			name: "untouched slide is not visited",
			run:  func(s *Sheet) {},
			want: StatusNotVisited,
		},
		{
			name: "visiting downgrades default to not answered",
			run:  func(s *Sheet) { s.Visit("phys", 0) },
			want: StatusNotAnswered,
		},
		{
			name: "selecting marks answered",
			run: func(s *Sheet) {
				s.Visit("phys", 0)
				s.Select("phys", 0, "q1", "B")
			},
			want: StatusAnswered,
		},
		{
			name: "review without answer",
			run: func(s *Sheet) {
				s.Visit("phys", 0)
				s.MarkForReview("phys", 0, "q1")
			},
			want: StatusMarkedForReview,
		},
		{
			name: "review after answer",
			run: func(s *Sheet) {
				s.Select("phys", 0, "q1", "B")
				s.MarkForReview("phys", 0, "q1")
			},
			want: StatusAnsweredMarked,
		},
		{
			name: "clear always forces not answered",
			run: func(s *Sheet) {
				s.Select("phys", 0, "q1", "B")
				s.MarkForReview("phys", 0, "q1")
				s.Clear("phys", 0, "q1")
			},
			want: StatusNotAnswered,
		},
		{
			name: "visit never downgrades an answered slide",
			run: func(s *Sheet) {
				s.Select("phys", 0, "q1", "B")
				s.Visit("phys", 0)
			},
			want: StatusAnswered,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSheet()
			tc.run(s)
			if got := s.Status("phys", 0); got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSheetSingleAnswerPerQuestion(t *testing.T) {
	s := NewSheet()

	s.Select("phys", 0, "q1", "A")
	s.Select("phys", 0, "q1", "C")

	if v, ok := s.Answer("phys", "q1"); !ok || v != "C" {
		t.Fatalf("answer = %q ok=%v, want C", v, ok)
	}
	if len(s.FlatAnswers()) != 1 {
		t.Fatalf("flat answers = %v, want exactly one entry", s.FlatAnswers())
	}
}

func TestSheetClearRemovesEntryAndEmptySection(t *testing.T) {
	s := NewSheet()
	s.Select("chem", 1, "q7", "D")

	s.Clear("chem", 1, "q7")

	if _, ok := s.Answer("chem", "q7"); ok {
		t.Fatal("answer survived clear")
	}
	if _, ok := s.answers["chem"]; ok {
		t.Fatal("emptied section map not removed")
	}
}

func TestSheetCounts(t *testing.T) {
	s := NewSheet()
	s.Select("phys", 0, "q1", "A")   // answered
	s.Select("phys", 1, "q2", "B")   // answered + review below
	s.MarkForReview("phys", 1, "q2") // answered_marked
	s.Visit("chem", 0)               // not_answered
	s.MarkForReview("chem", 1, "q9") // marked (no answer)

	if got := s.AttemptedCount(); got != 2 {
		t.Fatalf("attempted = %d, want 2", got)
	}
	if got := s.ReviewCount(); got != 2 {
		t.Fatalf("review = %d, want 2", got)
	}
}

func TestSheetRestoreRoundTrip(t *testing.T) {
	s := NewSheet()
	s.Select("phys", 0, "q1", "A")
	s.MarkForReview("phys", 1, "q2")
	s.Visit("chem", 0)

	restored := NewSheet()
	restored.Restore(s.FlatAnswers(), s.FlatStatuses())

	if v, ok := restored.Answer("phys", "q1"); !ok || v != "A" {
		t.Fatalf("restored answer = %q ok=%v", v, ok)
	}
	for _, probe := range []struct {
		section string
		slide   int
		want    Status
	}{
		{"phys", 0, StatusAnswered},
		{"phys", 1, StatusMarkedForReview},
		{"chem", 0, StatusNotAnswered},
		{"chem", 5, StatusNotVisited},
	} {
		if got := restored.Status(probe.section, probe.slide); got != probe.want {
			t.Fatalf("restored status %s/%d = %s, want %s", probe.section, probe.slide, got, probe.want)
		}
	}
}

func TestSheetRestoreSkipsMalformedFields(t *testing.T) {
	s := NewSheet()
	s.Restore(
		map[string]string{"no-separator": "A"},
		map[string]string{"phys|notanumber": "answered", "phys|2": "bogus_tag"},
	)

	if len(s.FlatAnswers()) != 0 {
		t.Fatalf("malformed answer restored: %v", s.FlatAnswers())
	}
	if len(s.FlatStatuses()) != 0 {
		t.Fatalf("malformed status restored: %v", s.FlatStatuses())
	}
}
