package attempt

import (
	"reflect"
	"testing"
)

func TestSplitLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain text",
			in:   "Solve for x.",
			want: []Segment{{Kind: SegmentText, Value: "Solve for x."}},
		},
		{
			name: "inline math",
			in:   "If $x^2 = 4$ then x is",
			want: []Segment{
				{Kind: SegmentText, Value: "If "},
				{Kind: SegmentMath, Value: "x^2 = 4"},
				{Kind: SegmentText, Value: " then x is"},
			},
		},
		{
			name: "line break between statements",
			in:   `First law.\\Second law.`,
			want: []Segment{
				{Kind: SegmentText, Value: "First law."},
				{Kind: SegmentBreak},
				{Kind: SegmentText, Value: "Second law."},
			},
		},
		{
			name: "math and break combined",
			in:   `Given $F = ma$\\find $a$.`,
			want: []Segment{
				{Kind: SegmentText, Value: "Given "},
				{Kind: SegmentMath, Value: "F = ma"},
				{Kind: SegmentBreak},
				{Kind: SegmentText, Value: "find "},
				{Kind: SegmentMath, Value: "a"},
				{Kind: SegmentText, Value: "."},
			},
		},
		{
			name: "adjacent math segments",
			in:   "$a$$b$",
			want: []Segment{
				{Kind: SegmentMath, Value: "a"},
				{Kind: SegmentMath, Value: "b"},
			},
		},
		{
			name: "unterminated dollar stays literal",
			in:   "Costs $5 only",
			want: []Segment{{Kind: SegmentText, Value: "Costs $5 only"}},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "leading break",
			in:   `\\after`,
			want: []Segment{
				{Kind: SegmentBreak},
				{Kind: SegmentText, Value: "after"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLaTeX(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLaTeX(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
