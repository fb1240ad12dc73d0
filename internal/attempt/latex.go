package attempt

import "strings"

// SegmentKind tags one rendered piece of a latex content block.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentMath  SegmentKind = "math"
	SegmentBreak SegmentKind = "break"
)

// Segment is one ordered piece of a split latex block. Break segments
// carry no value.
type Segment struct {
	Kind  SegmentKind `json:"kind"`
	Value string      `json:"value,omitempty"`
}

// SplitLaTeX splits a latex content block into ordered segments: inline
// math delimited by $...$, literal \\ line breaks, and the plain text
// between them. An unterminated $ is kept as literal text rather than
// swallowing the rest of the block.
func SplitLaTeX(s string) []Segment {
	var segs []Segment
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentText, Value: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '$':
			end := strings.IndexByte(s[i+1:], '$')
			if end < 0 {
				text.WriteString(s[i:])
				i = len(s)
				continue
			}
			flush()
			segs = append(segs, Segment{Kind: SegmentMath, Value: s[i+1 : i+1+end]})
			i += end + 2
		case strings.HasPrefix(s[i:], `\\`):
			flush()
			segs = append(segs, Segment{Kind: SegmentBreak})
			i += 2
		default:
			text.WriteByte(s[i])
			i++
		}
	}
	flush()

	return segs
}
