package markup

import "fmt"

// Span is a half-open byte range [Start, End) into the source document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len reports the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Len() == 0
}

// Slice returns the source text covered by the span, clamped to the source bounds.
func (s Span) Slice(src string) string {
	start, end := clamp(s.Start, len(src)), clamp(s.End, len(src))
	if end < start {
		return ""
	}
	return src[start:end]
}

// Shift moves the span by offset bytes.
func (s Span) Shift(offset int) Span {
	return Span{Start: s.Start + offset, End: s.End + offset}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
