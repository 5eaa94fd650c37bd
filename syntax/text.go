package syntax

import "fmt"

// TextRange is a half-open byte range [Start, End) into a source text.
type TextRange struct {
	Start int
	End   int
}

func NewTextRange(start, end int) TextRange {
	if end < start {
		panic(fmt.Sprintf("syntax: invalid text range %d..%d", start, end))
	}
	return TextRange{Start: start, End: end}
}

func (r TextRange) Len() int {
	return r.End - r.Start
}

func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether the offset lies inside the range.
func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsRange reports whether other lies fully inside r. Boundaries
// count as inside, so a range contains itself and any empty range at
// its edges.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Shift returns the range moved by delta bytes.
func (r TextRange) Shift(delta int) TextRange {
	return TextRange{Start: r.Start + delta, End: r.End + delta}
}

// TextEdit replaces the bytes in Range with NewText.
type TextEdit struct {
	Range   TextRange
	NewText string
}

// Apply returns text with the edit applied.
func (e TextEdit) Apply(text string) string {
	return text[:e.Range.Start] + e.NewText + text[e.Range.End:]
}

// Delta is the change in total text length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - e.Range.Len()
}
