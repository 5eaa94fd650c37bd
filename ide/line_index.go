package ide

import (
	"unicode/utf16"
	"unicode/utf8"
)

// LineIndex maps between byte offsets and line/character positions.
// Characters are counted in UTF-16 code units, matching what editors
// speak over the wire.
type LineIndex struct {
	text   string
	starts []int // byte offset of each line start; starts[0] == 0
}

func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

func (ix *LineIndex) NumLines() int {
	return len(ix.starts)
}

// lineFor returns the index of the line containing the byte offset.
func (ix *LineIndex) lineFor(offset int) int {
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func (ix *LineIndex) lineText(line int) string {
	start := ix.starts[line]
	end := len(ix.text)
	if line+1 < len(ix.starts) {
		end = ix.starts[line+1]
	}
	return ix.text[start:end]
}

// LineCol converts a byte offset into a zero-based line and UTF-16
// character. Offsets outside the text are clamped.
func (ix *LineIndex) LineCol(offset int) (line, character int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}
	line = ix.lineFor(offset)
	prefix := ix.text[ix.starts[line]:offset]
	for _, r := range prefix {
		character += len(utf16.Encode([]rune{r}))
	}
	return line, character
}

// Offset converts a zero-based line and UTF-16 character into a byte
// offset, clamping positions past the end of a line or the file.
func (ix *LineIndex) Offset(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(ix.starts) {
		return len(ix.text)
	}
	text := ix.lineText(line)
	offset := ix.starts[line]
	units := 0
	for offset < ix.starts[line]+len(text) {
		r, size := utf8.DecodeRuneInString(ix.text[offset:])
		if r == '\n' || units >= character {
			break
		}
		units += len(utf16.Encode([]rune{r}))
		offset += size
	}
	return offset
}
