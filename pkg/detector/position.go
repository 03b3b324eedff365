package detector

import (
	"sort"
	"unicode/utf8"
)

// lineIndex translates byte offsets into 1-based source positions, with
// columns counted in Unicode code points rather than bytes.
type lineIndex struct {
	source     []byte
	lineStarts []int // byte offset of the first byte of each line (0-based line index)
}

// newLineIndex builds a lineIndex for source. Line 0 always starts at
// byte 0; each subsequent entry is the byte immediately following a '\n'.
func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{source: source, lineStarts: starts}
}

// position converts a byte offset into a 1-based (line, column) pair,
// where column counts code points from the start of the line.
func (li *lineIndex) position(byteOffset int) (line, col int) {
	if byteOffset < 0 {
		byteOffset = 0
	}
	if byteOffset > len(li.source) {
		byteOffset = len(li.source)
	}

	idx := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > byteOffset
	}) - 1
	if idx < 0 {
		idx = 0
	}

	lineStart := li.lineStarts[idx]
	col = 1
	for i := lineStart; i < byteOffset; {
		_, size := utf8.DecodeRune(li.source[i:])
		if size <= 0 {
			size = 1
		}
		i += size
		col++
	}
	return idx + 1, col
}
