// Package warning defines the diagnostic model shared by every layer of the
// analyzer: a severity-tagged, code-tagged message anchored to a source
// range, plus the offset↔position translation table that makes source
// ranges meaningful across both top-level and inline documents.
package warning

import (
	"fmt"
	"sort"
)

// Severity classifies how serious a Warning is.
type Severity int

const (
	Info Severity = iota
	WarningSeverity
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case WarningSeverity:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Well-known warning codes produced by the core (parser-emitted codes are
// defined by the individual parsers).
const (
	CodeCouldNotLoad              = "could-not-load"
	CodeCouldNotResolveReference  = "could-not-resolve-reference"
	CodeBehaviorNotRecognized     = "behavior-not-recognized"
	CodeUnknownParser             = "unknown-parser"
)

// Position is a 1-indexed line/column pair, matching the convention used
// by editor tooling and Go's own token.Position.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceRange locates a span of text inside a named file. For inline
// documents, Start/End are already expressed in the host file's
// coordinate space (the LocationOffset has been applied).
type SourceRange struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%s:%d:%d", r.File, r.Start.Line, r.Start.Column)
}

// Warning is the uniform diagnostic record produced anywhere in the
// pipeline: parse failures, scan failures, and resolution failures all
// become a Warning attached to the document that was affected by them,
// rather than propagating as a Go error across document boundaries.
type Warning struct {
	Code        string      `json:"code"`
	Message     string      `json:"message"`
	SourceRange SourceRange `json:"sourceRange"`
	Severity    Severity    `json:"severity"`
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s [%s] (%s)", w.Severity, w.Message, w.Code, w.SourceRange)
}

// LocationOffset is the additive (line, column) translation applied to
// every source range produced for an inline document, so that ranges
// computed against the inline document's own contents remain accurate
// once expressed in the host file's coordinates.
type LocationOffset struct {
	Line     int
	Column   int
	Filename string
}

// OffsetIndex maps byte offsets into a piece of text to line/column
// positions and back, in O(log n) time. It is built once from the text's
// newline offsets and is immutable afterward: offset↔position translation
// must round-trip exactly for every valid offset, which ParsedDocument's
// offset translation relies on.
type OffsetIndex struct {
	newlineOffsets []int // byte offset of every '\n' in the text, ascending
	textLen        int
	offset         LocationOffset
	filename       string
}

// NewOffsetIndex scans contents once for newlines and builds the index.
// offset is applied to every position this index produces; it is the zero
// value for top-level (non-inline) documents.
func NewOffsetIndex(contents []byte, filename string, offset LocationOffset) *OffsetIndex {
	idx := &OffsetIndex{textLen: len(contents), offset: offset, filename: filename}
	for i, b := range contents {
		if b == '\n' {
			idx.newlineOffsets = append(idx.newlineOffsets, i)
		}
	}
	return idx
}

// Filename returns the name under which SourceRanges built from this index
// should be reported.
func (idx *OffsetIndex) Filename() string {
	if idx.offset.Filename != "" {
		return idx.offset.Filename
	}
	return idx.filename
}

// OffsetToPosition converts a byte offset into contents into a
// LocationOffset-adjusted 1-indexed line/column position. Only the first
// line of the document absorbs the host column offset (every subsequent
// line starts a fresh line in the host file, so its column is unaffected).
func (idx *OffsetIndex) OffsetToPosition(byteOffset int) Position {
	// zeroLine/zeroCol are 0-indexed, relative to this document's own text.
	zeroLine := sort.Search(len(idx.newlineOffsets), func(i int) bool {
		return idx.newlineOffsets[i] >= byteOffset
	})
	zeroCol := byteOffset
	if zeroLine > 0 {
		zeroCol = byteOffset - idx.newlineOffsets[zeroLine-1] - 1
	}

	line := zeroLine + idx.offset.Line
	col := zeroCol
	if zeroLine == 0 {
		col += idx.offset.Column
	}
	return Position{Line: line + 1, Column: col + 1}
}

// PositionToOffset is the inverse of OffsetToPosition: given a
// LocationOffset-adjusted line/column, it returns the byte offset into
// contents. It is the exact left inverse required by the round-trip
// invariant in spec.md §8.
func (idx *OffsetIndex) PositionToOffset(pos Position) (int, error) {
	zeroLine := pos.Line - 1 - idx.offset.Line
	zeroCol := pos.Column - 1
	if zeroLine == 0 {
		zeroCol -= idx.offset.Column
	}
	if zeroLine < 0 || zeroCol < 0 {
		return 0, fmt.Errorf("offsetindex: position %v out of range", pos)
	}

	var lineStart int
	if zeroLine > 0 {
		if zeroLine-1 >= len(idx.newlineOffsets) {
			return 0, fmt.Errorf("offsetindex: line %d out of range", pos.Line)
		}
		lineStart = idx.newlineOffsets[zeroLine-1] + 1
	}

	offset := lineStart + zeroCol
	if offset < 0 || offset > idx.textLen {
		return 0, fmt.Errorf("offsetindex: position %v out of range", pos)
	}
	return offset, nil
}

// OffsetsToSourceRange builds a SourceRange spanning [start, end).
func (idx *OffsetIndex) OffsetsToSourceRange(start, end int) SourceRange {
	return SourceRange{
		File:  idx.Filename(),
		Start: idx.OffsetToPosition(start),
		End:   idx.OffsetToPosition(end),
	}
}

// SourceRangeToOffsets is the inverse of OffsetsToSourceRange.
func (idx *OffsetIndex) SourceRangeToOffsets(r SourceRange) (start, end int, err error) {
	start, err = idx.PositionToOffset(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = idx.PositionToOffset(r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
