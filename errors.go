package typeface

import (
	"errors"
	"fmt"
)

// Sentinel errors for the typeface package.
var (
	// ErrNoFont is returned when a layer or embedded-image accessor is
	// invoked without a font context. This is a caller-contract violation,
	// not a recoverable runtime condition.
	ErrNoFont = errors.New("typeface: operation requires a font context")

	// ErrGlyphMissing is returned by GlyphSet.Get when an index inside the
	// declared length has neither an entry nor a backend to materialize it.
	ErrGlyphMissing = errors.New("typeface: glyph entry not materialized and no backend attached")
)

// ReservedUnicodeError is returned when unicode 0 is assigned to a glyph
// not named ".null". Code point 0 is reserved exclusively for that glyph.
type ReservedUnicodeError struct {
	Name string // the offending glyph name
}

func (e *ReservedUnicodeError) Error() string {
	return fmt.Sprintf("typeface: unicode 0 is reserved for .null, not %q", e.Name)
}

// ParseError is returned when SVG path data contains an unexpected
// character. Parsing has no partial-recovery state: on failure the Path's
// command buffer is left wherever parsing reached, and the caller must
// discard the instance.
type ParseError struct {
	Char   byte // the offending character
	Offset int  // byte offset of the character in the input
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("typeface: unexpected character %q at offset %d in path data", e.Char, e.Offset)
}

// ContourError reports an internal consistency failure while grouping a
// glyph's raw point list into contours: a non-empty trailing partial
// contour means the upstream point list is malformed, not the caller's
// input.
type ContourError struct {
	Remaining int // points left unflushed after the last contour end
}

func (e *ContourError) Error() string {
	return fmt.Sprintf("typeface: %d unterminated contour point(s) in glyph point list", e.Remaining)
}

// IndexError is returned by GlyphSet.Get for an index outside the set's
// declared range.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("typeface: glyph index %d out of range [0, %d)", e.Index, e.Len)
}
