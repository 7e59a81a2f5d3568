package typeface

import (
	"math"
	"sync"
)

// Reserved glyph names with fixed semantics.
const (
	// NameNotdef is the conventional name of glyph 0, the missing-glyph
	// box.
	NameNotdef = ".notdef"

	// NameNull is the only glyph allowed to map code point 0.
	NameNull = ".null"
)

// ContourPoint is one point of a raw TrueType contour source: an on- or
// off-curve point, optionally flagged as the last point of its contour.
type ContourPoint struct {
	X, Y               float64
	OnCurve            bool
	LastPointOfContour bool
}

// Contour is a run of contour points ending at a LastPointOfContour flag.
type Contour []ContourPoint

// GlyphOptions configures NewGlyph.
//
// Exactly one of Path and Producer should be set when the glyph has an
// outline; Producer defers outline construction until first access.
// Bounding-box metrics are optional: set them to math.NaN() to mean
// "unknown".
type GlyphOptions struct {
	Index    int
	Name     string
	Unicodes []rune

	XMin, YMin, XMax, YMax float64

	AdvanceWidth    float64
	LeftSideBearing float64

	// Points is the raw on/off-curve point list (TrueType contour
	// source), used only when outlines are point-based rather than
	// command-based.
	Points []ContourPoint

	Path     *Path
	Producer func() *Path
}

// Glyph is a single glyph: identity, metrics, and a deferred outline.
//
// The outline producer is invoked at most once; its result replaces the
// deferred slot and is returned on every subsequent access. Resolution is
// safe under concurrent first access.
type Glyph struct {
	index int

	// Name is the glyph's PostScript name, if known. The names ".notdef"
	// and ".null" have fixed semantics.
	Name string

	unicode    rune
	hasUnicode bool
	unicodes   []rune

	// Authoritative bounding-box metrics, independent of the outline's
	// computed box. NaN means unset.
	XMin, YMin, XMax, YMax float64

	AdvanceWidth    float64
	LeftSideBearing float64

	// Points is the raw TrueType contour source, when present.
	Points []ContourPoint

	resolve  sync.Once
	producer func() *Path
	path     *Path
}

// NewGlyph constructs a glyph and validates the reserved-unicode
// invariant: code point 0 may only be mapped by the glyph named ".null".
func NewGlyph(o GlyphOptions) (*Glyph, error) {
	g := &Glyph{
		index:           o.Index,
		Name:            o.Name,
		XMin:            o.XMin,
		YMin:            o.YMin,
		XMax:            o.XMax,
		YMax:            o.YMax,
		AdvanceWidth:    o.AdvanceWidth,
		LeftSideBearing: o.LeftSideBearing,
		Points:          o.Points,
		path:            o.Path,
		producer:        o.Producer,
	}
	for _, u := range o.Unicodes {
		if err := g.AddUnicode(u); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Index returns the glyph's index in its owning set. The index is
// assigned at construction and never changes.
func (g *Glyph) Index() int { return g.index }

// Unicode returns the glyph's primary code point. ok is false when the
// glyph has no unicode mapping; a mapped code point 0 (the ".null"
// glyph) reports ok true.
func (g *Glyph) Unicode() (r rune, ok bool) {
	return g.unicode, g.hasUnicode
}

// Unicodes returns all mapped code points in insertion order. The
// returned slice is the glyph's own; callers must not modify it.
func (g *Glyph) Unicodes() []rune { return g.unicodes }

// AddUnicode maps an additional code point to the glyph. The first
// mapped code point becomes the primary one if none was set.
//
// Unicode 0 is reserved exclusively for the glyph named ".null";
// assigning it to any other glyph returns a ReservedUnicodeError.
func (g *Glyph) AddUnicode(u rune) error {
	if u == 0 && g.Name != NameNull {
		return &ReservedUnicodeError{Name: g.Name}
	}
	if !g.hasUnicode {
		g.unicode = u
		g.hasUnicode = true
	}
	g.unicodes = append(g.unicodes, u)
	return nil
}

// Outline resolves and returns the glyph's path in design units.
//
// If the glyph was constructed with a producer, the first call invokes
// it exactly once, also under concurrent first access, and memoizes
// the result. A glyph with neither path nor producer resolves to an
// empty path.
func (g *Glyph) Outline() *Path {
	g.resolve.Do(func() {
		if g.path == nil && g.producer != nil {
			g.path = g.producer()
			g.producer = nil
		}
		if g.path == nil {
			g.path = NewPath()
		}
	})
	return g.path
}

// BoundingBox computes the exact bounds of the resolved outline.
func (g *Glyph) BoundingBox() *BoundingBox {
	return g.Outline().BoundingBox()
}

// Metrics are a glyph's horizontal metrics derived from its unscaled
// outline, in design units.
type Metrics struct {
	XMin, XMax float64
	YMin, YMax float64

	LeftSideBearing  float64
	RightSideBearing float64
}

// Metrics scans the unscaled outline commands, endpoints and all curve
// control points included, to derive extents. Axes with no finite value fall
// back to 0, except XMax which falls back to the advance width.
func (g *Glyph) Metrics() Metrics {
	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)

	addPt := func(pt Point) {
		xMin = math.Min(xMin, pt.X)
		xMax = math.Max(xMax, pt.X)
		yMin = math.Min(yMin, pt.Y)
		yMax = math.Max(yMax, pt.Y)
	}
	for _, e := range g.Outline().Elements() {
		switch e := e.(type) {
		case MoveTo:
			addPt(e.Point)
		case LineTo:
			addPt(e.Point)
		case QuadTo:
			addPt(e.Control)
			addPt(e.Point)
		case CubicTo:
			addPt(e.Control1)
			addPt(e.Control2)
			addPt(e.Point)
		}
	}

	if math.IsInf(xMin, 1) {
		xMin = 0
	}
	if math.IsInf(xMax, -1) {
		xMax = g.AdvanceWidth
	}
	if math.IsInf(yMin, 1) {
		yMin = 0
	}
	if math.IsInf(yMax, -1) {
		yMax = 0
	}

	return Metrics{
		XMin:             xMin,
		XMax:             xMax,
		YMin:             yMin,
		YMax:             yMax,
		LeftSideBearing:  g.LeftSideBearing,
		RightSideBearing: g.AdvanceWidth - g.LeftSideBearing - (xMax - xMin),
	}
}

// Contours groups the glyph's raw point list into contours, split at
// each point flagged as the last point of its contour.
//
// A non-empty trailing partial contour is an internal consistency
// failure of the upstream point list and returns a ContourError.
func (g *Glyph) Contours() ([]Contour, error) {
	var contours []Contour
	var cur Contour
	for _, pt := range g.Points {
		cur = append(cur, pt)
		if pt.LastPointOfContour {
			contours = append(contours, cur)
			cur = nil
		}
	}
	if len(cur) != 0 {
		return nil, &ContourError{Remaining: len(cur)}
	}
	return contours, nil
}
