package typeface

// PathElement represents a single drawing command in a path.
//
// A run of elements from one MoveTo up to (and including) the next Close
// or the next MoveTo forms a subpath. Coordinates are in font design
// units unless otherwise scaled.
//
// Command validity is not enforced structurally: a curve before any
// MoveTo is accepted. This mirrors the permissive contract of the table
// decoders that feed paths in.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// GlyphImage describes an embedded raster or SVG image standing in for a
// glyph outline (color bitmap or SVG-in-font). X, Y, Width and Height
// position the image; Data holds the encoded pixel source.
type GlyphImage struct {
	X, Y          float64
	Width, Height float64
	Data          []byte
	Format        string // "png", "jpeg", "tiff", "svg", "mono"
}

// Path is an ordered drawing-command sequence with fill, stroke, layer
// and image metadata. Insertion order is semantic.
//
// At most one of {Layers, Image, element sequence} is the active
// rendering mode per instance; Layers and Image take precedence over the
// element sequence when present.
type Path struct {
	elements []PathElement

	// Fill is the fill color; "" disables filling. Defaults to "black".
	Fill string

	// Stroke is the stroke color; "" disables stroking (the default).
	Stroke string

	// StrokeWidth is the stroke width. Defaults to 1.
	StrokeWidth float64

	// UnitsPerEm is an optional scale reference, set by the owning glyph
	// or font. Zero means unset.
	UnitsPerEm float64

	// Layers holds child paths for multi-color composite glyphs.
	Layers []*Path

	// Image holds an embedded image replacing outline rendering.
	Image *GlyphImage
}

// NewPath creates a new empty path with default fill and stroke settings.
func NewPath() *Path {
	return &Path{
		elements:    make([]PathElement, 0, 16),
		Fill:        "black",
		StrokeWidth: 1,
	}
}

// MoveTo appends a move to (x, y) without drawing.
func (p *Path) MoveTo(x, y float64) {
	p.elements = append(p.elements, MoveTo{Point: Pt(x, y)})
}

// LineTo appends a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.elements = append(p.elements, LineTo{Point: Pt(x, y)})
}

// QuadTo appends a quadratic Bezier curve with control point (x1, y1)
// ending at (x, y).
func (p *Path) QuadTo(x1, y1, x, y float64) {
	p.elements = append(p.elements, QuadTo{Control: Pt(x1, y1), Point: Pt(x, y)})
}

// QuadraticCurveTo is an alias for QuadTo.
func (p *Path) QuadraticCurveTo(x1, y1, x, y float64) {
	p.QuadTo(x1, y1, x, y)
}

// CurveTo appends a cubic Bezier curve with control points (x1, y1) and
// (x2, y2) ending at (x, y).
func (p *Path) CurveTo(x1, y1, x2, y2, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(x1, y1),
		Control2: Pt(x2, y2),
		Point:    Pt(x, y),
	})
}

// BezierCurveTo is an alias for CurveTo.
func (p *Path) BezierCurveTo(x1, y1, x2, y2, x, y float64) {
	p.CurveTo(x1, y1, x2, y2, x, y)
}

// Close appends a close of the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
}

// ClosePath is an alias for Close.
func (p *Path) ClosePath() {
	p.Close()
}

// Elements returns the path's drawing commands. The returned slice is the
// path's own buffer; callers must not modify it.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Extend appends another path's commands to p.
func (p *Path) Extend(src *Path) {
	p.elements = append(p.elements, src.elements...)
}

// ExtendElements appends a raw command sequence to p.
func (p *Path) ExtendElements(elems []PathElement) {
	p.elements = append(p.elements, elems...)
}

// ExtendBoundingBox appends the four corners of a bounding box to p as a
// closed rectangle.
func (p *Path) ExtendBoundingBox(bb *BoundingBox) {
	p.MoveTo(bb.X1, bb.Y1)
	p.LineTo(bb.X2, bb.Y1)
	p.LineTo(bb.X2, bb.Y2)
	p.LineTo(bb.X1, bb.Y2)
	p.Close()
}

// BoundingBox computes the exact bounds of the path's commands, curve
// extrema included. If the path has no drawable commands the box is
// seeded with the origin, so callers never observe the empty state.
func (p *Path) BoundingBox() *BoundingBox {
	bb := boundingBoxOf(p.elements)
	if bb.IsEmpty() {
		bb.AddPoint(0, 0)
	}
	return bb
}

// boundingBoxOf walks the commands tracking start and prev cursor
// positions: reset at each MoveTo, restored at each Close. Curves use the
// current cursor as their start point.
func boundingBoxOf(elems []PathElement) *BoundingBox {
	bb := NewBoundingBox()
	var start, prev Point
	for _, e := range elems {
		switch e := e.(type) {
		case MoveTo:
			start = e.Point
			prev = e.Point
		case LineTo:
			bb.AddPoint(e.Point.X, e.Point.Y)
			prev = e.Point
		case QuadTo:
			bb.AddQuad(prev.X, prev.Y, e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
			prev = e.Point
		case CubicTo:
			bb.AddBezier(prev.X, prev.Y, e.Control1.X, e.Control1.Y,
				e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
			prev = e.Point
		case Close:
			prev = start
		}
	}
	return bb
}

// DrawSink is an immediate-mode drawing consumer. Draw walks commands,
// layers or the embedded image in order and issues calls against it,
// filling then stroking per the path's current Fill and Stroke settings.
//
// The sink is a collaborator contract only: typeface does not rasterize.
type DrawSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(x1, y1, x, y float64)
	CubicTo(x1, y1, x2, y2, x, y float64)
	ClosePath()
	Fill(color string)
	Stroke(color string, width float64)
	DrawImage(img *GlyphImage)
}

// Draw issues the path against an immediate-mode sink in command order.
// Layers and the embedded image take precedence over the command
// sequence.
func (p *Path) Draw(sink DrawSink) {
	if len(p.Layers) > 0 {
		for _, layer := range p.Layers {
			layer.Draw(sink)
		}
		return
	}
	if p.Image != nil {
		sink.DrawImage(p.Image)
		return
	}
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			sink.MoveTo(e.Point.X, e.Point.Y)
		case LineTo:
			sink.LineTo(e.Point.X, e.Point.Y)
		case QuadTo:
			sink.QuadTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case CubicTo:
			sink.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case Close:
			sink.ClosePath()
		}
	}
	if p.Fill != "" {
		sink.Fill(p.Fill)
	}
	if p.Stroke != "" {
		sink.Stroke(p.Stroke, p.StrokeWidth)
	}
}
