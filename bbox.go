package typeface

import "math"

// BoundingBox is an incremental axis-aligned bounds tracker with exact
// Bezier-extremum support. The zero value (via NewBoundingBox) is empty:
// no point has been added yet and the coordinate fields hold NaN. The
// first added point makes the box non-empty, and that transition is
// irreversible.
//
// Adding a cubic or quadratic curve widens the box to include the entire
// curve, not merely its endpoints and control points.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() *BoundingBox {
	nan := math.NaN()
	return &BoundingBox{X1: nan, Y1: nan, X2: nan, Y2: nan}
}

// IsEmpty reports whether no point or curve has ever been added.
func (b *BoundingBox) IsEmpty() bool {
	return math.IsNaN(b.X1) || math.IsNaN(b.Y1) || math.IsNaN(b.X2) || math.IsNaN(b.Y2)
}

// Width returns the horizontal extent of the box.
func (b *BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b *BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// AddX widens the box along the x axis only.
func (b *BoundingBox) AddX(x float64) {
	if math.IsNaN(b.X1) || math.IsNaN(b.X2) {
		b.X1 = x
		b.X2 = x
	}
	if x < b.X1 {
		b.X1 = x
	}
	if x > b.X2 {
		b.X2 = x
	}
}

// AddY widens the box along the y axis only.
func (b *BoundingBox) AddY(y float64) {
	if math.IsNaN(b.Y1) || math.IsNaN(b.Y2) {
		b.Y1 = y
		b.Y2 = y
	}
	if y < b.Y1 {
		b.Y1 = y
	}
	if y > b.Y2 {
		b.Y2 = y
	}
}

// AddPoint widens the box to include the point (x, y).
func (b *BoundingBox) AddPoint(x, y float64) {
	b.AddX(x)
	b.AddY(y)
}

// AddBezier widens the box to include the entire cubic Bezier curve from
// (x0, y0) to (x, y) with control points (x1, y1) and (x2, y2).
//
// Both endpoints are always included. Interior extrema are found per axis
// by solving the derivative of the cubic Bernstein polynomial; each root
// strictly inside (0, 1) is evaluated and added.
func (b *BoundingBox) AddBezier(x0, y0, x1, y1, x2, y2, x, y float64) {
	b.AddPoint(x0, y0)
	b.AddPoint(x, y)

	cubicExtrema(x0, x1, x2, x, b.AddX)
	cubicExtrema(y0, y1, y2, y, b.AddY)
}

// AddQuad widens the box to include the entire quadratic Bezier curve from
// (x0, y0) to (x, y) with control point (x1, y1). The quadratic is
// degree-elevated to an equivalent cubic, which AddBezier bounds exactly.
func (b *BoundingBox) AddQuad(x0, y0, x1, y1, x, y float64) {
	cp1x := x0 + 2.0/3.0*(x1-x0)
	cp1y := y0 + 2.0/3.0*(y1-y0)
	cp2x := cp1x + 1.0/3.0*(x-x0)
	cp2y := cp1y + 1.0/3.0*(y-y0)
	b.AddBezier(x0, y0, cp1x, cp1y, cp2x, cp2y, x, y)
}

// cubicExtrema finds the interior extrema of a one-axis cubic Bezier with
// coordinates v0..v3 and reports each extremum value to add. Roots at the
// boundary are skipped: the endpoints are handled by the caller.
func cubicExtrema(v0, v1, v2, v3 float64, add func(float64)) {
	a := -3*v0 + 9*v1 - 9*v2 + 3*v3
	b := 6*v0 - 12*v1 + 6*v2
	c := 3*v1 - 3*v0

	addRoot := func(t float64) {
		if t > 0 && t < 1 {
			add(cubicValue(v0, v1, v2, v3, t))
		}
	}

	if a == 0 {
		// Derivative degenerates to a line.
		if b == 0 {
			return
		}
		addRoot(-c / b)
		return
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return
	}
	sq := math.Sqrt(disc)
	addRoot((-b + sq) / (2 * a))
	addRoot((-b - sq) / (2 * a))
}

// cubicValue evaluates the cubic Bernstein form at t.
func cubicValue(v0, v1, v2, v3, t float64) float64 {
	u := 1 - t
	return u*u*u*v0 + 3*u*u*t*v1 + 3*u*t*t*v2 + t*t*t*v3
}
