package typeface

import (
	"fmt"
	"testing"
)

func TestNewPath_Defaults(t *testing.T) {
	p := NewPath()
	if p.Fill != "black" {
		t.Errorf("default fill = %q, want %q", p.Fill, "black")
	}
	if p.Stroke != "" {
		t.Errorf("default stroke = %q, want none", p.Stroke)
	}
	if p.StrokeWidth != 1 {
		t.Errorf("default stroke width = %g, want 1", p.StrokeWidth)
	}
	if len(p.Elements()) != 0 {
		t.Errorf("new path should have no elements, got %d", len(p.Elements()))
	}
}

func TestPath_Mutators(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(1, 2)
	p.QuadTo(3, 4, 5, 6)
	p.CurveTo(7, 8, 9, 10, 11, 12)
	p.Close()

	want := []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(1, 2)},
		QuadTo{Control: Pt(3, 4), Point: Pt(5, 6)},
		CubicTo{Control1: Pt(7, 8), Control2: Pt(9, 10), Point: Pt(11, 12)},
		Close{},
	}
	assertElements(t, p.Elements(), want)
}

func TestPath_Aliases(t *testing.T) {
	p := NewPath()
	p.QuadraticCurveTo(1, 2, 3, 4)
	p.BezierCurveTo(5, 6, 7, 8, 9, 10)
	p.ClosePath()

	q := NewPath()
	q.QuadTo(1, 2, 3, 4)
	q.CurveTo(5, 6, 7, 8, 9, 10)
	q.Close()
	assertElements(t, p.Elements(), q.Elements())
}

func TestPath_Extend(t *testing.T) {
	a := NewPath()
	a.MoveTo(0, 0)
	b := NewPath()
	b.LineTo(5, 5)

	a.Extend(b)
	a.ExtendElements([]PathElement{Close{}})
	want := []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(5, 5)},
		Close{},
	}
	assertElements(t, a.Elements(), want)
}

func TestPath_ExtendBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	bb.AddPoint(1, 2)
	bb.AddPoint(11, 22)

	p := NewPath()
	p.ExtendBoundingBox(bb)
	want := []PathElement{
		MoveTo{Point: Pt(1, 2)},
		LineTo{Point: Pt(11, 2)},
		LineTo{Point: Pt(11, 22)},
		LineTo{Point: Pt(1, 22)},
		Close{},
	}
	assertElements(t, p.Elements(), want)
}

func TestPath_BoundingBox_EmptySeedsOrigin(t *testing.T) {
	bb := NewPath().BoundingBox()
	if bb.IsEmpty() {
		t.Fatal("path bounding box should never be empty")
	}
	if bb.X1 != 0 || bb.Y1 != 0 || bb.X2 != 0 || bb.Y2 != 0 {
		t.Errorf("empty path box = %+v, want origin", *bb)
	}
}

func TestPath_BoundingBox_CurveExtrema(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.QuadTo(50, 100, 100, 0)

	bb := p.BoundingBox()
	// The control point at y=100 pulls the curve only to y=50.
	if bb.Y2 != 50 {
		t.Errorf("curve peak = %g, want 50", bb.Y2)
	}
	if bb.X1 != 0 || bb.X2 != 100 || bb.Y1 != 0 {
		t.Errorf("box = %+v, want (0,0,100,50)", *bb)
	}
}

func TestPath_BoundingBox_CloseRestoresCursor(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 10)
	p.LineTo(20, 10)
	p.Close()
	// The curve starts from the subpath start after the close.
	p.QuadTo(10, 30, 10, 10)

	bb := p.BoundingBox()
	if bb.Y2 != 20 {
		t.Errorf("post-close curve peak = %g, want 20", bb.Y2)
	}
}

// recordingSink records draw calls as strings.
type recordingSink struct {
	calls []string
}

func (s *recordingSink) MoveTo(x, y float64) { s.record("M%g,%g", x, y) }
func (s *recordingSink) LineTo(x, y float64) { s.record("L%g,%g", x, y) }
func (s *recordingSink) QuadTo(x1, y1, x, y float64) {
	s.record("Q%g,%g,%g,%g", x1, y1, x, y)
}
func (s *recordingSink) CubicTo(x1, y1, x2, y2, x, y float64) {
	s.record("C%g,%g,%g,%g,%g,%g", x1, y1, x2, y2, x, y)
}
func (s *recordingSink) ClosePath()          { s.record("Z") }
func (s *recordingSink) Fill(color string)   { s.record("fill:%s", color) }
func (s *recordingSink) Stroke(color string, width float64) {
	s.record("stroke:%s:%g", color, width)
}
func (s *recordingSink) DrawImage(img *GlyphImage) { s.record("image:%s", img.Format) }

func (s *recordingSink) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func TestPath_Draw_Commands(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.Close()

	sink := &recordingSink{}
	p.Draw(sink)

	want := []string{"M0,0", "L10,0", "Z", "fill:black"}
	assertCalls(t, sink.calls, want)
}

func TestPath_Draw_FillAndStroke(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.Fill = ""
	p.Stroke = "red"
	p.StrokeWidth = 3

	sink := &recordingSink{}
	p.Draw(sink)
	assertCalls(t, sink.calls, []string{"M0,0", "stroke:red:3"})
}

func TestPath_Draw_LayersTakePrecedence(t *testing.T) {
	layer := NewPath()
	layer.MoveTo(1, 1)
	layer.Fill = "red"

	p := NewPath()
	p.MoveTo(9, 9) // must not be drawn
	p.Layers = []*Path{layer}

	sink := &recordingSink{}
	p.Draw(sink)
	assertCalls(t, sink.calls, []string{"M1,1", "fill:red"})
}

func TestPath_Draw_ImageTakesPrecedence(t *testing.T) {
	p := NewPath()
	p.MoveTo(9, 9) // must not be drawn
	p.Image = &GlyphImage{Format: "png"}

	sink := &recordingSink{}
	p.Draw(sink)
	assertCalls(t, sink.calls, []string{"image:png"})
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}
