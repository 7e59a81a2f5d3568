package typeface

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Rounding and formatting
// =============================================================================

func TestRounder_Format(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   string
	}{
		{0, 2, "0"},
		{100, 2, "100"},
		{-3, 2, "-3"},
		{0.5, 2, "0.50"},
		{-0.5, 2, "-0.50"},
		{12.5, 2, "12.50"},
		{1.004, 2, "1"},
		{1.006, 2, "1.01"},
		{-0.004, 2, "0"},
		{2.5, 0, "3"},
		{1.25, 1, "1.3"},
		{7.123456, 4, "7.1235"},
	}

	for _, tc := range tests {
		if got := defaultRounder.format(tc.v, tc.places); got != tc.want {
			t.Errorf("format(%g, %d) = %q, want %q", tc.v, tc.places, got, tc.want)
		}
	}
}

func TestRounder_Round(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.006, 2, 1.01},
		{-1.006, 2, -1.01},
		{10.123, 2, 10.12},
		{3, 2, 3},
	}
	for _, tc := range tests {
		if got := defaultRounder.round(tc.v, tc.places); got != tc.want {
			t.Errorf("round(%g, %d) = %g, want %g", tc.v, tc.places, got, tc.want)
		}
	}
}

// =============================================================================
// Serialization
// =============================================================================

func TestToPathData_Simple(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.LineTo(100, 100)
	p.Close()

	got := p.ToPathData(WithFlipY(false), WithOptimize(false))
	if got != "M0 0L100 0L100 100Z" {
		t.Errorf("path data = %q, want %q", got, "M0 0L100 0L100 100Z")
	}
}

func TestToPathData_NegativeSuppressesSeparator(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, -20)
	p.LineTo(-5, -6)

	got := p.ToPathData(WithFlipY(false), WithOptimize(false))
	if got != "M10-20L-5-6" {
		t.Errorf("path data = %q, want %q", got, "M10-20L-5-6")
	}
}

func TestToPathData_Decimals(t *testing.T) {
	p := NewPath()
	p.MoveTo(1.236, 0)
	p.LineTo(2.5, 0.125)

	got := p.ToPathData(WithFlipY(false), WithOptimize(false), WithDecimals(2))
	if got != "M1.24 0L2.50 0.13" {
		t.Errorf("path data = %q, want %q", got, "M1.24 0L2.50 0.13")
	}
}

func TestToPathData_FlipY(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.LineTo(0, 10)
	p.Close()

	// Default base mirrors around the shape's own vertical center:
	// Y1+Y2 = 10.
	got := p.ToPathData()
	if got != "M0 10L10 10L10 0L0 0Z" {
		t.Errorf("flipped path data = %q, want %q", got, "M0 10L10 10L10 0L0 0Z")
	}
}

func TestToPathData_FlipYBase(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 4)

	got := p.ToPathData(WithFlipYBase(100), WithOptimize(false))
	if got != "M0 100L10 96" {
		t.Errorf("path data = %q, want %q", got, "M0 100L10 96")
	}
}

func TestToPathData_EmptyPathFlip(t *testing.T) {
	p := NewPath()
	if got := p.ToPathData(); got != "" {
		t.Errorf("empty path should serialize to \"\", got %q", got)
	}
}

func TestOptimize_DropsClosingLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.LineTo(100, 100)
	p.LineTo(0, 100)
	p.LineTo(0, 0) // redundant: Z draws this line
	p.Close()

	got := p.ToPathData(WithFlipY(false))
	if got != "M0 0L100 0L100 100L0 100Z" {
		t.Errorf("optimized path data = %q, want %q", got, "M0 0L100 0L100 100L0 100Z")
	}
}

func TestOptimize_NearClosingLineWithinOneUnit(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.LineTo(0.6, 0.9) // within 1 unit of the start on both axes
	p.Close()

	got := p.ToPathData(WithFlipY(false))
	if got != "M0 0L100 0Z" {
		t.Errorf("optimized path data = %q, want %q", got, "M0 0L100 0Z")
	}
}

func TestOptimize_DropsZeroLengthLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(50, 50)
	p.LineTo(50, 50)
	p.LineTo(100, 0)

	got := p.ToPathData(WithFlipY(false))
	if got != "M0 0L50 50L100 0" {
		t.Errorf("optimized path data = %q, want %q", got, "M0 0L50 50L100 0")
	}
}

func TestOptimize_FoldsLeadingDuplicateLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(5, 5)
	p.LineTo(5, 5)
	p.LineTo(10, 10)

	got := p.ToPathData(WithFlipY(false))
	if got != "M5 5L10 10" {
		t.Errorf("optimized path data = %q, want %q", got, "M5 5L10 10")
	}
}

func TestToSVG(t *testing.T) {
	square := func() *Path {
		p := NewPath()
		p.MoveTo(0, 0)
		p.LineTo(10, 0)
		p.LineTo(10, 10)
		p.LineTo(0, 10)
		p.Close()
		return p
	}

	t.Run("default fill omitted", func(t *testing.T) {
		got := square().ToSVG(WithFlipY(false))
		want := `<path d="M0 0L10 0L10 10L0 10Z"/>`
		if got != want {
			t.Errorf("svg = %q, want %q", got, want)
		}
	})

	t.Run("no fill", func(t *testing.T) {
		p := square()
		p.Fill = ""
		if !strings.Contains(p.ToSVG(), ` fill="none"`) {
			t.Errorf("svg missing fill=\"none\": %q", p.ToSVG())
		}
	})

	t.Run("custom fill and stroke", func(t *testing.T) {
		p := square()
		p.Fill = "red"
		p.Stroke = "blue"
		p.StrokeWidth = 2.5
		got := p.ToSVG(WithFlipY(false))
		for _, want := range []string{` fill="red"`, ` stroke="blue"`, ` stroke-width="2.50"`} {
			if !strings.Contains(got, want) {
				t.Errorf("svg %q missing %q", got, want)
			}
		}
	})
}

// =============================================================================
// Parsing
// =============================================================================

func TestParsePathData_Simple(t *testing.T) {
	p, err := ParsePathData("M0 0L100 0L100 100Z", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(100, 0)},
		LineTo{Point: Pt(100, 100)},
		Close{},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_RoundTrip(t *testing.T) {
	const data = "M0 0L100 0L100 100Z"
	p, err := ParsePathData(data, WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := p.ToPathData(WithFlipY(false), WithOptimize(false)); got != data {
		t.Errorf("round trip = %q, want %q", got, data)
	}
}

func TestParsePathData_FlipRoundTrip(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.LineTo(0, 10)
	p.Close()

	// Serialize flipped, parse flipped: both mirror around the same
	// center, recovering the original coordinates.
	q, err := ParsePathData(p.ToPathData())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	assertElements(t, q.Elements(), p.Elements())
}

func TestParsePathData_ImplicitLineTo(t *testing.T) {
	p, err := ParsePathData("M0 0 10 10 20 0", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(10, 10)},
		LineTo{Point: Pt(20, 0)},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_CompactNegatives(t *testing.T) {
	p, err := ParsePathData("M10-20L-5-6", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(10, -20)},
		LineTo{Point: Pt(-5, -6)},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_HorizontalVertical(t *testing.T) {
	p, err := ParsePathData("M1 2H10V20h-4v-6", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(1, 2)},
		LineTo{Point: Pt(10, 2)},
		LineTo{Point: Pt(10, 20)},
		LineTo{Point: Pt(6, 20)},
		LineTo{Point: Pt(6, 14)},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_Relative(t *testing.T) {
	p, err := ParsePathData("m10 10l5 0q5 5 10 0c1 1 2 2 3 3z", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(10, 10)},
		LineTo{Point: Pt(15, 10)},
		QuadTo{Control: Pt(20, 15), Point: Pt(25, 10)},
		CubicTo{Control1: Pt(26, 11), Control2: Pt(27, 12), Point: Pt(28, 13)},
		Close{},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_CursorAfterClose(t *testing.T) {
	// After z the cursor returns to the subpath start, so the relative
	// line is relative to (0,0).
	p, err := ParsePathData("M0 0L10 10zl5 5", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(10, 10)},
		Close{},
		LineTo{Point: Pt(5, 5)},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_DoubleClose(t *testing.T) {
	p, err := ParsePathData("M0 0L5 5ZZ", WithFlipY(false), WithOptimize(false))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	closes := 0
	for _, e := range p.Elements() {
		if _, ok := e.(Close); ok {
			closes++
		}
	}
	if closes != 1 {
		t.Errorf("expected a single close, got %d", closes)
	}
}

func TestParsePathData_OffsetScale(t *testing.T) {
	p, err := ParsePathData("M10 10L20 30",
		WithFlipY(false), WithOptimize(false), WithOffset(100, 200), WithScale(2))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []PathElement{
		MoveTo{Point: Pt(120, 220)},
		LineTo{Point: Pt(140, 260)},
	}
	assertElements(t, p.Elements(), want)
}

func TestParsePathData_Errors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantChar   byte
		wantOffset int
	}{
		{"stray character", "M0 0 L10 0 @ L10 10 Z", '@', 11},
		{"digit before any command", "5 5", '5', 0},
		{"sign before any command", "-5 5", '-', 0},
		{"double sign", "M1 1L2--3", '-', 7},
		{"double decimal point", "M1.2.3 4", '.', 4},
		{"unsupported command letter", "M0 0A5 5", 'A', 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePathData(tc.data)
			if err == nil {
				t.Fatal("expected parse error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if pe.Char != tc.wantChar || pe.Offset != tc.wantOffset {
				t.Errorf("ParseError{%q, %d}, want {%q, %d}",
					pe.Char, pe.Offset, tc.wantChar, tc.wantOffset)
			}
		})
	}
}

func TestFromSVG_AppendsToExisting(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(1, 1)

	if err := p.FromSVG("M5 5L6 6", WithFlipY(false), WithOptimize(false)); err != nil {
		t.Fatalf("FromSVG failed: %v", err)
	}
	if len(p.Elements()) != 4 {
		t.Fatalf("expected 4 elements after append, got %d", len(p.Elements()))
	}
	// The pre-existing prefix is untouched.
	if p.Elements()[1] != (LineTo{Point: Pt(1, 1)}) {
		t.Errorf("prefix element changed: %+v", p.Elements()[1])
	}
}

func assertElements(t *testing.T, got, want []PathElement) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("element count = %d, want %d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// ============================================================
// Benchmarks
// ============================================================

func benchmarkPath() *Path {
	p := NewPath()
	p.MoveTo(12.345, 67.891)
	for i := 0; i < 20; i++ {
		x := float64(i) * 7.125
		p.QuadTo(x+1.5, x+2.25, x+3.125, x+4.5)
		p.LineTo(x, x/3)
	}
	p.Close()
	return p
}

func BenchmarkToPathData(b *testing.B) {
	p := benchmarkPath()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.ToPathData()
	}
}

func BenchmarkParsePathData(b *testing.B) {
	data := benchmarkPath().ToPathData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParsePathData(data); err != nil {
			b.Fatal(err)
		}
	}
}
