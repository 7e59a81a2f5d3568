package opentype

import (
	"fmt"
	"math"
	"sync"

	xfont "golang.org/x/image/font"
	xot "golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/typeface"
)

// ximageBackend implements Backend using golang.org/x/image/font.
type ximageBackend struct{}

// Parse implements Backend.Parse.
func (ximageBackend) Parse(data []byte) (ParsedFont, error) {
	f, err := xot.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("opentype: ximage parse failed: %w", err)
	}
	return &ximageFont{font: f, upem: float64(f.UnitsPerEm())}, nil
}

// ximageFont implements ParsedFont over an sfnt.Font. The shared
// sfnt.Buffer requires serialized access.
type ximageFont struct {
	mu   sync.Mutex
	buf  sfnt.Buffer
	font *xot.Font
	upem float64
}

func (f *ximageFont) UnitsPerEm() float64 { return f.upem }

func (f *ximageFont) NumGlyphs() int { return f.font.NumGlyphs() }

func (f *ximageFont) GlyphIndex(r rune) (int, bool) {
	f.mu.Lock()
	gid, err := f.font.GlyphIndex(&f.buf, r)
	f.mu.Unlock()
	if err != nil || gid == 0 {
		return 0, false
	}
	return int(gid), true
}

// Name implements the namer capability.
func (f *ximageFont) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, err := f.font.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// FullName implements the namer capability.
func (f *ximageFont) FullName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, err := f.font.Name(&f.buf, sfnt.NameIDFull); err == nil {
		return name
	}
	return ""
}

// designPPEM returns the pixel size at which loaded coordinates equal
// design units.
func (f *ximageFont) designPPEM() fixed.Int26_6 {
	return fixed.Int26_6(f.upem * 64)
}

// PushGlyph implements typeface.GlyphBackend.
func (f *ximageFont) PushGlyph(index int) (typeface.GlyphProducer, typeface.GlyphData, error) {
	if index < 0 || index >= f.font.NumGlyphs() {
		return nil, typeface.GlyphData{}, fmt.Errorf("opentype: glyph %d out of range", index)
	}
	gid := sfnt.GlyphIndex(index)
	ppem := f.designPPEM()

	f.mu.Lock()
	name, _ := f.font.GlyphName(&f.buf, gid)
	adv, advErr := f.font.GlyphAdvance(&f.buf, gid, ppem, xfont.HintingNone)
	bounds, _, boundsErr := f.font.GlyphBounds(&f.buf, gid, ppem, xfont.HintingNone)
	f.mu.Unlock()

	data := typeface.GlyphData{Name: name}
	if advErr == nil {
		data.AdvanceWidth = fixedToFloat64(adv)
		data.HasMetrics = true
	}
	if boundsErr == nil {
		data.LeftSideBearing = fixedToFloat64(bounds.Min.X)
	}

	producer := func() (*typeface.Glyph, error) {
		o := typeface.GlyphOptions{
			Index: index,
			XMin:  math.NaN(),
			YMin:  math.NaN(),
			XMax:  math.NaN(),
			YMax:  math.NaN(),
			Producer: func() *typeface.Path {
				return f.glyphOutline(gid)
			},
		}
		if boundsErr == nil {
			// GlyphBounds is Y-down; outline space is Y-up.
			o.XMin = fixedToFloat64(bounds.Min.X)
			o.XMax = fixedToFloat64(bounds.Max.X)
			o.YMin = -fixedToFloat64(bounds.Max.Y)
			o.YMax = -fixedToFloat64(bounds.Min.Y)
		}
		return typeface.NewGlyph(o)
	}
	return producer, data, nil
}

func (f *ximageFont) glyphOutline(gid sfnt.GlyphIndex) *typeface.Path {
	ppem := f.designPPEM()
	f.mu.Lock()
	segs, err := f.font.LoadGlyph(&f.buf, gid, ppem, nil)
	f.mu.Unlock()

	p := typeface.NewPath()
	p.UnitsPerEm = f.upem
	if err != nil {
		typeface.Logger().Warn("opentype: load glyph failed", "glyph", int(gid), "err", err)
		return p
	}

	// LoadGlyph yields Y-down coordinates; negate into outline space.
	started := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				p.ClosePath()
			}
			p.MoveTo(fixedToFloat64(s.Args[0].X), -fixedToFloat64(s.Args[0].Y))
			started = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(fixedToFloat64(s.Args[0].X), -fixedToFloat64(s.Args[0].Y))
		case sfnt.SegmentOpQuadTo:
			p.QuadraticCurveTo(
				fixedToFloat64(s.Args[0].X), -fixedToFloat64(s.Args[0].Y),
				fixedToFloat64(s.Args[1].X), -fixedToFloat64(s.Args[1].Y))
		case sfnt.SegmentOpCubeTo:
			p.BezierCurveTo(
				fixedToFloat64(s.Args[0].X), -fixedToFloat64(s.Args[0].Y),
				fixedToFloat64(s.Args[1].X), -fixedToFloat64(s.Args[1].Y),
				fixedToFloat64(s.Args[2].X), -fixedToFloat64(s.Args[2].Y))
		}
	}
	if started {
		p.ClosePath()
	}
	return p
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
