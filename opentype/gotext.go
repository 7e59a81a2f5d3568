package opentype

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/typeface"
)

// gotextBackend implements Backend using github.com/go-text/typesetting.
type gotextBackend struct{}

// Parse implements Backend.Parse.
func (gotextBackend) Parse(data []byte) (ParsedFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opentype: gotext parse failed: %w", err)
	}

	tables, err := parseTableDirectory(data)
	if err != nil {
		return nil, err
	}

	f := &gotextFont{
		face:      face,
		upem:      float64(face.Upem()),
		numGlyphs: int(maxpNumGlyphs(tables["maxp"])),
	}

	if colr, cpal := tables["COLR"], tables["CPAL"]; len(colr) > 0 && len(cpal) > 0 {
		t, err := parseColorTable(colr, cpal)
		if err != nil {
			typeface.Logger().Warn("opentype: ignoring malformed COLR/CPAL", "err", err)
		} else {
			f.colr = t
		}
	}
	if sbix := tables["sbix"]; len(sbix) > 0 && f.numGlyphs > 0 {
		t, err := parseSbix(sbix, f.numGlyphs)
		if err != nil {
			typeface.Logger().Warn("opentype: ignoring malformed sbix", "err", err)
		} else {
			f.sbix = t
		}
	}
	return f, nil
}

// gotextFont implements ParsedFont over a typesetting face. font.Face
// is not safe for concurrent use, so all face access is serialized;
// the raw color tables are read-only after parsing.
type gotextFont struct {
	mu   sync.Mutex
	face *font.Face

	upem      float64
	numGlyphs int

	colr *colorTable
	sbix *sbixTable
}

func (f *gotextFont) UnitsPerEm() float64 { return f.upem }

func (f *gotextFont) NumGlyphs() int { return f.numGlyphs }

func (f *gotextFont) GlyphIndex(r rune) (int, bool) {
	f.mu.Lock()
	gid, ok := f.face.NominalGlyph(r)
	f.mu.Unlock()
	return int(gid), ok
}

// PushGlyph implements typeface.GlyphBackend: cheap identity up front,
// outline decoding deferred to the glyph's own producer.
func (f *gotextFont) PushGlyph(index int) (typeface.GlyphProducer, typeface.GlyphData, error) {
	if index < 0 || index >= f.numGlyphs {
		return nil, typeface.GlyphData{}, fmt.Errorf("opentype: glyph %d out of range", index)
	}
	gid := font.GID(index)

	f.mu.Lock()
	adv := f.face.HorizontalAdvance(gid)
	ext, hasExt := f.face.GlyphExtents(gid)
	f.mu.Unlock()

	data := typeface.GlyphData{
		AdvanceWidth: float64(adv),
		HasMetrics:   true,
	}
	if hasExt {
		data.LeftSideBearing = float64(ext.XBearing)
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
		if index == 0 {
			o.Name = typeface.NameNotdef
		}
		if hasExt {
			h := math.Abs(float64(ext.Height))
			o.XMin = float64(ext.XBearing)
			o.XMax = float64(ext.XBearing) + float64(ext.Width)
			o.YMax = float64(ext.YBearing)
			o.YMin = float64(ext.YBearing) - h
		}
		return typeface.NewGlyph(o)
	}
	return producer, data, nil
}

func (f *gotextFont) glyphOutline(gid font.GID) *typeface.Path {
	f.mu.Lock()
	data := f.face.GlyphData(gid)
	f.mu.Unlock()

	p := typeface.NewPath()
	p.UnitsPerEm = f.upem
	if outline, ok := data.(font.GlyphOutline); ok {
		appendSegments(p, outline.Segments)
	}
	return p
}

// appendSegments converts typesetting segments to path commands.
// Contours are implicitly closed at each MoveTo and at the end.
func appendSegments(p *typeface.Path, segs []ot.Segment) {
	started := false
	for _, s := range segs {
		switch s.Op {
		case ot.SegmentOpMoveTo:
			if started {
				p.ClosePath()
			}
			p.MoveTo(float64(s.Args[0].X), float64(s.Args[0].Y))
			started = true
		case ot.SegmentOpLineTo:
			p.LineTo(float64(s.Args[0].X), float64(s.Args[0].Y))
		case ot.SegmentOpQuadTo:
			p.QuadraticCurveTo(
				float64(s.Args[0].X), float64(s.Args[0].Y),
				float64(s.Args[1].X), float64(s.Args[1].Y))
		case ot.SegmentOpCubeTo:
			p.BezierCurveTo(
				float64(s.Args[0].X), float64(s.Args[0].Y),
				float64(s.Args[1].X), float64(s.Args[1].Y),
				float64(s.Args[2].X), float64(s.Args[2].Y))
		}
	}
	if started {
		p.ClosePath()
	}
}

// glyphImage implements the imageSource capability: sbix bitmaps take
// priority, then SVG documents.
func (f *gotextFont) glyphImage(index int) *typeface.GlyphImage {
	if f.sbix != nil {
		if img := f.sbix.glyphImage(index, f.upem); img != nil {
			return img
		}
	}

	gid := font.GID(index)
	f.mu.Lock()
	data := f.face.GlyphData(gid)
	ext, hasExt := f.face.GlyphExtents(gid)
	f.mu.Unlock()

	if svg, ok := data.(font.GlyphSVG); ok {
		img := &typeface.GlyphImage{
			Data:   []byte(svg.Source),
			Format: "svg",
		}
		if hasExt {
			h := math.Abs(float64(ext.Height))
			img.X = float64(ext.XBearing)
			img.Y = float64(ext.YBearing) - h
			img.Width = float64(ext.Width)
			img.Height = h
		}
		return img
	}
	return nil
}

// glyphLayers implements the layerSource capability via COLR/CPAL.
func (f *gotextFont) glyphLayers(index, palette int) []layerRef {
	if f.colr == nil {
		return nil
	}
	return f.colr.layerRefs(index, palette)
}
