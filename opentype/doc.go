// Package opentype parses OpenType and TrueType font files into
// typeface glyph sets.
//
// Parsing is delegated to pluggable backends. The default backend
// ("gotext") uses github.com/go-text/typesetting; an alternative
// backend ("ximage") uses golang.org/x/image/font/sfnt. Custom
// backends can be installed with RegisterBackend.
//
//	f, err := opentype.Parse(data)
//	if err != nil { ... }
//	g, err := f.GlyphForRune('A')
//	p := g.Path(0, 100, 72, f)
//	fmt.Println(p.ToSVG())
//
// Glyphs materialize lazily: parsing records per-glyph producers and
// identity data, and outlines are decoded on first access. Color
// tables (COLR/CPAL layers, sbix bitmaps, SVG documents) are surfaced
// through the typeface pipeline's capability interfaces.
package opentype
