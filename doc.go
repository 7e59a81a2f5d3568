// Package typeface turns parsed font-table data into resolvable vector
// glyph outlines usable for measurement and rendering.
//
// # Overview
//
// typeface owns the in-memory drawing-command representation for glyph
// outlines. It computes exact geometric bounds (including Bezier extrema),
// serializes and parses outlines to and from the SVG path mini-language,
// and resolves a glyph's final outline by composing scaling, variable-font
// transforms, hinting overrides, and multi-layer color compositing.
//
// # Quick Start
//
//	import "github.com/gogpu/typeface"
//
//	p := typeface.NewPath()
//	p.MoveTo(0, 0)
//	p.LineTo(100, 0)
//	p.LineTo(100, 100)
//	p.Close()
//
//	d := p.ToPathData()   // SVG path data
//	bb := p.BoundingBox() // exact bounds, curve extrema included
//
// Glyphs defer outline construction until first access, so a GlyphSet can
// index tens of thousands of glyphs without materializing any of them:
//
//	g, _ := typeface.NewGlyph(typeface.GlyphOptions{
//		Index:    7,
//		Producer: func() *typeface.Path { return decodeCharstring(7) },
//	})
//	outline := g.Outline() // producer runs exactly once
//
// # Architecture
//
// The library is organized into:
//   - Root package: BoundingBox, Path (+ SVG codec), Glyph, GlyphSet
//   - cache: sharded LRU backing the codec's decimal-rounding cache
//   - opentype: font backends producing glyphs from real font files
//
// Binary table decoding, shaping, rasterization, and file loading are
// collaborators behind narrow interfaces; see [Font] and the capability
// interfaces next to it.
package typeface
