package opentype

import (
	"fmt"

	"github.com/gogpu/typeface"
)

// Backend is a font parsing backend. This abstraction allows swapping
// the font parsing library; the default implementation uses
// github.com/go-text/typesetting.
type Backend interface {
	// Parse parses font data (TTF or OTF) and returns a ParsedFont.
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont is a parsed font file: a streaming glyph source plus the
// font-level values the resolution pipeline needs.
type ParsedFont interface {
	typeface.GlyphBackend

	// UnitsPerEm returns the design grid resolution.
	UnitsPerEm() float64

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int

	// GlyphIndex returns the glyph index mapped to a rune. The second
	// result is false when the cmap has no entry.
	GlyphIndex(r rune) (int, bool)
}

// namer is an optional ParsedFont capability: name table access.
type namer interface {
	Name() string
	FullName() string
}

// imageSource is an optional ParsedFont capability: embedded bitmap or
// SVG glyphs, in design units.
type imageSource interface {
	glyphImage(index int) *typeface.GlyphImage
}

// layerSource is an optional ParsedFont capability: raw color layer
// records for a base glyph.
type layerSource interface {
	glyphLayers(index, palette int) []layerRef
}

// layerRef is one unresolved color layer: a glyph slot plus its
// palette-resolved fill.
type layerRef struct {
	glyphID    int
	color      string
	foreground bool
}

// backendRegistry holds registered parsing backends.
var backendRegistry = map[string]Backend{
	"gotext": gotextBackend{},
	"ximage": ximageBackend{},
}

// defaultBackendName is the name of the default backend.
const defaultBackendName = "gotext"

// RegisterBackend registers a custom parsing backend. This allows
// users to provide their own parsing implementation.
func RegisterBackend(name string, b Backend) {
	backendRegistry[name] = b
}

// Options configures Parse.
type Options struct {
	// Backend selects the parsing backend by registered name.
	Backend string

	// Palette selects the CPAL palette used to resolve layer colors.
	Palette int

	// Eager materializes every glyph during Parse instead of on first
	// access.
	Eager bool
}

// Option configures Parse.
type Option func(*Options)

// WithBackend selects the parsing backend by name.
func WithBackend(name string) Option {
	return func(o *Options) { o.Backend = name }
}

// WithPalette selects the color palette for layered glyphs.
func WithPalette(index int) Option {
	return func(o *Options) { o.Palette = index }
}

// WithEagerGlyphs materializes all glyphs during Parse.
func WithEagerGlyphs() Option {
	return func(o *Options) { o.Eager = true }
}

// Font couples a parsed font with its lazily materialized glyph set.
// It implements the typeface pipeline's Font interface along with the
// image and layer capabilities when the backend surfaces them.
type Font struct {
	parsed  ParsedFont
	palette int

	// Glyphs is the font's glyph collection, indexed by glyph ID.
	Glyphs *typeface.GlyphSet
}

// Parse parses font data with the selected backend (default "gotext").
func Parse(data []byte, opts ...Option) (*Font, error) {
	o := Options{Backend: defaultBackendName}
	for _, opt := range opts {
		opt(&o)
	}

	b, ok := backendRegistry[o.Backend]
	if !ok {
		return nil, fmt.Errorf("opentype: unknown backend %q", o.Backend)
	}
	pf, err := b.Parse(data)
	if err != nil {
		return nil, err
	}

	f := &Font{
		parsed:  pf,
		palette: o.Palette,
		Glyphs:  typeface.NewGlyphSet(pf, pf.NumGlyphs()),
	}
	if o.Eager {
		for range f.Glyphs.All() {
		}
	}
	return f, nil
}

// UnitsPerEm returns the font's design grid resolution.
func (f *Font) UnitsPerEm() float64 { return f.parsed.UnitsPerEm() }

// NumGlyphs returns the number of glyph slots.
func (f *Font) NumGlyphs() int { return f.parsed.NumGlyphs() }

// Glyph returns the glyph at the given index, materializing it on
// first access.
func (f *Font) Glyph(index int) (*typeface.Glyph, error) {
	return f.Glyphs.Get(index)
}

// GlyphForRune returns the glyph mapped to a rune. Unmapped runes
// resolve to glyph 0 (.notdef).
func (f *Font) GlyphForRune(r rune) (*typeface.Glyph, error) {
	gid, ok := f.parsed.GlyphIndex(r)
	if !ok {
		gid = 0
	}
	return f.Glyphs.Get(gid)
}

// MapRunes populates glyph unicode identities for the given runes by
// consulting the character map. Backends cannot enumerate the cmap in
// reverse, so codepoint identity is attached per requested rune.
func (f *Font) MapRunes(runes ...rune) error {
	for _, r := range runes {
		gid, ok := f.parsed.GlyphIndex(r)
		if !ok {
			continue
		}
		g, err := f.Glyphs.Get(gid)
		if err != nil {
			return err
		}
		if hasUnicode(g, r) {
			continue
		}
		if err := g.AddUnicode(r); err != nil {
			return err
		}
	}
	return nil
}

func hasUnicode(g *typeface.Glyph, r rune) bool {
	for _, u := range g.Unicodes() {
		if u == r {
			return true
		}
	}
	return false
}

// Name returns the font family name, or "" when the backend does not
// expose the name table.
func (f *Font) Name() string {
	if n, ok := f.parsed.(namer); ok {
		return n.Name()
	}
	return ""
}

// FullName returns the full font name, or "" when unavailable.
func (f *Font) FullName() string {
	if n, ok := f.parsed.(namer); ok {
		return n.FullName()
	}
	return ""
}

// GlyphImage implements typeface.ImageSource: the embedded bitmap or
// SVG document for a glyph, or nil.
func (f *Font) GlyphImage(index int) *typeface.GlyphImage {
	is, ok := f.parsed.(imageSource)
	if !ok {
		return nil
	}
	return is.glyphImage(index)
}

// GlyphLayers implements typeface.LayerSource: the resolved color
// layers for a glyph, bottom to top, or nil.
func (f *Font) GlyphLayers(index int) []typeface.GlyphLayer {
	ls, ok := f.parsed.(layerSource)
	if !ok {
		return nil
	}
	refs := ls.glyphLayers(index, f.palette)
	if len(refs) == 0 {
		return nil
	}
	layers := make([]typeface.GlyphLayer, 0, len(refs))
	for _, ref := range refs {
		g, err := f.Glyphs.Get(ref.glyphID)
		if err != nil {
			typeface.Logger().Warn("opentype: skipping unresolvable color layer",
				"base", index, "layer", ref.glyphID, "err", err)
			continue
		}
		layers = append(layers, typeface.GlyphLayer{
			Glyph:         g,
			Color:         ref.color,
			UseForeground: ref.foreground,
		})
	}
	return layers
}
