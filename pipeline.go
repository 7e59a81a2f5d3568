package typeface

import "math"

// Font is the glyph pipeline's context: the owning font, reduced to the
// capabilities the pipeline needs. Optional capabilities (variation,
// hinting, color layers, embedded images) are discovered by interface
// assertion, so each backend implements exactly what its tables provide.
type Font interface {
	// UnitsPerEm returns the font's design grid resolution. Zero means
	// unknown; the pipeline then falls back to the outline's own value
	// or 1000.
	UnitsPerEm() float64
}

// VariationSource is a variable-font engine: it produces a glyph whose
// outline has been interpolated according to axis settings.
type VariationSource interface {
	// TransformedGlyph returns the glyph transformed per the given axis
	// coordinates, or nil when no transform applies.
	TransformedGlyph(g *Glyph, coords map[string]float64) *Glyph
}

// HintingEngine adjusts point positions for a specific device
// resolution, overriding the default scale transform with pre-rounded
// integer coordinates.
type HintingEngine interface {
	// Exec runs the hinting program for the glyph at the given size and
	// returns adjusted device-space points, or nil when the glyph cannot
	// be hinted.
	Exec(g *Glyph, fontSize float64, o *RenderOptions) []ContourPoint

	// Commands converts hinted points into drawing commands with integer
	// device-space coordinates.
	Commands(points []ContourPoint) []PathElement
}

// GlyphLayer is one stacked sub-glyph of a multi-color glyph, with its
// palette-resolved fill.
type GlyphLayer struct {
	Glyph *Glyph

	// Color is the layer's resolved palette color (a CSS color string).
	Color string

	// UseForeground marks the palette's "currentColor" entry: the layer
	// takes the caller's requested fill instead of a palette color.
	UseForeground bool
}

// LayerSource resolves a glyph's color layers (COLR/CPAL).
type LayerSource interface {
	// GlyphLayers returns the color layers for a glyph index, bottom to
	// top, or nil when the glyph has none.
	GlyphLayers(index int) []GlyphLayer
}

// ImageSource resolves a glyph's embedded image (color bitmap or
// SVG-in-font), positioned in design units.
type ImageSource interface {
	// GlyphImage returns the embedded image for a glyph index, or nil.
	GlyphImage(index int) *GlyphImage
}

// RenderOptions configures the outline-resolution pipeline.
type RenderOptions struct {
	// Fill overrides the source path's fill and resolves layer
	// foreground colors. Empty keeps the source fill.
	Fill string

	// Hinting requests hinted rendering when the font carries a
	// HintingEngine.
	Hinting bool

	// Variation selects a variable-font instance by axis tag.
	Variation map[string]float64

	// XScale and YScale override the default fontSize/unitsPerEm scale
	// per axis. NaN (the default) means not overridden.
	XScale, YScale float64

	// Layers enables color-layer rendering (default on).
	Layers bool

	// Images enables embedded-image rendering (default on).
	Images bool
}

// RenderOption configures the pipeline.
type RenderOption func(*RenderOptions)

// WithFill sets the requested fill color.
func WithFill(color string) RenderOption {
	return func(o *RenderOptions) { o.Fill = color }
}

// WithHinting requests hinted rendering.
func WithHinting() RenderOption {
	return func(o *RenderOptions) { o.Hinting = true }
}

// WithVariation selects a variable-font instance by axis coordinates.
func WithVariation(coords map[string]float64) RenderOption {
	return func(o *RenderOptions) { o.Variation = coords }
}

// WithRenderScale overrides the per-axis scale factors.
func WithRenderScale(xScale, yScale float64) RenderOption {
	return func(o *RenderOptions) {
		o.XScale = xScale
		o.YScale = yScale
	}
}

// WithoutColorLayers disables color-layer rendering.
func WithoutColorLayers() RenderOption {
	return func(o *RenderOptions) { o.Layers = false }
}

// WithoutColorImages disables embedded-image rendering.
func WithoutColorImages() RenderOption {
	return func(o *RenderOptions) { o.Images = false }
}

func defaultRenderOptions() RenderOptions {
	return RenderOptions{
		XScale: math.NaN(),
		YScale: math.NaN(),
		Layers: true,
		Images: true,
	}
}

// Path resolves the glyph's final outline: a new path positioned at
// (x, y) and scaled to fontSize, ready for measurement or the SVG codec.
//
// Resolution order: a variation engine may substitute the glyph; a
// hinting engine may replace the scale step with pre-rounded device
// coordinates; an embedded image or color layers short-circuit outline
// emission entirely; otherwise every command is scaled and flipped from
// the outline's Y-up space into Y-down rendering space.
//
// font may be nil, in which case only the plain scale transform runs.
func (g *Glyph) Path(x, y, fontSize float64, font Font, opts ...RenderOption) *Path {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return g.renderPath(x, y, fontSize, font, &o)
}

func (g *Glyph) renderPath(x, y, fontSize float64, font Font, o *RenderOptions) *Path {
	glyph := g.variationGlyph(font, o)
	src := glyph.Outline()

	upem := 0.0
	if font != nil {
		upem = font.UnitsPerEm()
	}
	if upem == 0 {
		upem = src.UnitsPerEm
	}
	if upem == 0 {
		upem = 1000
	}
	scale := fontSize / upem

	if o.Images && font != nil {
		if is, ok := font.(ImageSource); ok {
			if img := is.GlyphImage(glyph.Index()); img != nil {
				return imagePath(img, x, y, scale, upem)
			}
		}
	}

	if o.Layers && font != nil {
		if ls, ok := font.(LayerSource); ok {
			if layers := ls.GlyphLayers(glyph.Index()); len(layers) > 0 {
				return layerPath(layers, x, y, fontSize, font, o, upem)
			}
		}
	}

	xScale, yScale := o.XScale, o.YScale
	if math.IsNaN(xScale) {
		xScale = scale
	}
	if math.IsNaN(yScale) {
		yScale = scale
	}

	elems := src.Elements()
	if o.Hinting && font != nil {
		if he, ok := font.(HintingEngine); ok {
			if pts := he.Exec(glyph, fontSize, o); pts != nil {
				// Hinted points are already device-space integers.
				elems = he.Commands(pts)
				x = math.Round(x)
				y = math.Round(y)
				xScale, yScale = 1, 1
			}
		}
	}

	out := NewPath()
	out.UnitsPerEm = upem
	out.Fill = src.Fill
	if o.Fill != "" {
		out.Fill = o.Fill
	}
	out.Stroke = src.Stroke
	out.StrokeWidth = src.StrokeWidth * scale

	// Outlines are authored Y-up; output is Y-down.
	tx := func(pt Point) Point {
		return Pt(x+pt.X*xScale, y-pt.Y*yScale)
	}
	for _, e := range elems {
		switch e := e.(type) {
		case MoveTo:
			out.elements = append(out.elements, MoveTo{Point: tx(e.Point)})
		case LineTo:
			out.elements = append(out.elements, LineTo{Point: tx(e.Point)})
		case QuadTo:
			out.elements = append(out.elements, QuadTo{Control: tx(e.Control), Point: tx(e.Point)})
		case CubicTo:
			out.elements = append(out.elements, CubicTo{
				Control1: tx(e.Control1),
				Control2: tx(e.Control2),
				Point:    tx(e.Point),
			})
		case Close:
			out.elements = append(out.elements, Close{})
		}
	}
	return out
}

// variationGlyph substitutes the glyph through the font's variation
// engine for the remainder of a pipeline call.
func (g *Glyph) variationGlyph(font Font, o *RenderOptions) *Glyph {
	if font == nil || o == nil || len(o.Variation) == 0 {
		return g
	}
	vs, ok := font.(VariationSource)
	if !ok {
		return g
	}
	if tg := vs.TransformedGlyph(g, o.Variation); tg != nil {
		return tg
	}
	return g
}

// imagePath builds a path whose sole content is the positioned, scaled
// embedded image; outline commands are not emitted.
func imagePath(img *GlyphImage, x, y, scale, upem float64) *Path {
	p := NewPath()
	p.UnitsPerEm = upem
	p.Image = &GlyphImage{
		X:      x + img.X*scale,
		Y:      y - (img.Y+img.Height)*scale,
		Width:  img.Width * scale,
		Height: img.Height * scale,
		Data:   img.Data,
		Format: img.Format,
	}
	return p
}

// layerPath composites the color layers of a glyph: each child layer is
// resolved recursively with its palette fill.
func layerPath(layers []GlyphLayer, x, y, fontSize float64, font Font, o *RenderOptions, upem float64) *Path {
	p := NewPath()
	p.UnitsPerEm = upem
	for _, l := range layers {
		fill := l.Color
		if l.UseForeground {
			fill = o.Fill
			if fill == "" {
				fill = "black"
			}
		}
		lo := *o
		lo.Layers = false // layer glyphs render their own commands
		lo.Fill = fill
		p.Layers = append(p.Layers, l.Glyph.renderPath(x, y, fontSize, font, &lo))
	}
	return p
}

// ToPathData serializes the glyph's outline, applying the variation
// substitution hook first when render options request an instance.
func (g *Glyph) ToPathData(font Font, ro *RenderOptions, opts ...PathDataOption) string {
	return g.variationGlyph(font, ro).Outline().ToPathData(opts...)
}

// ToSVG serializes the glyph's outline as an SVG <path> element,
// applying the variation substitution hook first.
func (g *Glyph) ToSVG(font Font, ro *RenderOptions, opts ...PathDataOption) string {
	return g.variationGlyph(font, ro).Outline().ToSVG(opts...)
}

// GetLayers returns the glyph's color layers. It requires a font
// context: calling it without one is a contract violation and returns
// ErrNoFont.
func (g *Glyph) GetLayers(font Font) ([]GlyphLayer, error) {
	if font == nil {
		return nil, ErrNoFont
	}
	ls, ok := font.(LayerSource)
	if !ok {
		return nil, nil
	}
	return ls.GlyphLayers(g.index), nil
}

// GetImage returns the glyph's embedded image. It requires a font
// context: calling it without one is a contract violation and returns
// ErrNoFont.
func (g *Glyph) GetImage(font Font) (*GlyphImage, error) {
	if font == nil {
		return nil, ErrNoFont
	}
	is, ok := font.(ImageSource)
	if !ok {
		return nil, nil
	}
	return is.GlyphImage(g.index), nil
}
