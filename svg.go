package typeface

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/typeface/cache"
)

// PathDataOptions configures the SVG path-data codec.
//
// The zero value is not useful; options are built through PathDataOption
// functions applied to the defaults: 2 decimal places, optimization on,
// Y-flip on with the base derived from the command set's own bounds.
type PathDataOptions struct {
	// Decimals is the number of decimal places coordinates are rounded to.
	Decimals int

	// Optimize enables the redundant-segment optimization pass.
	Optimize bool

	// FlipY mirrors every y coordinate as FlipYBase - y. Outlines are
	// authored in a Y-up space; SVG is Y-down.
	FlipY bool

	// FlipYBase is the mirror line for FlipY. When unset, it defaults to
	// bbox.Y1 + bbox.Y2 of the command set, mirroring around the shape's
	// own vertical center.
	FlipYBase float64
	hasBase   bool

	// X, Y and Scale transform parsed coordinates:
	// x' = X + x*Scale, y' = Y + (FlipY ? FlipYBase-y : y)*Scale.
	// They are ignored during serialization.
	X, Y  float64
	Scale float64
}

// PathDataOption configures the codec.
type PathDataOption func(*PathDataOptions)

// WithDecimals sets the number of decimal places (default 2).
func WithDecimals(n int) PathDataOption {
	return func(o *PathDataOptions) { o.Decimals = n }
}

// WithOptimize toggles the redundant-segment optimization pass
// (default on).
func WithOptimize(on bool) PathDataOption {
	return func(o *PathDataOptions) { o.Optimize = on }
}

// WithFlipY toggles vertical mirroring (default on).
func WithFlipY(on bool) PathDataOption {
	return func(o *PathDataOptions) { o.FlipY = on }
}

// WithFlipYBase supplies an explicit mirror line instead of the default
// derived from the shape's bounds.
func WithFlipYBase(base float64) PathDataOption {
	return func(o *PathDataOptions) {
		o.FlipYBase = base
		o.hasBase = true
	}
}

// WithOffset sets the translation applied to parsed coordinates.
func WithOffset(x, y float64) PathDataOption {
	return func(o *PathDataOptions) {
		o.X = x
		o.Y = y
	}
}

// WithScale sets the scale applied to parsed coordinates (default 1).
func WithScale(s float64) PathDataOption {
	return func(o *PathDataOptions) { o.Scale = s }
}

func makePathDataOptions(opts []PathDataOption) PathDataOptions {
	o := PathDataOptions{
		Decimals: 2,
		Optimize: true,
		FlipY:    true,
		Scale:    1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// -------------------------------------------------------------------
// Decimal rounding cache
// -------------------------------------------------------------------

// roundKey keys the rounding cache by decimal places and the fractional
// part of a coordinate. Glyph outlines repeat the same fractions
// constantly, so memoizing the rounded fraction and its formatted digits
// avoids most of the string-formatting work.
type roundKey struct {
	places int
	frac   float64
}

type roundedFrac struct {
	value  float64
	digits string // fixed-places fractional digits, e.g. ".50"; "" if none
}

type rounder struct {
	cache *cache.Sharded[roundKey, roundedFrac]
}

func hashRoundKey(k roundKey) uint64 {
	return uint64(k.places)*0x9e3779b97f4a7c15 ^ math.Float64bits(k.frac)
}

func newRounder() *rounder {
	return &rounder{
		cache: cache.NewSharded[roundKey, roundedFrac](cache.DefaultCapacity, hashRoundKey),
	}
}

// defaultRounder is shared by serialization and parsing. It is pure and
// side-effect-free to reuse, and bounded by the cache's LRU policy.
var defaultRounder = newRounder()

func (r *rounder) fracOf(places int, f float64) roundedFrac {
	return r.cache.GetOrCreate(roundKey{places: places, frac: f}, func() roundedFrac {
		pow := math.Pow10(places)
		val := math.Round(f*pow) / pow
		af := math.Abs(val)
		var digits string
		if af > 0 && af < 1 {
			// FormatFloat yields "0.50"; keep ".50".
			digits = strconv.FormatFloat(af, 'f', places, 64)[1:]
		}
		return roundedFrac{value: val, digits: digits}
	})
}

// round rounds v to the given number of decimal places.
func (r *rounder) round(v float64, places int) float64 {
	i, f := math.Modf(v)
	return i + r.fracOf(places, f).value
}

// format rounds v and renders it. An integer-valued rounded number
// prints without a decimal point.
func (r *rounder) format(v float64, places int) string {
	i, f := math.Modf(v)
	rf := r.fracOf(places, f)
	rv := i + rf.value
	if rf.digits == "" || rv == math.Trunc(rv) {
		if rv == 0 {
			return "0"
		}
		return strconv.FormatFloat(rv, 'f', -1, 64)
	}
	// Trunc keeps the sign, so -0.5 renders "-0" + ".50".
	return strconv.FormatFloat(math.Trunc(rv), 'f', -1, 64) + rf.digits
}

// -------------------------------------------------------------------
// Optimization pass
// -------------------------------------------------------------------

// optimizeElements rewrites the command sequence to drop segments that
// do not change the rendered shape:
//
//   - a trailing line whose endpoint is within 1 unit (both axes) of the
//     subpath's start, just before a close: the close draws it anyway
//   - a line whose endpoint equals the immediately preceding point
//   - a leading line duplicating the subpath's starting point
//
// The 1-unit epsilon is a fixed constant of the format, not a tunable.
func optimizeElements(elems []PathElement) []PathElement {
	var subpaths [][]PathElement
	var cur []PathElement
	for _, e := range elems {
		switch e.(type) {
		case MoveTo:
			if len(cur) > 0 {
				subpaths = append(subpaths, cur)
			}
			cur = []PathElement{e}
		case Close:
			cur = append(cur, e)
			subpaths = append(subpaths, cur)
			cur = nil
		default:
			cur = append(cur, e)
		}
	}
	if len(cur) > 0 {
		subpaths = append(subpaths, cur)
	}

	out := make([]PathElement, 0, len(elems))
	for _, sp := range subpaths {
		out = append(out, optimizeSubpath(sp)...)
	}
	return out
}

func optimizeSubpath(sp []PathElement) []PathElement {
	mv, ok := sp[0].(MoveTo)
	if !ok {
		// Permissive contract: commands before any MoveTo pass through.
		return sp
	}
	start := mv.Point

	// Trailing line back to the start just before a close.
	if n := len(sp); n >= 3 {
		if _, isClose := sp[n-1].(Close); isClose {
			if ln, ok := sp[n-2].(LineTo); ok &&
				math.Abs(ln.Point.X-start.X) <= 1 && math.Abs(ln.Point.Y-start.Y) <= 1 {
				sp = append(sp[:n-2:n-2], sp[n-1])
			}
		}
	}

	// Zero-length segments.
	res := sp[:1:1]
	prev := start
	for _, e := range sp[1:] {
		if ln, ok := e.(LineTo); ok && ln.Point == prev {
			continue
		}
		res = append(res, e)
		if pt, ok := endpointOf(e); ok {
			prev = pt
		}
	}

	// Leading line duplicating the start: fold Move+Line into one Move.
	if len(res) >= 2 {
		if ln, ok := res[1].(LineTo); ok && ln.Point == start {
			res = append([]PathElement{MoveTo{Point: ln.Point}}, res[2:]...)
		}
	}
	return res
}

// endpointOf returns the cursor position after an element, if it has one.
func endpointOf(e PathElement) (Point, bool) {
	switch e := e.(type) {
	case MoveTo:
		return e.Point, true
	case LineTo:
		return e.Point, true
	case QuadTo:
		return e.Point, true
	case CubicTo:
		return e.Point, true
	}
	return Point{}, false
}

// -------------------------------------------------------------------
// Serialization
// -------------------------------------------------------------------

// ToPathData serializes the path's commands to SVG path data. Output
// uses uppercase absolute commands only.
func (p *Path) ToPathData(opts ...PathDataOption) string {
	return pathData(p.elements, makePathDataOptions(opts))
}

func pathData(elems []PathElement, o PathDataOptions) string {
	if o.Optimize {
		elems = optimizeElements(elems)
	}
	base := o.FlipYBase
	if o.FlipY && !o.hasBase {
		bb := boundingBoxOf(elems)
		if bb.IsEmpty() {
			bb.AddPoint(0, 0)
		}
		base = bb.Y1 + bb.Y2
	}
	fy := func(y float64) float64 {
		if o.FlipY {
			return base - y
		}
		return y
	}

	var sb strings.Builder
	emit := func(letter byte, coords ...float64) {
		sb.WriteByte(letter)
		for i, v := range coords {
			s := defaultRounder.format(v, o.Decimals)
			// A leading '-' already separates values.
			if i > 0 && s[0] != '-' {
				sb.WriteByte(' ')
			}
			sb.WriteString(s)
		}
	}

	for _, e := range elems {
		switch e := e.(type) {
		case MoveTo:
			emit('M', e.Point.X, fy(e.Point.Y))
		case LineTo:
			emit('L', e.Point.X, fy(e.Point.Y))
		case QuadTo:
			emit('Q', e.Control.X, fy(e.Control.Y), e.Point.X, fy(e.Point.Y))
		case CubicTo:
			emit('C', e.Control1.X, fy(e.Control1.Y), e.Control2.X, fy(e.Control2.Y),
				e.Point.X, fy(e.Point.Y))
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// ToSVG serializes the path as an SVG <path> element, including fill and
// stroke attributes when they differ from the defaults.
func (p *Path) ToSVG(opts ...PathDataOption) string {
	var sb strings.Builder
	sb.WriteString(`<path d="`)
	sb.WriteString(p.ToPathData(opts...))
	sb.WriteString(`"`)
	if p.Fill != "black" {
		if p.Fill == "" {
			sb.WriteString(` fill="none"`)
		} else {
			sb.WriteString(` fill="` + p.Fill + `"`)
		}
	}
	if p.Stroke != "" {
		o := makePathDataOptions(opts)
		sb.WriteString(` stroke="` + p.Stroke + `"`)
		sb.WriteString(` stroke-width="` + defaultRounder.format(p.StrokeWidth, o.Decimals) + `"`)
	}
	sb.WriteString(`/>`)
	return sb.String()
}

// -------------------------------------------------------------------
// Parsing
// -------------------------------------------------------------------

// ParsePathData parses SVG path data into a new Path.
//
// The supported grammar subset is M/m L/l H/h V/v Q/q C/c Z/z with
// decimal numbers separated by optional whitespace or commas; signs and
// decimal points may abut without a separator. Uppercase commands are
// absolute, lowercase relative to the current cursor.
func ParsePathData(data string, opts ...PathDataOption) (*Path, error) {
	p := NewPath()
	if err := p.FromSVG(data, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// FromSVG parses SVG path data and appends the resulting commands to p.
//
// On a ParseError the command buffer is left in whatever partial state
// parsing reached; callers must discard the instance.
func (p *Path) FromSVG(data string, opts ...PathDataOption) error {
	o := makePathDataOptions(opts)
	first := len(p.elements)

	ps := svgParser{path: p, decimals: o.Decimals}
	for i := 0; i < len(data); i++ {
		if err := ps.consume(data[i], i); err != nil {
			return err
		}
	}
	if err := ps.apply(); err != nil {
		return err
	}

	parsed := p.elements[first:]
	if o.Optimize {
		parsed = optimizeElements(parsed)
		p.elements = append(p.elements[:first], parsed...)
		parsed = p.elements[first:]
	}

	base := o.FlipYBase
	if o.FlipY && !o.hasBase {
		// Symmetric with serialization: mirror around the parsed shape's
		// own vertical center.
		bb := boundingBoxOf(parsed)
		if bb.IsEmpty() {
			bb.AddPoint(0, 0)
		}
		base = bb.Y1 + bb.Y2
	}
	tx := func(pt Point) Point {
		y := pt.Y
		if o.FlipY {
			y = base - y
		}
		return Pt(o.X+pt.X*o.Scale, o.Y+y*o.Scale)
	}
	for i, e := range parsed {
		switch e := e.(type) {
		case MoveTo:
			parsed[i] = MoveTo{Point: tx(e.Point)}
		case LineTo:
			parsed[i] = LineTo{Point: tx(e.Point)}
		case QuadTo:
			parsed[i] = QuadTo{Control: tx(e.Control), Point: tx(e.Point)}
		case CubicTo:
			parsed[i] = CubicTo{Control1: tx(e.Control1), Control2: tx(e.Control2), Point: tx(e.Point)}
		}
	}
	return nil
}

// svgParser is a character-by-character tokenizer over the SVG path
// grammar subset. State is the pending command letter, the accumulated
// numeric token buffers, and the cursor position; any unexpected
// character aborts parsing with a ParseError carrying the character and
// its byte offset.
type svgParser struct {
	path     *Path
	decimals int

	pending byte // current command letter, 0 before the first
	lastCmd byte // last applied command, uppercased

	tokens   []numToken
	cur      []byte
	curStart int

	curX, curY     float64 // cursor, endpoint of the last emitted command
	startX, startY float64 // current subpath start
}

type numToken struct {
	text  string
	start int
}

func isPathCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'Q', 'C', 'Z':
		return true
	}
	return false
}

func (ps *svgParser) consume(c byte, off int) error {
	switch {
	case isPathCommand(c):
		if err := ps.apply(); err != nil {
			return err
		}
		ps.pending = c

	case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		ps.endToken()

	case c >= '0' && c <= '9':
		if ps.pending == 0 {
			return &ParseError{Char: c, Offset: off}
		}
		if len(ps.cur) == 0 {
			ps.curStart = off
		}
		ps.cur = append(ps.cur, c)

	case c == '-':
		if ps.pending == 0 {
			return &ParseError{Char: c, Offset: off}
		}
		if n := len(ps.cur); n > 0 && ps.cur[n-1] == '-' {
			// A second sign cannot extend or start a number.
			return &ParseError{Char: c, Offset: off}
		}
		// A sign cannot extend a started number: it begins the next one.
		ps.endToken()
		ps.curStart = off
		ps.cur = append(ps.cur, '-')

	case c == '.':
		if ps.pending == 0 {
			return &ParseError{Char: c, Offset: off}
		}
		for _, b := range ps.cur {
			if b == '.' {
				return &ParseError{Char: c, Offset: off}
			}
		}
		if len(ps.cur) == 0 {
			ps.curStart = off
		}
		ps.cur = append(ps.cur, '.')

	default:
		return &ParseError{Char: c, Offset: off}
	}
	return nil
}

func (ps *svgParser) endToken() {
	if len(ps.cur) > 0 {
		ps.tokens = append(ps.tokens, numToken{text: string(ps.cur), start: ps.curStart})
		ps.cur = ps.cur[:0]
	}
}

// apply parses the buffered numbers and emits the pending command,
// consuming the tokens in fixed-size groups per command type.
func (ps *svgParser) apply() error {
	ps.endToken()
	if ps.pending == 0 {
		return nil
	}

	nums := make([]float64, len(ps.tokens))
	for i, t := range ps.tokens {
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return &ParseError{Char: t.text[0], Offset: t.start}
		}
		nums[i] = defaultRounder.round(v, ps.decimals)
	}
	ps.tokens = ps.tokens[:0]

	cmd := ps.pending
	rel := cmd >= 'a'
	up := cmd &^ 0x20
	p := ps.path

	switch up {
	case 'M':
		for i := 0; i+2 <= len(nums); i += 2 {
			x, y := nums[i], nums[i+1]
			if rel {
				x += ps.curX
				y += ps.curY
			}
			if i == 0 {
				p.MoveTo(x, y)
				ps.startX, ps.startY = x, y
			} else {
				// Repeated groups after the first become implicit lines.
				p.LineTo(x, y)
			}
			ps.curX, ps.curY = x, y
		}

	case 'L':
		for i := 0; i+2 <= len(nums); i += 2 {
			x, y := nums[i], nums[i+1]
			if rel {
				x += ps.curX
				y += ps.curY
			}
			p.LineTo(x, y)
			ps.curX, ps.curY = x, y
		}

	case 'H':
		for _, n := range nums {
			x := n
			if rel {
				x += ps.curX
			}
			p.LineTo(x, ps.curY)
			ps.curX = x
		}

	case 'V':
		for _, n := range nums {
			y := n
			if rel {
				y += ps.curY
			}
			p.LineTo(ps.curX, y)
			ps.curY = y
		}

	case 'Q':
		for i := 0; i+4 <= len(nums); i += 4 {
			x1, y1, x, y := nums[i], nums[i+1], nums[i+2], nums[i+3]
			if rel {
				x1 += ps.curX
				y1 += ps.curY
				x += ps.curX
				y += ps.curY
			}
			p.QuadTo(x1, y1, x, y)
			ps.curX, ps.curY = x, y
		}

	case 'C':
		for i := 0; i+6 <= len(nums); i += 6 {
			x1, y1 := nums[i], nums[i+1]
			x2, y2 := nums[i+2], nums[i+3]
			x, y := nums[i+4], nums[i+5]
			if rel {
				x1 += ps.curX
				y1 += ps.curY
				x2 += ps.curX
				y2 += ps.curY
				x += ps.curX
				y += ps.curY
			}
			p.CurveTo(x1, y1, x2, y2, x, y)
			ps.curX, ps.curY = x, y
		}

	case 'Z':
		// A close directly after a close is a no-op.
		if ps.lastCmd != 'Z' {
			p.Close()
			ps.curX, ps.curY = ps.startX, ps.startY
		}
	}

	ps.lastCmd = up
	return nil
}
