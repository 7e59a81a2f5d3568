package opentype

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/gogpu/typeface"
)

// sbix table format errors.
var (
	// ErrInvalidSbixData indicates the sbix table data is malformed.
	ErrInvalidSbixData = errors.New("opentype: invalid sbix table data")

	// ErrUnsupportedGraphicType indicates an sbix graphic type other
	// than png, jpg or tiff.
	ErrUnsupportedGraphicType = errors.New("opentype: unsupported sbix graphic type")
)

// sbixTable holds parsed bitmap strikes from an sbix table.
type sbixTable struct {
	data      []byte
	numGlyphs int
	strikes   []sbixStrike
}

// sbixStrike is one bitmap size: its ppem and per-glyph data offsets
// relative to the strike.
type sbixStrike struct {
	ppem    uint16
	offset  uint32
	offsets []uint32 // numGlyphs+1 entries; equal neighbors mean no data
}

// parseSbix parses a raw sbix table. numGlyphs comes from maxp.
func parseSbix(data []byte, numGlyphs int) (*sbixTable, error) {
	if len(data) < 8 {
		return nil, ErrInvalidSbixData
	}
	if binary.BigEndian.Uint16(data[0:2]) != 1 {
		return nil, ErrInvalidSbixData
	}

	// The strike offset array must fit in the table; comparing against
	// the table size avoids the uint32 wrap in numStrikes*4.
	numStrikes := binary.BigEndian.Uint32(data[4:8])
	if numStrikes > uint32((len(data)-8)/4) {
		return nil, ErrInvalidSbixData
	}

	t := &sbixTable{data: data, numGlyphs: numGlyphs}
	t.strikes = make([]sbixStrike, numStrikes)
	for i := uint32(0); i < numStrikes; i++ {
		offset := binary.BigEndian.Uint32(data[8+i*4 : 12+i*4])
		if err := t.parseStrike(int(i), offset); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *sbixTable) parseStrike(index int, offset uint32) error {
	data := t.data
	if int(offset)+4 > len(data) {
		return ErrInvalidSbixData
	}

	strike := &t.strikes[index]
	strike.offset = offset
	strike.ppem = binary.BigEndian.Uint16(data[offset : offset+2])

	numOffsets := t.numGlyphs + 1
	start := int(offset) + 4
	if start+numOffsets*4 > len(data) {
		return ErrInvalidSbixData
	}
	strike.offsets = make([]uint32, numOffsets)
	for i := 0; i < numOffsets; i++ {
		strike.offsets[i] = binary.BigEndian.Uint32(data[start+i*4 : start+i*4+4])
	}
	return nil
}

// bestStrike returns the strike index closest to the requested ppem,
// preferring the larger size on a tie, or -1 when there are none.
func (t *sbixTable) bestStrike(ppem uint16) int {
	if len(t.strikes) == 0 {
		return -1
	}
	best := 0
	bestDiff := absDiff(t.strikes[0].ppem, ppem)
	for i := 1; i < len(t.strikes); i++ {
		diff := absDiff(t.strikes[i].ppem, ppem)
		if diff < bestDiff || (diff == bestDiff && t.strikes[i].ppem > t.strikes[best].ppem) {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// glyphImage extracts the bitmap for a glyph from the strike closest
// to the design grid, converted to design units. Returns nil when the
// glyph has no bitmap.
func (t *sbixTable) glyphImage(glyphID int, upem float64) *typeface.GlyphImage {
	strikeIndex := t.bestStrike(uint16(upem))
	if strikeIndex < 0 || glyphID < 0 || glyphID >= t.numGlyphs {
		return nil
	}
	strike := &t.strikes[strikeIndex]
	start, end := strike.offsets[glyphID], strike.offsets[glyphID+1]
	if end <= start {
		return nil
	}

	pos := uint64(strike.offset) + uint64(start)
	last := uint64(strike.offset) + uint64(end)
	if pos+8 > uint64(len(t.data)) || last > uint64(len(t.data)) {
		return nil
	}

	// Glyph data: originOffsetX int16, originOffsetY int16, graphic
	// type tag, then the image bytes.
	originX := int16(binary.BigEndian.Uint16(t.data[pos : pos+2]))
	originY := int16(binary.BigEndian.Uint16(t.data[pos+2 : pos+4]))
	var format string
	switch string(t.data[pos+4 : pos+8]) {
	case "png ":
		format = "png"
	case "jpg ":
		format = "jpeg"
	case "tiff":
		format = "tiff"
	default:
		// "dupe" indirection and "mask" overlays are not resolved.
		return nil
	}
	imageData := t.data[pos+8 : last]

	img := &typeface.GlyphImage{
		Data:   imageData,
		Format: format,
	}

	// Scale pixel geometry back to design units.
	k := 1.0
	if strike.ppem != 0 {
		k = upem / float64(strike.ppem)
	}
	img.X = float64(originX) * k
	img.Y = float64(originY) * k
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData)); err == nil {
		img.Width = float64(cfg.Width) * k
		img.Height = float64(cfg.Height) * k
	}
	return img
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
