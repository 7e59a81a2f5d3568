package opentype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// COLR/CPAL table format errors.
var (
	// ErrInvalidCOLRData indicates the COLR table data is malformed.
	ErrInvalidCOLRData = errors.New("opentype: invalid COLR table data")

	// ErrInvalidCPALData indicates the CPAL table data is malformed.
	ErrInvalidCPALData = errors.New("opentype: invalid CPAL table data")

	// ErrUnsupportedCOLRVersion indicates an unsupported COLR version.
	ErrUnsupportedCOLRVersion = errors.New("opentype: unsupported COLR version")
)

// foregroundPalette is the CPAL index meaning "use the text color".
const foregroundPalette = 0xFFFF

// colorTable holds parsed COLR v0 layer records and CPAL palettes.
// COLR v1 fonts are read through their backward-compatible v0 records.
type colorTable struct {
	baseGlyphs []baseGlyphRecord
	layers     []colrLayer
	palettes   [][]paletteColor
}

// baseGlyphRecord maps a base glyph to its slice of layer records.
type baseGlyphRecord struct {
	glyphID    uint16
	firstLayer uint16
	numLayers  uint16
}

// colrLayer is one layer record: the glyph drawn and its palette slot.
type colrLayer struct {
	glyphID      uint16
	paletteIndex uint16
}

// paletteColor is an RGBA color from a CPAL palette.
type paletteColor struct {
	r, g, b, a uint8
}

// css renders the color as a CSS color string.
func (c paletteColor) css() string {
	if c.a == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.r, c.g, c.b, float64(c.a)/255)
}

// parseColorTable parses raw COLR and CPAL tables.
func parseColorTable(colr, cpal []byte) (*colorTable, error) {
	t := &colorTable{}
	if err := t.parseCOLR(colr); err != nil {
		return nil, err
	}
	if err := t.parseCPAL(cpal); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *colorTable) parseCOLR(data []byte) error {
	if len(data) < 14 {
		return ErrInvalidCOLRData
	}

	version := binary.BigEndian.Uint16(data[0:2])
	// v1 keeps the v0 records for fallback rendering.
	if version > 1 {
		return ErrUnsupportedCOLRVersion
	}

	numBaseGlyphs := binary.BigEndian.Uint16(data[2:4])
	baseGlyphOffset := binary.BigEndian.Uint32(data[4:8])
	layerOffset := binary.BigEndian.Uint32(data[8:12])
	numLayers := binary.BigEndian.Uint16(data[12:14])

	const baseRecordSize = 6
	t.baseGlyphs = make([]baseGlyphRecord, 0, numBaseGlyphs)
	for i := uint16(0); i < numBaseGlyphs; i++ {
		pos := int(baseGlyphOffset) + int(i)*baseRecordSize
		if pos+baseRecordSize > len(data) {
			return ErrInvalidCOLRData
		}
		t.baseGlyphs = append(t.baseGlyphs, baseGlyphRecord{
			glyphID:    binary.BigEndian.Uint16(data[pos : pos+2]),
			firstLayer: binary.BigEndian.Uint16(data[pos+2 : pos+4]),
			numLayers:  binary.BigEndian.Uint16(data[pos+4 : pos+6]),
		})
	}

	const layerRecordSize = 4
	t.layers = make([]colrLayer, 0, numLayers)
	for i := uint16(0); i < numLayers; i++ {
		pos := int(layerOffset) + int(i)*layerRecordSize
		if pos+layerRecordSize > len(data) {
			return ErrInvalidCOLRData
		}
		t.layers = append(t.layers, colrLayer{
			glyphID:      binary.BigEndian.Uint16(data[pos : pos+2]),
			paletteIndex: binary.BigEndian.Uint16(data[pos+2 : pos+4]),
		})
	}
	return nil
}

func (t *colorTable) parseCPAL(data []byte) error {
	if len(data) < 12 {
		return ErrInvalidCPALData
	}

	numEntries := binary.BigEndian.Uint16(data[2:4])
	numPalettes := binary.BigEndian.Uint16(data[4:6])
	colorRecordsOffset := binary.BigEndian.Uint32(data[8:12])

	if 12+int(numPalettes)*2 > len(data) {
		return ErrInvalidCPALData
	}

	t.palettes = make([][]paletteColor, numPalettes)
	for i := uint16(0); i < numPalettes; i++ {
		first := binary.BigEndian.Uint16(data[12+int(i)*2 : 14+int(i)*2])
		palette := make([]paletteColor, numEntries)
		for j := uint16(0); j < numEntries; j++ {
			// int arithmetic: first+j near 65535 must not wrap to a
			// different record.
			pos := int(colorRecordsOffset) + (int(first)+int(j))*4
			if pos+4 > len(data) {
				return ErrInvalidCPALData
			}
			// CPAL stores colors as BGRA.
			palette[j] = paletteColor{
				b: data[pos],
				g: data[pos+1],
				r: data[pos+2],
				a: data[pos+3],
			}
		}
		t.palettes[i] = palette
	}
	return nil
}

// layerRefs returns the resolved layer records for a base glyph ID,
// bottom to top, or nil when the glyph is not layered.
func (t *colorTable) layerRefs(glyphID, palette int) []layerRef {
	record, ok := t.findBaseGlyph(glyphID)
	if !ok {
		return nil
	}
	if palette < 0 || palette >= len(t.palettes) {
		palette = 0
	}

	refs := make([]layerRef, 0, record.numLayers)
	for i := uint16(0); i < record.numLayers; i++ {
		idx := int(record.firstLayer) + int(i)
		if idx >= len(t.layers) {
			break
		}
		layer := t.layers[idx]
		ref := layerRef{glyphID: int(layer.glyphID)}
		if layer.paletteIndex == foregroundPalette {
			ref.foreground = true
		} else if palette < len(t.palettes) && int(layer.paletteIndex) < len(t.palettes[palette]) {
			ref.color = t.palettes[palette][layer.paletteIndex].css()
		}
		refs = append(refs, ref)
	}
	return refs
}

// findBaseGlyph binary-searches the sorted base glyph records.
func (t *colorTable) findBaseGlyph(glyphID int) (baseGlyphRecord, bool) {
	i := sort.Search(len(t.baseGlyphs), func(i int) bool {
		return int(t.baseGlyphs[i].glyphID) >= glyphID
	})
	if i < len(t.baseGlyphs) && int(t.baseGlyphs[i].glyphID) == glyphID {
		return t.baseGlyphs[i], true
	}
	return baseGlyphRecord{}, false
}
