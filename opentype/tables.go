package opentype

import (
	"encoding/binary"
	"errors"
)

// Raw table access errors.
var (
	// ErrInvalidFontData indicates the sfnt wrapper is malformed.
	ErrInvalidFontData = errors.New("opentype: invalid font data")
)

// sfnt wrapper version tags.
const (
	sfntVersionTrueType = 0x00010000
	sfntVersionOTTO     = 0x4f54544f // 'OTTO'
	sfntVersionTrue     = 0x74727565 // 'true'
)

// parseTableDirectory reads the sfnt table directory and returns each
// table's raw bytes keyed by its four-character tag. Collections
// (ttcf) are not handled; callers parse a single font.
func parseTableDirectory(data []byte) (map[string][]byte, error) {
	if len(data) < 12 {
		return nil, ErrInvalidFontData
	}
	version := binary.BigEndian.Uint32(data[0:4])
	switch version {
	case sfntVersionTrueType, sfntVersionOTTO, sfntVersionTrue:
	default:
		return nil, ErrInvalidFontData
	}

	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if 12+numTables*16 > len(data) {
		return nil, ErrInvalidFontData
	}

	tables := make(map[string][]byte, numTables)
	for i := 0; i < numTables; i++ {
		pos := 12 + i*16
		tag := string(data[pos : pos+4])
		offset := binary.BigEndian.Uint32(data[pos+8 : pos+12])
		length := binary.BigEndian.Uint32(data[pos+12 : pos+16])
		end := uint64(offset) + uint64(length)
		if end > uint64(len(data)) {
			return nil, ErrInvalidFontData
		}
		tables[tag] = data[offset:end]
	}
	return tables, nil
}

// maxpNumGlyphs reads the glyph count from a raw maxp table. Returns 0
// when the table is absent or truncated.
func maxpNumGlyphs(maxp []byte) uint16 {
	if len(maxp) < 6 {
		return 0
	}
	return binary.BigEndian.Uint16(maxp[4:6])
}
