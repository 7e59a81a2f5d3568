package opentype

import (
	"errors"
	"testing"
)

// buildCOLR assembles a COLR v0 table with two base glyphs:
// glyph 5 with layers 10 (palette entry 0) and 11 (foreground),
// glyph 9 with layer 12 (palette entry 1).
func buildCOLR() []byte {
	var b []byte
	b = be16(b, 0)  // version
	b = be16(b, 2)  // numBaseGlyphRecords
	b = be32(b, 14) // baseGlyphRecordsOffset
	b = be32(b, 26) // layerRecordsOffset
	b = be16(b, 3)  // numLayerRecords

	// Base glyph records, sorted by glyph ID.
	b = be16(b, 5)
	b = be16(b, 0)
	b = be16(b, 2)
	b = be16(b, 9)
	b = be16(b, 2)
	b = be16(b, 1)

	// Layer records.
	b = be16(b, 10)
	b = be16(b, 0)
	b = be16(b, 11)
	b = be16(b, foregroundPalette)
	b = be16(b, 12)
	b = be16(b, 1)
	return b
}

// buildCPAL assembles a CPAL table with two palettes of two entries.
func buildCPAL() []byte {
	var b []byte
	b = be16(b, 0)  // version
	b = be16(b, 2)  // numPaletteEntries
	b = be16(b, 2)  // numPalettes
	b = be16(b, 4)  // numColorRecords
	b = be32(b, 16) // colorRecordsOffset
	b = be16(b, 0)  // palette 0 first index
	b = be16(b, 2)  // palette 1 first index

	// Color records, BGRA order.
	b = append(b, 0x00, 0x00, 0xff, 0xff) // opaque red
	b = append(b, 0x00, 0xff, 0x00, 0x80) // translucent green
	b = append(b, 0xff, 0x00, 0x00, 0xff) // opaque blue
	b = append(b, 0x00, 0x00, 0x00, 0xff) // opaque black
	return b
}

func TestParseColorTable(t *testing.T) {
	ct, err := parseColorTable(buildCOLR(), buildCPAL())
	if err != nil {
		t.Fatal(err)
	}

	refs := ct.layerRefs(5, 0)
	if len(refs) != 2 {
		t.Fatalf("glyph 5 has %d layers, want 2", len(refs))
	}
	if refs[0].glyphID != 10 || refs[0].color != "#ff0000" || refs[0].foreground {
		t.Errorf("layer 0 = %+v, want glyph 10 opaque red", refs[0])
	}
	if refs[1].glyphID != 11 || !refs[1].foreground || refs[1].color != "" {
		t.Errorf("layer 1 = %+v, want foreground glyph 11", refs[1])
	}

	refs = ct.layerRefs(9, 0)
	if len(refs) != 1 {
		t.Fatalf("glyph 9 has %d layers, want 1", len(refs))
	}
	if refs[0].glyphID != 12 || refs[0].color != "rgba(0,255,0,0.502)" {
		t.Errorf("layer = %+v, want translucent green", refs[0])
	}

	// Palette 1 resolves entry 1 to its own color record.
	refs = ct.layerRefs(9, 1)
	if refs[0].color != "#000000" {
		t.Errorf("palette 1 color = %q, want #000000", refs[0].color)
	}

	// Out-of-range palettes fall back to palette 0.
	refs = ct.layerRefs(9, 5)
	if refs[0].color != "rgba(0,255,0,0.502)" {
		t.Errorf("fallback palette color = %q", refs[0].color)
	}

	if got := ct.layerRefs(7, 0); got != nil {
		t.Errorf("unlayered glyph returned %v, want nil", got)
	}
}

func TestParseColorTable_Errors(t *testing.T) {
	if _, err := parseColorTable(nil, buildCPAL()); !errors.Is(err, ErrInvalidCOLRData) {
		t.Errorf("empty COLR err = %v", err)
	}
	if _, err := parseColorTable(buildCOLR(), nil); !errors.Is(err, ErrInvalidCPALData) {
		t.Errorf("empty CPAL err = %v", err)
	}

	v2 := buildCOLR()
	v2[1] = 2
	if _, err := parseColorTable(v2, buildCPAL()); !errors.Is(err, ErrUnsupportedCOLRVersion) {
		t.Errorf("v2 err = %v, want ErrUnsupportedCOLRVersion", err)
	}

	truncated := buildCOLR()[:20]
	if _, err := parseColorTable(truncated, buildCPAL()); !errors.Is(err, ErrInvalidCOLRData) {
		t.Errorf("truncated COLR err = %v", err)
	}

	shortCPAL := buildCPAL()[:18]
	if _, err := parseColorTable(buildCOLR(), shortCPAL); !errors.Is(err, ErrInvalidCPALData) {
		t.Errorf("truncated CPAL err = %v", err)
	}

	// A first-record index near 65535 must fail the bounds check, not
	// wrap around to read the first color records.
	var wrap []byte
	wrap = be16(wrap, 0)     // version
	wrap = be16(wrap, 2)     // numPaletteEntries
	wrap = be16(wrap, 1)     // numPalettes
	wrap = be16(wrap, 2)     // numColorRecords
	wrap = be32(wrap, 14)    // colorRecordsOffset
	wrap = be16(wrap, 65535) // palette 0 first index
	wrap = append(wrap, 0x00, 0x00, 0xff, 0xff)
	wrap = append(wrap, 0x00, 0xff, 0x00, 0xff)
	if _, err := parseColorTable(buildCOLR(), wrap); !errors.Is(err, ErrInvalidCPALData) {
		t.Errorf("wrapping palette index err = %v", err)
	}
}

func TestPaletteColorCSS(t *testing.T) {
	tests := []struct {
		c    paletteColor
		want string
	}{
		{paletteColor{r: 255, g: 0, b: 0, a: 255}, "#ff0000"},
		{paletteColor{r: 0x12, g: 0xab, b: 0xcd, a: 255}, "#12abcd"},
		{paletteColor{r: 0, g: 0, b: 0, a: 0}, "rgba(0,0,0,0)"},
		{paletteColor{r: 10, g: 20, b: 30, a: 0x80}, "rgba(10,20,30,0.502)"},
	}
	for _, tt := range tests {
		if got := tt.c.css(); got != tt.want {
			t.Errorf("css(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}
