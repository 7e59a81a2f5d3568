package opentype

import (
	"encoding/binary"
	"errors"
	"sort"
	"testing"
)

func be16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func be32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

// buildSFNT assembles a minimal TrueType wrapper around raw tables.
func buildSFNT(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var b []byte
	b = be32(b, sfntVersionTrueType)
	b = be16(b, uint16(len(tags)))
	b = be16(b, 0) // searchRange
	b = be16(b, 0) // entrySelector
	b = be16(b, 0) // rangeShift

	offset := 12 + len(tags)*16
	for _, tag := range tags {
		b = append(b, tag...)
		b = be32(b, 0) // checksum
		b = be32(b, uint32(offset))
		b = be32(b, uint32(len(tables[tag])))
		offset += len(tables[tag])
	}
	for _, tag := range tags {
		b = append(b, tables[tag]...)
	}
	return b
}

// buildMaxp assembles a version 0.5 maxp table.
func buildMaxp(numGlyphs uint16) []byte {
	var b []byte
	b = be32(b, 0x00005000)
	b = be16(b, numGlyphs)
	return b
}

func TestParseTableDirectory(t *testing.T) {
	data := buildSFNT(map[string][]byte{
		"maxp": buildMaxp(7),
		"name": {1, 2, 3},
	})

	tables, err := parseTableDirectory(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if got := maxpNumGlyphs(tables["maxp"]); got != 7 {
		t.Errorf("numGlyphs = %d, want 7", got)
	}
	if len(tables["name"]) != 3 {
		t.Errorf("name table length = %d, want 3", len(tables["name"]))
	}
}

func TestParseTableDirectory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0, 1}},
		{"bad magic", be32(nil, 0xdeadbeef)},
		{"truncated records", func() []byte {
			b := be32(nil, sfntVersionTrueType)
			b = be16(b, 100) // claims 100 tables
			return append(b, make([]byte, 6)...)
		}()},
		{"table beyond bounds", func() []byte {
			data := buildSFNT(map[string][]byte{"maxp": buildMaxp(1)})
			return data[:len(data)-2]
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTableDirectory(tt.data); !errors.Is(err, ErrInvalidFontData) {
				t.Errorf("err = %v, want ErrInvalidFontData", err)
			}
		})
	}
}

func TestMaxpNumGlyphs_Truncated(t *testing.T) {
	if got := maxpNumGlyphs([]byte{0, 0, 0x50}); got != 0 {
		t.Errorf("truncated maxp numGlyphs = %d, want 0", got)
	}
	if got := maxpNumGlyphs(nil); got != 0 {
		t.Errorf("missing maxp numGlyphs = %d, want 0", got)
	}
}
