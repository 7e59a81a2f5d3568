package typeface

import (
	"iter"
	"math"
	"sync"
)

// GlyphProducer builds a glyph on first access. A producer runs at most
// once per slot; its result is cached for the life of the set.
type GlyphProducer func() (*Glyph, error)

// GlyphData is the cheap identity a streaming backend can attach to a
// glyph slot without parsing its outline: name, codepoints and
// horizontal metrics.
type GlyphData struct {
	Name            string
	Unicodes        []rune
	AdvanceWidth    float64
	LeftSideBearing float64

	// HasMetrics reports whether AdvanceWidth and LeftSideBearing carry
	// values.
	HasMetrics bool
}

// GlyphBackend streams glyph slots on demand. A set created over a
// backend starts with a declared length and no materialized entries;
// the backend is consulted the first time each index is accessed.
type GlyphBackend interface {
	// PushGlyph returns the producer and identity data for a glyph
	// index.
	PushGlyph(index int) (GlyphProducer, GlyphData, error)
}

// GlyphSet is an indexed, lazily materialized glyph collection. It is
// safe for concurrent use; each slot's producer runs exactly once, and
// concurrent readers of the same index observe the identical *Glyph.
type GlyphSet struct {
	mu      sync.Mutex
	backend GlyphBackend
	entries map[int]*glyphEntry
	length  int
}

type glyphEntry struct {
	once    sync.Once
	produce GlyphProducer
	data    *GlyphData
	glyph   *Glyph
	err     error
}

// NewGlyphSet returns a set of the given length backed by a streaming
// backend. backend may be nil for a purely push-populated set, in which
// case length should be 0.
func NewGlyphSet(backend GlyphBackend, length int) *GlyphSet {
	if length < 0 {
		length = 0
	}
	return &GlyphSet{
		backend: backend,
		entries: make(map[int]*glyphEntry),
		length:  length,
	}
}

// Len returns the number of glyph slots, materialized or not.
func (s *GlyphSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length
}

// Push appends a producer-backed slot and returns its index.
func (s *GlyphSet) Push(p GlyphProducer) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.length
	s.entries[i] = &glyphEntry{produce: p}
	s.length++
	return i
}

// PushGlyph appends an already materialized glyph and returns its
// index.
func (s *GlyphSet) PushGlyph(g *Glyph) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.length
	s.entries[i] = &glyphEntry{glyph: g}
	s.length++
	return i
}

// Get returns the glyph at index i, materializing it on first access.
// An out-of-range index returns an IndexError. A slot the backend never
// declared and nothing pushed returns ErrGlyphMissing.
func (s *GlyphSet) Get(i int) (*Glyph, error) {
	s.mu.Lock()
	if i < 0 || i >= s.length {
		n := s.length
		s.mu.Unlock()
		return nil, &IndexError{Index: i, Len: n}
	}
	e, ok := s.entries[i]
	if !ok {
		backend := s.backend
		s.mu.Unlock()
		if backend == nil {
			return nil, ErrGlyphMissing
		}
		produce, data, err := backend.PushGlyph(i)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		// A racing Get may have installed the entry already.
		if e2, ok := s.entries[i]; ok {
			e = e2
		} else {
			d := data
			e = &glyphEntry{produce: produce, data: &d}
			s.entries[i] = e
			Logger().Debug("typeface: glyph slot materialized from backend", "index", i)
		}
	}
	s.mu.Unlock()

	e.once.Do(func() {
		if e.produce != nil {
			e.glyph, e.err = e.produce()
			e.produce = nil
		}
		if e.err != nil {
			return
		}
		if e.glyph == nil {
			e.glyph = &Glyph{
				index: i,
				XMin:  math.NaN(),
				YMin:  math.NaN(),
				XMax:  math.NaN(),
				YMax:  math.NaN(),
			}
		}
		if e.data != nil {
			e.err = applyGlyphData(e.glyph, e.data)
			e.data = nil
		}
	})
	return e.glyph, e.err
}

// All iterates the set in index order, materializing lazily. Slots that
// fail to materialize are logged and skipped.
func (s *GlyphSet) All() iter.Seq2[int, *Glyph] {
	return func(yield func(int, *Glyph) bool) {
		for i := 0; i < s.Len(); i++ {
			g, err := s.Get(i)
			if err != nil {
				Logger().Warn("typeface: skipping glyph during iteration", "index", i, "err", err)
				continue
			}
			if !yield(i, g) {
				return
			}
		}
	}
}

// applyGlyphData fills identity fields the producer left empty.
func applyGlyphData(g *Glyph, d *GlyphData) error {
	if g.Name == "" {
		g.Name = d.Name
	}
	for _, u := range d.Unicodes {
		if err := g.AddUnicode(u); err != nil {
			return err
		}
	}
	if d.HasMetrics {
		g.AdvanceWidth = d.AdvanceWidth
		g.LeftSideBearing = d.LeftSideBearing
	}
	return nil
}
