/*
Package tileset implements the ordered palette of placeable objects that an
image is quantized against.

Each entry pairs an RGB color with the name of a tile or entity. The order of
entries is significant; exact lookups return the first matching entry and the
nearest color search resolves ties in favour of the earliest entry.
*/
package tileset

import (
	"image/color"
)

// NotFound is returned by Index and IndexOf when no entry matches.
const NotFound = -1

// Weights scales the squared difference of the red, green and blue channels
// when searching for the nearest color.
type Weights [3]int

var (
	// Uniform weights every channel equally
	Uniform = Weights{1, 1, 1}
	// Perceptual weights channels roughly by their contribution to luma
	Perceptual = Weights{11, 59, 30}
)

// Entry is a single placeable object. Only the red, green and blue channels
// of Color are significant.
type Entry struct {
	Color  color.NRGBA
	Name   string
	IsTile bool
}

// Tileset is an immutable ordered list of entries.
type Tileset struct {
	entries []Entry
	weights Weights
}

// New returns a Tileset containing a copy of entries, using Uniform weights.
func New(entries ...Entry) *Tileset {
	ts := &Tileset{
		entries: make([]Entry, len(entries)),
		weights: Uniform,
	}
	copy(ts.entries, entries)
	for i := range ts.entries {
		ts.entries[i].Color.A = 0xff
	}
	return ts
}

// WithWeights returns a Tileset sharing the same entries but using w for
// nearest color searches.
func (ts *Tileset) WithWeights(w Weights) *Tileset {
	return &Tileset{
		entries: ts.entries,
		weights: w,
	}
}

// Weights returns the channel weights in use
func (ts *Tileset) Weights() Weights {
	return ts.weights
}

// Len returns the number of entries
func (ts *Tileset) Len() int {
	return len(ts.entries)
}

// Entry returns the entry at position i
func (ts *Tileset) Entry(i int) Entry {
	return ts.entries[i]
}

// Entries returns a copy of every entry in order
func (ts *Tileset) Entries() []Entry {
	return append([]Entry(nil), ts.entries...)
}

func sameRGB(a, b color.NRGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}

// Index returns the position of the first entry whose color exactly matches
// the red, green and blue channels of c, or NotFound.
func (ts *Tileset) Index(c color.NRGBA) int {
	for i, e := range ts.entries {
		if sameRGB(e.Color, c) {
			return i
		}
	}
	return NotFound
}

// Lookup returns the first entry exactly matching c
func (ts *Tileset) Lookup(c color.NRGBA) (Entry, bool) {
	if i := ts.Index(c); i != NotFound {
		return ts.entries[i], true
	}
	return Entry{}, false
}

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

// Distance returns the weighted squared distance between two colors.
func (w Weights) Distance(a, b color.NRGBA) int {
	return w[0]*sqDiff(a.R, b.R) + w[1]*sqDiff(a.G, b.G) + w[2]*sqDiff(a.B, b.B)
}

// NearestIndex returns the position of the entry closest to c. The first of
// any equally close entries wins. It panics if the tileset is empty.
func (ts *Tileset) NearestIndex(c color.NRGBA) int {
	if len(ts.entries) == 0 {
		panic("tileset: nearest color search on empty tileset")
	}
	best, bestDist := 0, ts.weights.Distance(c, ts.entries[0].Color)
	for i, e := range ts.entries[1:] {
		if d := ts.weights.Distance(c, e.Color); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

// Nearest returns the color of the entry closest to c. It panics if the
// tileset is empty.
func (ts *Tileset) Nearest(c color.NRGBA) color.NRGBA {
	return ts.entries[ts.NearestIndex(c)].Color
}
