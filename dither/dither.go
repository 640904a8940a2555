/*
Package dither implements error diffusion dithering against an arbitrary
quantizer.

The quantizer owns the palette; a Ditherer only decides the order pixels are
visited in and how quantization error is spread to neighbouring pixels. Every
pixel a Ditherer commits has been through Quantizer.MapColor.
*/
package dither

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// NotFound is the value IndexOf returns for a color not in the palette.
const NotFound = -1

// Quantizer maps arbitrary colors onto a fixed palette.
type Quantizer interface {
	// IndexOf returns the palette position of c, or NotFound
	IndexOf(c color.Color) int
	// MapColor returns the palette color nearest to c, fully opaque
	MapColor(c color.Color) color.NRGBA
}

// Ditherer quantizes every pixel of m in place.
type Ditherer interface {
	Dither(m *image.NRGBA, q Quantizer)
}

// DithererFunc adapts a function to the Ditherer interface.
type DithererFunc func(*image.NRGBA, Quantizer)

// Dither calls f(m, q)
func (f DithererFunc) Dither(m *image.NRGBA, q Quantizer) {
	f(m, q)
}

// None maps each pixel to its nearest palette color without diffusing any
// error.
var None Ditherer = DithererFunc(func(m *image.NRGBA, q Quantizer) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.SetNRGBA(x, y, q.MapColor(m.NRGBAAt(x, y)))
		}
	}
})

type weight struct {
	dx, dy int
	n      int
}

// kernel is an error diffusion matrix. Weights are numerators over div and
// offsets are relative to the current pixel; only pixels to the right or
// below may be targeted.
type kernel struct {
	weights []weight
	div     int
}

// FloydSteinberg diffuses 7/16 of the error right, 3/16 below left, 5/16
// below and 1/16 below right.
var FloydSteinberg Ditherer = kernel{
	weights: []weight{
		{1, 0, 7},
		{-1, 1, 3},
		{0, 1, 5},
		{1, 1, 1},
	},
	div: 16,
}

// Atkinson diffuses 6/8 of the error across six neighbours, discarding the
// rest.
var Atkinson Ditherer = kernel{
	weights: []weight{
		{1, 0, 1},
		{2, 0, 1},
		{-1, 1, 1},
		{0, 1, 1},
		{1, 1, 1},
		{0, 2, 1},
	},
	div: 8,
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}

func diffuse(c color.NRGBA, err [3]int, n, div int) color.NRGBA {
	c.R = clamp(int(c.R) + err[0]*n/div)
	c.G = clamp(int(c.G) + err[1]*n/div)
	c.B = clamp(int(c.B) + err[2]*n/div)
	return c
}

// Dither visits pixels in row-major order, quantizing each one and spreading
// the red, green and blue error to unvisited neighbours. Alpha is not
// diffused.
func (k kernel) Dither(m *image.NRGBA, q Quantizer) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			old := m.NRGBAAt(x, y)
			c := q.MapColor(old)
			m.SetNRGBA(x, y, c)

			// Already on the palette, nothing to diffuse
			if q.IndexOf(old) != NotFound {
				continue
			}

			err := [3]int{
				int(old.R) - int(c.R),
				int(old.G) - int(c.G),
				int(old.B) - int(c.B),
			}
			if err == [3]int{} {
				continue
			}

			for _, w := range k.weights {
				p := image.Pt(x+w.dx, y+w.dy)
				if !p.In(b) {
					continue
				}
				m.SetNRGBA(p.X, p.Y, diffuse(m.NRGBAAt(p.X, p.Y), err, w.n, k.div))
			}
		}
	}
}

var ditherers = map[string]Ditherer{
	"none":            None,
	"floyd-steinberg": FloydSteinberg,
	"atkinson":        Atkinson,
}

// Names returns the names accepted by ByName, sorted
func Names() []string {
	names := make([]string, 0, len(ditherers))
	for name := range ditherers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the named Ditherer
func ByName(name string) (Ditherer, error) {
	d, ok := ditherers[name]
	if !ok {
		return nil, fmt.Errorf("dither: unknown method %q", name)
	}
	return d, nil
}
