package tileset

import "image/color"

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// IndexOf returns the position of the entry exactly matching c, or NotFound.
// Only opaque colors can match as every entry is opaque.
func (ts *Tileset) IndexOf(c color.Color) int {
	n := toNRGBA(c)
	if n.A != 0xff {
		return NotFound
	}
	return ts.Index(n)
}

// MapColor returns the nearest entry color to c. The alpha channel of the
// result is always fully opaque regardless of the alpha of c.
func (ts *Tileset) MapColor(c color.Color) color.NRGBA {
	n := ts.Nearest(toNRGBA(c))
	n.A = 0xff
	return n
}
