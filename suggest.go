package printer

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/printer/tileset"
	"github.com/cenkalti/dominantcolor"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
)

// Suggestion method names
const (
	MedianCut = "median-cut"
	Dominant  = "dominant"
)

// Suggestion is a color that features in an image along with the tileset
// entry it would be quantized to.
type Suggestion struct {
	Color color.NRGBA
	// Weight is the share of the image, only set by the dominant method
	Weight   float64
	Nearest  tileset.Entry
	Distance int
}

// Hex returns the color as #rrggbb
func (s Suggestion) Hex() string {
	c, ok := colorful.MakeColor(s.Color)
	if !ok {
		return "#000000"
	}
	return c.Hex()
}

func opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

// Suggest finds up to n representative colors in m using the named method
// and pairs each with its nearest entry in ts. It helps spot colors the
// tileset represents poorly.
func Suggest(m image.Image, ts *tileset.Tileset, n int, method string) ([]Suggestion, error) {
	if ts.Len() == 0 {
		return nil, ErrEmptyTileset
	}
	if m.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	var suggestions []Suggestion
	switch method {
	case MedianCut:
		q := quantize.MedianCutQuantizer{}
		for _, c := range q.Quantize(make(color.Palette, 0, n), m) {
			suggestions = append(suggestions, Suggestion{Color: opaque(c)})
		}
	case Dominant:
		for _, c := range dominantcolor.FindWeight(m, n) {
			suggestions = append(suggestions, Suggestion{Color: opaque(c.RGBA), Weight: c.Weight})
		}
		sort.SliceStable(suggestions, func(i, j int) bool {
			return suggestions[i].Weight > suggestions[j].Weight
		})
	default:
		return nil, fmt.Errorf("printer: unknown suggestion method %q", method)
	}

	w := ts.Weights()
	for i := range suggestions {
		e := ts.Entry(ts.NearestIndex(suggestions[i].Color))
		suggestions[i].Nearest = e
		suggestions[i].Distance = w.Distance(suggestions[i].Color, e.Color)
	}

	return suggestions, nil
}
