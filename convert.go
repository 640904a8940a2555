package printer

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/printer/dither"
	"github.com/bodgit/printer/tileset"
	"golang.org/x/image/draw"
)

// DefaultDither is the dithering method used when Options.Dither is empty
const DefaultDither = "floyd-steinberg"

// Options controls a conversion. The zero value converts with the base game
// tileset and DefaultDither but keeps every pixel, start from DefaultOptions
// to skip transparent ones.
type Options struct {
	// Label defaults to the name of the source file without extension
	Label string
	// Tileset defaults to tileset.BaseGame
	Tileset *tileset.Tileset
	// Dither names the dithering method, see dither.Names
	Dither string
	// AlphaThreshold skips pixels with less alpha, 0 keeps them all
	AlphaThreshold uint8
	Split          int
	// Width resizes the image, preserving aspect ratio, 0 keeps the size
	Width int
	// Preview writes the dithered image next to the output
	Preview bool
}

// DefaultOptions returns the options used by the command line tool when no
// flags are given.
func DefaultOptions() Options {
	return Options{
		Tileset:        tileset.BaseGame(),
		Dither:         DefaultDither,
		AlphaThreshold: DefaultAlphaThreshold,
	}
}

func (o Options) tileset() *tileset.Tileset {
	if o.Tileset == nil {
		return tileset.BaseGame()
	}
	return o.Tileset
}

func (o Options) dither() string {
	if o.Dither == "" {
		return DefaultDither
	}
	return o.Dither
}

// fingerprint identifies every setting that changes the output
func (o Options) fingerprint(w io.Writer) {
	ts := o.tileset()
	fmt.Fprintf(w, "label=%q dither=%q alpha=%d split=%d width=%d weights=%v\n", o.Label, o.dither(), o.AlphaThreshold, o.Split, o.Width, ts.Weights())
	for _, e := range ts.Entries() {
		fmt.Fprintf(w, "%d,%d,%d,%q,%t\n", e.Color.R, e.Color.G, e.Color.B, e.Name, e.IsTile)
	}
}

// Conversion is the outcome of converting one image.
type Conversion struct {
	// Result is nil when the exchange string came from the history
	*Result
	// Image is the dithered image, nil when cached
	Image    *image.NRGBA
	Exchange string
	Cached   bool
	// IconsDisabled is set when every icon was zeroed, whether the result
	// was converted now or came from the history
	IconsDisabled bool
}

func resize(m image.Image, width int) image.Image {
	b := m.Bounds()
	if width <= 0 || width == b.Dx() || b.Empty() {
		return m
	}
	height := (b.Dy()*width + b.Dx()/2) / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// ConvertImage dithers a copy of m and assembles the result. The alpha
// channel of m, after any resize, is used as the mask.
func (p *Printer) ConvertImage(m image.Image, opts Options) (*Conversion, error) {
	ts := opts.tileset()
	if ts.Len() == 0 {
		return nil, ErrEmptyTileset
	}

	d, err := dither.ByName(opts.dither())
	if err != nil {
		return nil, err
	}

	original := toNRGBA(resize(m, opts.Width))

	dithered := image.NewNRGBA(original.Bounds())
	copy(dithered.Pix, original.Pix)
	d.Dither(dithered, ts)

	result, err := Assemble(dithered, original, ts, AssembleOptions{
		Label:          opts.Label,
		AlphaThreshold: opts.AlphaThreshold,
		Split:          opts.Split,
	})
	if err != nil {
		return nil, err
	}

	if result.IconsDisabled {
		p.logger.Printf("Warning: %d by %d blueprints exceeds 100 in one direction, icons will be set to 0\n", result.Grid.CountX, result.Grid.CountY)
	}

	exchange, err := result.Encode()
	if err != nil {
		return nil, err
	}

	p.logger.Printf("Converted \"%s\" into %d blueprint(s), %d entities and %d tiles\n", opts.Label, len(result.Blueprints), result.Entities(), result.Tiles())

	return &Conversion{
		Result:        result,
		Image:         dithered,
		Exchange:      exchange,
		IconsDisabled: result.IconsDisabled,
	}, nil
}

// Stem returns the file name without directory or extension
func Stem(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// Convert decodes the image in file and converts it. If the Printer has a
// History and no preview is wanted a previously cached exchange string is
// returned instead.
func (p *Printer) Convert(file string, opts Options) (*Conversion, error) {
	if opts.Label == "" {
		opts.Label = Stem(file)
	}

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	h := sha1.New()
	h.Write(b)
	opts.fingerprint(h)
	key := fmt.Sprintf("%X", h.Sum(nil))

	if p.history != nil && !opts.Preview {
		r, err := p.history.Find(key)
		if err != nil {
			return nil, err
		}
		if r != nil {
			p.logger.Printf("Using cached result for \"%s\"\n", file)
			return &Conversion{
				Exchange:      r.Exchange,
				Cached:        true,
				IconsDisabled: r.IconsDisabled,
			}, nil
		}
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	c, err := p.ConvertImage(m, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if p.history != nil {
		if err := p.history.Add(key, opts.Label, c.Exchange, c.IconsDisabled); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// OutputFiles returns the blueprint and preview file names written for file
func OutputFiles(file string) (string, string) {
	base := filepath.Join(filepath.Dir(file), Stem(file))
	return base + blueprintSuffix, base + previewSuffix + ".png"
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ConvertFile converts file and writes the exchange string, and optionally
// the dithered preview, alongside it.
func (p *Printer) ConvertFile(file string, opts Options) (*Conversion, error) {
	c, err := p.Convert(file, opts)
	if err != nil {
		return nil, err
	}

	out, preview := OutputFiles(file)

	if err := ioutil.WriteFile(out, []byte(c.Exchange), 0666); err != nil {
		return nil, err
	}

	if opts.Preview && c.Image != nil {
		if err := writePNG(preview, c.Image); err != nil {
			return nil, err
		}
	}

	return c, nil
}
