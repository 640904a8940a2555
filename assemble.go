package printer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/printer/blueprint"
	"github.com/bodgit/printer/grid"
	"github.com/bodgit/printer/tileset"
)

const (
	// DefaultAlphaThreshold is the mask alpha below which pixels are skipped
	DefaultAlphaThreshold = 128

	// MaxSplit is the largest accepted split size
	MaxSplit = 1 << 16

	// Cell coordinates above this can't be shown as two icon digits each
	maxIconCoordinate = 99
)

// AssembleOptions controls how a quantized image becomes blueprints.
type AssembleOptions struct {
	// Label is used for the book and as the prefix of each blueprint label
	Label string
	// Pixels whose mask alpha is below AlphaThreshold are skipped
	AlphaThreshold uint8
	// Split is the side of each square blueprint in pixels, 0 disables
	Split int
}

// Result is the set of blueprints produced from one image, in row-major
// cell order.
type Result struct {
	Label      string
	Grid       grid.Grid
	Blueprints []*blueprint.Blueprint

	// IconsDisabled is set when a cell coordinate was too large to show as
	// icons and so every blueprint has had its icons zeroed
	IconsDisabled bool
}

// Value returns the single blueprint, or a book of every blueprint when the
// image was split into more than one cell.
func (r *Result) Value() interface{} {
	if len(r.Blueprints) == 1 {
		return r.Blueprints[0]
	}
	book := blueprint.NewBook(r.Label)
	for _, bp := range r.Blueprints {
		book.AddBlueprint(bp)
	}
	return book
}

// Encode returns the exchange string for the result
func (r *Result) Encode() (string, error) {
	return blueprint.EncodeToString(r.Value())
}

// Entities returns the total number of entities across every blueprint
func (r *Result) Entities() (n int) {
	for _, bp := range r.Blueprints {
		n += len(bp.Entities)
	}
	return
}

// Tiles returns the total number of tiles across every blueprint
func (r *Result) Tiles() (n int) {
	for _, bp := range r.Blueprints {
		n += len(bp.Tiles)
	}
	return
}

// assignIcons works out every cell icon first and only then applies them,
// as a single out of range cell disables icons everywhere.
func assignIcons(g grid.Grid, prints []*blueprint.Blueprint) bool {
	icons := make([]int, len(prints))
	enabled := true
	for i := range prints {
		cx, cy := g.Origin(i)
		if cx > maxIconCoordinate || cy > maxIconCoordinate {
			enabled = false
			break
		}
		icons[i] = cx*(maxIconCoordinate+1) + cy
	}

	for i, bp := range prints {
		if enabled {
			bp.SetIcons(icons[i])
		} else {
			bp.SetIcons(0)
		}
	}

	return enabled
}

func nrgbaAt(m image.Image, x, y int) color.NRGBA {
	if nm, ok := m.(*image.NRGBA); ok {
		return nm.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
}

// Assemble turns the quantized image m into blueprints. Pixels are skipped
// where the corresponding pixel in alpha is below the threshold, every other
// pixel must exactly match an entry in ts.
func Assemble(m, alpha image.Image, ts *tileset.Tileset, opts AssembleOptions) (*Result, error) {
	if ts.Len() == 0 {
		return nil, ErrEmptyTileset
	}
	if opts.Split < 0 || opts.Split > MaxSplit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSplit, opts.Split)
	}

	b, ab := m.Bounds(), alpha.Bounds()
	if b.Size() != ab.Size() {
		return nil, fmt.Errorf("%w: %v and %v", ErrSizeMismatch, b.Size(), ab.Size())
	}
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	g := grid.New(b.Dx(), b.Dy(), opts.Split)

	prints := make([]*blueprint.Blueprint, g.Len())
	for i := range prints {
		cx, cy := g.Origin(i)
		prints[i] = blueprint.New(fmt.Sprintf("%s: x: %d y: %d", opts.Label, cx, cy))
	}

	enabled := assignIcons(g, prints)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if nrgbaAt(alpha, ab.Min.X+x, ab.Min.Y+y).A < opts.AlphaThreshold {
				continue
			}

			c := nrgbaAt(m, b.Min.X+x, b.Min.Y+y)
			e, ok := ts.Lookup(c)
			if !ok {
				return nil, &UnmatchedColorError{X: x, Y: y, Color: c}
			}

			i, lx, ly := g.Locate(x, y)
			if e.IsTile {
				prints[i].AddTile(e.Name, lx, ly)
			} else {
				prints[i].AddEntity(e.Name, lx, ly)
			}
		}
	}

	return &Result{
		Label:         opts.Label,
		Grid:          g,
		Blueprints:    prints,
		IconsDisabled: !enabled,
	}, nil
}
