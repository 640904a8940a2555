/*
Package grid partitions an image into square cells.

Cells are numbered in row-major order. Cells on the right and bottom edges
are clipped to the image and so may be smaller than the others.
*/
package grid

// Grid describes how a Width by Height image is divided into cells of Size
// pixels square. A Size of zero or less produces a single cell covering the
// whole image.
type Grid struct {
	Width, Height int
	Size          int
	CountX        int
	CountY        int
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// New returns the Grid for a w by h image split into size by size cells
func New(w, h, size int) Grid {
	g := Grid{
		Width:  w,
		Height: h,
		Size:   size,
		CountX: 1,
		CountY: 1,
	}
	if size > 0 {
		g.CountX = ceilDiv(w, size)
		g.CountY = ceilDiv(h, size)
	}
	return g
}

// Len returns the total number of cells
func (g Grid) Len() int {
	return g.CountX * g.CountY
}

// Split reports whether the image is divided into more than one cell
func (g Grid) Split() bool {
	return g.Len() > 1
}

// Locate returns the cell containing pixel (x, y) and the position of the
// pixel relative to the cell origin.
func (g Grid) Locate(x, y int) (cell, lx, ly int) {
	if g.Size <= 0 {
		return 0, x, y
	}
	cx, cy := x/g.Size, y/g.Size
	return cx + cy*g.CountX, x % g.Size, y % g.Size
}

// Origin returns the column and row of cell. A grid with no cells, such as
// one built from an empty image, returns 0, 0.
func (g Grid) Origin(cell int) (cx, cy int) {
	if g.CountX <= 0 {
		return 0, 0
	}
	return cell % g.CountX, cell / g.CountX
}
