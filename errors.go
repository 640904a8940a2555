package printer

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrEmptyTileset indicates a tileset with no entries.
	ErrEmptyTileset = errors.New("printer: empty tileset")
	// ErrEmptyImage indicates an image with no pixels.
	ErrEmptyImage = errors.New("printer: empty image")
	// ErrSizeMismatch indicates the quantized image and alpha mask differ in size.
	ErrSizeMismatch = errors.New("printer: image and alpha mask sizes differ")
	// ErrInvalidSplit indicates a negative or too large split size.
	ErrInvalidSplit = errors.New("printer: invalid split size")
)

// UnmatchedColorError is returned when a quantized pixel has no exact match
// in the tileset, usually because the image was not dithered against it.
type UnmatchedColorError struct {
	X, Y  int
	Color color.NRGBA
}

func (e *UnmatchedColorError) Error() string {
	return fmt.Sprintf("printer: pixel (%d, %d) color #%02x%02x%02x has no matching tile, was the image dithered?", e.X, e.Y, e.Color.R, e.Color.G, e.Color.B)
}
