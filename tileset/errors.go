package tileset

import "errors"

var (
	// ErrUnknownFormat indicates a tileset file extension that is not supported.
	ErrUnknownFormat = errors.New("tileset: unknown file format")
	// ErrUnknownPreset indicates a preset name that does not exist.
	ErrUnknownPreset = errors.New("tileset: unknown preset")
	// ErrBadHeader indicates a CSV file without the expected header row.
	ErrBadHeader = errors.New("tileset: invalid header")
	// ErrBadRow indicates a row that could not be parsed.
	ErrBadRow = errors.New("tileset: invalid row")
)
