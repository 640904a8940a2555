/*
Package printer is a library for converting images into blueprint exchange
strings.

An image is dithered against a tileset of colored tiles and entities, each
pixel then becomes a placement in a blueprint. Large images can be split into
a book of smaller blueprints.
*/
package printer

import "log"

// Printer converts images, optionally caching results in a History.
type Printer struct {
	history *History
	logger  *log.Logger
}

// New returns a Printer. history may be nil to disable caching.
func New(history *History, logger *log.Logger) *Printer {
	return &Printer{
		history: history,
		logger:  logger,
	}
}
