package tileset

import (
	"fmt"
	"image/color"
	"sort"
)

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{r, g, b, 0xff}
}

var baseGame = []Entry{
	{rgb(47, 49, 41), "refined-concrete", true},
	{rgb(115, 93, 25), "refined-hazard-concrete-left", true},
	{rgb(82, 81, 74), "stone-path", true},
	{rgb(58, 61, 58), "concrete", true},
	{rgb(181, 142, 33), "hazard-concrete-left", true},
	{rgb(0, 93, 148), "wooden-chest", false},
	{rgb(206, 158, 66), "transport-belt", false},
	{rgb(206, 215, 206), "stone-wall", false},
}

// Colored refined concrete added by the color coding mod
var colorCoding = []Entry{
	{rgb(100, 0, 0), "refined-concrete-red", true},
	{rgb(8, 97, 19), "refined-concrete-green", true},
	{rgb(16, 70, 115), "refined-concrete-blue", true},
	{rgb(107, 61, 16), "refined-concrete-orange", true},
	{rgb(107, 85, 8), "refined-concrete-yellow", true},
	{rgb(115, 49, 66), "refined-concrete-pink", true},
	{rgb(58, 12, 82), "refined-concrete-purple", true},
	{rgb(8, 12, 8), "refined-concrete-black", true},
	{rgb(33, 12, 0), "refined-concrete-brown", true},
	{rgb(33, 97, 90), "refined-concrete-cyan", true},
	{rgb(67, 97, 16), "refined-concrete-acid", true},
	{rgb(123, 125, 123), "refined-concrete-white", true},
}

// BaseGame returns the tiles and entities available without mods
func BaseGame() *Tileset {
	return New(baseGame...)
}

// ColorCoding returns the base game set followed by the colored refined
// concrete tiles.
func ColorCoding() *Tileset {
	return New(append(append([]Entry(nil), baseGame...), colorCoding...)...)
}

var presets = map[string]func() *Tileset{
	"base":         BaseGame,
	"color-coding": ColorCoding,
}

// Presets returns the names accepted by Preset, sorted
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the built-in tileset with the given name
func Preset(name string) (*Tileset, error) {
	f, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return f(), nil
}
