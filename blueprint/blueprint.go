/*
Package blueprint implements blueprints and blueprint books and their
exchange string encoding.

An exchange string is a version byte, currently always "0", followed by the
standard base64 encoding of the zlib compressed JSON form of either a single
blueprint or a book of blueprints.
*/
package blueprint

import "fmt"

const (
	itemBlueprint = "blueprint"
	itemBook      = "blueprint-book"

	numIcons = 4
	// MaxIcon is the largest value that can be shown with four digit icons
	MaxIcon = 9999
)

// Position is a coordinate relative to the blueprint origin.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Entity is a numbered placement.
type Entity struct {
	EntityNumber int      `json:"entity_number"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
}

// Tile is an unnumbered placement.
type Tile struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// Signal identifies the virtual signal shown by an icon.
type Signal struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Icon is one of up to four icons shown on a blueprint. Index is 1-based.
type Icon struct {
	Index  int    `json:"index"`
	Signal Signal `json:"signal"`
}

// Blueprint is a set of entity and tile placements.
type Blueprint struct {
	Item     string   `json:"item"`
	Label    string   `json:"label"`
	Entities []Entity `json:"entities"`
	Tiles    []Tile   `json:"tiles"`
	Icons    []Icon   `json:"icons"`

	next int
}

// New returns an empty Blueprint
func New(label string) *Blueprint {
	return &Blueprint{
		Item:     itemBlueprint,
		Label:    label,
		Entities: []Entity{},
		Tiles:    []Tile{},
		Icons:    []Icon{},
		next:     1,
	}
}

// AddEntity appends an entity, numbering it one higher than the previous
func (bp *Blueprint) AddEntity(name string, x, y int) {
	if bp.next == 0 {
		bp.next = len(bp.Entities) + 1
	}
	bp.Entities = append(bp.Entities, Entity{
		EntityNumber: bp.next,
		Name:         name,
		Position:     Position{x, y},
	})
	bp.next++
}

// AddTile appends a tile
func (bp *Blueprint) AddTile(name string, x, y int) {
	bp.Tiles = append(bp.Tiles, Tile{
		Name:     name,
		Position: Position{x, y},
	})
}

func digitSignal(d int) Signal {
	return Signal{
		Name: fmt.Sprintf("signal-%d", d),
		Type: "virtual",
	}
}

// SetIcons replaces the icons with the four decimal digits of v, most
// significant first. It panics if v is outside 0 to MaxIcon.
func (bp *Blueprint) SetIcons(v int) {
	if v < 0 || v > MaxIcon {
		panic(fmt.Sprintf("blueprint: icon value %d outside 0 to %d", v, MaxIcon))
	}
	icons := make([]Icon, numIcons)
	for i := numIcons - 1; i >= 0; i-- {
		icons[i] = Icon{
			Index:  i + 1,
			Signal: digitSignal(v % 10),
		}
		v /= 10
	}
	bp.Icons = icons
}

// BookEntry is a blueprint and its 0-based position in a book.
type BookEntry struct {
	Index     int        `json:"index"`
	Blueprint *Blueprint `json:"blueprint"`
}

// Book is a labelled collection of blueprints.
type Book struct {
	Item        string      `json:"item"`
	Label       string      `json:"label"`
	Blueprints  []BookEntry `json:"blueprints"`
	ActiveIndex int         `json:"active_index"`
	Version     int64       `json:"version"`
}

// NewBook returns an empty Book
func NewBook(label string) *Book {
	return &Book{
		Item:       itemBook,
		Label:      label,
		Blueprints: []BookEntry{},
	}
}

// AddBlueprint appends bp at the next index
func (b *Book) AddBlueprint(bp *Blueprint) {
	b.Blueprints = append(b.Blueprints, BookEntry{
		Index:     len(b.Blueprints),
		Blueprint: bp,
	})
}

// Len returns the number of blueprints in the book
func (b *Book) Len() int {
	return len(b.Blueprints)
}
