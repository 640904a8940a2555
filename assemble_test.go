package printer

import (
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/printer/blueprint"
	"github.com/bodgit/printer/tileset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{0, 0, 0, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

// testTileset has tile A as black and entity B as white
func testTileset() *tileset.Tileset {
	return tileset.New(
		tileset.Entry{Color: black, Name: "A", IsTile: true},
		tileset.Entry{Color: white, Name: "B", IsTile: false},
	)
}

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func decodeTop(t *testing.T, r *Result) map[string]json.RawMessage {
	s, err := r.Encode()
	require.NoError(t, err)
	require.Equal(t, byte('0'), s[0])

	b, err := blueprint.Decode(s)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &top))
	return top
}

func TestAssembleTwoPixels(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.SetNRGBA(0, 0, black)
	m.SetNRGBA(1, 0, white)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{Label: "test", AlphaThreshold: 1})
	require.NoError(t, err)
	require.Len(t, r.Blueprints, 1)
	assert.False(t, r.IconsDisabled)

	bp := r.Blueprints[0]
	assert.Equal(t, "test: x: 0 y: 0", bp.Label)
	assert.Equal(t, []blueprint.Tile{{Name: "A", Position: blueprint.Position{X: 0, Y: 0}}}, bp.Tiles)
	assert.Equal(t, []blueprint.Entity{{EntityNumber: 1, Name: "B", Position: blueprint.Position{X: 1, Y: 0}}}, bp.Entities)
	require.Len(t, bp.Icons, 4)
	for _, icon := range bp.Icons {
		assert.Equal(t, "signal-0", icon.Signal.Name)
	}

	assert.IsType(t, &blueprint.Blueprint{}, r.Value())

	top := decodeTop(t, r)
	assert.Contains(t, top, "blueprint")
	assert.NotContains(t, top, "blueprint_book")
}

func TestAssembleEntityNumbering(t *testing.T) {
	m := filled(4, 3, white)
	m.SetNRGBA(1, 1, black)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{AlphaThreshold: DefaultAlphaThreshold})
	require.NoError(t, err)

	bp := r.Blueprints[0]
	require.Len(t, bp.Entities, 11)
	require.Len(t, bp.Tiles, 1)

	// Row-major scan order
	i := 0
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if x == 1 && y == 1 {
				continue
			}
			e := bp.Entities[i]
			assert.Equal(t, i+1, e.EntityNumber)
			assert.Equal(t, blueprint.Position{X: x, Y: y}, e.Position)
			i++
		}
	}
	assert.Equal(t, 11, r.Entities())
	assert.Equal(t, 1, r.Tiles())
}

func TestAssembleAlphaMask(t *testing.T) {
	m := filled(3, 1, white)
	mask := filled(3, 1, white)
	mask.SetNRGBA(1, 0, color.NRGBA{0xff, 0xff, 0xff, 50})

	r, err := Assemble(m, mask, testTileset(), AssembleOptions{AlphaThreshold: 128})
	require.NoError(t, err)

	bp := r.Blueprints[0]
	require.Len(t, bp.Entities, 2)
	assert.Empty(t, bp.Tiles)
	assert.Equal(t, blueprint.Position{X: 0, Y: 0}, bp.Entities[0].Position)
	assert.Equal(t, blueprint.Position{X: 2, Y: 0}, bp.Entities[1].Position)
	assert.Equal(t, 2, bp.Entities[1].EntityNumber)

	// A threshold of zero keeps even fully transparent pixels
	mask.SetNRGBA(1, 0, color.NRGBA{})
	r, err = Assemble(m, mask, testTileset(), AssembleOptions{})
	require.NoError(t, err)
	assert.Len(t, r.Blueprints[0].Entities, 3)
}

func TestAssembleMaskedPixelNeedNotMatch(t *testing.T) {
	m := filled(2, 1, white)
	m.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 0xff})
	mask := filled(2, 1, white)
	mask.SetNRGBA(0, 0, color.NRGBA{})

	r, err := Assemble(m, mask, testTileset(), AssembleOptions{AlphaThreshold: 1})
	require.NoError(t, err)
	assert.Len(t, r.Blueprints[0].Entities, 1)
}

func TestAssembleSplit(t *testing.T) {
	m := filled(4, 4, white)
	m.SetNRGBA(3, 2, black)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{Label: "img", AlphaThreshold: 1, Split: 2})
	require.NoError(t, err)
	require.Len(t, r.Blueprints, 4)

	labels := []string{"img: x: 0 y: 0", "img: x: 1 y: 0", "img: x: 0 y: 1", "img: x: 1 y: 1"}
	icons := [][]string{
		{"signal-0", "signal-0", "signal-0", "signal-0"},
		{"signal-0", "signal-1", "signal-0", "signal-0"},
		{"signal-0", "signal-0", "signal-0", "signal-1"},
		{"signal-0", "signal-1", "signal-0", "signal-1"},
	}
	for i, bp := range r.Blueprints {
		assert.Equal(t, labels[i], bp.Label)
		var names []string
		for _, icon := range bp.Icons {
			names = append(names, icon.Signal.Name)
		}
		assert.Equal(t, icons[i], names)
	}

	last := r.Blueprints[3]
	assert.Equal(t, []blueprint.Tile{{Name: "A", Position: blueprint.Position{X: 1, Y: 0}}}, last.Tiles)
	require.Len(t, last.Entities, 3)
	assert.Equal(t, blueprint.Position{X: 0, Y: 0}, last.Entities[0].Position)
	assert.Equal(t, 3, last.Entities[2].EntityNumber)

	book, ok := r.Value().(*blueprint.Book)
	require.True(t, ok)
	assert.Equal(t, "img", book.Label)
	require.Equal(t, 4, book.Len())
	for i, e := range book.Blueprints {
		assert.Equal(t, i, e.Index)
	}

	top := decodeTop(t, r)
	assert.Contains(t, top, "blueprint_book")
	assert.NotContains(t, top, "blueprint")
}

func TestAssembleSingleColumnIsBook(t *testing.T) {
	m := filled(1, 4, white)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{AlphaThreshold: 1, Split: 2})
	require.NoError(t, err)
	assert.Len(t, r.Blueprints, 2)
	assert.IsType(t, &blueprint.Book{}, r.Value())
}

func TestAssembleIconOverflow(t *testing.T) {
	// 101 columns of one pixel each puts the last cell at x 100
	m := filled(101, 1, white)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{AlphaThreshold: 1, Split: 1})
	require.NoError(t, err)
	require.Len(t, r.Blueprints, 101)
	assert.True(t, r.IconsDisabled)

	for _, bp := range r.Blueprints {
		require.Len(t, bp.Icons, 4)
		for _, icon := range bp.Icons {
			assert.Equal(t, "signal-0", icon.Signal.Name, bp.Label)
		}
	}
}

func TestAssembleNoOverflowAt99(t *testing.T) {
	m := filled(100, 1, white)

	r, err := Assemble(m, m, testTileset(), AssembleOptions{AlphaThreshold: 1, Split: 1})
	require.NoError(t, err)
	assert.False(t, r.IconsDisabled)

	var names []string
	for _, icon := range r.Blueprints[99].Icons {
		names = append(names, icon.Signal.Name)
	}
	assert.Equal(t, []string{"signal-9", "signal-9", "signal-0", "signal-0"}, names)
}

func TestAssembleUnmatched(t *testing.T) {
	m := filled(2, 2, white)
	m.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 0xff})

	r, err := Assemble(m, m, testTileset(), AssembleOptions{AlphaThreshold: 1})
	assert.Nil(t, r)

	var uerr *UnmatchedColorError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 1, uerr.X)
	assert.Equal(t, 1, uerr.Y)
	assert.Equal(t, color.NRGBA{10, 20, 30, 0xff}, uerr.Color)
	assert.Contains(t, err.Error(), "#0a141e")
}

func TestAssemblePreconditions(t *testing.T) {
	m := filled(2, 2, white)

	_, err := Assemble(m, m, tileset.New(), AssembleOptions{})
	assert.ErrorIs(t, err, ErrEmptyTileset)

	_, err = Assemble(m, filled(2, 3, white), testTileset(), AssembleOptions{})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Assemble(m, m, testTileset(), AssembleOptions{Split: -1})
	assert.ErrorIs(t, err, ErrInvalidSplit)

	_, err = Assemble(m, m, testTileset(), AssembleOptions{Split: MaxSplit + 1})
	assert.ErrorIs(t, err, ErrInvalidSplit)

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err = Assemble(empty, empty, testTileset(), AssembleOptions{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestAssembleOffsetBounds(t *testing.T) {
	m := filled(4, 4, white)
	m.SetNRGBA(2, 2, black)
	sub := m.SubImage(image.Rect(2, 2, 4, 4))

	r, err := Assemble(sub, filled(2, 2, white), testTileset(), AssembleOptions{AlphaThreshold: 1})
	require.NoError(t, err)
	assert.Equal(t, []blueprint.Tile{{Name: "A", Position: blueprint.Position{X: 0, Y: 0}}}, r.Blueprints[0].Tiles)
}
