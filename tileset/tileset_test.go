package tileset

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	ts := New(
		Entry{rgb(0, 0, 0), "a", true},
		Entry{rgb(255, 255, 255), "b", false},
		Entry{rgb(0, 0, 0), "c", false},
	)

	tables := []struct {
		name  string
		color color.NRGBA
		index int
	}{
		{"first of duplicates", rgb(0, 0, 0), 0},
		{"second entry", rgb(255, 255, 255), 1},
		{"alpha ignored", color.NRGBA{255, 255, 255, 10}, 1},
		{"miss", rgb(1, 0, 0), NotFound},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.index, ts.Index(table.color))
		})
	}

	e, ok := ts.Lookup(rgb(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "a", e.Name)

	_, ok = ts.Lookup(rgb(9, 9, 9))
	assert.False(t, ok)
}

func TestNearest(t *testing.T) {
	ts := New(
		Entry{rgb(0, 0, 0), "black", true},
		Entry{rgb(100, 100, 100), "grey", true},
		Entry{rgb(200, 200, 200), "light", false},
	)

	assert.Equal(t, rgb(0, 0, 0), ts.Nearest(rgb(10, 20, 5)))
	assert.Equal(t, rgb(100, 100, 100), ts.Nearest(rgb(90, 110, 100)))
	assert.Equal(t, rgb(200, 200, 200), ts.Nearest(rgb(255, 255, 255)))

	// Exactly halfway between black and grey, the earlier entry wins
	assert.Equal(t, rgb(0, 0, 0), ts.Nearest(rgb(50, 50, 50)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, rgb(100, 100, 100), ts.Nearest(rgb(140, 140, 140)))
	}
}

func TestNearestTieDuplicateColors(t *testing.T) {
	ts := New(
		Entry{rgb(10, 10, 10), "first", true},
		Entry{rgb(10, 10, 10), "second", false},
	)
	assert.Equal(t, 0, ts.NearestIndex(rgb(0, 0, 0)))
}

func TestWeights(t *testing.T) {
	entries := []Entry{
		{rgb(100, 0, 0), "red", true},
		{rgb(0, 50, 0), "green", true},
	}
	query := rgb(0, 0, 0)

	assert.Equal(t, 1, New(entries...).NearestIndex(query))
	assert.Equal(t, 0, New(entries...).WithWeights(Weights{1, 10, 1}).NearestIndex(query))
	assert.Equal(t, Perceptual, New(entries...).WithWeights(Perceptual).Weights())
	assert.Equal(t, 11*4+59*9+30*16, Perceptual.Distance(rgb(2, 3, 4), rgb(0, 0, 0)))
}

func TestNearestEmpty(t *testing.T) {
	assert.Panics(t, func() {
		New().Nearest(rgb(1, 2, 3))
	})
	assert.Panics(t, func() {
		New().MapColor(rgb(1, 2, 3))
	})
}

func TestQuantizer(t *testing.T) {
	ts := New(
		Entry{rgb(0, 0, 0), "a", true},
		Entry{rgb(255, 255, 255), "b", false},
	)

	assert.Equal(t, 1, ts.IndexOf(color.NRGBA{255, 255, 255, 255}))
	assert.Equal(t, NotFound, ts.IndexOf(color.NRGBA{255, 255, 255, 128}))
	assert.Equal(t, NotFound, ts.IndexOf(color.NRGBA{250, 255, 255, 255}))

	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, ts.MapColor(color.NRGBA{200, 220, 210, 7}))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, ts.MapColor(color.NRGBA{20, 10, 30, 0}))
}

func TestPresets(t *testing.T) {
	base, err := Preset("base")
	require.NoError(t, err)
	assert.Equal(t, 8, base.Len())
	assert.Equal(t, "refined-concrete", base.Entry(0).Name)

	cc, err := Preset("color-coding")
	require.NoError(t, err)
	assert.Equal(t, 20, cc.Len())
	assert.Equal(t, "refined-concrete-white", cc.Entry(19).Name)
	assert.False(t, cc.Entry(5).IsTile)

	_, err = Preset("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	assert.Equal(t, []string{"base", "color-coding"}, Presets())
}

func TestCSV(t *testing.T) {
	in := "red,green,blue,name,is_tile\n47,49,41,refined-concrete,true\n0,93,148,wooden-chest,false\n"

	ts, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, ts.Len())
	assert.Equal(t, Entry{rgb(47, 49, 41), "refined-concrete", true}, ts.Entry(0))
	assert.Equal(t, Entry{rgb(0, 93, 148), "wooden-chest", false}, ts.Entry(1))

	b := new(bytes.Buffer)
	require.NoError(t, WriteCSV(b, ts))
	assert.Equal(t, in, b.String())
}

func TestCSVErrors(t *testing.T) {
	tables := []struct {
		name string
		in   string
		err  error
	}{
		{"empty", "", ErrBadHeader},
		{"wrong header", "r,g,b,name,is_tile\n", ErrBadHeader},
		{"channel overflow", "red,green,blue,name,is_tile\n256,0,0,x,true\n", ErrBadRow},
		{"bad bool", "red,green,blue,name,is_tile\n1,0,0,x,maybe\n", ErrBadRow},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(table.in))
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestYAML(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, WriteYAML(b, BaseGame()))

	ts, err := ReadYAML(b)
	require.NoError(t, err)
	assert.Equal(t, BaseGame().Entries(), ts.Entries())
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"tiles.csv", "tiles.yaml", "tiles.YML"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, name)
			require.NoError(t, Save(file, ColorCoding()))

			ts, err := Load(file)
			require.NoError(t, err)
			assert.Equal(t, ColorCoding().Entries(), ts.Entries())
		})
	}

	assert.ErrorIs(t, Save(filepath.Join(dir, "tiles.txt"), BaseGame()), ErrUnknownFormat)

	_, err := Load(filepath.Join(dir, "missing.csv"))
	assert.True(t, os.IsNotExist(err))
}
