package tileset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var header = []string{"red", "green", "blue", "name", "is_tile"}

// record is the on-disk form of an entry shared by every file format
type record struct {
	Red    uint8  `yaml:"red"`
	Green  uint8  `yaml:"green"`
	Blue   uint8  `yaml:"blue"`
	Name   string `yaml:"name"`
	IsTile bool   `yaml:"is_tile"`
}

func (r record) entry() Entry {
	return Entry{rgb(r.Red, r.Green, r.Blue), r.Name, r.IsTile}
}

func newRecord(e Entry) record {
	return record{e.Color.R, e.Color.G, e.Color.B, e.Name, e.IsTile}
}

func parseChannel(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func parseRow(row []string) (Entry, error) {
	var channels [3]uint8
	for i := range channels {
		v, err := parseChannel(row[i])
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", header[i], err)
		}
		channels[i] = v
	}
	isTile, err := strconv.ParseBool(strings.TrimSpace(row[4]))
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", header[4], err)
	}
	return Entry{rgb(channels[0], channels[1], channels[2]), row[3], isTile}, nil
}

// ReadCSV parses a tileset from r. The first row must be the header
// red,green,blue,name,is_tile.
func ReadCSV(r io.Reader) (*Tileset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	row, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrBadHeader
		}
		return nil, err
	}
	for i, field := range row {
		if strings.TrimSpace(field) != header[i] {
			return nil, fmt.Errorf("%w: unexpected column %q", ErrBadHeader, field)
		}
	}

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		e, err := parseRow(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRow, line, err)
		}
		entries = append(entries, e)
	}

	return New(entries...), nil
}

// WriteCSV writes ts to w including the header row
func WriteCSV(w io.Writer, ts *Tileset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range ts.entries {
		if err := cw.Write([]string{
			strconv.Itoa(int(e.Color.R)),
			strconv.Itoa(int(e.Color.G)),
			strconv.Itoa(int(e.Color.B)),
			e.Name,
			strconv.FormatBool(e.IsTile),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadYAML parses a tileset from a YAML sequence of entries
func ReadYAML(r io.Reader) (*Tileset, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrBadRow, err)
	}
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.entry())
	}
	return New(entries...), nil
}

// WriteYAML writes ts to w as a YAML sequence of entries
func WriteYAML(w io.Writer, ts *Tileset) error {
	records := make([]record, 0, len(ts.entries))
	for _, e := range ts.entries {
		records = append(records, newRecord(e))
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

type format struct {
	read  func(io.Reader) (*Tileset, error)
	write func(io.Writer, *Tileset) error
}

var formats = map[string]format{
	".csv":  {ReadCSV, WriteCSV},
	".yaml": {ReadYAML, WriteYAML},
	".yml":  {ReadYAML, WriteYAML},
}

func formatFor(file string) (format, error) {
	f, ok := formats[strings.ToLower(filepath.Ext(file))]
	if !ok {
		return format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(file))
	}
	return f, nil
}

// Load reads a tileset from file, choosing the format by extension
func Load(file string) (*Tileset, error) {
	fm, err := formatFor(file)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return fm.read(f)
}

// Save writes ts to file, choosing the format by extension
func Save(file string, ts *Tileset) error {
	fm, err := formatFor(file)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := fm.write(f, ts); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
