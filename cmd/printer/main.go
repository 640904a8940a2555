package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/printer"
	"github.com/bodgit/printer/blueprint"
	"github.com/bodgit/printer/dither"
	"github.com/bodgit/printer/tileset"
	"github.com/urfave/cli/v2"
)

const defaultDB = "history.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func dbPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		if dir, err = os.Getwd(); err != nil {
			return defaultDB
		}
		return filepath.Join(dir, defaultDB)
	}
	return filepath.Join(dir, "printer", defaultDB)
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openHistory(c *cli.Context) (*printer.History, error) {
	file := c.String("db")
	if file == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0777); err != nil {
		return nil, err
	}
	return printer.NewHistory(file)
}

var weights = map[string]tileset.Weights{
	"uniform":    tileset.Uniform,
	"perceptual": tileset.Perceptual,
}

var tilesetFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "tileset",
		Aliases: []string{"t"},
		Usage:   "load tileset from `FILE` (.csv, .yaml or .yml)",
	},
	&cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Value:   "base",
		Usage:   "use built-in tileset: " + strings.Join(tileset.Presets(), ", "),
	},
	&cli.StringFlag{
		Name:  "weights",
		Value: "uniform",
		Usage: "color distance weights: uniform or perceptual",
	},
}

func loadTileset(c *cli.Context) (*tileset.Tileset, error) {
	w, ok := weights[c.String("weights")]
	if !ok {
		return nil, fmt.Errorf("unknown weights %q", c.String("weights"))
	}

	var ts *tileset.Tileset
	var err error
	if file := c.String("tileset"); file != "" {
		ts, err = tileset.Load(file)
	} else {
		ts, err = tileset.Preset(c.String("preset"))
	}
	if err != nil {
		return nil, err
	}
	if ts.Len() == 0 {
		return nil, printer.ErrEmptyTileset
	}

	return ts.WithWeights(w), nil
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(file)
}

func main() {
	app := cli.NewApp()

	app.Name = "printer"
	app.Usage = "Convert images into blueprint strings"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PRINTER_DB"},
			Value:   dbPath(),
			Usage:   "path to history database, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images into blueprint strings",
			Description: "Each IMAGE is written to IMAGE_blueprint.txt alongside it, directories are searched for images.",
			ArgsUsage:   "IMAGE|DIRECTORY...",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "label",
					Aliases: []string{"l"},
					Usage:   "blueprint label, defaults to the file name",
				},
				&cli.StringFlag{
					Name:    "dither",
					Aliases: []string{"d"},
					Value:   printer.DefaultDither,
					Usage:   "dithering method: " + strings.Join(dither.Names(), ", "),
				},
				&cli.IntFlag{
					Name:    "alpha",
					Aliases: []string{"a"},
					Value:   printer.DefaultAlphaThreshold,
					Usage:   "skip pixels with alpha below `THRESHOLD` (0-255)",
				},
				&cli.IntFlag{
					Name:    "split",
					Aliases: []string{"s"},
					Usage:   "split into a book of `SIZE` by SIZE blueprints, 0 disables",
				},
				&cli.IntFlag{
					Name:    "width",
					Aliases: []string{"w"},
					Usage:   "resize image to `PIXELS` wide first",
				},
				&cli.BoolFlag{
					Name:  "preview",
					Usage: "also write the dithered image to IMAGE_converted.png",
				},
				&cli.BoolFlag{
					Name:  "print",
					Usage: "also print each blueprint string",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of images converted at once",
				},
			}, tilesetFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				alpha := c.Int("alpha")
				if alpha < 0 || alpha > 0xff {
					return cli.NewExitError(fmt.Sprintf("alpha threshold %d outside 0 to 255", alpha), 1)
				}
				split := c.Int("split")
				if split < 0 || split > printer.MaxSplit {
					return cli.NewExitError(fmt.Errorf("%w: %d", printer.ErrInvalidSplit, split), 1)
				}

				ts, err := loadTileset(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				h, err := openHistory(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if h != nil {
					defer h.Close()
				}

				opts := printer.Options{
					Label:          c.String("label"),
					Tileset:        ts,
					Dither:         c.String("dither"),
					AlphaThreshold: uint8(alpha),
					Split:          split,
					Width:          c.Int("width"),
					Preview:        c.Bool("preview"),
				}

				var mu sync.Mutex
				p := printer.New(h, newLogger(c))
				if err := p.ConvertAll(c.Args().Slice(), opts, c.Int("workers"), func(file string, conv *printer.Conversion) {
					mu.Lock()
					defer mu.Unlock()
					if conv.IconsDisabled {
						fmt.Fprintf(os.Stderr, "warning: %s: more than 100 blueprints in one direction, icons set to 0\n", file)
					}
					if c.Bool("print") {
						fmt.Println(conv.Exchange)
					}
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Print the JSON held in a blueprint string",
			ArgsUsage: "FILE|-",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := readInput(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				b, err := blueprint.Decode(string(s))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out := new(bytes.Buffer)
				if err := json.Indent(out, b, "", "  "); err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(out.String())

				return nil
			},
		},
		{
			Name:        "suggest",
			Usage:       "Show the main colors of an image and their nearest tiles",
			Description: "Useful for deciding which colors a custom tileset needs.",
			ArgsUsage:   "IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "method",
					Aliases: []string{"m"},
					Value:   printer.MedianCut,
					Usage:   "color extraction method: " + printer.MedianCut + " or " + printer.Dominant,
				},
				&cli.IntFlag{
					Name:    "colors",
					Aliases: []string{"n"},
					Value:   8,
					Usage:   "number of colors to find",
				},
			}, tilesetFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				ts, err := loadTileset(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := decodeImage(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				suggestions, err := printer.Suggest(m, ts, c.Int("colors"), c.String("method"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, s := range suggestions {
					if s.Weight > 0 {
						fmt.Printf("%s %5.1f%% %s (distance %d)\n", s.Hex(), s.Weight*100, s.Nearest.Name, s.Distance)
					} else {
						fmt.Printf("%s %s (distance %d)\n", s.Hex(), s.Nearest.Name, s.Distance)
					}
				}

				return nil
			},
		},
		{
			Name:        "tileset",
			Usage:       "Write a tileset to a file",
			Description: "The format is chosen from the extension of FILE, use it as a starting point for a custom tileset.",
			ArgsUsage:   "FILE",
			Flags:       tilesetFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				ts, err := loadTileset(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := tileset.Save(c.Args().First(), ts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "history",
			Usage: "List previously converted images",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "clear",
					Usage: "remove every entry",
				},
			},
			Action: func(c *cli.Context) error {
				h, err := openHistory(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if h == nil {
					return cli.NewExitError(errors.New("no history database"), 1)
				}
				defer h.Close()

				if c.Bool("clear") {
					if err := h.Clear(); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				records, err := h.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, r := range records {
					fmt.Printf("%s %s %s\n", r.Created.Format("2006-01-02 15:04:05"), r.Key[:8], r.Label)
					if r.IconsDisabled {
						fmt.Println("  icons disabled")
					}
					if c.Bool("verbose") {
						fmt.Println(r.Exchange)
					}
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
