// hexgen generates city overlays, overland hexes and full maps from the
// command line.
//
// Usage:
//
//	hexgen city saltmarsh -format markdown
//	hexgen hex 0304 -terrain forest
//	hexgen map -cols 20 -rows 15 -db data/hexforge.db
//	hexgen cities
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lawnchairsociety/hexforge/internal/citygen"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/continent"
	"github.com/lawnchairsociety/hexforge/internal/database"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/overlay"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

const usage = `Usage: hexgen <command> [flags]

Commands:
  city <name>   generate a city overlay
  hex <code>    generate an overland hex
  map           generate every hex of the overland map
  cities        list the known cities

Run "hexgen <command> -h" for the flags of a command.
`

// options are the flags shared by every command.
type options struct {
	citiesDir  string
	tablesFile string
	loreFile   string
	dbPath     string
	language   string
	seed       int64
	format     string
	logLevel   string
}

func addCommon(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.citiesDir, "cities", "data/cities", "Directory of city documents")
	fs.StringVar(&o.tablesFile, "tables", "", "Global tables YAML file")
	fs.StringVar(&o.loreFile, "lore", "data/lore.yaml", "Lore YAML file")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database for global tables and map storage")
	fs.StringVar(&o.language, "lang", tables.DefaultLanguage, "Content language")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed (0 for a random run)")
	fs.StringVar(&o.format, "format", "text", "Output format: text, markdown or json")
	fs.StringVar(&o.logLevel, "log-level", "WARNING", "Log level for stderr")
	return o
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "city":
		err = runCity(args, os.Stdout)
	case "hex":
		err = runHex(args, os.Stdout)
	case "map":
		err = runMap(args, os.Stdout)
	case "cities":
		err = runCities(args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parse parses flags that may follow a positional argument, e.g.
// "hex 0304 -terrain forest".
func parse(fs *flag.FlagSet, args []string) (string, error) {
	var positional string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if positional == "" && fs.NArg() > 0 {
		positional = fs.Arg(0)
	}
	return positional, nil
}

// setup builds the generator. The returned database is nil unless -db is set.
func (o *options) setup(bounds hexgrid.Bounds, parallelism int) (*overlay.Generator, *database.Database, error) {
	logger.SetOutput(os.Stderr, "text", o.logLevel)

	var store tables.Store
	var db *database.Database
	switch {
	case o.dbPath != "":
		var err error
		if db, err = database.Open(o.dbPath); err != nil {
			return nil, nil, err
		}
		store = db
	case o.tablesFile != "":
		mem, err := tables.LoadFile(o.tablesFile)
		if err != nil {
			return nil, nil, err
		}
		store = mem
	}

	lore, err := continent.LoadLore(o.loreFile)
	if err != nil {
		logger.Warning("Failed to load lore", "path", o.loreFile, "error", err)
	}

	opts := overlay.DefaultOptions()
	opts.Language = o.language
	if bounds.Len() > 0 {
		opts.Bounds = bounds
	}
	if parallelism > 0 {
		opts.Parallelism = parallelism
	}

	gen := overlay.New(overlay.NewCache(o.citiesDir, store), lore, opts)
	if o.seed != 0 {
		gen.WithRand(rand.New(rand.NewSource(o.seed)))
	}
	return gen, db, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCities(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("cities", flag.ContinueOnError)
	o := addCommon(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	gen, db, err := o.setup(hexgrid.Bounds{}, 0)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	cities := gen.Cities()
	if o.format == "json" {
		return writeJSON(w, cities)
	}
	for _, c := range cities {
		locked := ""
		if c.Locked {
			locked = " (locked)"
		}
		fmt.Fprintf(w, "%-20s %s%s\n", c.Name, c.DisplayName, locked)
	}
	return nil
}

func runCity(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("city", flag.ContinueOnError)
	o := addCommon(fs)
	name, err := parse(fs, args)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("city name required")
	}
	gen, db, err := o.setup(hexgrid.Bounds{}, 0)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	ov, err := gen.GenerateCityOverlay(name)
	if err != nil {
		return err
	}

	entries := ov.HexGrid.Keys()

	switch o.format {
	case "json":
		return writeJSON(w, ov)
	case "markdown":
		fmt.Fprintf(w, "# %s\n\n", ov.DisplayName)
		fmt.Fprintf(w, "%s grid, radius %d, %d hexes\n\n", ov.GridType, ov.Radius, ov.TotalHexes)
		for _, key := range entries {
			e := ov.HexGrid[key]
			fmt.Fprintf(w, "# Hex %s", e.Position)
			if e.District != "" && e.District != citygen.EmptyDistrict {
				fmt.Fprintf(w, " (%s)", e.District)
			}
			fmt.Fprint(w, "\n\n", e.Content.Markdown())
			if len(e.RelatedHexes) > 0 {
				fmt.Fprintf(w, "Related: %s\n\n", strings.Join(e.RelatedHexes, ", "))
			}
		}
	default:
		fmt.Fprintf(w, "%s: %s grid, radius %d, %d hexes\n\n", ov.DisplayName, ov.GridType, ov.Radius, ov.TotalHexes)
		for _, key := range entries {
			e := ov.HexGrid[key]
			fmt.Fprintf(w, "%s %s", e.Position, e.Content.Text())
			if len(e.RelatedHexes) > 0 {
				fmt.Fprintf(w, "  %-12s %s\n", "Related:", strings.Join(e.RelatedHexes, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func runHex(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("hex", flag.ContinueOnError)
	o := addCommon(fs)
	terrainName := fs.String("terrain", "", "Terrain of the hex (inferred when empty)")
	code, err := parse(fs, args)
	if err != nil {
		return err
	}
	if code == "" {
		return fmt.Errorf("hex code required")
	}
	gen, db, err := o.setup(hexgrid.Bounds{}, 0)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rec, err := gen.GenerateHexContent(code, *terrainName)
	if err != nil {
		return err
	}
	if db != nil {
		if err := db.SaveHex(code, "", rec); err != nil {
			logger.Warning("Failed to store hex", "hex", code, "error", err)
		}
	}

	switch o.format {
	case "json":
		return writeJSON(w, rec)
	case "markdown":
		fmt.Fprintf(w, "# Hex %s\n\n%s", code, rec.Markdown())
	default:
		fmt.Fprintf(w, "%s %s", code, rec.Text())
	}
	return nil
}

func runMap(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	o := addCommon(fs)
	cols := fs.Int("cols", 40, "Map columns")
	rows := fs.Int("rows", 30, "Map rows")
	parallelism := fs.Int("parallelism", 4, "Hexes generated at once")
	outFile := fs.String("out", "", "Write every hex to this file in the chosen format")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	bounds := hexgrid.Bounds{Cols: *cols, Rows: *rows}
	if err := bounds.Validate(); err != nil {
		return err
	}
	gen, db, err := o.setup(bounds, *parallelism)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	res := gen.GenerateMap(overlay.MapOptions{Bounds: bounds, Parallelism: *parallelism})
	if db != nil {
		if err := db.SaveHexes(res.RunID, res.Hexes); err != nil {
			return fmt.Errorf("failed to store map run: %w", err)
		}
	}

	if o.format == "json" && *outFile == "" {
		return writeJSON(w, res)
	}

	renderMap(w, bounds, res.Hexes)
	fmt.Fprintln(w)
	writeLegend(w)
	fmt.Fprintln(w)
	writeSummary(w, res)

	if *outFile != "" {
		size, err := writeMapFile(*outFile, o.format, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Map written to %s (%s)\n", *outFile, humanize.Bytes(uint64(size)))
	}
	return nil
}

func writeMapFile(path, format string, res *overlay.MapResult) (int, error) {
	var b strings.Builder
	codes := make([]string, 0, len(res.Hexes))
	for code := range res.Hexes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	switch format {
	case "json":
		if err := writeJSON(&b, res); err != nil {
			return 0, err
		}
	case "markdown":
		fmt.Fprintf(&b, "# Map %s\n\n", res.RunID)
		for _, code := range codes {
			fmt.Fprintf(&b, "# Hex %s\n\n%s", code, res.Hexes[code].Markdown())
			writeRelated(&b, res.Related[code])
		}
	default:
		for _, code := range codes {
			fmt.Fprintf(&b, "%s %s", code, res.Hexes[code].Text())
			writeRelated(&b, res.Related[code])
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return b.Len(), nil
}

func writeRelated(w io.Writer, related []string) {
	if len(related) > 0 {
		fmt.Fprintf(w, "Related: %s\n", strings.Join(related, ", "))
	}
	fmt.Fprintln(w)
}

// writeSummary prints hex counts per category, most common first.
func writeSummary(w io.Writer, res *overlay.MapResult) {
	counts := make(map[content.Category]int)
	for _, rec := range res.Hexes {
		counts[rec.Type]++
	}
	cats := make([]content.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})

	total := len(res.Hexes)
	fmt.Fprintf(w, "Run %s: %s hexes in %s, %s failures\n",
		res.RunID,
		humanize.Comma(int64(total)),
		res.Duration.Round(time.Millisecond),
		humanize.Comma(int64(len(res.Failures))))
	for _, c := range cats {
		fmt.Fprintf(w, "  %-14s %6s  %5.1f%%\n", c.Title(), humanize.Comma(int64(counts[c])), 100*float64(counts[c])/float64(total))
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  failed %s: %s\n", f.Hex, f.Error)
	}
}
