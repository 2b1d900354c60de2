// tableimport loads global random tables into the content database.
//
// Usage:
//
//	go run ./cmd/tableimport -tables data/tables.yaml
//	go run ./cmd/tableimport -tables data/tables.yaml -replace
//	go run ./cmd/tableimport -from-sqlite data/hexforge.db -config data/hexforge.yaml
//	go run ./cmd/tableimport -list
//
// The target database comes from the database section of the config file
// and the HEXFORGE_DB_* environment variables. When neither names a driver
// the SQLite file from -config is used.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lawnchairsociety/hexforge/internal/config"
	"github.com/lawnchairsociety/hexforge/internal/database"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

func main() {
	configPath := flag.String("config", "data/hexforge.yaml", "Server config file with the database section")
	tablesFile := flag.String("tables", "", "Tables YAML file to import")
	fromSQLite := flag.String("from-sqlite", "", "Copy every table row from this SQLite database")
	replace := flag.Bool("replace", false, "Replace existing tables instead of failing on duplicates")
	list := flag.Bool("list", false, "List the tables in the database and exit")
	dryRun := flag.Bool("dry-run", false, "Show what would be imported without making changes")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dbCfg := cfg.Database
	if dbCfg.Driver == "" {
		dbCfg.Driver = string(database.DialectSQLite)
	}

	log.Printf("Opening %s database", dbCfg.Driver)
	db, err := database.OpenWithConfig(dbCfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *list {
		if err := listTables(db); err != nil {
			log.Fatalf("Failed to list tables: %v", err)
		}
		return
	}

	var rows []tables.Row
	switch {
	case *fromSQLite != "":
		rows, err = sqliteRows(*fromSQLite)
	case *tablesFile != "":
		rows, err = fileRows(*tablesFile)
	default:
		log.Fatal("Nothing to import: pass -tables or -from-sqlite")
	}
	if err != nil {
		log.Fatalf("Failed to read source rows: %v", err)
	}
	log.Printf("Read %s rows", humanize.Comma(int64(len(rows))))

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		for _, s := range summarize(rows) {
			log.Printf("  %-6s %-12s %-24s %s entries", s.Language, s.Category, s.Name, humanize.Comma(int64(s.Entries)))
		}
		return
	}

	start := time.Now()
	count, err := db.ImportRows(rows, *replace)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %s rows in %s", humanize.Comma(int64(count)), time.Since(start).Round(time.Millisecond))
}

func fileRows(path string) ([]tables.Row, error) {
	store, err := tables.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return store.Rows(), nil
}

func sqliteRows(path string) ([]tables.Row, error) {
	src, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()
	return src.Rows()
}

func listTables(db *database.Database) error {
	summaries, err := db.ListTables()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No tables")
		return nil
	}
	total := 0
	for _, s := range summaries {
		fmt.Printf("%-6s %-12s %-24s %6s\n", s.Language, s.Category, s.Name, humanize.Comma(int64(s.Entries)))
		total += s.Entries
	}
	fmt.Printf("%s tables, %s entries\n", humanize.Comma(int64(len(summaries))), humanize.Comma(int64(total)))
	return nil
}

// summarize groups rows the way ListTables does, in first-seen order.
func summarize(rows []tables.Row) []database.TableSummary {
	var out []database.TableSummary
	index := make(map[[3]string]int)
	for _, r := range rows {
		key := [3]string{tables.CanonicalLanguage(r.Language), r.Category, r.Name}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, database.TableSummary{Language: key[0], Category: r.Category, Name: r.Name})
		}
		out[i].Entries++
	}
	return out
}
