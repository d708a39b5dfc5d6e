package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/jcmacallan-svg/ww1/internal/adapters/catalog"
	"github.com/jcmacallan-svg/ww1/internal/adapters/storage"
	"github.com/jcmacallan-svg/ww1/internal/config"
	"github.com/jcmacallan-svg/ww1/internal/platform/db"
)

func main() {
	validatePath := flag.String("validate", "", "validate a catalogue YAML file and print a summary")
	overridesNS := flag.String("overrides", "", "list cached coordinate overrides for a catalogue id")
	initPG := flag.Bool("init-pg", false, "initialize the PostgreSQL schema from DATABASE_URL")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	switch {
	case *validatePath != "":
		runValidate(*validatePath)
	case *overridesNS != "":
		runOverrides(*overridesNS)
	case *initPG:
		runInitPG()
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runValidate(path string) {
	cat, err := catalog.Load(path)
	if err != nil {
		log.Fatalf("validation failed: %v", err)
	}

	coorded := 0
	for _, p := range cat.POIs {
		if p.HasCoordinates() {
			coorded++
		}
	}

	log.Printf(
		"OK id=%s country=%s regions=%d pois=%d with_coordinates=%d",
		cat.ID, cat.Country, len(cat.Regions), len(cat.POIs), coorded,
	)
}

// runOverrides prints the coordinates the resolver cached for a
// catalogue, so resolved positions can be checked before being promoted
// into the dataset itself.
func runOverrides(namespace string) {
	sqldb, err := db.OpenSQLite(config.Get("DB_PATH", "data/tripkit.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer sqldb.Close()

	if err := storage.InitSqliteSchema(sqldb); err != nil {
		log.Fatal(err)
	}

	cache := storage.NewSqliteOverrides(sqldb)
	overrides, err := cache.Overrides(context.Background(), namespace)
	if err != nil {
		log.Fatal(err)
	}
	if len(overrides) == 0 {
		log.Printf("no cached overrides for %s", namespace)
		return
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := overrides[id]
		log.Printf("%s lat=%.5f lon=%.5f source=%s", id, o.Coord.Lat, o.Coord.Lon, o.Source)
	}
}

func runInitPG() {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := storage.InitPostgresSchema(pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
