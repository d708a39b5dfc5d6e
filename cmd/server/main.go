package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/jcmacallan-svg/ww1/internal/adapters/catalog"
	"github.com/jcmacallan-svg/ww1/internal/adapters/geocode"
	"github.com/jcmacallan-svg/ww1/internal/adapters/storage"
	"github.com/jcmacallan-svg/ww1/internal/adapters/wikidata"
	"github.com/jcmacallan-svg/ww1/internal/api"
	"github.com/jcmacallan-svg/ww1/internal/config"
	"github.com/jcmacallan-svg/ww1/internal/platform/db"
	"github.com/jcmacallan-svg/ww1/internal/ports"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/PostgreSQL, Redis, Wikidata,
// Nominatim) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	addr := ":" + config.Get("PORT", "8080")
	userAgent := config.Get("HTTP_USER_AGENT", "ww1-tripkit/1.0")

	store, overrides, closeDB, err := openStorage()
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	// A Redis override cache is shared between replicas; the SQL one is
	// the single-process default.
	if redisAddr := config.Get("REDIS_ADDR", ""); redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping %s: %v", redisAddr, err)
		}
		overrides = storage.NewRedisOverrides(client)
	}

	kb, err := wikidata.NewClient(config.Get("WIKIDATA_BASE_URL", ""), userAgent)
	if err != nil {
		log.Fatal(err)
	}
	geocoder, err := geocode.NewNominatim(config.Get("NOMINATIM_BASE_URL", ""), userAgent)
	if err != nil {
		log.Fatal(err)
	}

	source, err := catalog.NewEmbeddedSource()
	if err != nil {
		log.Fatal(err)
	}

	resolver := services.NewResolver(kb, geocoder, overrides)
	manager := services.NewManager(source, store, resolver, services.ConfigFromEnv())

	if id := config.Get("DEFAULT_CATALOGUE", ""); id != "" {
		if _, err := manager.Activate(context.Background(), id); err != nil {
			log.Fatal(err)
		}
		log.Printf("Activated catalogue %s", id)
	}

	router := api.NewRouter(manager)

	// Write timeout is generous: a first plan build for a catalogue may
	// walk the external resolution chain for many POIs in sequence.
	log.Printf("Server listening addr=%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStorage picks PostgreSQL when DATABASE_URL is set and falls back
// to a local SQLite file otherwise. The SQLite schema is created on
// startup for local runs; the PostgreSQL schema is the datatool's job.
func openStorage() (ports.KVStore, ports.OverrideCache, func() error, error) {
	if url := config.Get("DATABASE_URL", ""); url != "" {
		pool, err := db.OpenPostgres(url)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewSQLStore(pool), storage.NewSQLOverrides(pool), pool.Close, nil
	}

	path := config.Get("DB_PATH", "data/tripkit.db")
	sqldb, err := db.OpenSQLite(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := storage.InitSqliteSchema(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, nil, nil, err
	}
	return storage.NewSqliteStore(sqldb), storage.NewSqliteOverrides(sqldb), sqldb.Close, nil
}
