package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payledger/internal/docstore"
	"payledger/internal/platform/config"
	"payledger/internal/platform/db"
)

// syncserver is the remote half of the sync protocol: a single-document
// store backed by Postgres that ledger instances push to and pull from.
func main() {
	cfg := config.Load()
	if err := cfg.ValidateSyncServer(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "migrations"); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	router := chi.NewRouter()
	docstore.NewHandler(docstore.NewStore(pool), cfg.DocumentKey).RegisterRoutes(router)

	log.Printf("document store listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
