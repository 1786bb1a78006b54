package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payledger/internal/auth"
	"payledger/internal/domain/insight"
	"payledger/internal/domain/ledger"
	ledgersync "payledger/internal/domain/sync"
	"payledger/internal/platform/config"
	"payledger/internal/platform/crypto"
	"payledger/internal/platform/metrics"
	"payledger/internal/transport/http/api"
	authhandler "payledger/internal/transport/http/handlers/auth"
	insighthandler "payledger/internal/transport/http/handlers/insight"
	ledgerhandler "payledger/internal/transport/http/handlers/ledger"
	payouthandler "payledger/internal/transport/http/handlers/payouts"
	synchandler "payledger/internal/transport/http/handlers/syncapi"
	"payledger/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Store   *ledger.Store
	Sync    *ledgersync.Coordinator
	Metrics *metrics.Collector
	Router  http.Handler
}

// New wires the ledger service: store, sync coordinator, advisor and router.
// The coordinator only runs when a remote endpoint is configured.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	store, err := ledger.Open(cfg.LedgerPath, cfg.RemoteURL, cryptoSvc)
	if err != nil {
		return nil, err
	}

	passcodeHash := cfg.PasscodeHash
	if passcodeHash == "" {
		passcodeHash, err = auth.HashPasscode(cfg.Passcode)
		if err != nil {
			return nil, err
		}
	}

	collector := metrics.New()

	var coordinator *ledgersync.Coordinator
	endpoint := store.Snapshot().Config.Endpoint
	if endpoint != "" {
		coordinator = ledgersync.NewCoordinator(store, ledgersync.Options{
			Debounce:   cfg.SyncDebounce,
			Lockout:    cfg.SyncLockWindow,
			Interval:   cfg.SyncInterval,
			HTTPClient: ledgersync.NewClient(endpoint),
			Resolver:   ledgersync.LastWriteWins{},
			Metrics:    collector,
		})
		store.SetOnChange(coordinator.Notify)
		coordinator.Start()
		// Absorb remote changes made while we were down; stale or locked
		// pulls are normal here.
		if err := coordinator.Pull(ctx, false); err != nil {
			log.Printf("startup pull skipped: %v", err)
		}
	}

	advisor := insight.NewAdvisor(cfg.InsightURL, cfg.InsightAPIKey, cfg.InsightTimeout)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(passcodeHash, cfg.JWTSecret, cfg.TokenTTL)
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))

			ledgerhandler.NewHandler(store).RegisterRoutes(r)
			payouthandler.NewHandler(store).RegisterRoutes(r)
			synchandler.NewHandler(store, coordinator).RegisterRoutes(r)
			insighthandler.NewHandler(store, advisor).RegisterRoutes(r)
		})
	})

	return &App{
		Config:  cfg,
		Store:   store,
		Sync:    coordinator,
		Metrics: collector,
		Router:  router,
	}, nil
}

// Close tears down background sync; timers and the poll loop must not
// outlive the app.
func (a *App) Close() {
	if a.Sync != nil {
		a.Sync.Close()
	}
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("payroll ledger listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatal(fmt.Errorf("server failed: %w", err))
	}
}
