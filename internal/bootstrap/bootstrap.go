package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/impactasaurus/impact/internal/api"
	"github.com/impactasaurus/impact/internal/config"
	"github.com/impactasaurus/impact/internal/db"
	"github.com/impactasaurus/impact/internal/middleware"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/utils"
)

type App struct {
	Config  config.Config
	Store   api.Store
	Router  *api.Router
	Tracker *services.AsyncTracker
	Metrics *middleware.Metrics

	closeStore func() error
}

// New opens the store, seeds it on first run and wires the router.
func New(cfg config.Config) (*App, error) {
	if middleware.DevSecretInUse() {
		log.Printf("WARNING: IMPACT_JWT_SECRET is not set, session tokens are signed with the development secret")
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	tracker := services.NewAsyncTracker(cfg.EventBuffer, services.LogSink)
	router := api.NewRouter(api.Options{
		Store:       store,
		Tracker:     tracker,
		IDPSecret:   cfg.IDPSecret,
		IDPAudience: cfg.IDPAudience,
	})
	app := &App{
		Config:     cfg,
		Store:      store,
		Router:     router,
		Tracker:    tracker,
		Metrics:    middleware.NewMetrics(),
		closeStore: closeStore,
	}
	app.Metrics.GaugeFunc("impact_open_sessions", "Questionnaire sessions currently held in memory.", func() float64 {
		return float64(router.Sessions().Len())
	})
	return app, nil
}

func openStore(cfg config.Config) (api.Store, func() error, error) {
	if !cfg.UsesSQLite() {
		store := api.NewMemoryStore()
		if cfg.SeedFile != "" {
			if err := SeedFrom(store, cfg.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		return store, func() error { return nil }, nil
	}

	firstRun := false
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		firstRun = true
	} else if err != nil {
		return nil, nil, fmt.Errorf("check sqlite file: %w", err)
	}
	st, err := db.Open(cfg.DBPath, cfg.MigrationsDir)
	if err != nil {
		return nil, nil, err
	}
	if firstRun && cfg.SeedFile != "" {
		log.Printf("First run detected, seeding %s from %s...", cfg.DBPath, cfg.SeedFile)
		if err := SeedFrom(st, cfg.SeedFile); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
	}
	return st, st.Close, nil
}

// SeedFrom loads a YAML fixture into store and records it in the audit log.
func SeedFrom(store api.Store, path string) error {
	seed, err := api.LoadSeed(path)
	if err != nil {
		return err
	}
	if err := api.ApplySeed(store, seed); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	store.AddAudit(api.AuditEntry{
		Time:   time.Now().UTC(),
		Action: "seed",
		Target: path,
		Note:   fmt.Sprintf("%d outcome sets, %d meetings", len(seed.OutcomeSets), len(seed.Meetings)),
	})
	return nil
}

// Handler returns the full HTTP stack: API routes, health, version and
// metrics behind the shared middleware chain.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Router.Register(mux)
	commit, buildTime := a.Config.Commit, a.Config.BuildTime
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Impact API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.Handle("GET /metrics", a.Metrics.Handler())

	return middleware.Chain(mux,
		a.Metrics.Instrument(mux),
		middleware.SecureHeaders,
		middleware.CORS(a.Config.CORSOrigins),
		middleware.NoStore,
		middleware.LocaleMiddleware,
	)
}

// RunJanitor drops questionnaire sessions idle longer than SessionTTL until
// ctx is cancelled.
func (a *App) RunJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := a.Router.Sessions().CleanupBefore(now.Add(-a.Config.SessionTTL)); n > 0 {
				log.Printf("sessions: dropped %d idle", n)
			}
		}
	}
}

// Serve listens on Config.Addr until ctx is cancelled, then shuts down.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go a.RunJanitor(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		log.Printf("Impact server listening on %s", a.Config.Addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close flushes queued telemetry and releases the store.
func (a *App) Close() error {
	a.Tracker.Close()
	return a.closeStore()
}
