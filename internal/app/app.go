package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/familytrip/tripplanner/internal/config"
	"github.com/familytrip/tripplanner/internal/database"
	"github.com/familytrip/tripplanner/pkg/storage"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg     config.Application
	deps    *Dependencies
	router  *mux.Router
	srv     *http.Server
	closers []func()
}

// NewApplication loads the configuration at configPath and builds the application.
func NewApplication(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// New constructs the full HTTP application from cfg, ready to Run().
func New(ctx context.Context, cfg config.Application) (*Application, error) {
	a := &Application{cfg: cfg}

	kv, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps, err := BuildDependencies(kv, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.deps = deps
	a.closers = append(a.closers, deps.Planner.Close)

	r := mux.NewRouter()
	SetupMiddleware(r, deps)
	RegisterRoutes(r, deps)
	a.router = r

	a.srv = &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func (a *Application) openStorage(ctx context.Context) (storage.Store, error) {
	switch a.cfg.Storage.Driver {
	case config.MemoryStorage, "":
		log.Warn("Using in-memory storage, plans are lost on restart")
		return storage.NewMemoryStore(), nil
	case config.SQLiteStorage:
		db, err := database.OpenSQLite(a.cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { db.Close() })
		log.Infof("Using SQLite storage at %s", a.cfg.Storage.SQLite.Path)
		return storage.NewSQLiteStore(db), nil
	case config.PostgresStorage:
		if err := database.Migrate(a.cfg.Database); err != nil {
			return nil, err
		}
		pool, err := database.Open(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		log.Infof("Using Postgres storage at %s:%d", a.cfg.Database.Host, a.cfg.Database.Port)
		return storage.NewPostgresStore(pool), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

func (a *Application) Handler() http.Handler {
	return a.router
}

// Start opens the planner session on today, clearing empty days first.
func (a *Application) Start(ctx context.Context) error {
	if err := a.deps.Planner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start planner: %w", err)
	}
	return nil
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

// Close releases storage connections in reverse order of acquisition.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
