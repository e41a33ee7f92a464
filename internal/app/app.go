// Package app wires configuration, storage and services together for the
// command line and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"floorplan/internal/catalog"
	"floorplan/internal/config"
	"floorplan/internal/docstore"
	"floorplan/internal/domain"
	"floorplan/internal/layoutio"
	"floorplan/internal/logging"
	"floorplan/internal/secret"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

// App holds the services built from one configuration.
type App struct {
	Config   config.Config
	Plans    *service.FloorPlanService
	Tables   *service.TableService
	Catalog  *catalog.Catalog
	Importer *layoutio.Importer

	logger *log.Logger
	close  func() error
}

// Secrets resolves store.dsn_secret entries.
var Secrets secret.Store = secret.NewKeychainStore()

// stores is the set of backend implementations services run on.
type stores struct {
	plans   domain.FloorPlanStore
	tables  domain.TableStore
	history domain.LayoutHistory
	close   func() error
}

// Open connects to the configured store and builds the services.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.Component(ctx, "STORE")

	cfg, err := resolveDSN(cfg, Secrets)
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		c, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		cat = c
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("store ready", "driver", cfg.Store.Driver)

	emitter := service.LogEmitter{Logger: logging.Component(ctx, "EVENT")}
	plans := service.NewFloorPlanService(st.plans, st.tables, st.history, emitter)
	tables := service.NewTableService(st.plans, st.tables, st.history, emitter)

	return &App{
		Config:   cfg,
		Plans:    plans,
		Tables:   tables,
		Catalog:  cat,
		Importer: layoutio.NewImporter(plans, tables),
		logger:   logger,
		close:    st.close,
	}, nil
}

// resolveDSN fills store.dsn from the secret store when only dsn_secret is set.
func resolveDSN(cfg config.Config, secrets secret.Store) (config.Config, error) {
	if cfg.Store.DSN != "" || cfg.Store.DSNSecret == "" {
		return cfg, nil
	}
	v, err := secrets.Get(cfg.Store.DSNSecret)
	if err != nil {
		return cfg, fmt.Errorf("read store dsn: %w", err)
	}
	if len(v) == 0 {
		return cfg, fmt.Errorf("secret %q is empty or missing", cfg.Store.DSNSecret)
	}
	cfg.Store.DSN = string(v)
	return cfg, nil
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		ds, err := docstore.Connect(ctx, cfg.Store.DSN, cfg.Store.Database)
		if err != nil {
			return nil, err
		}
		return &stores{plans: ds.FloorPlans(), tables: ds.Tables(), history: ds.History(), close: ds.Close}, nil

	case config.DriverSQLite:
		path := cfg.SQLitePath()
		db, err := storage.New(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
		return sqlStores(db), nil

	case config.DriverPostgres, config.DriverMySQL:
		db, err := storage.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return sqlStores(db), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func sqlStores(db *storage.DB) *stores {
	return &stores{
		plans:   storage.NewFloorPlanStore(db),
		tables:  storage.NewTableStore(db),
		history: storage.NewHistoryStore(db),
		close:   db.Close,
	}
}

// NewScheduler returns a scheduler for the host-station jobs.
func (a *App) NewScheduler(ctx context.Context) *service.Scheduler {
	return service.NewScheduler(a.Tables, logging.Component(ctx, "CRON"))
}

// Close releases the store connection.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	err := a.close()
	a.close = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
