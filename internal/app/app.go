// Package app wires configuration into the database, option store, lock,
// event publisher and migrator shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/migration"
	"github.com/iliyamo/restaurant-booking/internal/options"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-booking/internal/service"
)

// MigrationLockKey is the Redis key guarding migration runs.
const MigrationLockKey = "rb:lock:legacy_migration"

// App holds long-lived dependencies. Redis may be nil.
type App struct {
	Cfg      config.Config
	DB       *sql.DB
	Dialect  string
	Tables   database.Tables
	Options  options.Store
	Redis    *redis.Client
	Migrator *migration.Migrator
}

// New opens the database, creates missing tables and builds the migrator.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := database.Open(cfg.DatabaseOptions())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{
		Cfg:     cfg,
		DB:      db,
		Dialect: cfg.DBDriver,
		Tables:  database.NewTables(cfg.TablePrefix),
	}
	if err := database.EnsureSchema(ctx, db, a.Dialect, a.Tables); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	rc := config.LoadRedisConfig()
	a.Redis = config.NewRedisClient(rc)
	if a.Redis == nil {
		log.Warn("redis unavailable; lock and rate limiting disabled", "addr", rc.Addr)
	}

	switch cfg.OptionStore {
	case "redis":
		if a.Redis == nil {
			a.Close()
			return nil, fmt.Errorf("OPTION_STORE=redis but redis is unavailable at %s", rc.Addr)
		}
		a.Options = options.NewRedisStore(a.Redis, rc.KeyPrefix)
	default:
		a.Options = repository.NewOptionRepo(db, a.Dialect, a.Tables.Options)
	}

	mc := migration.Config{
		Options:        a.Options,
		Stores:         migration.NewSQLStores(db, a.Dialect, a.Tables),
		CurrentVersion: cfg.PluginVersion,
		Logger:         log,
	}
	if a.Redis != nil {
		mc.Locker = options.NewRedisLocker(a.Redis, MigrationLockKey, cfg.LockTTL)
	}
	if cfg.RabbitURL != "" {
		mc.Notifier = queue_publisher.New(cfg.RabbitURL, log)
	}
	a.Migrator = migration.New(mc)
	return a, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
