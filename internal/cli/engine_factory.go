package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/config"
	"github.com/civicscribe/intake/internal/metrics"
	"github.com/civicscribe/intake/pkg/adapters/file"
	"github.com/civicscribe/intake/pkg/adapters/memory"
	"github.com/civicscribe/intake/pkg/adapters/redis"
	"github.com/civicscribe/intake/pkg/persistence/middleware"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/civicscribe/intake/pkg/session"
)

// App bundles what every command needs, built once from configuration.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics // nil when metrics are disabled
	Engine   *intake.Engine
	Sessions *session.Manager

	closers []io.Closer
}

// NewApp wires logger, metrics, engine and persistence. Logs go to logOut.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger, err := createLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}

	hooks := createDebugHooks(logger)
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New()
		hooks = app.Metrics.Hooks(logger)
	}

	app.Engine = intake.New(
		intake.WithLogger(logger),
		intake.WithLifecycleHooks(hooks),
		intake.WithPacing(cfg.Pacing),
	)

	store, locker, closer, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.Session.LockTTL),
	}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	app.Sessions = session.NewManager(store, opts...)
	return app, nil
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// openStore builds the configured store, wrapped in the persistence middlewares.
// The redis driver also provides a distributed locker.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.StateStore, ports.DistributedLocker, io.Closer, error) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
		closer io.Closer
	)

	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverFile:
		store = file.New(cfg.Path)
	case config.DriverRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, nil, fmt.Errorf("redis %s unreachable: %w", cfg.Redis.Addr, err)
		}
		store, closer = rs, rs
		locker = redis.NewLocker(rs.Client(), cfg.Redis.Prefix)
	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	var mws []middleware.Middleware
	if cfg.PIIMask {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIFields))
		logger.Warn("PII masking enabled: stored sessions keep masked contact fields")
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	logger.Debug("store ready", "driver", cfg.Driver, "middlewares", len(mws))
	return middleware.Chain(store, mws...), locker, closer, nil
}
