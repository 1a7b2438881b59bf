// Package client wires the session core into a runnable application:
// config, logger, durable storage, REST client, session manager, notification
// poller, keep-alive pinger, and route guards.
package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/expertpicks/clientcore/core/config"
	"github.com/expertpicks/clientcore/core/guard"
	"github.com/expertpicks/clientcore/core/keepalive"
	"github.com/expertpicks/clientcore/core/logger"
	"github.com/expertpicks/clientcore/core/notify"
	"github.com/expertpicks/clientcore/core/session"
	"github.com/expertpicks/clientcore/integration/api"
	"github.com/expertpicks/clientcore/integration/storage/file"
)

// App holds the assembled session core. Construct it with New, then call
// Run once; Session, Notifications, API, and Guard expose the pieces the
// UI layer consumes.
type App struct {
	config  Config
	logger  *slog.Logger
	store   *session.Store
	storage session.Storage
	manager *session.Manager
	client  *api.Client
	poller  *notify.Poller
	pinger  *keepalive.Pinger
	guard   guard.Guard

	// loggedOut is closed by the logout hook so Run tears everything
	// down, the equivalent of the browser client's hard redirect.
	loggedOut  chan struct{}
	logoutOnce sync.Once
}

// Option overrides a default dependency.
type Option func(*App) error

// WithLogger replaces the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithStorage replaces the default file-backed storage, e.g. with the Redis
// backend for server-side deployments. The store must be set before New
// builds the session manager, which Option ordering guarantees.
func WithStorage(storage session.Storage) Option {
	return func(app *App) error {
		if storage == nil {
			return errors.New("storage cannot be nil")
		}
		app.storage = storage
		return nil
	}
}

// New loads configuration and assembles the core. No background work starts
// until Run.
func New(opts ...Option) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config:    cfg,
		logger:    logger.New(logger.WithDevelopment(cfg.AppName)),
		store:     session.NewStore(),
		loggedOut: make(chan struct{}),
	}
	if cfg.Env == "production" {
		app.logger = logger.New(logger.WithProduction(cfg.AppName))
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.storage == nil {
		path := cfg.StoragePath
		if path == "" {
			var err error
			path, err = file.DefaultPath(cfg.AppName)
			if err != nil {
				return nil, err
			}
		}
		fs, err := file.New(path)
		if err != nil {
			return nil, err
		}
		app.storage = fs
	}

	client, err := api.New(cfg.API,
		api.WithTokenSource(func() string { return app.store.Get().Token() }),
		api.WithClientLogger(app.logger),
	)
	if err != nil {
		return nil, err
	}
	app.client = client

	app.manager = session.NewManager(app.store, app.storage, client,
		session.WithLogger(app.logger),
		session.WithLogoutHook(app.signalLogout),
	)

	poller, err := notify.NewPoller(client, app.store, cfg.Notify,
		notify.WithPollerLogger(app.logger))
	if err != nil {
		return nil, err
	}
	app.poller = poller

	pinger, err := keepalive.NewPinger(client, cfg.Keepalive,
		keepalive.WithPingerLogger(app.logger))
	if err != nil {
		return nil, err
	}
	app.pinger = pinger

	app.guard = guard.New(cfg.Guard)

	return app, nil
}

// Session returns the manager, the only legal writer of session state.
func (app *App) Session() *session.Manager { return app.manager }

// Store returns the read-only session store for guards and subscribers.
func (app *App) Store() *session.Store { return app.store }

// Notifications returns the pending-count poller.
func (app *App) Notifications() *notify.Poller { return app.poller }

// API returns the REST client.
func (app *App) API() *api.Client { return app.client }

// Guard returns the route guard evaluator.
func (app *App) Guard() guard.Guard { return app.guard }

// Run bootstraps the session, then runs the poller and pinger until the
// context is cancelled or an explicit logout occurs. Bootstrap completes
// before Run returns control to callers' navigation, so guards never decide
// during hydration.
func (app *App) Run(ctx context.Context) error {
	app.manager.Bootstrap(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(app.poller.Run(gctx))
	g.Go(app.pinger.Run(gctx))
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-app.loggedOut:
			// Discard all dependent state instead of merely
			// navigating, so nothing keeps serving stale data.
			cancel()
		}
		return nil
	})

	return g.Wait()
}

func (app *App) signalLogout() {
	app.logoutOnce.Do(func() {
		close(app.loggedOut)
	})
}
