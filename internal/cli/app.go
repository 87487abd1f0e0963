// Package cli wires sitetheme together for the command line. App is the one
// place a theme.Manager gets constructed.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/build"
	"github.com/bnema/sitetheme/internal/infrastructure/clock"
	"github.com/bnema/sitetheme/internal/infrastructure/config"
	"github.com/bnema/sitetheme/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/sitetheme/internal/infrastructure/prefstore/filestore"
	"github.com/bnema/sitetheme/internal/infrastructure/prefstore/memory"
	"github.com/bnema/sitetheme/internal/infrastructure/snapshot"
	"github.com/bnema/sitetheme/internal/infrastructure/systempref"
	"github.com/bnema/sitetheme/internal/logging"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

// Options controls how NewApp builds the application.
type Options struct {
	// ConfigFile overrides the XDG config location.
	ConfigFile string

	// LogLevel overrides the configured level when not empty.
	LogLevel string

	// Live follows changes made by other processes (store writes and OS
	// preference flips). Short-lived commands leave it off.
	Live bool

	// Scheduler drives polling. Nil uses real tickers.
	Scheduler port.Scheduler

	// Clock drives auto mode. Nil uses the system clock.
	Clock port.Clock
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	Manager  *theme.Manager
	Document *theme.RootDocument
	Signals  *systempref.Signals

	store  port.KeyValueStore
	poller *systempref.Poller
	portal *systempref.PortalWatcher

	storeErrors atomic.Int64

	// Context with logger
	ctx context.Context
}

// NewApp loads configuration and builds the theme manager with its store,
// OS signals and document.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfgMgr, err := config.NewManager(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfgMgr.Load(); err != nil {
		return nil, err
	}
	cfg := cfgMgr.Get()

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.NewFromConfigValues(level, cfg.Logging.Format)
	ctx = logging.WithContext(ctx, logger)

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = clock.Ticker{}
	}

	store, err := openStore(ctx, cfg.Store, opts.Live, scheduler)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		ConfigMgr: cfgMgr,
		store:     store,
		ctx:       ctx,
	}

	// Overrides are read at resolve time so config edits apply while watching.
	a.Signals = systempref.NewSignals(
		cfg.Signals.Detectors,
		systempref.OverrideFunc(func() string { return cfgMgr.Get().Signals.PrefersDark }),
		systempref.OverrideFunc(func() string { return cfgMgr.Get().Signals.ReducedMotion }),
	)
	if opts.Live {
		a.poller = systempref.NewPoller(ctx, scheduler, cfg.Signals.PollInterval, a.Signals.Resolvers()...)
		a.poller.Start()
		if len(cfg.Signals.Detectors) == 0 || slices.Contains(cfg.Signals.Detectors, systempref.DetectorPortal) {
			a.portal, err = systempref.WatchPortal(ctx, a.poller.Tick)
			if err != nil {
				logger.Debug().Err(err).Msg("portal signals unavailable, polling only")
			}
		}
	}

	a.Document = theme.NewRootDocument()
	a.Manager = theme.NewManager(ctx, theme.Options{
		Store:             store,
		OnStoreError:      a.onStoreError,
		Document:          a.Document,
		DarkSignal:        a.Signals.Dark,
		MotionSignal:      a.Signals.Motion,
		Clock:             opts.Clock,
		Scheduler:         scheduler,
		DayStartHour:      cfg.Auto.DayStart,
		DayEndHour:        cfg.Auto.DayEnd,
		AutoCheckInterval: cfg.Auto.CheckInterval,
		RecheckDelay:      cfg.Signals.RecheckDelay,
	})
	a.Theme = styles.ThemeFor(a.Manager.State())

	logger.Debug().
		Str("store", string(cfg.Store.Backend)).
		Str("store_path", cfg.Store.Path).
		Bool("live", opts.Live).
		Msg("app initialized")

	return a, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, live bool, scheduler port.Scheduler) (port.KeyValueStore, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory:
		return memory.NewBus().Attach(), nil

	case config.StoreBackendSQLite:
		store, err := sqlite.OpenPreferenceStore(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if live {
			store.Watch(scheduler, cfg.PollInterval)
		}
		return store, nil

	default:
		store, err := filestore.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open preference file: %w", err)
		}
		if live {
			if err := store.Watch(); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("watch preference file: %w", err)
			}
		}
		return store, nil
	}
}

func (a *App) onStoreError(op, key string, err error) {
	a.storeErrors.Add(1)
	logging.FromContext(a.ctx).Debug().Str("op", op).Str("key", key).Err(err).Msg("preference store failure")
}

// StoreErrors returns how many store operations failed so far.
func (a *App) StoreErrors() int64 {
	return a.storeErrors.Load()
}

// RefreshSignals re-reads the OS preferences now instead of waiting for the
// next poll. It does nothing unless the app is live.
func (a *App) RefreshSignals() {
	if a.poller != nil {
		a.poller.Tick()
	}
}

// Stylesheet returns a debounced writer of the document's CSS to the
// configured output path.
func (a *App) Stylesheet() *snapshot.Service {
	return snapshot.NewService(a.Document, a.Config.Output.CSSPath, a.Config.Output.Debounce)
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases all resources.
func (a *App) Close() error {
	if a.portal != nil {
		_ = a.portal.Close()
	}
	if a.poller != nil {
		a.poller.Stop()
	}
	if a.Manager != nil {
		a.Manager.Close()
	}
	var errs []error
	if closer, ok := a.store.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}
