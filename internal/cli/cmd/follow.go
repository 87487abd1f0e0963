package cmd

import (
	"context"

	"github.com/bnema/sitetheme/internal/cli"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/infrastructure/config"
	"github.com/bnema/sitetheme/internal/infrastructure/snapshot"
	"github.com/bnema/sitetheme/internal/logging"
)

// stylesheetFollower keeps the configured stylesheet in step with the
// manager's document.
type stylesheetFollower struct {
	svc         *snapshot.Service
	unsubscribe func()
}

// followStylesheet writes the stylesheet once and then after every change
// burst until stop is called.
func followStylesheet(ctx context.Context, a *cli.App) (*stylesheetFollower, error) {
	log := logging.FromContext(ctx)

	svc := a.Stylesheet()
	svc.Start(ctx)

	unsubscribe := a.Manager.Subscribe(func(e entity.ChangeEvent) {
		log.Info().
			Str("field", string(e.Field)).
			Str("old", e.OldValue()).
			Str("new", e.NewValue()).
			Msg("preference changed")
		svc.MarkDirty()
	})

	svc.MarkDirty()
	if err := svc.SaveNow(ctx); err != nil {
		unsubscribe()
		_ = svc.Stop(ctx)
		return nil, err
	}
	log.Info().Str("path", svc.Path()).Msg("stylesheet written")

	return &stylesheetFollower{svc: svc, unsubscribe: unsubscribe}, nil
}

// stop flushes the pending write.
func (f *stylesheetFollower) stop(ctx context.Context) error {
	f.unsubscribe()
	return f.svc.Stop(ctx)
}

// followConfig re-resolves the OS signals whenever the config file changes so
// edited overrides apply without a restart.
func followConfig(ctx context.Context, a *cli.App) error {
	a.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
		logging.FromContext(ctx).Info().
			Str("prefers_dark", cfg.Signals.PrefersDark).
			Str("reduced_motion", cfg.Signals.ReducedMotion).
			Msg("config reloaded")
		a.RefreshSignals()
	})
	return a.ConfigMgr.Watch(ctx)
}
