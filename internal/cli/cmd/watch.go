package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/sitetheme/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the stylesheet in sync with the preferences",
	Long: `Write the theme stylesheet and rewrite it whenever a preference changes,
from this machine's other sitetheme processes, from the OS (dark mode and
reduced motion) or from the clock in auto mode.

Config file edits to signal overrides apply without a restart.
Stop with Ctrl+C.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLive: "true"},
	RunE:        runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	follower, err := followStylesheet(ctx, app)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return followConfig(gctx, app)
	})
	g.Go(func() error {
		<-gctx.Done()
		return follower.stop(context.WithoutCancel(gctx))
	})

	log.Info().Str("path", follower.svc.Path()).Msg("watching preferences")
	err = g.Wait()
	log.Info().Msg("stopped watching")
	return err
}
