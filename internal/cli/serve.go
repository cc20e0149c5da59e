package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	appLog "papercal/internal/log"
	"papercal/internal/schedule"
	"papercal/internal/web"
)

func addServe(topLevel *cobra.Command, o *options) {
	var withSchedule bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the month grid and PDFs over HTTP",
		Long: `Serve /api/grid (JSON) and /calendar.pdf (a fresh PDF per request).
With --schedule the cron renderer and events-file watcher run alongside.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			r := o.renderer()
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return web.Start(ctx, r) })
			if withSchedule {
				rn := schedule.New(r)
				rn.OnRender = renderReporter(cmd)
				g.Go(func() error { return rn.Run(ctx, true) })
			}
			if err := g.Wait(); err != nil && !isCancelled(err) {
				return fmt.Errorf("serve: %w", err)
			}
			appLog.Info("papercal exiting")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSchedule, "schedule", false, "Also render on the configured schedule and on events-file changes")
	topLevel.AddCommand(cmd)
}

func addWatch(topLevel *cobra.Command, o *options) {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Render the current month now, on the schedule, and when events files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			rn := schedule.New(o.renderer())
			rn.OnRender = renderReporter(cmd)
			if err := rn.Run(ctx, !noWatch); err != nil {
				return err
			}
			appLog.Info("papercal exiting")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Only render on the schedule; ignore events-file changes")
	topLevel.AddCommand(cmd)
}

func renderReporter(cmd *cobra.Command) func(reason, path string, err error) {
	return func(reason, path string, err error) {
		if err != nil {
			warnf(cmd.ErrOrStderr(), "%s render failed: %v", reason, err)
			return
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("wrote ")+path+" ("+reason+")")
	}
}
