// Package cli wires the papercal commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"papercal/internal/config"
	appLog "papercal/internal/log"
	"papercal/internal/pipeline"
)

// Set at build time with -ldflags "-X papercal/internal/cli.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the persistent flags and the config they resolve to.
type options struct {
	configPath string
	listen     string
	logLevel   string

	cfg *config.Config
}

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "papercal",
		Short: "Print-ready monthly wall calendars",
		Long: `papercal lays out a month of birthdays, anniversaries, recurring
events, holidays and moon phases on a seven-column grid and writes it as a
single landscape PDF page.`,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return o.load()
		},
	}

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "./papercal.yaml", "Path to config file (created with defaults if missing)")
	root.PersistentFlags().StringVar(&o.listen, "listen", "", "HTTP listen address (overrides config if set)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config if set)")

	addRender(root, o)
	addLayout(root, o)
	addEvents(root, o)
	addHolidays(root, o)
	addExport(root, o)
	addServe(root, o)
	addWatch(root, o)
	addVersion(root)
	return root
}

func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", o.configPath, err)
	}
	if o.listen != "" {
		cfg.Listen = o.listen
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	appLog.Debug("effective config",
		"config_path", o.configPath,
		"listen", cfg.Listen,
		"events", len(cfg.Events),
		"ics_count", len(cfg.ICS),
		"schedule", cfg.Schedule,
	)
	o.cfg = cfg
	return nil
}

func (o *options) renderer() *pipeline.Renderer {
	return pipeline.New(o.cfg)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
	bold      = color.New(color.Bold)
)

func warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, warnColor.Sprintf("warning: "+format, args...))
}

// reportInputs prints skipped CSV rows and failed feeds.
func reportInputs(w io.Writer, in *pipeline.Inputs) {
	for _, re := range in.RowErrors {
		warnf(w, "skipped %s", re.Error())
	}
	for _, err := range in.FeedErrors {
		warnf(w, "%v", err)
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the papercal version",
		Example: `
papercal version
papercal version -o yaml
`,
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")
	topLevel.AddCommand(cmd)
}
