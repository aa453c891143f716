// Package cli implements clipper's command line interface with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/core/ports/driving"
	"github.com/custodia-labs/clipper/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// ServiceOptions are the per-invocation settings a command passes to the
// clip service factory.
type ServiceOptions struct {
	// Progress receives human readable status lines.
	Progress driven.ProgressSink

	// ScanBudget overrides the configured discovery budget when non-zero.
	ScanBudget time.Duration
}

// ClipServiceFactory builds the clip service on first use. Commands that
// never reach the upstream (config, version) run without credentials.
type ClipServiceFactory func(opts ServiceOptions) (driving.ClipService, error)

// MetricsWriter persists collected metrics when a command finishes.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// Services wired by main.
var (
	newClipService ClipServiceFactory
	configStore    driven.ConfigStore
	metricsWriter  MetricsWriter
)

var (
	verbose     bool
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "clipper",
	Short: "Find and download a channel's clips without the duplicates",
	Long: `clipper lists every clip of a Twitch channel in a date range, drops clips
whose footage is already covered by other clips, and downloads the rest.

Credentials are read from CLIPPER_ACCESS_TOKEN and CLIPPER_CLIENT_ID
(a .env file in the working directory is loaded if present).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"write Prometheus metrics to this file on exit (default from config metrics.textfile)")
}

// SetServices installs the services commands run against.
func SetServices(factory ClipServiceFactory, store driven.ConfigStore) {
	newClipService = factory
	configStore = store
}

// SetMetrics installs the writer used for --metrics-file.
func SetMetrics(w MetricsWriter) {
	metricsWriter = w
}

// SetVersion sets the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Results go to stdout and progress and
// errors to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, writeMetrics())
}

// writeMetrics writes the metrics file if one was requested.
func writeMetrics() error {
	path := metricsFile
	if path == "" && configStore != nil {
		path = configStore.GetString(driven.ConfigMetricsTextfile)
	}
	if path == "" || metricsWriter == nil {
		return nil
	}
	if err := metricsWriter.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func clipServiceFor(opts ServiceOptions) (driving.ClipService, error) {
	if newClipService == nil {
		return nil, errors.New("clip service not configured")
	}
	return newClipService(opts)
}
