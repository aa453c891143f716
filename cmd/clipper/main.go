// Command clipper finds a channel's clips, drops redundant ones and
// downloads the rest.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/clipper/internal/adapters/driven/auth"
	"github.com/custodia-labs/clipper/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clipper/internal/adapters/driven/metrics"
	"github.com/custodia-labs/clipper/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clipper/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/clipper/internal/adapters/driven/transfer"
	"github.com/custodia-labs/clipper/internal/adapters/driving/cli"
	"github.com/custodia-labs/clipper/internal/connectors/twitch"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/core/ports/driving"
	"github.com/custodia-labs/clipper/internal/core/services"
	"github.com/custodia-labs/clipper/internal/logger"
)

// version is overridden at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := file.NewConfigStore(os.Getenv("CLIPPER_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	cache, closeCache := openDiscoveryCache(filepath.Dir(store.Path()))
	defer closeCache()

	met := metrics.New()
	cli.SetVersion(version)
	cli.SetServices(newClipServiceFactory(store, cache, met), store)
	cli.SetMetrics(met)
	return cli.Execute(ctx)
}

// openDiscoveryCache opens the persistent discovery cache next to the
// config file. When the database cannot be opened the cache lives only as
// long as this process.
func openDiscoveryCache(dir string) (driven.DiscoveryCache, func()) {
	db, err := sqlite.NewStore(dir)
	if err != nil {
		logger.Warn("discovery cache unavailable, using memory: %v", err)
		return memory.NewDiscoveryCache(), func() {}
	}
	return db.DiscoveryCache(), func() {
		if err := db.Close(); err != nil {
			logger.Warn("close discovery cache: %v", err)
		}
	}
}

// newClipServiceFactory wires the clip service from configuration.
func newClipServiceFactory(
	store driven.ConfigStore,
	cache driven.DiscoveryCache,
	met driven.MetricsRecorder,
) cli.ClipServiceFactory {
	return func(opts cli.ServiceOptions) (driving.ClipService, error) {
		client, err := twitch.NewClient(
			twitch.ConfigFromStore(store, os.Getenv(twitch.EnvClientID)),
			auth.NewEnvTokenProvider(),
			nil,
		)
		if err != nil {
			return nil, err
		}

		budget := opts.ScanBudget
		if budget == 0 {
			budget = time.Duration(store.GetInt(driven.ConfigScanBudgetSeconds)) * time.Second
		}

		scanner := services.NewDiscoveryScanner(client, 0)
		transfers := transfer.NewHTTPTransfer(nil, store.GetInt(driven.ConfigMaxParallel))
		downloader := services.NewDownloadOrchestrator(client, transfers, opts.Progress)
		svc := services.NewClipService(scanner, downloader, cache, opts.Progress, budget)
		svc.SetMetrics(met)
		return svc, nil
	}
}
