package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rosterscraper/internal/browser"
	"rosterscraper/internal/collector"
	"rosterscraper/internal/config"
	"rosterscraper/internal/extractor"
	"rosterscraper/internal/logger"
	"rosterscraper/internal/pipeline"
	redisclient "rosterscraper/internal/redis"
	"rosterscraper/internal/reporter"
	"rosterscraper/internal/snapshot"
	"rosterscraper/internal/util"
)

// runVariant is the shared body of the profile and valuation commands.
func runVariant(ctx context.Context, name, sourceURL string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer := logger.Setup(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		JSONFormat: cfg.Log.JSONFormat,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer closer.Close()

	var (
		timing  config.PipelineConfig
		variant pipeline.Variant
	)
	switch name {
	case pipeline.ProfileName:
		timing = cfg.Profile
		variant = pipeline.Profile(timing)
	case pipeline.ValuationName:
		timing = cfg.Valuation
		variant = pipeline.Valuation(timing, cfg.Output.ListingDump)
	default:
		return fmt.Errorf("unknown pipeline %q", name)
	}

	dir := outputDir
	if dir == "" {
		dir = timing.DefaultOutputDir
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	log.Info().Str("run_id", runID).Str("output", dir).Msg("Run configured")

	var mirror *goredis.Client
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, tracking URLs in memory only")
		} else {
			defer client.Close()
			mirror = client.Client
		}
	}

	session, err := browser.NewSession(browser.Config{
		Headless:                cfg.Browser.Headless,
		UserAgents:              cfg.Browser.UserAgents,
		NavigateRetryDelay:      cfg.Browser.NavigateRetryDelay,
		NavigateTimeout:         cfg.Browser.NavigateTimeout,
		ScrollPollMin:           cfg.Browser.ScrollPollMin,
		ScrollPollMax:           cfg.Browser.ScrollPollMax,
		MaxScrollIters:          cfg.Browser.MaxScrollIters,
		MaxNavigationsPerSecond: cfg.Browser.MaxNavigationsPerSecond,
		Rand:                    rng,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	ctrl := pipeline.NewController(variant, session, pipeline.Options{
		Extractor:  extractor.New(),
		Collector:  collector.NewURLCollector(mirror, cfg.Redis.Key),
		Snapshots:  snapshot.NewWriter(filepath.Join(dir, cfg.Output.DebugDirName), cfg.Output.DebugSnapshots),
		OutputBase: filepath.Join(dir, timing.Prefix+"_"+util.Slug(sourceURL)),
		Rand:       rng,
	})

	res, runErr := ctrl.Run(ctx, runID, sourceURL)
	// The browser is done once the run finishes; release it before printing.
	session.Close()

	reporter.Render(os.Stdout, reporter.Summarize(res))
	return runErr
}
