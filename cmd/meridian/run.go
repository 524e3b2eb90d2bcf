package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"decisionhq/meridian/pkg/audit"
	"decisionhq/meridian/pkg/audit/changelog"
	"decisionhq/meridian/pkg/audit/recorder"
	"decisionhq/meridian/pkg/audit/retention"
	auditstorage "decisionhq/meridian/pkg/audit/storage"
	"decisionhq/meridian/pkg/cli"
	"decisionhq/meridian/pkg/config"
	"decisionhq/meridian/pkg/facts/kyc"
	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/server"
	"decisionhq/meridian/pkg/telemetry/health"
	"decisionhq/meridian/pkg/telemetry/logging"
	"decisionhq/meridian/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the decision service",
	Long: `Start the decision service with the specified configuration.

The server loads rule graphs from the configured rules directory, serves
decision evaluations over HTTP, and records every decision to the audit
trail.

Examples:
  # Start with default config
  meridian run

  # Start with custom config
  meridian run --config /etc/meridian/config.yaml

  # Override listen address
  meridian run --listen 0.0.0.0:8080

  # Validate config without starting server
  meridian run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	appLogger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		RedactPII: cfg.Telemetry.Logging.RedactPII,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger := appLogger.Slog("")
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)
	ctx := cli.SetupSignalHandler()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Enabled:   true,
			Namespace: cfg.Telemetry.Metrics.Namespace,
		}, nil)
	}

	// Rule source, cache, and hot reload
	ruleSource, err := source.NewFileSource(cfg.Rules.Directory, appLogger.Slog("source"))
	if err != nil {
		return cli.NewConfigError("rules.directory", err.Error())
	}
	ruleCache := cache.New(ruleSource, appLogger.Slog("cache"))
	loaded, err := ruleCache.Preload(ctx)
	if err != nil {
		slog.Warn("some rules failed to load", "error", err)
	}
	fmt.Printf("✓ Rules loaded from %s (%d graphs)\n", cfg.Rules.Directory, loaded)

	if cfg.Rules.Watch {
		watcher, err := cache.NewWatcher(cfg.Rules.Directory, ruleCache, cfg.Rules.WatchDebounce, appLogger.Slog("watcher"))
		if err != nil {
			return fmt.Errorf("failed to start rule watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Error("rule watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Println("✓ Hot reload enabled")
	}

	// Evaluation engine
	eng, err := engine.New(&engine.EngineConfig{
		MaxSubgraphDepth:  cfg.Engine.MaxSubgraphDepth,
		EvaluationTimeout: cfg.Engine.EvaluationTimeout,
		MaxNodes:          cfg.Engine.MaxNodes,
	}, ruleCache, appLogger.Slog("engine"))
	if err != nil {
		return cli.NewConfigError("engine", err.Error())
	}

	// Audit trail
	var decisionRecorder *recorder.Recorder
	var auditStore audit.Storage
	if cfg.Audit.Enabled {
		switch cfg.Audit.Backend {
		case "sqlite":
			auditStore, err = auditstorage.NewSQLiteStorage(&auditstorage.SQLiteConfig{
				Path: cfg.Audit.SQLitePath,
			})
			if err != nil {
				return fmt.Errorf("failed to open audit storage: %w", err)
			}
		case "memory":
			auditStore = auditstorage.NewMemoryStorage()
		default:
			return cli.NewConfigError("audit.backend", fmt.Sprintf("unsupported backend: %s", cfg.Audit.Backend))
		}
		defer auditStore.Close()

		decisionRecorder = recorder.NewRecorder(auditStore, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Audit.AsyncBuffer,
			WriteTimeout: cfg.Audit.WriteTimeout,
			Service:      cfg.Audit.Service,
			Environment:  cfg.Audit.Environment,
		})
		defer decisionRecorder.Close()

		if cfg.Audit.Retention.Days > 0 && cfg.Audit.Retention.Schedule != "" {
			pruner := retention.NewPruner(auditStore, &retention.Config{
				RetentionDays: cfg.Audit.Retention.Days,
				PruneSchedule: cfg.Audit.Retention.Schedule,
			})
			scheduler := retention.NewScheduler(pruner)
			if err := scheduler.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer scheduler.Stop()
			}
		}

		fmt.Printf("✓ Audit trail initialized (%s)\n", cfg.Audit.Backend)
	}

	// Rule changelog
	var changes *changelog.Store
	if cfg.Rules.ChangelogPath != "" {
		changes, err = changelog.NewStore(cfg.Rules.ChangelogPath, appLogger.Slog("changelog"))
		if err != nil {
			return fmt.Errorf("failed to open rule changelog: %w", err)
		}
		defer changes.Close()
	}

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("rules_source", func(ctx context.Context) error {
		_, err := ruleSource.List(ctx)
		return err
	})
	if auditStore != nil {
		store := auditStore
		checker.RegisterCheck("audit_storage", func(ctx context.Context) error {
			_, err := store.Count(ctx)
			return err
		})
	}

	if collector != nil {
		go syncCounters(ctx, ruleCache, decisionRecorder, collector)
	}

	srv := server.NewServer(cfg, server.Components{
		Engine:    eng,
		Cache:     ruleCache,
		Source:    ruleSource,
		Recorder:  decisionRecorder,
		Changelog: changes,
		Adapter:   kyc.NewAdapter(appLogger.Slog("kyc")),
		Metrics:   collector,
		Health:    checker,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	}, appLogger.Slog("server"))

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Println("✓ Server stopped")
	return nil
}

// syncCounters mirrors cache and recorder counters into the Prometheus
// collector. Both keep their own counters so the CLI can run without
// metrics.
func syncCounters(ctx context.Context, c *cache.RuleCache, rec *recorder.Recorder, collector *metrics.Collector) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	var prev cache.Stats
	var prevStored, prevDropped int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := c.Stats()
			for i := prev.Hits; i < stats.Hits; i++ {
				collector.RecordCacheHit()
			}
			for i := prev.Misses; i < stats.Misses; i++ {
				collector.RecordCacheMiss()
			}
			for i := prev.LoadFailures; i < stats.LoadFailures; i++ {
				collector.RecordCacheLoadFailure()
			}
			collector.UpdateCacheSize(stats.Size)
			prev = stats

			if rec != nil {
				stored, dropped := rec.Stored(), rec.Dropped()
				for i := prevStored; i < stored; i++ {
					collector.RecordAuditStored()
				}
				for i := prevDropped; i < dropped; i++ {
					collector.RecordAuditDropped()
				}
				prevStored, prevDropped = stored, dropped
			}
		}
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Meridian v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	if cfg.Rules.Watch {
		slog.Debug("hot reload configured", "debounce", cfg.Rules.WatchDebounce)
	}
	if cfg.Audit.Enabled {
		slog.Debug("audit enabled", "backend", cfg.Audit.Backend)
	}
}
