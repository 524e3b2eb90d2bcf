package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MiB

	DefaultRulesDirectory = "rules"
	DefaultWatchDebounce  = 500 * time.Millisecond
	DefaultChangelogPath  = "data/rule_changes.db"

	DefaultMaxSubgraphDepth  = 8
	DefaultEvaluationTimeout = 100 * time.Millisecond
	DefaultMaxNodes          = 500

	DefaultAuditBackend   = "sqlite"
	DefaultAuditPath      = "data/audit.db"
	DefaultAsyncBuffer    = 1000
	DefaultWriteTimeoutDB = 5 * time.Second
	DefaultServiceName    = "meridian"
	DefaultRetentionDays  = 90
	DefaultPruneSchedule  = "0 3 * * *"

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "meridian"
)

// ApplyDefaults fills in defaults for any zero-valued field.
// Booleans keep their YAML value; flags like Audit.Enabled default in
// DefaultConfig instead, so a file that omits the section gets audit on.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.Rules.Directory == "" {
		cfg.Rules.Directory = DefaultRulesDirectory
	}
	if cfg.Rules.WatchDebounce == 0 {
		cfg.Rules.WatchDebounce = DefaultWatchDebounce
	}
	if cfg.Rules.ChangelogPath == "" {
		cfg.Rules.ChangelogPath = DefaultChangelogPath
	}

	if cfg.Engine.MaxSubgraphDepth == 0 {
		cfg.Engine.MaxSubgraphDepth = DefaultMaxSubgraphDepth
	}
	if cfg.Engine.EvaluationTimeout == 0 {
		cfg.Engine.EvaluationTimeout = DefaultEvaluationTimeout
	}
	if cfg.Engine.MaxNodes == 0 {
		cfg.Engine.MaxNodes = DefaultMaxNodes
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditPath
	}
	if cfg.Audit.AsyncBuffer == 0 {
		cfg.Audit.AsyncBuffer = DefaultAsyncBuffer
	}
	if cfg.Audit.WriteTimeout == 0 {
		cfg.Audit.WriteTimeout = DefaultWriteTimeoutDB
	}
	if cfg.Audit.Service == "" {
		cfg.Audit.Service = DefaultServiceName
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultPruneSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a configuration with every field at its default.
func DefaultConfig() *Config {
	cfg := &Config{
		Rules: RulesConfig{Watch: true},
		Audit: AuditConfig{
			Enabled: true,
			Retention: RetentionConfig{
				Days: DefaultRetentionDays,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactPII: true},
			Metrics: MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
