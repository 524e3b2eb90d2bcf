package config

import "time"

// Config is the root configuration for the Meridian service.
type Config struct {
	// Server configures the HTTP API.
	Server ServerConfig `yaml:"server"`

	// Rules configures rule storage and hot reload.
	Rules RulesConfig `yaml:"rules"`

	// Engine configures decision evaluation limits.
	Engine EngineConfig `yaml:"engine"`

	// Audit configures the decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds handler execution per request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORSAllowedOrigins lists origins allowed for cross-origin requests.
	// Empty disables CORS headers entirely.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// RulesConfig configures where rule graphs live and how they reload.
type RulesConfig struct {
	// Directory is the root of the rule graph tree. Rule paths are
	// resolved relative to it.
	Directory string `yaml:"directory"`

	// Watch enables filesystem watching for hot reload.
	Watch bool `yaml:"watch"`

	// WatchDebounce coalesces bursts of file events into one refresh.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// ChangelogPath is the SQLite database recording rule changes made
	// through the management API.
	ChangelogPath string `yaml:"changelog_path"`
}

// EngineConfig configures evaluation limits.
type EngineConfig struct {
	// MaxSubgraphDepth bounds nested subgraph calls.
	MaxSubgraphDepth int `yaml:"max_subgraph_depth"`

	// EvaluationTimeout bounds a single decision evaluation.
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`

	// MaxNodes rejects graphs larger than this at evaluation time.
	MaxNodes int `yaml:"max_nodes"`
}

// AuditConfig configures the decision audit trail.
type AuditConfig struct {
	// Enabled toggles audit recording.
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLitePath is the audit database path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the in-flight record buffer size.
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single enqueue before the record is dropped.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Service and Environment are stamped onto every record.
	Service     string `yaml:"service"`
	Environment string `yaml:"environment"`

	// Retention configures background pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig configures audit record pruning.
type RetentionConfig struct {
	// Days is how long records are kept. Zero disables pruning.
	Days int `yaml:"days"`

	// Schedule is a cron expression for the prune job.
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of PAN, Aadhaar, email and phone
	// values in log output.
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled toggles metric recording and the /metrics endpoint.
	Enabled bool `yaml:"enabled"`

	// Path is where the exposition endpoint is mounted.
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`
}
