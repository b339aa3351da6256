package configs

import "time"

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Sink      SinkConfig      `mapstructure:"sink" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration. Level and Mode are resolved by the
// loggers package; bad values fall back instead of failing startup.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Mode        string `mapstructure:"mode"`
	Service     string `mapstructure:"service" validate:"required"`
	Environment string `mapstructure:"environment"`
}

// TelemetryConfig holds the sample retention and classification knobs.
type TelemetryConfig struct {
	MetricsMaxAge          time.Duration `mapstructure:"metrics_max_age"`
	EvictionInterval       time.Duration `mapstructure:"eviction_interval"`
	SlowOperationThreshold time.Duration `mapstructure:"slow_operation_threshold"`
	SlowRequestThreshold   time.Duration `mapstructure:"slow_request_threshold"`
	SkipPaths              []string      `mapstructure:"skip_paths" validate:"dive,urlpath"`
}

// SinkConfig selects the error-tracking collaborator.
type SinkConfig struct {
	Kind       string `mapstructure:"kind" validate:"required,oneof=none log"`
	Partitions int    `mapstructure:"partitions" validate:"min=1,max=64"`
	QueueSize  int    `mapstructure:"queue_size" validate:"min=1"`
}
