package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/validators"

	"github.com/spf13/viper"
)

const DefaultSlowRequestThreshold = time.Second

var defaultSkipPaths = []string{"/healthz", "/metrics"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_header_timeout", 5)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 60)

	v.SetDefault("log.level", "")
	v.SetDefault("log.mode", "production")
	v.SetDefault("log.service", "request-telemetry")
	v.SetDefault("log.environment", "local")

	v.SetDefault("telemetry.metrics_max_age", samples.DefaultMaxAge)
	v.SetDefault("telemetry.eviction_interval", samples.DefaultEvictionInterval)
	v.SetDefault("telemetry.slow_operation_threshold", samples.DefaultSlowOperationThreshold)
	v.SetDefault("telemetry.slow_request_threshold", DefaultSlowRequestThreshold)
	v.SetDefault("telemetry.skip_paths", defaultSkipPaths)

	v.SetDefault("sink.kind", "none")
	v.SetDefault("sink.partitions", 4)
	v.SetDefault("sink.queue_size", 256)
}

// LoadConfig reads configuration from an optional file and environment
// overrides (LOG_LEVEL, TELEMETRY_METRICS_MAX_AGE, ...), then validates it.
// A missing file is not an error; every key has a default.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read from file
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// Normalize replaces out-of-range telemetry values with their defaults and
// returns one note per replaced key. A metrics max age of zero is kept: it
// evicts everything on each sweep.
func (cfg *Config) Normalize() []string {
	var notes []string
	fallback := func(key string, field *time.Duration, def time.Duration, allowZero bool) {
		if *field > 0 || (allowZero && *field == 0) {
			return
		}
		notes = append(notes, fmt.Sprintf("%s=%s is not positive, using %s", key, *field, def))
		*field = def
	}

	t := &cfg.Telemetry
	fallback("telemetry.metrics_max_age", &t.MetricsMaxAge, samples.DefaultMaxAge, true)
	fallback("telemetry.eviction_interval", &t.EvictionInterval, samples.DefaultEvictionInterval, false)
	fallback("telemetry.slow_operation_threshold", &t.SlowOperationThreshold, samples.DefaultSlowOperationThreshold, false)
	fallback("telemetry.slow_request_threshold", &t.SlowRequestThreshold, DefaultSlowRequestThreshold, false)
	return notes
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "server.port")
	if e.StructNamespace() != "" {
		// Extract nested field path (e.g., "Config.Server.Port" -> "server.port")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			// Skip "Config" prefix, convert to lowercase with dots
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required":
		msg = fmt.Sprintf("%s (required)", field)
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "oneof":
		msg = fmt.Sprintf("%s (oneof=%s)", field, e.Param())
	case validators.TagURLPath:
		msg = fmt.Sprintf("%s (must be an absolute path)", field)
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
