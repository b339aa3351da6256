package loggers

import (
	"fmt"
	"strings"
)

// Level orders log severities. A higher value is more severe.
type Level int8

const (
	LevelDebug Level = iota
	LevelHTTP
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelHTTP:  "http",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel parses a level name case-insensitively. "warning" is accepted as warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "http":
		return LevelHTTP, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Mode is the deployment mode. It selects the output format and the default threshold.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode maps s to a Mode. Anything unrecognised is treated as production,
// which is the quieter of the two.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev", "local", "test":
		return ModeDevelopment
	default:
		return ModeProduction
	}
}

// DefaultLevel is the threshold used when no valid override is configured.
func (m Mode) DefaultLevel() Level {
	if m == ModeDevelopment {
		return LevelDebug
	}
	return LevelHTTP
}

// ResolveLevel returns the override when it parses, otherwise the mode default.
// fellBack reports that a non-empty override was rejected.
func ResolveLevel(override string, mode Mode) (level Level, fellBack bool) {
	if strings.TrimSpace(override) == "" {
		return mode.DefaultLevel(), false
	}
	parsed, err := ParseLevel(override)
	if err != nil {
		return mode.DefaultLevel(), true
	}
	return parsed, false
}
