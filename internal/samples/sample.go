package samples

import (
	"encoding/json"
	"time"
)

// Category partitions the registry's sample buffers.
type Category string

const (
	CategoryErrors      Category = "errors"
	CategoryWarnings    Category = "warnings"
	CategoryRequests    Category = "requests"
	CategoryPerformance Category = "performance"
)

// Categories lists every category in a stable order.
var Categories = []Category{CategoryErrors, CategoryWarnings, CategoryRequests, CategoryPerformance}

func (c Category) Valid() bool {
	switch c {
	case CategoryErrors, CategoryWarnings, CategoryRequests, CategoryPerformance:
		return true
	}
	return false
}

const (
	FieldDurationMs = "durationMs"
	FieldStatusCode = "statusCode"
	FieldOperation  = "operation"
	FieldSuccess    = "success"
)

// Sample is one record held by the registry. Fields are owned by the sample
// once recorded and must not be mutated afterwards.
type Sample struct {
	Timestamp time.Time
	Message   string
	Fields    map[string]any
}

// DurationMs extracts the numeric durationMs field, if present.
func (s Sample) DurationMs() (float64, bool) {
	return numberField(s.Fields, FieldDurationMs)
}

// StatusCode extracts the numeric statusCode field, if present.
func (s Sample) StatusCode() (int, bool) {
	v, ok := numberField(s.Fields, FieldStatusCode)
	return int(v), ok
}

// MarshalJSON flattens the sample into a single object.
func (s Sample) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Fields)+2)
	for k, v := range s.Fields {
		if err, ok := v.(error); ok {
			flat[k] = err.Error()
			continue
		}
		flat[k] = v
	}
	flat["timestamp"] = s.Timestamp.UTC().Format(time.RFC3339Nano)
	if s.Message != "" {
		flat["message"] = s.Message
	}
	return json.Marshal(flat)
}

func numberField(fields map[string]any, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case time.Duration:
		return float64(v) / float64(time.Millisecond), true
	}
	return 0, false
}
