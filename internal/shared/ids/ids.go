package ids

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewCorrelationID generates a random UUID v4 string (122 random bits).
var NewCorrelationID = func() string {
	return uuid.NewString()
}

// NewEventID generates a time-sortable ULID string for sink events.
var NewEventID = func() string {
	return ulid.Make().String()
}

// IsCorrelationID reports whether s has the shape of a generated correlation identifier.
func IsCorrelationID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
