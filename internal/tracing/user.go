package tracing

import (
	"context"
	"sync"
)

type userKey struct{}

type userSlotKey struct{}

// userSlot is shared by every context derived from the request's entry
// context, so an id set deep in the chain is visible to outer middleware.
type userSlot struct {
	mu sync.Mutex
	id string
}

// WithUserSlot installs an empty user slot on ctx. The request pipeline calls it
// at entry; WithUserID calls made further down then fill the slot.
func WithUserSlot(ctx context.Context) context.Context {
	if _, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		return ctx
	}
	return context.WithValue(ctx, userSlotKey{}, &userSlot{})
}

// WithUserID attaches the authenticated user id to ctx. Authentication runs
// outside this module; it calls WithUserID so request loggers can bind the id.
func WithUserID(ctx context.Context, userID string) context.Context {
	if slot, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		slot.mu.Lock()
		slot.id = userID
		slot.mu.Unlock()
	}
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the user bound to ctx itself, else the one recorded in the
// request's slot.
func UserID(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(userKey{}).(string); ok && id != "" {
		return id, true
	}
	if slot, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		slot.mu.Lock()
		defer slot.mu.Unlock()
		return slot.id, slot.id != ""
	}
	return "", false
}
