package domain

import (
	"context"
	"strings"
)

type callerKey struct{}

// Caller identifies the user a query runs for. Both fields may be empty.
type Caller struct {
	ID    string
	Email string
}

// IsZero reports whether no identity is known.
func (c Caller) IsZero() bool {
	return strings.TrimSpace(c.ID) == "" && strings.TrimSpace(c.Email) == ""
}

// ContextWithCaller returns a context carrying the caller identity.
func ContextWithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext extracts the caller identity. Returns the zero Caller if not set.
func CallerFromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}
