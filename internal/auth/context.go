package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated admin attached to a request.
type Identity struct {
	AdminID uuid.UUID
	Email   string
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying identity.
func NewContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the identity stored by NewContext.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(Identity)
	return identity, ok
}
