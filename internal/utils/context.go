// Package utils provides general-purpose helpers used across the client and
// server: typed context keys, JSON response writing, JWT generation and
// validation, and UUID creation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. A dedicated type prevents
// collisions with string keys set by other packages.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key under which the authenticated user's ID is stored
// in the request context by the bearer-auth middleware.
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user's ID from ctx.
// ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
