// Package session carries the authenticated actor on a request context.
package session

import (
	"context"

	"github.com/WillSeigler/Bookd/internal/apperr"
)

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// RequireUserID is UserID for paths that must not run anonymously.
func RequireUserID(ctx context.Context) (string, error) {
	id, ok := UserID(ctx)
	if !ok {
		return "", apperr.ErrUnauthenticated
	}
	return id, nil
}
