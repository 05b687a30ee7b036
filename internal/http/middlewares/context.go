package middlewares

import (
	"context"

	"github.com/todolabs/todolist/internal/token"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyClaims
	ctxKeyUserID
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID returns the request ID injected by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// WithClaims stores the verified access credential claims.
func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// GetClaims returns the claims set by RequireAuth, or nil.
func GetClaims(ctx context.Context) *token.Claims {
	v, _ := ctx.Value(ctxKeyClaims).(*token.Claims)
	return v
}

// WithUserID stores the authenticated user ID.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, id)
}

// GetUserID returns the authenticated user ID, or "".
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}
