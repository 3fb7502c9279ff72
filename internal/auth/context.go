package auth

import (
	"context"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// ContextKeyToken is the key for the stored access token in request context
const ContextKeyToken ContextKey = "accessToken"

func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeyToken, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ContextKeyToken).(string)
	return token, ok && token != ""
}

// SignedIn reports whether the request's session holds a token.
func SignedIn(ctx context.Context) bool {
	_, ok := TokenFromContext(ctx)
	return ok
}
