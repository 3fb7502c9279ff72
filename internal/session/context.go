package session

import "context"

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeySessionID ContextKey = "sessionID"

func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeySessionID, id)
}

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeySessionID).(string)
	return id, ok && id != ""
}
