package service

import "context"

type actorKey struct{}

// systemActor is recorded on events when no caller identity is known.
const systemActor = "system"

// WithActor attaches the name of the authenticated caller to ctx.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFromContext returns the caller name set by WithActor, or "system".
func ActorFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return systemActor
}
