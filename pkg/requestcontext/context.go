// Package requestcontext carries request-scoped values through services that
// must not depend on net/http. Middleware writes them; the scheduler and CLI
// commands set only the time.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	actorKey key = iota
	clientIPKey
	userAgentKey
	requestIDKey
	nowKey
)

// ActorInfo is the caller asserted by a verified access token.
type ActorInfo struct {
	ID   string
	Name string
	Role string
}

// Authenticated reports whether the actor came from a verified token.
func (a ActorInfo) Authenticated() bool { return a.ID != "" }

func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// Actor returns the caller, or the zero ActorInfo when unauthenticated.
func Actor(ctx context.Context) ActorInfo { return value[ActorInfo](ctx, actorKey) }

func WithActor(ctx context.Context, actor ActorInfo) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ClientIP(ctx context.Context) string  { return value[string](ctx, clientIPKey) }
func UserAgent(ctx context.Context) string { return value[string](ctx, userAgentKey) }

// WithClientMetadata records where the request came from.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return context.WithValue(context.WithValue(ctx, clientIPKey, clientIP), userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string { return value[string](ctx, requestIDKey) }

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Now is the instant a request or refresh cycle evaluates against. Without one
// on the context it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(nowKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the evaluation instant, so one refresh cycle judges every ward
// against the same moment.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey, t)
}
