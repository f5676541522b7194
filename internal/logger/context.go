package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or a no-op logger when none is set.
func FromContext(ctx context.Context) *zap.Logger {
	return Or(ctx, zap.NewNop())
}

// Or returns the request-scoped logger, falling back to the given one.
func Or(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// With attaches fields to the request-scoped logger. Contexts without one are returned unchanged.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	l, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok || l == nil {
		return ctx
	}
	return ContextWithLogger(ctx, l.With(fields...))
}
