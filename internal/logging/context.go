package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey struct{}

// WithLogger attaches logger to ctx. A nil ctx starts from
// context.Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithFields attaches a child of the context's logger that adds keyvals to
// every entry.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
