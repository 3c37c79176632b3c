package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Log is the process-wide logger. It is a no-op until Init is called so that
// packages and tests can log without setup.
var Log = zap.NewNop()

// Init builds the global logger. Development mode uses zap's console encoder,
// production emits JSON.
func Init(service string, isDevelopment bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if isDevelopment {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l.With(zap.String("service", service))
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// WithContext stores a request scoped logger in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request scoped logger, or the global one.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return Log
}
