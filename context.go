package barter

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// DefaultLogger is returned by GetLogger for contexts without a logger. It
// drops everything.
var DefaultLogger = log.NewNopLogger()

type contextKey int

const (
	contextKeyLogger contextKey = iota
)

// WithLogger sets the logger for this context. Every operation that logs
// reads the logger back using GetLogger.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo returns a context whose logger attaches keyvals to every
// entry, for example the module and operation being run.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the logger set with WithLogger, or DefaultLogger.
func GetLogger(ctx context.Context) log.Logger {
	if ctx == nil {
		return DefaultLogger
	}
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok || val == nil {
		return DefaultLogger
	}
	return val
}
