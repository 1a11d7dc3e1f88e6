// Package core implements small pieces of ambient infrastructure shared
// across empack: logging, process-result helpers, and generic utilities.
package core

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init initializes zap's global logger.
// After calling this, use zap.L() directly.
// The logger always writes to stderr, so stdout stays free for artifact
// paths, dry-run plans, and JSON output that downstream tools may parse.
func Init(pretty bool) error {
	var config zap.Config

	if pretty {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// LogProcessExecution logs the outcome of a subprocess run launched through
// the session's process capability.
func LogProcessExecution(program string, duration float64, err error) {
	fields := []zap.Field{
		zap.String("program", program),
		zap.Float64("duration_seconds", duration),
		zap.Bool("success", err == nil),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))
		zap.L().Error("process execution failed", fields...)
		return
	}

	zap.L().Info("process execution completed", fields...)
}

// LogPanicRecovery logs a recovered panic with a stack trace.
func LogPanicRecovery(component string, r interface{}) {
	zap.L().Error("panic recovered",
		zap.String("component", component),
		zap.Any("panic_value", r),
		zap.Stack("stack_trace"),
	)
}

// LogDeferredError calls fn and logs the error if it is not nil.
// Intended for use in defer statements where the error has no other
// path to the caller, e.g. defer core.LogDeferredError(file.Close).
func LogDeferredError(fn func() error) {
	if err := fn(); err != nil {
		zap.L().Error("deferred error", zap.Error(err), zap.Stack("stack_trace"))
	}
}

// LogDeferredError1 is LogDeferredError for a function that takes one argument.
func LogDeferredError1[T any](fn func(T) error, arg T) {
	if err := fn(arg); err != nil {
		zap.L().Error("deferred error", zap.Error(err), zap.Stack("stack_trace"))
	}
}
