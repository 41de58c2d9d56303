package hostfuncs

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// Middleware is a function that wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	tracing := func(next ByteHandler) ByteHandler {
//	    return func(ctx context.Context, payload []byte) ([]byte, error) {
//	        span := start(ctx)
//	        defer span.End()
//	        return next(ctx, payload)
//	    }
//	}
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON instead of crashing the host. A
// non-nil logger receives the panic with its stack.
func PanicRecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					if logger != nil {
						logger.ErrorContext(ctx, "host function panicked",
							"function", functionName(ctx), "panic", r, "stack", string(debug.Stack()))
					}
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs every host function
// invocation at debug level and failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := functionName(ctx)
			started := time.Now()
			if hc, ok := ctx.(HostContext); ok {
				started = hc.StartedAt()
			}

			logger.DebugContext(ctx, "invoking host function", "function", name, "request_bytes", len(payload))
			resp, err := next(ctx, payload)
			if err != nil {
				logger.ErrorContext(ctx, "host function failed", "function", name, "error", err)
			} else {
				logger.DebugContext(ctx, "host function completed",
					"function", name, "response_bytes", len(resp), "duration", time.Since(started))
			}
			return resp, err
		}
	}
}

func functionName(ctx context.Context) string {
	if hc, ok := ctx.(HostContext); ok {
		return hc.FunctionName()
	}
	return "unknown"
}
