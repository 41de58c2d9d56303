package wazero

import (
	"context"
	"log/slog"

	"github.com/klawr-dev/klawr-sdk/go/log"
	"github.com/tetratelabs/wazero/api"
)

// LogMessageFunc is the export name of the handler built by LogMessageHandler.
const LogMessageFunc = "log_message"

// LogMessageHandler returns a custom handler that accepts a packed ptr+len of
// a serialized log.LogMessageWire and re-emits the record on logger. It has
// no result, so guests can log without allocating a response.
func LogMessageHandler(logger *slog.Logger, maxSize uint32) CustomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CustomHandler{
		Name:        LogMessageFunc,
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{},
		Handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			data, errResp, ok := readRequest(mod, stack[0], maxSize)
			if !ok {
				logger.ErrorContext(ctx, "wazero: "+errResp.Message, "function", LogMessageFunc)
				return
			}

			msg, err := log.DecodeMessage(data)
			if err != nil {
				logger.ErrorContext(ctx, "wazero: malformed log message", "error", err)
				return
			}
			emit(ctx, logger, CallerName(ctx, mod), msg)
		}),
	}
}

func emit(ctx context.Context, logger *slog.Logger, caller string, msg log.LogMessageWire) {
	attrs := append([]slog.Attr{slog.String("caller", caller)}, msg.SlogAttrs()...)
	logger.LogAttrs(ctx, msg.SlogLevel(), msg.Message, attrs...)
}
