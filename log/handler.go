// Package log routes slog records and script output to the native host's log.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
)

// Sink receives one serialized LogMessageWire per record. It is usually a
// thin wrapper around the native host's log function.
type Sink func(ctx context.Context, message []byte)

// NativeHandler implements slog.Handler by forwarding records to a Sink.
type NativeHandler struct {
	sink   Sink
	mu     *sync.Mutex
	attrs  []LogAttrWire
	groups []string
	opts   handlerConfig
}

// HandlerOption configures the NativeHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Leveler
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report. A *slog.LevelVar may be
// passed to change the level at run time.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a NativeHandler writing to sink. A nil sink writes the
// serialized records to stderr, one per line.
func NewHandler(sink Sink, opts ...HandlerOption) *NativeHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if sink == nil {
		sink = func(_ context.Context, msg []byte) {
			fmt.Fprintln(os.Stderr, string(msg))
		}
	}
	return &NativeHandler{sink: sink, opts: cfg, mu: &sync.Mutex{}}
}

// Enabled reports whether the handler handles records at the given level.
func (h *NativeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle serializes a record and passes it to the sink. Serialization
// failures are reported through the sink as a plain error record.
func (h *NativeHandler) Handle(ctx context.Context, record slog.Record) error {
	data := encodeRecord(record, h.attrs, h.groups, h.opts.addSource)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sink(ctx, data)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *NativeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandler := *h
	newHandler.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		newHandler.attrs = flattenAttr(newHandler.attrs, h.groups, a)
	}
	return &newHandler
}

// WithGroup returns a handler that qualifies subsequent attribute keys with
// name.
func (h *NativeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.groups = append(slices.Clone(h.groups), name)
	return &newHandler
}
