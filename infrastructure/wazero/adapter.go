// Package wazero provides adapters for registering bridge host functions with the wazero runtime.
package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/klawr-dev/klawr-sdk/go/hostfuncs"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	// DefaultModuleName is the import module name guests use for the bridge.
	DefaultModuleName = "klawr_bridge"

	// DefaultMaxRequestSize bounds a single request read from guest memory.
	DefaultMaxRequestSize uint32 = 1 << 20
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	Logger *slog.Logger

	// ModuleName is the host module name (default: "klawr_bridge").
	ModuleName string

	// CustomHandlers allows adding additional wazero-specific handlers that
	// don't fit the standard ByteHandler pattern (e.g., log_message with no return).
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of incoming requests from guest memory.
	MaxRequestSize uint32
}

// CustomHandler represents a custom wazero handler that doesn't use the standard
// packed i64 request/response pattern.
type CustomHandler struct {
	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// Name is the exported function name.
	Name string

	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the logger for adapter failures.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Logger:         slog.Default(),
		ModuleName:     DefaultModuleName,
		MaxRequestSize: DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime registers all handlers from a HandlerRegistry with a wazero runtime.
// This creates a host module with the configured name and exports every
// handler of the registry.
//
// Each handler is wrapped to:
//   - Read request bytes from guest memory using the packed i64 ptr+len format
//   - Invoke the ByteHandler with the request payload
//   - Allocate response memory in the guest using the "allocate" export
//   - Write response bytes to guest memory
//   - Return packed i64 ptr+len of the response
//
// Example:
//
//	registry, _ := hostfuncs.NewRegistry(
//	    hostfuncs.WithBridge(session),
//	)
//	err := wazero.RegisterWithRuntime(ctx, runtime, registry)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostfuncs.HandlerRegistry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, name := range registry.Names() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleRegistryCall(ctx, mod, stack, registry, name, &cfg)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(name)
	}

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("instantiate host module %s: %w", cfg.ModuleName, err)
	}
	return nil
}

// handleRegistryCall reads the request from guest memory, invokes the
// handler and writes the response back.
func handleRegistryCall(ctx context.Context, mod api.Module, stack []uint64, registry *hostfuncs.HandlerRegistry, name string, cfg *AdapterConfig) {
	logger := cfg.Logger.With("function", name, "caller", CallerName(ctx, mod))

	requestBytes, errResp, ok := readRequest(mod, stack[0], cfg.MaxRequestSize)
	if !ok {
		logger.ErrorContext(ctx, "wazero: "+errResp.Message)
		stack[0] = writeResponse(ctx, logger, mod, errResp.ToJSON())
		return
	}

	responseBytes, err := registry.Invoke(WithCallerName(ctx, CallerName(ctx, mod)), name, requestBytes)
	if err != nil {
		logger.ErrorContext(ctx, "wazero: handler invocation failed", "error", err)
		stack[0] = writeResponse(ctx, logger, mod, hostfuncs.NewInternalError(err.Error()).ToJSON())
		return
	}

	stack[0] = writeResponse(ctx, logger, mod, responseBytes)
}

// readRequest copies the packed ptr+len region out of guest memory.
func readRequest(mod api.Module, packed uint64, maxRequestSize uint32) ([]byte, hostfuncs.ErrorResponse, bool) {
	ptr, length := unpackPtrLen(packed)
	if length > maxRequestSize {
		return nil, hostfuncs.NewValidationError(fmt.Sprintf("request size %d exceeds maximum %d bytes", length, maxRequestSize)), false
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, hostfuncs.NewInternalError("guest module exports no memory"), false
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, hostfuncs.NewInternalError("failed to read request from guest memory"), false
	}
	// The view aliases guest memory, which the guest may reuse during the call.
	return append([]byte(nil), data...), hostfuncs.ErrorResponse{}, true
}

// writeResponse allocates memory in the guest and writes the response bytes.
// Returns packed ptr+len or 0 on failure.
func writeResponse(ctx context.Context, logger *slog.Logger, mod api.Module, data []byte) uint64 {
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.ErrorContext(ctx, "wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "wazero: failed to write response to guest memory", "ptr", ptr, "size", len(data))
		return 0
	}

	return packPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: Data length is bounded by guest memory
}

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}
