// Package wazero provides adapters for registering bridge host functions with the wazero runtime.
//
// A guest module imports the bridge functions from the "klawr_bridge" module.
// Every function takes and returns a packed i64 (upper 32 bits pointer,
// lower 32 bits length) addressing JSON in guest memory. The guest must
// export its memory and an "allocate(size i32) i32" function used for
// responses.
//
// # Basic Usage
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware(logger)),
//	    hostfuncs.WithBridge(session),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithCustomHandler(wazero.LogMessageHandler(logger, wazero.DefaultMaxRequestSize)),
//	)
package wazero
