package hostfuncs

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/host"
	"github.com/klawr-dev/klawr-sdk/go/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(context.Context, []byte) ([]byte, error) { return nil, nil }

func decodeErrorResponse(t *testing.T, raw []byte) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &resp), "response: %s", raw)
	return resp
}

func TestNewRegistry_Empty(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, reg.Names())
	assert.Zero(t, reg.Len())
}

func TestNewRegistry_Bridge(t *testing.T) {
	reg, err := NewRegistry(WithBridge(host.NewSession()))
	require.NoError(t, err)

	assert.Equal(t, len(BridgeFunctions()), reg.Len())
	assert.Equal(t, slices.Sorted(slices.Values(BridgeFunctions())), reg.Names())
	for _, name := range BridgeFunctions() {
		assert.True(t, reg.Has(name), name)
	}

	h, ok := reg.Handler(FuncComponentTypes)
	require.True(t, ok)
	raw, err := h(context.Background(), nil)
	require.NoError(t, err)
	var resp wireformat.ComponentTypesResponseWire
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Empty(t, resp.Types)

	_, ok = reg.Handler("load_level")
	assert.False(t, ok)
}

func TestBridgeFunctions_MatchBridgeBundle(t *testing.T) {
	served := slices.Sorted(maps.Keys(BridgeBundle(host.NewSession()).Handlers()))
	assert.Equal(t, slices.Sorted(slices.Values(BridgeFunctions())), served)
}

func TestNewRegistry_MissingBridgeFunctions(t *testing.T) {
	s := host.NewSession()
	_, err := NewRegistry(
		WithBundle(LifecycleBundle(s)),
		WithRequired(BridgeFunctions()...),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing host functions")
	assert.Contains(t, err.Error(), FuncGetProperty)
	assert.Contains(t, err.Error(), FuncAssemblyInfo)
	assert.NotContains(t, err.Error(), FuncCreateComponent)
}

func TestNewRegistry_InvalidNames(t *testing.T) {
	tests := []struct {
		name    string
		fnName  string
		wantErr string
	}{
		{name: "empty", fnName: "", wantErr: "invalid host function name"},
		{name: "camel case", fnName: "getProperty", wantErr: "lower snake case"},
		{name: "leading digit", fnName: "2d_trace", wantErr: "invalid host function name"},
		{name: "dotted", fnName: "klawr.get_property", wantErr: "invalid host function name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(WithByteHandler(tt.fnName, nopHandler))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRegistry_DuplicateHandler(t *testing.T) {
	_, err := NewRegistry(
		WithBridge(host.NewSession()),
		WithByteHandler(FuncCallFunction, nopHandler),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate handler name")
	assert.Contains(t, err.Error(), FuncCallFunction)
}

func TestHandlerRegistry_Invoke(t *testing.T) {
	reg, err := NewRegistry(WithBridge(host.NewSession()))
	require.NoError(t, err)

	t.Run("dispatches to the bridge", func(t *testing.T) {
		raw, err := reg.Invoke(context.Background(), FuncGetNativeFunctions, []byte(` {"native_class":"UActor"}`))
		require.NoError(t, err)

		var resp wireformat.NativeFunctionsResponseWire
		require.NoError(t, json.Unmarshal(raw, &resp))
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "UActor")
	})

	t.Run("unknown function", func(t *testing.T) {
		raw, err := reg.Invoke(context.Background(), "load_level", []byte(`{}`))
		require.NoError(t, err)

		resp := decodeErrorResponse(t, raw)
		assert.Equal(t, "NOT_FOUND", resp.Error)
		assert.Equal(t, 404, resp.Code)
		assert.Contains(t, resp.Message, "load_level")
	})

	t.Run("payload is not an object", func(t *testing.T) {
		for _, payload := range []string{`[1,2]`, `"Game.Mover"`, `42`, `null`} {
			raw, err := reg.Invoke(context.Background(), FuncComponentInfo, []byte(payload))
			require.NoError(t, err)

			resp := decodeErrorResponse(t, raw)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error, payload)
			assert.Contains(t, resp.Message, FuncComponentInfo)
			assert.Contains(t, resp.Message, "JSON object")
		}
	})

	t.Run("empty payload reaches the handler", func(t *testing.T) {
		raw, err := reg.Invoke(context.Background(), FuncComponentTypes, nil)
		require.NoError(t, err)

		var resp wireformat.ComponentTypesResponseWire
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Empty(t, resp.Types)
	})
}

func TestHandlerRegistry_Invoke_SetsHostContext(t *testing.T) {
	var captured string
	reg, err := NewRegistry(
		WithByteHandler(FuncLoadAssembly, func(ctx context.Context, _ []byte) ([]byte, error) {
			if hc, ok := ctx.(HostContext); ok {
				captured = hc.FunctionName()
			}
			return nil, nil
		}),
	)
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), FuncLoadAssembly, []byte(`{"name":"Game.Scripts"}`))
	require.NoError(t, err)
	assert.Equal(t, FuncLoadAssembly, captured)
}

func TestWithMiddleware_Order(t *testing.T) {
	var calls []string
	trace := func(label string) Middleware {
		return func(next ByteHandler) ByteHandler {
			return func(ctx context.Context, payload []byte) ([]byte, error) {
				calls = append(calls, label+"-before")
				resp, err := next(ctx, payload)
				calls = append(calls, label+"-after")
				return resp, err
			}
		}
	}

	reg, err := NewRegistry(
		WithMiddleware(trace("recover"), trace("log")),
		WithByteHandler(FuncDestroyObject, func(context.Context, []byte) ([]byte, error) {
			calls = append(calls, "destroy")
			return nil, nil
		}),
	)
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), FuncDestroyObject, []byte(`{"instance_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"recover-before", "log-before", "destroy", "log-after", "recover-after"}, calls)

	calls = nil
	_, err = reg.Invoke(context.Background(), FuncDestroyObject, []byte(`[1]`))
	require.NoError(t, err)
	assert.Empty(t, calls)
}
