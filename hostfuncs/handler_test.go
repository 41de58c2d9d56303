package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONHandler(t *testing.T) {
	// Define a simple test function
	type TestReq struct {
		Input string `json:"input"`
	}
	type TestResp struct {
		Output string `json:"output"`
	}

	echoFunc := func(ctx context.Context, req TestReq) TestResp {
		return TestResp{Output: "echo: " + req.Input}
	}

	handler := NewJSONHandler(echoFunc)

	t.Run("success", func(t *testing.T) {
		req := TestReq{Input: "hello"}
		reqBytes, err := json.Marshal(req)
		require.NoError(t, err)

		respBytes, err := handler(context.Background(), reqBytes)
		require.NoError(t, err)

		var resp TestResp
		err = json.Unmarshal(respBytes, &resp)
		require.NoError(t, err)
		assert.Equal(t, "echo: hello", resp.Output)
	})

	t.Run("invalid JSON returns ErrorResponse", func(t *testing.T) {
		// NewJSONHandler now returns structured JSON error instead of Go error
		respBytes, err := handler(context.Background(), []byte("{invalid-json"))
		require.NoError(t, err) // No Go error
		require.NotNil(t, respBytes)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(respBytes, &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
		assert.Equal(t, 400, errResp.Code)
		assert.Contains(t, errResp.Message, "unmarshal")
	})
}

func TestNewJSONHandler_Validation(t *testing.T) {
	handler := NewJSONHandler(func(ctx context.Context, req wireformat.CreateRequestWire) wireformat.CreateResponseWire {
		return wireformat.CreateResponseWire{InstanceID: 1}
	})

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "valid", payload: `{"class_name":"Game.Mover","native":4096}`},
		{name: "missing class", payload: `{"native":4096}`, wantErr: "VALIDATION_ERROR"},
		{name: "bad class name", payload: `{"class_name":"Game..Mover"}`, wantErr: "VALIDATION_ERROR"},
		{name: "empty payload", payload: ``, wantErr: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			respBytes, err := handler(context.Background(), []byte(tt.payload))
			require.NoError(t, err)

			if tt.wantErr == "" {
				var resp wireformat.CreateResponseWire
				require.NoError(t, json.Unmarshal(respBytes, &resp))
				assert.Equal(t, entities.InstanceID(1), resp.InstanceID)
				return
			}

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(respBytes, &errResp))
			assert.Equal(t, tt.wantErr, errResp.Error)
			assert.Contains(t, errResp.Message, "invalid request")
		})
	}
}

func TestNewJSONHandler_NonStructRequest(t *testing.T) {
	handler := NewJSONHandler(func(ctx context.Context, names []string) int {
		return len(names)
	})

	respBytes, err := handler(context.Background(), []byte(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, "2", string(respBytes))
}
