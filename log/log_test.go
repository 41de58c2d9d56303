package log

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAttr(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{name: "string", attr: slog.String("class", "Game.Mover"), wantType: TypeString, wantVal: "Game.Mover"},
		{name: "int64", attr: slog.Int("id", 7), wantType: TypeInt64, wantVal: "7"},
		{name: "uint64", attr: slog.Uint64("native", 0xbeef), wantType: TypeUint64, wantVal: "48879"},
		{name: "bool", attr: slog.Bool("advanced", true), wantType: TypeBool, wantVal: "true"},
		{name: "float64 keeps precision", attr: slog.Float64("dt", 0.016), wantType: TypeFloat64, wantVal: "0.016"},
		{name: "time", attr: slog.Time("at", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), wantType: TypeTime, wantVal: "2024-01-01T00:00:00Z"},
		{name: "duration", attr: slog.Duration("took", 1500*time.Millisecond), wantType: TypeDuration, wantVal: "1.5s"},
		{name: "error", attr: slog.Any("error", errors.New("boom")), wantType: TypeError, wantVal: "boom"},
		{name: "nil", attr: slog.Any("result", nil), wantType: TypeAny, wantVal: "<nil>"},
		{name: "json", attr: slog.Any("params", []string{"n", "speed"}), wantType: TypeJSON, wantVal: `["n","speed"]`},
		{name: "unencodable", attr: slog.Any("fn", func() {}), wantType: TypeAny},
		{name: "log valuer", attr: slog.Any("handle", logValuer{val: "0x10"}), wantType: TypeString, wantVal: "0x10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := encodeAttr(tt.attr)
			assert.Equal(t, tt.attr.Key, wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			if tt.wantVal != "" {
				assert.Equal(t, tt.wantVal, wire.Value)
			}
		})
	}
}

func TestFlattenAttr(t *testing.T) {
	var attrs []LogAttrWire
	attrs = flattenAttr(attrs, []string{"call"}, slog.Group("arg", slog.Int("index", 1), slog.String("type", "float")))
	attrs = flattenAttr(attrs, []string{"call"}, slog.Group("", slog.String("method", "Bump")))
	attrs = flattenAttr(attrs, nil, slog.Group("empty"))
	attrs = flattenAttr(attrs, nil, slog.Attr{})

	assert.Equal(t, []LogAttrWire{
		{Key: "call.arg.index", Type: TypeInt64, Value: "1"},
		{Key: "call.arg.type", Type: TypeString, Value: "float"},
		{Key: "call.method", Type: TypeString, Value: "Bump"},
	}, attrs)
}

func TestEncodeRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := slog.NewRecord(at, slog.LevelWarn, "tick skipped", 0)
	r.AddAttrs(slog.Int("id", 3))

	base := []LogAttrWire{{Key: "component", Type: TypeString, Value: "registry"}}
	msg, err := DecodeMessage(encodeRecord(r, base, []string{"tick"}, true))
	require.NoError(t, err)

	assert.Equal(t, "WARN", msg.Level)
	assert.Equal(t, "tick skipped", msg.Message)
	assert.True(t, at.Equal(msg.Timestamp))
	assert.Empty(t, msg.Source, "a record without a pc has no source")
	assert.Equal(t, []LogAttrWire{
		{Key: "component", Type: TypeString, Value: "registry"},
		{Key: "tick.id", Type: TypeInt64, Value: "3"},
	}, msg.Attrs)
	assert.Len(t, base, 1)
}

func TestEncodeRecord_Unencodable(t *testing.T) {
	r := slog.NewRecord(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "far future", 0)

	msg, err := DecodeMessage(encodeRecord(r, nil, nil, false))
	require.NoError(t, err)
	assert.Equal(t, "ERROR", msg.Level)
	assert.Contains(t, msg.Message, "failed to marshal log message")
	assert.Contains(t, msg.Message, "far future")
}

func TestDecodeMessage(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{
		"level": "WARN+2",
		"message": "component created",
		"source": "mover.go:12",
		"attrs": [
			{"key": "id", "type": "int64", "value": "3"},
			{"key": "native", "type": "uint64", "value": "4096"},
			{"key": "ok", "type": "bool", "value": "true"},
			{"key": "dt", "type": "float64", "value": "0.25"},
			{"key": "took", "type": "duration", "value": "2ms"},
			{"key": "params", "type": "json", "value": "[\"n\"]"},
			{"key": "count", "type": "int64", "value": "many"},
			{"key": "error", "type": "error", "value": "boom"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn+2, msg.SlogLevel())

	attrs := msg.SlogAttrs()
	require.Len(t, attrs, 9)
	assert.Equal(t, slog.String("source", "mover.go:12"), attrs[0])
	assert.Equal(t, slog.Int64("id", 3), attrs[1])
	assert.Equal(t, slog.Uint64("native", 4096), attrs[2])
	assert.Equal(t, slog.Bool("ok", true), attrs[3])
	assert.Equal(t, slog.Float64("dt", 0.25), attrs[4])
	assert.Equal(t, slog.Duration("took", 2*time.Millisecond), attrs[5])
	assert.Equal(t, json.RawMessage(`["n"]`), attrs[6].Value.Any())
	assert.Equal(t, slog.String("count", "many"), attrs[7])
	assert.Equal(t, slog.String("error", "boom"), attrs[8])

	t.Run("unknown level", func(t *testing.T) {
		assert.Equal(t, slog.LevelInfo, LogMessageWire{Level: "LOUD"}.SlogLevel())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeMessage([]byte(`{"level":`))
		assert.ErrorContains(t, err, "decode log message")
	})
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

type captureSink struct {
	messages []LogMessageWire
}

func (c *captureSink) sink(_ context.Context, data []byte) {
	var msg LogMessageWire
	if err := json.Unmarshal(data, &msg); err == nil {
		c.messages = append(c.messages, msg)
	}
}

func attrMap(attrs []LogAttrWire) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Key] = a.Value
	}
	return out
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(nil)
	assert.NotNil(t, h)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func TestNewHandler_Options(t *testing.T) {
	var c captureSink
	logger := slog.New(NewHandler(c.sink,
		WithLevel(slog.LevelDebug),
		WithSource(true),
	))

	logger.Debug("loading assembly", "name", "Game.Scripts")

	require.Len(t, c.messages, 1)
	msg := c.messages[0]
	assert.Equal(t, "DEBUG", msg.Level)
	assert.Equal(t, "loading assembly", msg.Message)
	assert.Contains(t, msg.Source, "log_test.go:")
	assert.Equal(t, map[string]string{"name": "Game.Scripts"}, attrMap(msg.Attrs))
}

func TestNativeHandler_LevelVar(t *testing.T) {
	var c captureSink
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	logger := slog.New(NewHandler(c.sink, WithLevel(&level)))

	logger.Info("dropped")
	level.Set(slog.LevelInfo)
	logger.Info("kept")

	require.Len(t, c.messages, 1)
	assert.Equal(t, "kept", c.messages[0].Message)
}

func TestNativeHandler_AttrsAndGroups(t *testing.T) {
	var c captureSink
	logger := slog.New(NewHandler(c.sink)).
		With("component", "marshal").
		WithGroup("call").
		With("class", "Game.Mover")

	logger.Error("script call failed",
		"method", "Bump",
		slog.Group("arg", slog.Int("index", 0)),
		slog.Any("error", errors.New("boom")),
	)

	require.Len(t, c.messages, 1)
	assert.Equal(t, map[string]string{
		"component":      "marshal",
		"call.class":     "Game.Mover",
		"call.method":    "Bump",
		"call.arg.index": "0",
		"call.error":     "boom",
	}, attrMap(c.messages[0].Attrs))
}

func TestNativeHandler_WithAttrsDoesNotLeak(t *testing.T) {
	var c captureSink
	base := slog.New(NewHandler(c.sink))
	_ = base.With("id", 1)

	base.Info("plain")

	require.Len(t, c.messages, 1)
	assert.Empty(t, c.messages[0].Attrs)
}

func TestWriter(t *testing.T) {
	var c captureSink
	w := NewWriter(slog.New(NewHandler(c.sink, WithLevel(slog.LevelDebug))), slog.LevelDebug)

	n, err := w.Write([]byte("first line\nsecond "))
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	require.Len(t, c.messages, 1)
	assert.Equal(t, "first line", c.messages[0].Message)

	_, err = w.Write([]byte("half\r\n\n"))
	require.NoError(t, err)
	require.Len(t, c.messages, 2)
	assert.Equal(t, "second half", c.messages[1].Message)
	assert.Equal(t, "DEBUG", c.messages[1].Level)

	_, _ = w.Write([]byte("tail"))
	w.Flush()
	require.Len(t, c.messages, 3)
	assert.Equal(t, "tail", c.messages[2].Message)
}
