package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"time"
)

// Value types carried in LogAttrWire.Type.
const (
	TypeString   = "string"
	TypeInt64    = "int64"
	TypeUint64   = "uint64"
	TypeBool     = "bool"
	TypeFloat64  = "float64"
	TypeTime     = "time"
	TypeDuration = "duration"
	TypeError    = "error"
	TypeJSON     = "json"
	TypeAny      = "any"
)

// LogMessageWire is the JSON wire format of a log record sent to the host.
// Grouped attributes arrive flattened under dotted keys.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`
	Attrs     []LogAttrWire `json:"attrs,omitempty"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	Source    string        `json:"source,omitempty"`
}

// LogAttrWire is one attribute with its value rendered as text.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DecodeMessage parses one serialized LogMessageWire.
func DecodeMessage(data []byte) (LogMessageWire, error) {
	var msg LogMessageWire
	if err := json.Unmarshal(data, &msg); err != nil {
		return LogMessageWire{}, fmt.Errorf("decode log message: %w", err)
	}
	return msg, nil
}

// SlogLevel returns the record level. Unknown levels read as Info.
func (m LogMessageWire) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(m.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// SlogAttrs returns the typed attributes of the record, led by a "source"
// attribute when the record carries one.
func (m LogMessageWire) SlogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(m.Attrs)+1)
	if m.Source != "" {
		attrs = append(attrs, slog.String("source", m.Source))
	}
	for _, a := range m.Attrs {
		attrs = append(attrs, a.Attr())
	}
	return attrs
}

// Attr rebuilds the typed attribute. A value that does not parse as its
// declared type comes back as a string.
func (a LogAttrWire) Attr() slog.Attr {
	switch a.Type {
	case TypeInt64:
		if v, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
			return slog.Int64(a.Key, v)
		}
	case TypeUint64:
		if v, err := strconv.ParseUint(a.Value, 10, 64); err == nil {
			return slog.Uint64(a.Key, v)
		}
	case TypeBool:
		if v, err := strconv.ParseBool(a.Value); err == nil {
			return slog.Bool(a.Key, v)
		}
	case TypeFloat64:
		if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return slog.Float64(a.Key, v)
		}
	case TypeTime:
		if v, err := time.Parse(time.RFC3339Nano, a.Value); err == nil {
			return slog.Time(a.Key, v)
		}
	case TypeDuration:
		if v, err := time.ParseDuration(a.Value); err == nil {
			return slog.Duration(a.Key, v)
		}
	case TypeJSON:
		if json.Valid([]byte(a.Value)) {
			return slog.Any(a.Key, json.RawMessage(a.Value))
		}
	}
	return slog.String(a.Key, a.Value)
}

// encodeRecord serializes r. base holds the handler's already flattened
// attributes; the record's own attributes are flattened under groups. A
// record that cannot be marshaled is replaced by an error record naming the
// original message.
func encodeRecord(r slog.Record, base []LogAttrWire, groups []string, addSource bool) []byte {
	msg := LogMessageWire{
		Level:     r.Level.String(),
		Message:   r.Message,
		Timestamp: r.Time,
		Attrs:     slices.Clone(base),
	}
	if addSource {
		msg.Source = sourceOf(r.PC)
	}
	r.Attrs(func(a slog.Attr) bool {
		msg.Attrs = flattenAttr(msg.Attrs, groups, a)
		return true
	})

	data, err := json.Marshal(msg)
	if err != nil {
		data, _ = json.Marshal(LogMessageWire{
			Level:     slog.LevelError.String(),
			Message:   fmt.Sprintf("failed to marshal log message: %v, original: %s", err, r.Message),
			Timestamp: time.Now(),
		})
	}
	return data
}

// sourceOf renders the call site of pc as file:line.
func sourceOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	return f.File + ":" + strconv.Itoa(f.Line)
}

// flattenAttr appends attr to dst with groups folded into a dotted key.
// Empty attributes and empty groups are dropped; a group with an empty key
// is inlined.
func flattenAttr(dst []LogAttrWire, groups []string, attr slog.Attr) []LogAttrWire {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(slices.Clone(groups), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			dst = flattenAttr(dst, inner, a)
		}
		return dst
	}
	for i := len(groups) - 1; i >= 0; i-- {
		attr.Key = groups[i] + "." + attr.Key
	}
	return append(dst, encodeAttr(attr))
}

// encodeAttr renders a resolved, non-group attribute.
func encodeAttr(attr slog.Attr) LogAttrWire {
	wire := LogAttrWire{Key: attr.Key}
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		wire.Type, wire.Value = TypeString, v.String()
	case slog.KindInt64:
		wire.Type, wire.Value = TypeInt64, strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		wire.Type, wire.Value = TypeUint64, strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		wire.Type, wire.Value = TypeBool, strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		wire.Type, wire.Value = TypeFloat64, strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type, wire.Value = TypeTime, v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type, wire.Value = TypeDuration, v.Duration().String()
	default:
		wire.Type, wire.Value = encodeAny(v.Any())
	}
	return wire
}

func encodeAny(v any) (typ, value string) {
	switch x := v.(type) {
	case nil:
		return TypeAny, "<nil>"
	case error:
		return TypeError, x.Error()
	}
	if data, err := json.Marshal(v); err == nil {
		return TypeJSON, string(data)
	}
	return TypeAny, fmt.Sprintf("%v", v)
}
