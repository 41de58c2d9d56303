// Package testutil provides common test helpers for the bridge packages.
package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ExportPath returns a metadata document path inside a fresh temp dir.
func ExportPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), entities.DefaultExportPath)
}

// BridgeConfig returns a config that loads game and wrappers and exports to
// a temp dir.
func BridgeConfig(t *testing.T, game, wrappers string) entities.BridgeConfig {
	t.Helper()
	return entities.BridgeConfig{
		GameScriptsAssembly:   game,
		EngineWrapperAssembly: wrappers,
		ExportPath:            ExportPath(t),
	}
}

// JSONLogger returns a logger writing JSON records at level and above to
// the returned buffer.
func JSONLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

// LogRecords decodes the JSON records written by a JSONLogger.
func LogRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), "log line is not JSON: %s", sc.Text())
		records = append(records, rec)
	}
	require.NoError(t, sc.Err())
	return records
}

// FindRecord returns the first record whose message is msg.
func FindRecord(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, rec := range LogRecords(t, buf) {
		if rec[slog.MessageKey] == msg {
			return rec
		}
	}
	require.Failf(t, "log record not found", "no record with message %q in:\n%s", msg, buf.String())
	return nil
}

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// RequireErrorType asserts that detail is set and is of type typ.
func RequireErrorType(t *testing.T, detail *entities.ErrorDetail, typ string) {
	t.Helper()
	require.NotNil(t, detail, "expected a %s error", typ)
	assert.Equal(t, typ, detail.Type, "error detail: %s", detail.Message)
	assert.NotEmpty(t, detail.Message)
}
