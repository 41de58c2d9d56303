package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/examples/scripts"
	"github.com/klawr-dev/klawr-sdk/go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "klawr-export [options]")
	assert.Contains(t, out.String(), "-assembly")
}

func TestRun_Schema(t *testing.T) {
	for which, field := range map[string]string{"document": "classInfos", "config": "game_scripts_assembly"} {
		t.Run(which, func(t *testing.T) {
			var out, logs bytes.Buffer
			require.NoError(t, run(context.Background(), &out, &logs, []string{"-schema", which}))

			var doc struct {
				Properties map[string]any `json:"properties"`
			}
			require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
			assert.Contains(t, doc.Properties, field)
			assert.Empty(t, logs.String())
		})
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"stray argument", []string{"-assembly", scripts.GameAssembly, "extra"}, `unexpected argument "extra"`},
		{"no assembly", nil, "no game scripts assembly"},
		{"bad schema", []string{"-schema", "grid"}, "invalid schema"},
		{"bad log format", []string{"-assembly", scripts.GameAssembly, "-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"-assembly", scripts.GameAssembly, "-log-level", "loud"}, "log_level"},
		{"missing config", []string{"-config", "does-not-exist.yaml"}, "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			err := run(context.Background(), &out, &logs, tt.args)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.want)
		})
	}
}

func TestRun_Export(t *testing.T) {
	path := testutil.ExportPath(t)
	var out, logs bytes.Buffer

	err := run(context.Background(), &out, &logs, []string{
		"-assembly", scripts.GameAssembly,
		"-out", path,
		"-validate",
		"-print",
		"-log-format", "json",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	testutil.AssertJSONEqual(t, string(data), out.String())

	var info entities.AssemblyInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Empty(t, info.Errors)
	require.Len(t, info.ClassInfos, 1)
	assert.Equal(t, "Example.Spinner", info.ClassInfos[0].Name)
	require.Len(t, info.EnumInfos, 1)
	assert.Equal(t, "Example.Axis", info.EnumInfos[0].Name)

	rec := testutil.FindRecord(t, &logs, "export complete")
	assert.Equal(t, path, rec["path"])
	assert.EqualValues(t, 1, rec["classes"])
}

func TestRun_ExportFromConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "doc.json")
	cfgPath := filepath.Join(dir, "bridge.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
game_scripts_assembly = "`+scripts.GameAssembly+`"
export_path           = "`+filepath.ToSlash(out)+`"
log_level             = "warn"
`), 0o600))

	var stdout, logs bytes.Buffer
	require.NoError(t, run(context.Background(), &stdout, &logs, []string{"-config", cfgPath}))

	assert.FileExists(t, out)
	assert.Empty(t, stdout.String())
	assert.NotContains(t, logs.String(), "export complete")
}

func TestRun_UnknownAssembly(t *testing.T) {
	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, []string{
		"-assembly", "Missing.Scripts",
		"-out", filepath.Join(t.TempDir(), "doc.json"),
	})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, logs.String(), "Missing.Scripts")
}
