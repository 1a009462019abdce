// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/pretty"
)

func noEnv(string) (string, bool) {
	return "", false
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--no-color"}, args...)
	status := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, noEnv)
	return status, stdout.String(), stderr.String()
}

func TestRunStdinJSON(t *testing.T) {
	status, stdout, stderr := runCLI(t, `{"b": [1, 2.5], "a": null}`, "-")
	require.Equal(t, 0, status, stderr)
	require.Equal(t, `{"b":[1,2.5],"a":null}`, string(pretty.Ugly([]byte(stdout))))
}

func TestRunOutputDirectoryYAML(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(in, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "docs", "a.json"), []byte(`{"name":"a","tags":["x","y"]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "docs", "b.json"), []byte(`[true, false]`), 0o644))

	status, stdout, stderr := runCLI(t, "", "--root", in, "--output", out, "--format", "yaml", "docs")
	require.Equal(t, 0, status, stderr)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "wrote /docs/a.yaml")
	require.Contains(t, stderr, "wrote /docs/b.yaml")

	b, err := os.ReadFile(filepath.Join(out, "docs", "a.yaml"))
	require.NoError(t, err)
	var doc struct {
		Name string   `yaml:"name"`
		Tags []string `yaml:"tags"`
	}
	require.NoError(t, yaml.Unmarshal(b, &doc))
	require.Equal(t, "a", doc.Name)
	require.Equal(t, []string{"x", "y"}, doc.Tags)

	b, err = os.ReadFile(filepath.Join(out, "docs", "b.yaml"))
	require.NoError(t, err)
	var list []bool
	require.NoError(t, yaml.Unmarshal(b, &list))
	require.Equal(t, []bool{true, false}, list)
}

func TestRunParseFailure(t *testing.T) {
	status, stdout, stderr := runCLI(t, `[1 2]`, "-")
	require.Equal(t, 1, status)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "/stdin.json:1:4 -- M0005: unexpected '2' (expecting ,, ])")
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		status int
		stderr string
	}{
		{name: "no inputs", status: 2, stderr: "no inputs given"},
		{name: "bad format", args: []string{"--format", "toml", "-"}, status: 2, stderr: "M0012"},
		{name: "unknown flag", args: []string{"--bogus"}, status: 2, stderr: "bogus"},
		{name: "missing input", args: []string{"--root", "testdata-does-not-exist", "missing.json"}, status: 1, stderr: "M0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, stderr := runCLI(t, "", tt.args...)
			require.Equal(t, tt.status, status)
			require.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestRunHugeExponent(t *testing.T) {
	status, stdout, stderr := runCLI(t, "1e400000000\n", "-")
	require.Equal(t, 1, status)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "/stdin.json:1:1 -- M0005: unexpected '1'")
}
