/*
Copyright © 2025 PackForge contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBuildYAML = `
docker:
  dockerfile: packaging/docker/Dockerfile
  imagename: myorg/forge
  build_function: docker
  archmaps:
    amd64:
      package_arch: amd64
    arm64:
      package_arch: arm64
portable:
  dockerfile: packaging/portable/Dockerfile
  imagename: forge-builder
  archivetypes: [zip]
  build_function: portable
`

func writeBuildConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "validate", "schema", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestBuildRejectsWrongArgCount(t *testing.T) {
	_, _, err := execute(t, "build", "v1.0.0")
	require.Error(t, err)
}

func TestBuildDryRunPrintsPlan(t *testing.T) {
	cfg := writeBuildConfig(t, testBuildYAML)

	stdout, _, err := execute(t, "build", "v10.9.0", "docker", "--build-config", cfg, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stdout, "docker (docker)")
	assert.Contains(t, stdout, "10.9.0 (stable: true)")
	assert.Contains(t, stdout, "amd64, arm64")
}

func TestBuildUnknownTypeFails(t *testing.T) {
	cfg := writeBuildConfig(t, testBuildYAML)

	_, _, err := execute(t, "build", "v10.9.0", "flatpak", "--build-config", cfg, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid build type")
}

func TestValidateReportsProblems(t *testing.T) {
	cfg := writeBuildConfig(t, `
broken:
  imagename: forge
  build_function: snapcraft
`)

	_, stderr, err := execute(t, "validate", "--build-config", cfg)
	require.Error(t, err)
	assert.Contains(t, stderr, "dockerfile is required")
	assert.Contains(t, stderr, "snapcraft")
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := writeBuildConfig(t, testBuildYAML)

	stdout, _, err := execute(t, "validate", "--build-config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 build type(s) OK")
}

func TestSchemaEmitsJSON(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"build_function"`)
	assert.Contains(t, stdout, `"archmaps"`)
}
