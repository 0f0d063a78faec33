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

package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packforge/packforge/config"
)

const resolveConfigYAML = `
debian:
  dockerfile: packaging/debian/Dockerfile
  imagename: forge-builder
  build_function: deb
  archmaps:
    amd64:
      package_arch: amd64
    arm64:
      package_arch: arm64
  releases:
    bookworm: "12"
    trixie: "13"
  cross_compilers:
    bookworm: "12"
    trixie: "13"
linux:
  dockerfile: packaging/portable/Dockerfile
  imagename: forge-builder
  archivetypes: [tar-gz, tar-xz]
  build_function: linux
  archmaps:
    amd64:
      package_arch: amd64
      runtime_arch: x64
portable:
  dockerfile: packaging/portable/Dockerfile
  imagename: forge-builder
  archivetypes: [zip]
  build_function: portable
docker:
  dockerfile: packaging/docker/Dockerfile
  imagename: myorg/forge
  build_function: docker
  archmaps:
    amd64:
      package_arch: amd64
      image_arch: amd64
    arm64:
      package_arch: arm64
      emulation_arch: aarch64
      image_arch: arm64v8
broken:
  dockerfile: packaging/broken/Dockerfile
  imagename: forge-builder
  build_function: snapcraft
`

func resolveTestRegistry(t *testing.T) *config.Registry {
	t.Helper()
	reg, err := config.ParseYAML([]byte(resolveConfigYAML))
	require.NoError(t, err)
	return reg
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return &Resolver{
		Registry: resolveTestRegistry(t),
		Now:      func() time.Time { return testClock },
	}
}

func TestResolveDebRequest(t *testing.T) {
	r := testResolver(t)

	resolved, err := r.Resolve(context.Background(), Request{
		Version:      "v10.9.0",
		BuildType:    "debian",
		Architecture: "arm64",
		OSVersion:    "bookworm",
	})
	require.NoError(t, err)

	assert.Equal(t, "10.9.0", resolved.Version.Normalized)
	assert.True(t, resolved.Version.Stable)
	assert.Equal(t, FunctionDeb, resolved.Function)
	assert.Equal(t, "packaging/debian/Dockerfile", resolved.Dockerfile)
	assert.Equal(t, "arm64", resolved.Architecture)
	assert.Equal(t, "arm64", resolved.ArchSpec.PackageArch)
	assert.Equal(t, "bookworm", resolved.OSVersionName)
	assert.Equal(t, "12", resolved.OSIdentifier)
	assert.Equal(t, "12", resolved.ToolchainVersion)
	assert.Equal(t, testClock, resolved.Stamp)
}

func TestResolveDockerRequestCarriesOrderedArches(t *testing.T) {
	r := testResolver(t)

	resolved, err := r.Resolve(context.Background(), Request{Version: "master", BuildType: "docker"})
	require.NoError(t, err)

	assert.Equal(t, []string{"amd64", "arm64"}, resolved.Architectures)
	assert.Equal(t, "aarch64", resolved.ArchSpecs["arm64"].EmulationArch)
	assert.Equal(t, "2024021613", resolved.Version.Normalized)
	assert.False(t, resolved.Version.Stable)
}

func TestResolveValidationFailures(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name      string
		req       Request
		wantField string
		wantValid []string
	}{
		{
			name:      "empty version",
			req:       Request{BuildType: "debian"},
			wantField: "version",
		},
		{
			name:      "unknown build type lists valid set",
			req:       Request{Version: "v1.0.0", BuildType: "fedora"},
			wantField: "build type",
			wantValid: []string{"debian", "linux", "portable", "docker", "broken"},
		},
		{
			name:      "missing architecture",
			req:       Request{Version: "v1.0.0", BuildType: "debian"},
			wantField: "architecture",
			wantValid: []string{"amd64", "arm64"},
		},
		{
			name:      "unknown architecture",
			req:       Request{Version: "v1.0.0", BuildType: "linux", Architecture: "riscv64"},
			wantField: "architecture",
			wantValid: []string{"amd64"},
		},
		{
			name:      "unknown OS version",
			req:       Request{Version: "v1.0.0", BuildType: "debian", Architecture: "amd64", OSVersion: "sid"},
			wantField: "OS version",
			wantValid: []string{"bookworm", "trixie"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantValid, verr.Valid)
		})
	}
}

func TestResolveSuggestsCloseMatch(t *testing.T) {
	r := testResolver(t)

	_, err := r.Resolve(context.Background(), Request{Version: "v1.0.0", BuildType: "debain"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "debian", verr.Suggestion)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestResolveUnknownFunctionIsMisconfiguration(t *testing.T) {
	r := testResolver(t)

	_, err := r.Resolve(context.Background(), Request{Version: "v1.0.0", BuildType: "broken"})
	var merr *MisconfigurationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "broken", merr.BuildType)
	assert.Contains(t, err.Error(), "report a bug")

	// Misconfiguration is not user error.
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}
