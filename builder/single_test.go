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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packforge/packforge/engine"
)

func resolveFor(t *testing.T, req Request) *ResolvedRequest {
	t.Helper()
	resolved, err := testResolver(t).Resolve(context.Background(), req)
	require.NoError(t, err)
	return resolved
}

func TestSingleBuildDebNames(t *testing.T) {
	eng := newFakeEngine()
	b := &SingleTargetBuilder{Engine: eng, RepoRoot: "/repo"}

	result, err := b.Build(context.Background(), resolveFor(t, Request{
		Version:      "v10.9.0",
		BuildType:    "debian",
		Architecture: "amd64",
		OSVersion:    "bookworm",
	}))
	require.NoError(t, err)

	assert.Equal(t, "forge-builder-10.9.0_amd64-debian-bookworm", result.Image)
	assert.Equal(t, "/repo/out/debian", result.OutputDir)
	require.Equal(t, []string{"build", "run"}, eng.ops())

	build := eng.calls[0].detail.(engine.BuildImageOptions)
	assert.Equal(t, "/repo/packaging/debian/Dockerfile", build.Dockerfile)
	assert.Equal(t, "/repo", build.ContextDir)
	assert.Equal(t, map[string]string{
		"PACKAGE_TYPE":      "debian",
		"PACKAGE_VERSION":   "12",
		"PACKAGE_ARCH":      "amd64",
		"TOOLCHAIN_VERSION": "12",
	}, build.BuildArgs)

	run := eng.calls[1].detail.(engine.RunContainerOptions)
	assert.Equal(t, map[string]string{"BUILD_VERSION": "10.9.0"}, run.Env)
	assert.Equal(t, []engine.Mount{
		{Host: "/repo", Container: "/src"},
		{Host: "/repo/out/debian", Container: "/dist"},
	}, run.Mounts)
}

func TestSingleBuildArchiveEnv(t *testing.T) {
	eng := newFakeEngine()
	b := &SingleTargetBuilder{Engine: eng, RepoRoot: "/repo"}

	result, err := b.Build(context.Background(), resolveFor(t, Request{
		Version:      "2024021600",
		BuildType:    "linux",
		Architecture: "amd64",
	}))
	require.NoError(t, err)

	assert.Equal(t, "forge-builder-2024021600_amd64-linux", result.Image)

	run := eng.calls[1].detail.(engine.RunContainerOptions)
	assert.Equal(t, map[string]string{
		"BUILD_VERSION": "2024021600",
		"BUILD_TYPE":    "linux",
		"ARCHIVE_TYPES": "tar-gz,tar-xz",
		"PACKAGE_ARCH":  "amd64",
		"RUNTIME_ARCH":  "x64",
		"TARGET_OS":     "linux",
	}, run.Env)

	build := eng.calls[0].detail.(engine.BuildImageOptions)
	assert.Empty(t, build.BuildArgs)
}

func TestSingleBuildPortableName(t *testing.T) {
	eng := newFakeEngine()
	b := &SingleTargetBuilder{Engine: eng, RepoRoot: "/repo"}

	result, err := b.Build(context.Background(), resolveFor(t, Request{
		Version:   "v10.9.0",
		BuildType: "portable",
	}))
	require.NoError(t, err)
	assert.Equal(t, "forge-builder-10.9.0_portable", result.Image)
}

func TestSingleBuildFailuresNameTheStage(t *testing.T) {
	req := resolveFor(t, Request{Version: "v10.9.0", BuildType: "portable"})

	tests := []struct {
		name      string
		failOp    string
		wantStage string
		wantOps   []string
	}{
		{"build step fails", "build", "image build", []string{"build"}},
		{"run step fails", "run", "container run", []string{"build", "run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newFakeEngine()
			eng.failOps[tt.failOp] = errFakeEngine

			_, err := (&SingleTargetBuilder{Engine: eng, RepoRoot: "/repo"}).Build(context.Background(), req)
			var berr *BuildError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tt.wantStage, berr.Stage)
			assert.ErrorIs(t, err, errFakeEngine)
			assert.Equal(t, tt.wantOps, eng.ops())
		})
	}
}
