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

func multiArchBuilder(eng engine.Engine) *MultiArchImageBuilder {
	return &MultiArchImageBuilder{
		Engine:            eng,
		RepoRoot:          "/repo",
		PrimaryRegistry:   "docker.io",
		SecondaryRegistry: "ghcr.io",
	}
}

func TestBuildAllUnstable(t *testing.T) {
	eng := newFakeEngine()
	req := resolveFor(t, Request{Version: "2024021600", BuildType: "docker"})

	images, err := multiArchBuilder(eng).BuildAll(context.Background(), req)
	require.NoError(t, err)

	// Two architectures: two builds, four registry-qualified refs.
	require.Len(t, images, 2)
	assert.Equal(t, ArchImage{
		Arch:         "amd64",
		PrimaryRef:   "docker.io/myorg/forge:2024021600-amd64",
		SecondaryRef: "ghcr.io/myorg/forge:2024021600-amd64",
	}, images[0])
	assert.Equal(t, "docker.io/myorg/forge:2024021600-arm64", images[1].PrimaryRef)
	assert.Equal(t, "ghcr.io/myorg/forge:2024021600-arm64", images[1].SecondaryRef)

	assert.Equal(t, []string{
		"reset-emulation", "build", "tag",
		"reset-emulation", "build", "tag",
	}, eng.ops())
	assert.Empty(t, eng.refs("push"), "multi-arch build must not push")
}

func TestBuildAllStableGetsDatedTags(t *testing.T) {
	eng := newFakeEngine()
	req := resolveFor(t, Request{Version: "v10.9.0", BuildType: "docker"})

	images, err := multiArchBuilder(eng).BuildAll(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "docker.io/myorg/forge:10.9.0-amd64.20240216-134530", images[0].PrimaryRef)
	assert.Equal(t, "ghcr.io/myorg/forge:10.9.0-arm64.20240216-134530", images[1].SecondaryRef)
}

func TestBuildAllPassesArchSpecArgs(t *testing.T) {
	eng := newFakeEngine()
	req := resolveFor(t, Request{Version: "2024021600", BuildType: "docker"})

	_, err := multiArchBuilder(eng).BuildAll(context.Background(), req)
	require.NoError(t, err)

	arm := eng.calls[4].detail.(engine.BuildImageOptions)
	assert.Equal(t, map[string]string{
		"BUILD_VERSION":  "2024021600",
		"PACKAGE_ARCH":   "arm64",
		"RUNTIME_ARCH":   "",
		"EMULATION_ARCH": "aarch64",
		"IMAGE_ARCH":     "arm64v8",
	}, arm.BuildArgs)
	assert.Equal(t, "/repo/packaging/docker/Dockerfile", arm.Dockerfile)
}

func TestBuildAllEmulationResetFailureIsNonFatal(t *testing.T) {
	eng := newFakeEngine()
	eng.failOps["reset-emulation"] = errFakeEngine
	req := resolveFor(t, Request{Version: "2024021600", BuildType: "docker"})

	images, err := multiArchBuilder(eng).BuildAll(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestBuildAllFailsFastOnBuildError(t *testing.T) {
	eng := newFakeEngine()
	eng.failOps["build:docker.io/myorg/forge:2024021600-arm64"] = errFakeEngine
	req := resolveFor(t, Request{Version: "2024021600", BuildType: "docker"})

	_, err := multiArchBuilder(eng).BuildAll(context.Background(), req)
	var berr *BuildError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "image build", berr.Stage)
	assert.Equal(t, "docker.io/myorg/forge:2024021600-arm64", berr.Image)

	// First arch built and tagged, second aborted at the build step.
	assert.Equal(t, []string{
		"reset-emulation", "build", "tag",
		"reset-emulation", "build",
	}, eng.ops())
}
