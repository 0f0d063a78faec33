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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/packforge/packforge/engine"
	"github.com/packforge/packforge/logging"
)

// SingleTargetBuilder runs the artifact-producing build functions: exactly
// one image build followed by one container run that writes artifacts to
// the host output directory.
type SingleTargetBuilder struct {
	Engine engine.Engine

	// RepoRoot is the repository root on the host; it is mounted into the
	// build container as the source tree.
	RepoRoot string
}

// sourceMountPoint and distMountPoint are the container-side paths the
// build dockerfiles expect.
const (
	sourceMountPoint = "/src"
	distMountPoint   = "/dist"
)

// localImageName derives the local (unpushed) image name for a resolved
// request. The shape depends on the build function: architecture-bound
// functions embed the architecture, OS-bound functions additionally embed
// the OS version, and the portable function embeds neither.
func localImageName(req *ResolvedRequest) string {
	switch {
	case req.Function.RequiresOSVersion():
		return fmt.Sprintf("%s-%s_%s-%s-%s",
			req.ImageName, req.Version.Normalized, req.Architecture, req.BuildType, req.OSVersionName)
	case req.Function.RequiresArchitecture():
		return fmt.Sprintf("%s-%s_%s-%s",
			req.ImageName, req.Version.Normalized, req.Architecture, req.BuildType)
	default:
		return fmt.Sprintf("%s-%s_%s", req.ImageName, req.Version.Normalized, req.BuildType)
	}
}

// buildArgs returns the --build-arg set for the image build step. Package
// builds parameterize the base image by OS and toolchain; archive builds
// bake nothing in at build time.
func buildArgs(req *ResolvedRequest) map[string]string {
	if !req.Function.RequiresOSVersion() {
		return nil
	}
	return map[string]string{
		"PACKAGE_TYPE":      req.BuildType,
		"PACKAGE_VERSION":   req.OSIdentifier,
		"PACKAGE_ARCH":      req.ArchSpec.PackageArch,
		"TOOLCHAIN_VERSION": req.ToolchainVersion,
	}
}

// runEnv returns the environment exported to the build container. Package
// builds only need the version; archive builds additionally receive the
// target platform and archive formats.
func runEnv(req *ResolvedRequest) map[string]string {
	env := map[string]string{
		"BUILD_VERSION": req.Version.Normalized,
	}
	if req.Function.RequiresOSVersion() {
		return env
	}
	env["BUILD_TYPE"] = req.BuildType
	env["ARCHIVE_TYPES"] = strings.Join(req.ArchiveTypes, ",")
	if req.Function.RequiresArchitecture() {
		env["PACKAGE_ARCH"] = req.ArchSpec.PackageArch
		env["RUNTIME_ARCH"] = req.ArchSpec.RuntimeArch
	}
	if targetOS := req.Function.TargetOS(); targetOS != "" {
		env["TARGET_OS"] = targetOS
	}
	return env
}

// Build executes the build: image build, then a container run writing to
// out/<build-type> under the repository root. The first non-zero engine
// exit aborts the build; there are no retries.
func (b *SingleTargetBuilder) Build(ctx context.Context, req *ResolvedRequest) (*ArtifactResult, error) {
	image := localImageName(req)
	outputDir := filepath.Join(b.RepoRoot, "out", req.BuildType)

	logging.InfoContext(ctx, "building image %s from %s", image, req.Dockerfile)
	err := b.Engine.BuildImage(ctx, engine.BuildImageOptions{
		Dockerfile: filepath.Join(b.RepoRoot, req.Dockerfile),
		Tag:        image,
		ContextDir: b.RepoRoot,
		BuildArgs:  buildArgs(req),
	})
	if err != nil {
		return nil, &BuildError{Stage: "image build", Image: image, Err: err}
	}

	logging.InfoContext(ctx, "running build container %s", image)
	err = b.Engine.RunContainer(ctx, engine.RunContainerOptions{
		Image: image,
		Name:  image,
		Env:   runEnv(req),
		Mounts: []engine.Mount{
			{Host: b.RepoRoot, Container: sourceMountPoint},
			{Host: outputDir, Container: distMountPoint},
		},
	})
	if err != nil {
		return nil, &BuildError{Stage: "container run", Image: image, Err: err}
	}

	logging.InfoContext(ctx, "%s build finished, artifacts in %s", req.BuildType, outputDir)
	return &ArtifactResult{Image: image, BuildType: req.BuildType, OutputDir: outputDir}, nil
}
