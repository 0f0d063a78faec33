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

	"github.com/packforge/packforge/engine"
	"github.com/packforge/packforge/logging"
)

// datedStampLayout is the second-granularity stamp appended to stable
// per-arch image tags and to the dated manifest tag.
const datedStampLayout = "20060102-150405"

// MultiArchImageBuilder builds the container image once per configured
// architecture and tags each result for both target registries. It never
// pushes; publishing is the manifest publisher's job.
type MultiArchImageBuilder struct {
	Engine engine.Engine

	// RepoRoot is the host build context root.
	RepoRoot string

	// PrimaryRegistry and SecondaryRegistry are the registry hosts the
	// per-arch images are tagged for (e.g., "docker.io", "ghcr.io").
	PrimaryRegistry   string
	SecondaryRegistry string
}

// archTag derives the per-architecture tag: the normalized version plus the
// architecture, with a dated suffix on stable builds so every stable push
// is addressable by its build time.
func archTag(req *ResolvedRequest, arch string) string {
	tag := fmt.Sprintf("%s-%s", req.Version.Normalized, arch)
	if req.Version.Stable {
		tag = fmt.Sprintf("%s.%s", tag, req.Stamp.Format(datedStampLayout))
	}
	return tag
}

// BuildAll builds every declared architecture in configured order. The
// first build failure aborts the run; images built before the failure stay
// in the local store.
func (b *MultiArchImageBuilder) BuildAll(ctx context.Context, req *ResolvedRequest) ([]ArchImage, error) {
	if len(req.Architectures) == 0 {
		return nil, &MisconfigurationError{BuildType: req.BuildType, Detail: "no architectures configured"}
	}

	images := make([]ArchImage, 0, len(req.Architectures))
	for _, arch := range req.Architectures {
		spec := req.ArchSpecs[arch]
		tag := archTag(req, arch)
		primaryRef := fmt.Sprintf("%s/%s:%s", b.PrimaryRegistry, req.ImageName, tag)
		secondaryRef := fmt.Sprintf("%s/%s:%s", b.SecondaryRegistry, req.ImageName, tag)

		// Cross builds rely on binfmt emulation; re-registering is cheap
		// and a failure only matters if the build itself then fails.
		if err := b.Engine.ResetEmulation(ctx); err != nil {
			logging.WarnContext(ctx, "emulation reset failed before %s build: %v", arch, err)
		}

		logging.InfoContext(ctx, "building %s image %s", arch, primaryRef)
		err := b.Engine.BuildImage(ctx, engine.BuildImageOptions{
			Dockerfile: filepath.Join(b.RepoRoot, req.Dockerfile),
			Tag:        primaryRef,
			ContextDir: b.RepoRoot,
			BuildArgs: map[string]string{
				"BUILD_VERSION":  req.Version.Normalized,
				"PACKAGE_ARCH":   spec.PackageArch,
				"RUNTIME_ARCH":   spec.RuntimeArch,
				"EMULATION_ARCH": spec.EmulationArch,
				"IMAGE_ARCH":     spec.ImageArch,
			},
		})
		if err != nil {
			return nil, &BuildError{Stage: "image build", Image: primaryRef, Err: err}
		}

		// The secondary registry gets the same content under a new name.
		if err := b.Engine.TagImage(ctx, primaryRef, secondaryRef); err != nil {
			return nil, &BuildError{Stage: "image tag", Image: secondaryRef, Err: err}
		}

		images = append(images, ArchImage{Arch: arch, PrimaryRef: primaryRef, SecondaryRef: secondaryRef})
	}

	return images, nil
}
