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

// Package engine abstracts the container engine behind a narrow capability
// interface. The orchestration layers depend only on Engine, so they can be
// tested against a recording fake without a container runtime; the engine's
// operations are atomic external steps whose outcome is observed via exit
// status only.
package engine

import "context"

// Mount binds a host path into the build container.
type Mount struct {
	// Host is the absolute host path.
	Host string

	// Container is the mount point inside the container.
	Container string
}

// BuildImageOptions describes a single image build.
type BuildImageOptions struct {
	// Dockerfile is the absolute path of the dockerfile to build.
	Dockerfile string

	// Tag is the reference the built image is tagged with.
	Tag string

	// ContextDir is the build context directory.
	ContextDir string

	// BuildArgs are passed as --build-arg pairs, in sorted key order.
	BuildArgs map[string]string
}

// RunContainerOptions describes a single container run.
type RunContainerOptions struct {
	// Image is the image reference to run.
	Image string

	// Name is the container name; reusing the image name keeps runs
	// identifiable in engine listings.
	Name string

	// Env is injected as environment variables, in sorted key order.
	Env map[string]string

	// Mounts are host bind mounts.
	Mounts []Mount
}

// Engine is the capability surface the orchestrator needs from a container
// engine. Implementations must treat every method as one external operation
// and report failure only through the returned error.
type Engine interface {
	// BuildImage builds an image from a dockerfile with the given build
	// arguments and tags it.
	BuildImage(ctx context.Context, opts BuildImageOptions) error

	// RunContainer runs a container to completion.
	RunContainer(ctx context.Context, opts RunContainerOptions) error

	// TagImage adds a new reference to an existing local image. This is a
	// metadata operation and must never trigger a rebuild.
	TagImage(ctx context.Context, src, dst string) error

	// PushImage pushes an image reference to its registry.
	PushImage(ctx context.Context, ref string) error

	// CreateManifest creates a manifest list from member references.
	CreateManifest(ctx context.Context, list string, members []string) error

	// PushManifest pushes a manifest list, purging any prior manifest
	// state under the same tag.
	PushManifest(ctx context.Context, list string) error

	// Login authenticates against a registry.
	Login(ctx context.Context, server, username, password string) error

	// ResetEmulation re-registers cross-architecture emulation support.
	// Callers treat failure as non-fatal.
	ResetEmulation(ctx context.Context) error
}
