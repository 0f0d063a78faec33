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

// Package builder turns a validated build request into container engine
// invocations.
//
// The package is organized around one pipeline:
//
//   - Resolve (resolve.go): validates a raw (version, build-type, arch,
//     os-version) tuple against the configuration registry and produces an
//     immutable ResolvedRequest. Resolution happens exactly once; downstream
//     components never re-query the registry.
//   - SingleTargetBuilder (single.go): one image build + one container run
//     for the artifact-producing build types (.deb/.rpm packages, portable
//     archives).
//   - MultiArchImageBuilder (multiarch.go): one image build per configured
//     architecture for the container-image build type, tagged for both
//     target registries.
//
// All engine access goes through engine.Engine, so every builder is
// testable against a recording fake.
package builder

import (
	"time"

	"github.com/packforge/packforge/config"
)

// Request is the raw invocation surface: what the user asked for, before
// any validation.
type Request struct {
	// Version is the raw product version ("v10.9.0", "2024021600", "master").
	Version string

	// BuildType names the configured build target kind.
	BuildType string

	// Architecture is required only for build functions that need one.
	Architecture string

	// OSVersion is required only for .deb/.rpm-style build functions.
	OSVersion string
}

// ResolvedRequest is the validated, normalized form of a Request. It is
// write-once: Resolve constructs it and nothing mutates it afterward.
type ResolvedRequest struct {
	// Version is the normalized product version (marker stripped,
	// "master" rewritten to an hour-granularity pseudo-version).
	Version Version

	// BuildType is the validated build-type name.
	BuildType string

	// Function is the build function handling this type.
	Function Function

	// Dockerfile is the configured dockerfile path, relative to the
	// repository root.
	Dockerfile string

	// ImageName is the configured image-name template.
	ImageName string

	// ArchiveTypes lists the archive formats to produce, in configured order.
	ArchiveTypes []string

	// Architecture and ArchSpec are set for single-target functions that
	// require an architecture.
	Architecture string
	ArchSpec     config.ArchSpec

	// Architectures and ArchSpecs carry the full ordered architecture map
	// for the container-image build type.
	Architectures []string
	ArchSpecs     map[string]config.ArchSpec

	// OSVersionName is the user-supplied OS version name; OSIdentifier is
	// the mapped OS identifier; ToolchainVersion is the cross-compiler
	// version for that OS version. All three are set for .deb/.rpm only.
	OSVersionName    string
	OSIdentifier     string
	ToolchainVersion string

	// Stamp is the moment the request was resolved. Dated image tags and
	// dated manifest tags derive from it, so one resolved request yields
	// one consistent stamp across all registries.
	Stamp time.Time
}

// ArtifactResult reports a completed single-target build.
type ArtifactResult struct {
	// Image is the local image name used for the build and run steps.
	Image string `json:"image"`

	// BuildType is the build-type that produced the artifact.
	BuildType string `json:"build_type"`

	// OutputDir is the host directory the build container wrote to.
	OutputDir string `json:"output_dir"`
}

// ArchImage is one architecture's build output in a multi-arch run: the
// same image content under one reference per target registry.
type ArchImage struct {
	// Arch is the configured architecture name.
	Arch string `json:"arch"`

	// PrimaryRef is the image reference qualified with the primary
	// registry host.
	PrimaryRef string `json:"primary_ref"`

	// SecondaryRef is the image reference qualified with the secondary
	// registry host. Same tag, different host prefix.
	SecondaryRef string `json:"secondary_ref"`
}
