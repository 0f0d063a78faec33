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
	"time"

	"github.com/packforge/packforge/config"
	"github.com/packforge/packforge/logging"
)

// Resolver validates raw requests against a loaded configuration registry.
type Resolver struct {
	Registry *config.Registry

	// Now supplies the clock for version normalization; defaults to
	// time.Now when nil.
	Now func() time.Time
}

// Resolve validates every field of the request against the registry and
// returns the fully resolved form. Validation stops at the first problem,
// checked in this order: version, build type, build function, architecture,
// OS version, toolchain.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*ResolvedRequest, error) {
	if req.Version == "" {
		return nil, &ValidationError{Field: "version", Value: ""}
	}

	bt, ok := r.Registry.BuildType(req.BuildType)
	if !ok {
		return nil, newValidationError("build type", req.BuildType, r.Registry.BuildTypes())
	}

	fn, err := ParseFunction(bt.BuildFunction)
	if err != nil {
		return nil, &MisconfigurationError{
			BuildType: req.BuildType,
			Detail:    fmt.Sprintf("build_function %q is not implemented", bt.BuildFunction),
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	stamp := now()

	version := NormalizeVersion(req.Version, stamp)
	if req.Version == "master" {
		logging.InfoContext(ctx, "snapshot build: version %q normalized to %s", req.Version, version.Normalized)
	}
	if version.Stable && !version.SemverParses() {
		logging.WarnContext(ctx, "stable version %q does not parse as semver", req.Version)
	}

	resolved := &ResolvedRequest{
		Version:      version,
		BuildType:    req.BuildType,
		Function:     fn,
		Dockerfile:   bt.Dockerfile,
		ImageName:    bt.ImageName,
		ArchiveTypes: append([]string(nil), bt.ArchiveTypes...),
		Stamp:        stamp,
	}

	if fn.RequiresArchitecture() {
		if req.Architecture == "" {
			return nil, newValidationError("architecture", "", bt.ArchMaps.Names())
		}
		spec, ok := bt.ArchMaps.Lookup(req.Architecture)
		if !ok {
			return nil, newValidationError("architecture", req.Architecture, bt.ArchMaps.Names())
		}
		resolved.Architecture = req.Architecture
		resolved.ArchSpec = spec
	}

	if fn == FunctionDocker {
		if bt.ArchMaps.Len() == 0 {
			return nil, &MisconfigurationError{
				BuildType: req.BuildType,
				Detail:    "archmaps is empty; a container-image build needs at least one architecture",
			}
		}
		resolved.Architectures = bt.ArchMaps.Names()
		resolved.ArchSpecs = make(map[string]config.ArchSpec, bt.ArchMaps.Len())
		for _, name := range resolved.Architectures {
			spec, _ := bt.ArchMaps.Lookup(name)
			resolved.ArchSpecs[name] = spec
		}
	}

	if fn.RequiresOSVersion() {
		if req.OSVersion == "" {
			return nil, newValidationError("OS version", "", r.Registry.OSVersions(req.BuildType))
		}
		id, ok := bt.Releases[req.OSVersion]
		if !ok {
			return nil, newValidationError("OS version", req.OSVersion, r.Registry.OSVersions(req.BuildType))
		}
		toolchain, ok := bt.CrossCompilers[req.OSVersion]
		if !ok {
			return nil, &MisconfigurationError{
				BuildType: req.BuildType,
				Detail:    fmt.Sprintf("OS version %q has no cross-compiler version configured", req.OSVersion),
			}
		}
		resolved.OSVersionName = req.OSVersion
		resolved.OSIdentifier = id
		resolved.ToolchainVersion = toolchain
	}

	logging.DebugContext(ctx, "resolved %s build: version=%s stable=%t function=%s",
		resolved.BuildType, resolved.Version.Normalized, resolved.Version.Stable, resolved.Function)

	return resolved, nil
}
