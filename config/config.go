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

// Package config loads and exposes the build configuration: the per
// build-type architecture maps, OS-version maps, image-name templates,
// archive types, dockerfile paths, and cross-compiler versions that drive
// every build. The registry is immutable once loaded; lookups never apply
// implicit defaults — an absent key is reported as missing and the caller
// decides whether that is fatal.
package config

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// ArchSpec holds the per-architecture identifiers passed to image builds.
// Which fields are populated depends on the build-type.
type ArchSpec struct {
	// PackageArch is the package-manager architecture name (e.g., "amd64").
	PackageArch string `yaml:"package_arch" json:"package_arch,omitempty"`

	// RuntimeArch is the runtime toolchain architecture name (e.g., "x64").
	RuntimeArch string `yaml:"runtime_arch" json:"runtime_arch,omitempty"`

	// EmulationArch is the qemu architecture used for cross builds.
	EmulationArch string `yaml:"emulation_arch" json:"emulation_arch,omitempty"`

	// ImageArch is the container base-image architecture name.
	ImageArch string `yaml:"image_arch" json:"image_arch,omitempty"`
}

// ArchMap is an ordered architecture map. YAML document order determines
// build order for multi-arch builds, so plain Go maps are not enough.
type ArchMap struct {
	order []string
	specs map[string]ArchSpec
}

// NewArchMap builds an ArchMap from ordered (name, spec) pairs. Intended
// for tests and programmatic construction.
func NewArchMap(names []string, specs map[string]ArchSpec) ArchMap {
	cloned := make(map[string]ArchSpec, len(specs))
	for k, v := range specs {
		cloned[k] = v
	}
	return ArchMap{order: append([]string(nil), names...), specs: cloned}
}

// UnmarshalYAML decodes a YAML mapping while preserving document order.
func (m *ArchMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("archmaps must be a mapping, got %s", node.Tag)
	}

	m.order = nil
	m.specs = make(map[string]ArchSpec, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var spec ArchSpec
		if err := valNode.Decode(&spec); err != nil {
			return fmt.Errorf("archmaps[%s]: %w", keyNode.Value, err)
		}

		if _, dup := m.specs[keyNode.Value]; dup {
			return fmt.Errorf("archmaps: duplicate architecture %q", keyNode.Value)
		}

		m.order = append(m.order, keyNode.Value)
		m.specs[keyNode.Value] = spec
	}

	return nil
}

// MarshalYAML re-emits the mapping in original order.
func (m ArchMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.order {
		var keyNode, valNode yaml.Node
		keyNode.SetString(name)
		if err := valNode.Encode(m.specs[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// JSONSchema describes the map shape for schema generation.
func (ArchMap) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, field := range []string{"package_arch", "runtime_arch", "emulation_arch", "image_arch"} {
		props.Set(field, &jsonschema.Schema{Type: "string"})
	}
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type:       "object",
			Properties: props,
		},
	}
}

// Names returns the architecture names in document order.
func (m ArchMap) Names() []string {
	return append([]string(nil), m.order...)
}

// Lookup returns the spec for an architecture, reporting presence.
func (m ArchMap) Lookup(name string) (ArchSpec, bool) {
	spec, ok := m.specs[name]
	return spec, ok
}

// Len returns the number of declared architectures.
func (m ArchMap) Len() int {
	return len(m.order)
}

// BuildType is one entry of the build configuration.
type BuildType struct {
	// Dockerfile is the dockerfile path, relative to the repository root.
	Dockerfile string `yaml:"dockerfile" json:"dockerfile"`

	// ImageName is the image-name template for artifacts of this type.
	ImageName string `yaml:"imagename" json:"imagename"`

	// ArchiveTypes lists the archive formats the build container produces
	// (e.g., "tar-gz", "zip"), in configured order.
	ArchiveTypes []string `yaml:"archivetypes" json:"archivetypes,omitempty"`

	// BuildFunction identifies which build function handles this type.
	BuildFunction string `yaml:"build_function" json:"build_function"`

	// ArchMaps maps architecture name to its build identifiers.
	ArchMaps ArchMap `yaml:"archmaps" json:"archmaps,omitempty"`

	// Releases maps OS-version name to the OS identifier used inside the
	// build container (.deb/.rpm build types only).
	Releases map[string]string `yaml:"releases" json:"releases,omitempty"`

	// CrossCompilers maps OS-version name to the cross-compiler toolchain
	// version used inside the build container.
	CrossCompilers map[string]string `yaml:"cross_compilers" json:"cross_compilers,omitempty"`
}

// Registry is the validated, queryable view of the build configuration.
// It is loaded once per run and never mutated afterward.
type Registry struct {
	path  string
	order []string
	types map[string]BuildType
}

// Path returns the source path the registry was loaded from.
func (r *Registry) Path() string {
	return r.path
}

// BuildTypes returns the configured build-type names in document order.
func (r *Registry) BuildTypes() []string {
	return append([]string(nil), r.order...)
}

// BuildTypeExists reports whether a build-type is configured.
func (r *Registry) BuildTypeExists(name string) bool {
	_, ok := r.types[name]
	return ok
}

// BuildType returns the full entry for a build-type.
func (r *Registry) BuildType(name string) (BuildType, bool) {
	bt, ok := r.types[name]
	return bt, ok
}

// BuildFunctionID returns the build-function identifier for a build-type.
func (r *Registry) BuildFunctionID(name string) (string, bool) {
	bt, ok := r.types[name]
	if !ok || bt.BuildFunction == "" {
		return "", false
	}
	return bt.BuildFunction, true
}

// Architecture returns the arch spec for (buildType, arch).
func (r *Registry) Architecture(buildType, arch string) (ArchSpec, bool) {
	bt, ok := r.types[buildType]
	if !ok {
		return ArchSpec{}, false
	}
	return bt.ArchMaps.Lookup(arch)
}

// Architectures returns a build-type's architecture names in document order.
func (r *Registry) Architectures(buildType string) []string {
	bt, ok := r.types[buildType]
	if !ok {
		return nil
	}
	return bt.ArchMaps.Names()
}

// OSVersion returns the OS identifier for (buildType, versionName).
func (r *Registry) OSVersion(buildType, versionName string) (string, bool) {
	bt, ok := r.types[buildType]
	if !ok {
		return "", false
	}
	id, ok := bt.Releases[versionName]
	return id, ok
}

// OSVersions returns the valid OS-version names for a build-type, sorted.
func (r *Registry) OSVersions(buildType string) []string {
	bt, ok := r.types[buildType]
	if !ok {
		return nil
	}
	return sortedKeys(bt.Releases)
}

// CrossCompiler returns the toolchain version for (buildType, osVersion).
func (r *Registry) CrossCompiler(buildType, osVersion string) (string, bool) {
	bt, ok := r.types[buildType]
	if !ok {
		return "", false
	}
	v, ok := bt.CrossCompilers[osVersion]
	return v, ok
}

// Validate reports structural problems that make a build-type unusable:
// missing dockerfile, image name, or build function. It does not check
// that the function identifier is implemented; that is the resolver's
// misconfiguration gate.
func (r *Registry) Validate() []error {
	var problems []error
	for _, name := range r.order {
		bt := r.types[name]
		if bt.Dockerfile == "" {
			problems = append(problems, fmt.Errorf("build type %q: dockerfile is required", name))
		}
		if bt.ImageName == "" {
			problems = append(problems, fmt.Errorf("build type %q: imagename is required", name))
		}
		if bt.BuildFunction == "" {
			problems = append(problems, fmt.Errorf("build type %q: build_function is required", name))
		}
	}
	return problems
}
