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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError reports an unreadable or unparsable build configuration.
// It is fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load build configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a build configuration file and returns an immutable Registry.
// The format is chosen by extension: ".hcl" is decoded as HCL, everything
// else as YAML. Unreadable or unparsable sources return a *LoadError.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		reg, err := parseHCL(path, data)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return reg, nil
	}

	reg, err := ParseYAML(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	reg.path = path
	return reg, nil
}

// ParseYAML decodes a YAML build configuration document, preserving the
// document order of build-type entries.
func ParseYAML(data []byte) (*Registry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if len(root.Content) == 0 {
		return nil, fmt.Errorf("build configuration is empty")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("build configuration must be a mapping of build types")
	}

	reg := &Registry{types: make(map[string]BuildType, len(doc.Content)/2)}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valNode := doc.Content[i], doc.Content[i+1]

		var bt BuildType
		if err := valNode.Decode(&bt); err != nil {
			return nil, fmt.Errorf("build type %q: %w", keyNode.Value, err)
		}

		if _, dup := reg.types[keyNode.Value]; dup {
			return nil, fmt.Errorf("duplicate build type %q", keyNode.Value)
		}

		reg.order = append(reg.order, keyNode.Value)
		reg.types[keyNode.Value] = bt
	}

	if len(reg.order) == 0 {
		return nil, fmt.Errorf("build configuration declares no build types")
	}

	return reg, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
