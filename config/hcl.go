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

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// HCL form of the build configuration. Block order carries the same
// meaning as YAML document order.
type hclDocument struct {
	BuildTypes []hclBuildType `hcl:"build_type,block"`
}

type hclBuildType struct {
	Name           string       `hcl:"name,label"`
	Dockerfile     string       `hcl:"dockerfile"`
	ImageName      string       `hcl:"imagename"`
	ArchiveTypes   []string     `hcl:"archivetypes,optional"`
	BuildFunction  string       `hcl:"build_function"`
	ArchMaps       []hclArchMap `hcl:"archmap,block"`
	Releases       cty.Value    `hcl:"releases,optional"`
	CrossCompilers cty.Value    `hcl:"cross_compilers,optional"`
}

type hclArchMap struct {
	Name          string `hcl:"name,label"`
	PackageArch   string `hcl:"package_arch,optional"`
	RuntimeArch   string `hcl:"runtime_arch,optional"`
	EmulationArch string `hcl:"emulation_arch,optional"`
	ImageArch     string `hcl:"image_arch,optional"`
}

// parseHCL decodes an HCL build configuration into a Registry.
func parseHCL(filename string, data []byte) (*Registry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, diags
	}

	if len(doc.BuildTypes) == 0 {
		return nil, fmt.Errorf("build configuration declares no build types")
	}

	reg := &Registry{
		path:  filename,
		types: make(map[string]BuildType, len(doc.BuildTypes)),
	}

	for _, raw := range doc.BuildTypes {
		if _, dup := reg.types[raw.Name]; dup {
			return nil, fmt.Errorf("duplicate build type %q", raw.Name)
		}

		releases, err := ctyStringMap(raw.Releases, "releases")
		if err != nil {
			return nil, fmt.Errorf("build type %q: %w", raw.Name, err)
		}
		crossCompilers, err := ctyStringMap(raw.CrossCompilers, "cross_compilers")
		if err != nil {
			return nil, fmt.Errorf("build type %q: %w", raw.Name, err)
		}

		names := make([]string, 0, len(raw.ArchMaps))
		specs := make(map[string]ArchSpec, len(raw.ArchMaps))
		for _, am := range raw.ArchMaps {
			if _, dup := specs[am.Name]; dup {
				return nil, fmt.Errorf("build type %q: duplicate architecture %q", raw.Name, am.Name)
			}
			names = append(names, am.Name)
			specs[am.Name] = ArchSpec{
				PackageArch:   am.PackageArch,
				RuntimeArch:   am.RuntimeArch,
				EmulationArch: am.EmulationArch,
				ImageArch:     am.ImageArch,
			}
		}

		reg.order = append(reg.order, raw.Name)
		reg.types[raw.Name] = BuildType{
			Dockerfile:     raw.Dockerfile,
			ImageName:      raw.ImageName,
			ArchiveTypes:   raw.ArchiveTypes,
			BuildFunction:  raw.BuildFunction,
			ArchMaps:       NewArchMap(names, specs),
			Releases:       releases,
			CrossCompilers: crossCompilers,
		}
	}

	return reg, nil
}

// ctyStringMap converts an optional HCL map attribute to map[string]string.
func ctyStringMap(v cty.Value, attr string) (map[string]string, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}

	conv, err := convert.Convert(v, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%s must be a map of strings: %w", attr, err)
	}

	if conv.LengthInt() == 0 {
		return nil, nil
	}

	out := make(map[string]string, conv.LengthInt())
	for key, val := range conv.AsValueMap() {
		out[key] = val.AsString()
	}
	return out, nil
}
