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

// Package manifests assembles and pushes multi-architecture manifest lists
// from per-architecture images, and can verify the published lists against
// the registries afterward.
package manifests

import (
	"fmt"
	"time"

	"github.com/packforge/packforge/builder"
)

// TagClass is one alias a published manifest list goes by.
type TagClass int

const (
	// ClassDated pins a stable release to its build time.
	ClassDated TagClass = iota

	// ClassVersion is the plain version tag, published for every build.
	ClassVersion

	// ClassLatest is the stable-release moving tag.
	ClassLatest

	// ClassUnstable is the snapshot moving tag.
	ClassUnstable
)

func (c TagClass) String() string {
	switch c {
	case ClassDated:
		return "dated"
	case ClassVersion:
		return "version"
	case ClassLatest:
		return "latest"
	case ClassUnstable:
		return "unstable"
	default:
		return fmt.Sprintf("TagClass(%d)", int(c))
	}
}

// ClassesFor returns the tag classes published for a build, in push order.
// The most specific tag goes first so a failure partway through never
// leaves a moving tag pointing at images the pinned tags lack. Latest and
// unstable are mutually exclusive; dated exists only for stable releases.
func ClassesFor(stable bool) []TagClass {
	if stable {
		return []TagClass{ClassDated, ClassVersion, ClassLatest}
	}
	return []TagClass{ClassVersion, ClassUnstable}
}

// datedStampLayout matches the stamp on stable per-arch image tags.
const datedStampLayout = "20060102-150405"

// Tag renders the class into a concrete tag for a version and build stamp.
func (c TagClass) Tag(version string, stamp time.Time) string {
	switch c {
	case ClassDated:
		return fmt.Sprintf("%s.%s", version, stamp.Format(datedStampLayout))
	case ClassVersion:
		return version
	case ClassLatest:
		return "latest"
	case ClassUnstable:
		return "unstable"
	default:
		return ""
	}
}

// listRef renders the fully qualified manifest-list reference for a class
// on one registry.
func listRef(registry, imageName string, class TagClass, req *builder.ResolvedRequest) string {
	return fmt.Sprintf("%s/%s:%s", registry, imageName, class.Tag(req.Version.Normalized, req.Stamp))
}
