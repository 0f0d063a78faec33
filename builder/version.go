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
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// masterStampLayout gives "master" builds an hour-granularity pseudo-version
// so repeated snapshot builds within the same hour coalesce.
const masterStampLayout = "2006010215"

// Version is a normalized product version together with its stability
// classification.
type Version struct {
	// Raw is the version exactly as requested.
	Raw string

	// Normalized is Raw with the stable-release marker stripped, or the
	// generated pseudo-version for "master". This is the form embedded in
	// image names and tags.
	Normalized string

	// Stable reports whether Raw carried the stable-release marker.
	Stable bool
}

// NormalizeVersion classifies and normalizes a requested version.
//
// The literal "master" becomes an hour-granularity timestamp and is always
// unstable. Any other version is stable exactly when it contains the "v"
// marker; the marker is stripped from the front for the normalized form.
func NormalizeVersion(raw string, now time.Time) Version {
	if raw == "master" {
		return Version{
			Raw:        raw,
			Normalized: now.Format(masterStampLayout),
			Stable:     false,
		}
	}
	return Version{
		Raw:        raw,
		Normalized: strings.TrimPrefix(raw, "v"),
		Stable:     strings.Contains(raw, "v"),
	}
}

// SemverParses reports whether the normalized version is well-formed
// semver. Stable releases normally are; callers use this only to warn, not
// to reject.
func (v Version) SemverParses() bool {
	_, err := semver.StrictNewVersion(v.Normalized)
	return err == nil
}
