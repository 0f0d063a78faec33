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
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ValidationError reports a user-supplied request value that the
// configuration does not accept. Valid lists the accepted values and, when
// one of them is a close match, Suggestion carries it.
type ValidationError struct {
	Field      string
	Value      string
	Valid      []string
	Suggestion string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid %s %q", e.Field, e.Value)
	if len(e.Valid) > 0 {
		fmt.Fprintf(&sb, " (valid: %s)", strings.Join(e.Valid, ", "))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, ", did you mean %q?", e.Suggestion)
	}
	return sb.String()
}

// suggestionCutoff bounds how far an accepted value may be from the typed
// one before a suggestion stops being helpful.
const suggestionCutoff = 3

// newValidationError builds a ValidationError, proposing the accepted value
// with the smallest edit distance from the typed one when it is close enough.
func newValidationError(field, value string, valid []string) *ValidationError {
	e := &ValidationError{Field: field, Value: value, Valid: valid}
	if value == "" {
		return e
	}
	best, bestDist := "", suggestionCutoff+1
	for _, candidate := range valid {
		if d := fuzzy.LevenshteinDistance(value, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	e.Suggestion = best
	return e
}

// MisconfigurationError reports an internally inconsistent configuration
// that passed request validation, for example a build type whose function
// identifier is not in the closed set. These indicate a broken config or a
// bug, not user error.
type MisconfigurationError struct {
	BuildType string
	Detail    string
}

func (e *MisconfigurationError) Error() string {
	return fmt.Sprintf("build type %q is misconfigured: %s; please report a bug if the configuration looks correct", e.BuildType, e.Detail)
}

// BuildError wraps a container engine failure with the pipeline stage and
// the image involved.
type BuildError struct {
	Stage string
	Image string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s failed for image %s: %v", e.Stage, e.Image, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
