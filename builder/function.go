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

import "fmt"

// Function identifies the build procedure a build type maps to. The set is
// closed: configuration may only reference one of the identifiers below,
// and resolution rejects anything else before a build starts.
type Function int

const (
	// FunctionUnknown is the zero value and never valid.
	FunctionUnknown Function = iota

	// FunctionDeb builds Debian/Ubuntu packages inside a container.
	FunctionDeb

	// FunctionRPM builds RPM packages inside a container.
	FunctionRPM

	// FunctionLinux builds portable Linux archives for one architecture.
	FunctionLinux

	// FunctionWindows builds Windows archives for one architecture.
	FunctionWindows

	// FunctionMacOS builds macOS archives for one architecture.
	FunctionMacOS

	// FunctionPortable builds the architecture-independent portable archive.
	FunctionPortable

	// FunctionDocker builds the multi-architecture container image set.
	FunctionDocker
)

var functionNames = map[Function]string{
	FunctionDeb:      "deb",
	FunctionRPM:      "rpm",
	FunctionLinux:    "linux",
	FunctionWindows:  "windows",
	FunctionMacOS:    "macos",
	FunctionPortable: "portable",
	FunctionDocker:   "docker",
}

var functionIDs = map[string]Function{
	"deb":      FunctionDeb,
	"rpm":      FunctionRPM,
	"linux":    FunctionLinux,
	"windows":  FunctionWindows,
	"macos":    FunctionMacOS,
	"portable": FunctionPortable,
	"docker":   FunctionDocker,
}

// ParseFunction maps a configured build_function identifier to its Function.
func ParseFunction(id string) (Function, error) {
	fn, ok := functionIDs[id]
	if !ok {
		return FunctionUnknown, fmt.Errorf("unknown build function %q", id)
	}
	return fn, nil
}

// FunctionIDs returns all valid build_function identifiers.
func FunctionIDs() []string {
	ids := make([]string, 0, len(functionIDs))
	for _, fn := range []Function{
		FunctionDeb, FunctionRPM, FunctionLinux,
		FunctionWindows, FunctionMacOS, FunctionPortable, FunctionDocker,
	} {
		ids = append(ids, functionNames[fn])
	}
	return ids
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(%d)", int(f))
}

// RequiresArchitecture reports whether this function builds for exactly one
// architecture and therefore needs one selected at resolve time.
func (f Function) RequiresArchitecture() bool {
	switch f {
	case FunctionDeb, FunctionRPM, FunctionLinux, FunctionWindows, FunctionMacOS:
		return true
	default:
		return false
	}
}

// RequiresOSVersion reports whether this function needs a target OS version.
func (f Function) RequiresOSVersion() bool {
	return f == FunctionDeb || f == FunctionRPM
}

// TargetOS returns the short OS identifier exported to archive build
// containers, or "" for functions that do not target a single OS.
func (f Function) TargetOS() string {
	switch f {
	case FunctionLinux:
		return "linux"
	case FunctionWindows:
		return "win"
	case FunctionMacOS:
		return "osx"
	default:
		return ""
	}
}
