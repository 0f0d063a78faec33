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

package manifests

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/packforge/packforge/errors"
)

// ItemKind distinguishes the two kinds of publish work.
type ItemKind string

const (
	// KindImage is a per-architecture image push.
	KindImage ItemKind = "image"

	// KindManifest is a manifest-list create+push.
	KindManifest ItemKind = "manifest"
)

// Item is one attempted publish operation. Every attempt is recorded,
// successful or not.
type Item struct {
	Kind     ItemKind `json:"kind"`
	Registry string   `json:"registry"`
	Ref      string   `json:"ref"`

	// Class is set for manifest items only.
	Class string `json:"class,omitempty"`

	// Arch is set for image items only.
	Arch string `json:"arch,omitempty"`

	// Error holds the failure message when the operation did not succeed.
	Error string `json:"error,omitempty"`

	// Digest is filled in by post-publish verification.
	Digest digest.Digest `json:"digest,omitempty"`
}

// OK reports whether the item succeeded.
func (i Item) OK() bool { return i.Error == "" }

// Report lists every publish attempt of one run.
type Report struct {
	Version   string    `json:"version"`
	Stable    bool      `json:"stable"`
	StartedAt time.Time `json:"started_at"`
	Items     []Item    `json:"items"`
}

// Failed returns the items that did not succeed.
func (r *Report) Failed() []Item {
	var failed []Item
	for _, item := range r.Items {
		if !item.OK() {
			failed = append(failed, item)
		}
	}
	return failed
}

// WriteFile serializes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap("encode publish report", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap("write publish report", path, err)
	}
	return nil
}

// PublishError signals that at least one publish item failed. The report
// carries the detail; the error carries the count.
type PublishError struct {
	FailedCount int
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%d publish operation(s) failed", e.FailedCount)
}
