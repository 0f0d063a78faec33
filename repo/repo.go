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

// Package repo locates the repository root that dockerfile paths and build
// mounts are resolved against.
package repo

import (
	"github.com/go-git/go-git/v5"

	"github.com/packforge/packforge/errors"
)

// FindRoot walks upward from start to the enclosing git worktree root.
// Builds mount this directory as the source tree, so running packforge
// from any subdirectory behaves the same as running it from the root.
func FindRoot(start string) (string, error) {
	r, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrap("locate repository root", start, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", errors.Wrap("open repository worktree", start, err)
	}
	return wt.Filesystem.Root(), nil
}
