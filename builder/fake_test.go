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

	"github.com/packforge/packforge/engine"
)

// fakeCall records one engine invocation for assertions.
type fakeCall struct {
	op     string
	ref    string
	detail any
}

// fakeEngine records engine calls in order and fails the operations listed
// in failOps.
type fakeEngine struct {
	calls   []fakeCall
	failOps map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failOps: map[string]error{}}
}

func (f *fakeEngine) record(op, ref string, detail any) error {
	f.calls = append(f.calls, fakeCall{op: op, ref: ref, detail: detail})
	if err, ok := f.failOps[op]; ok {
		return err
	}
	if err, ok := f.failOps[op+":"+ref]; ok {
		return err
	}
	return nil
}

func (f *fakeEngine) ops() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.op
	}
	return out
}

func (f *fakeEngine) refs(op string) []string {
	var out []string
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c.ref)
		}
	}
	return out
}

func (f *fakeEngine) BuildImage(_ context.Context, opts engine.BuildImageOptions) error {
	return f.record("build", opts.Tag, opts)
}

func (f *fakeEngine) RunContainer(_ context.Context, opts engine.RunContainerOptions) error {
	return f.record("run", opts.Image, opts)
}

func (f *fakeEngine) TagImage(_ context.Context, src, dst string) error {
	return f.record("tag", dst, src)
}

func (f *fakeEngine) PushImage(_ context.Context, ref string) error {
	return f.record("push", ref, nil)
}

func (f *fakeEngine) CreateManifest(_ context.Context, list string, members []string) error {
	return f.record("manifest-create", list, members)
}

func (f *fakeEngine) PushManifest(_ context.Context, list string) error {
	return f.record("manifest-push", list, nil)
}

func (f *fakeEngine) Login(_ context.Context, server, username, _ string) error {
	return f.record("login", server, username)
}

func (f *fakeEngine) ResetEmulation(ctx context.Context) error {
	return f.record("reset-emulation", "", nil)
}

var errFakeEngine = fmt.Errorf("engine exploded")
