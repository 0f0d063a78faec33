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
	"context"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/packforge/packforge/logging"
)

// VerifyOptions tunes post-publish verification.
type VerifyOptions struct {
	// Concurrency bounds the parallel registry lookups. Values below 1
	// mean DefaultVerifyConcurrency.
	Concurrency int

	// fetch overrides the registry lookup in tests.
	fetch func(ctx context.Context, ref string) (digest.Digest, error)
}

// DefaultVerifyConcurrency bounds parallel registry lookups.
const DefaultVerifyConcurrency = 4

// VerifyPublished checks that every successfully pushed manifest list is
// resolvable in its registry and records the resolved digest on the report
// item. Verification is advisory: unreachable manifests are logged as
// warnings and never turn a successful publish into a failure.
func VerifyPublished(ctx context.Context, report *Report, opts VerifyOptions) {
	fetch := opts.fetch
	if fetch == nil {
		fetch = fetchRemoteDigest
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = DefaultVerifyConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range report.Items {
		item := &report.Items[i]
		if item.Kind != KindManifest || !item.OK() {
			continue
		}
		g.Go(func() error {
			dig, err := fetch(gctx, item.Ref)
			if err != nil {
				logging.WarnContext(ctx, "could not verify %s: %v", item.Ref, err)
				return nil
			}
			item.Digest = dig
			logging.InfoContext(ctx, "verified %s at %s", item.Ref, dig)
			return nil
		})
	}

	// Workers only return nil; Wait is just the barrier.
	_ = g.Wait()
}

func fetchRemoteDigest(ctx context.Context, ref string) (digest.Digest, error) {
	parsed, err := name.ParseReference(ref)
	if err != nil {
		return "", err
	}
	desc, err := remote.Get(parsed, remote.WithContext(ctx), remote.WithAuthFromKeychain(authn.DefaultKeychain))
	if err != nil {
		return "", err
	}
	return digest.Digest(desc.Digest.String()), nil
}
