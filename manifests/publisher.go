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
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/packforge/packforge/builder"
	"github.com/packforge/packforge/config"
	"github.com/packforge/packforge/engine"
	"github.com/packforge/packforge/logging"
)

// Publisher pushes per-architecture images to both registries and then
// assembles one manifest list per tag class per registry. Manifest-list
// members are always refs of the same registry; the two registries get
// parallel, never mixed, lists.
type Publisher struct {
	Engine engine.Engine

	// Primary and Secondary are the target registry hosts, pushed in that
	// order.
	Primary   string
	Secondary string

	// Credentials is the optional per-registry login table. A registry
	// without credentials is assumed pre-authenticated.
	Credentials config.Credentials
}

func (p *Publisher) registries() []string {
	return []string{p.Primary, p.Secondary}
}

// login authenticates against each registry that has credentials
// configured. Failures are logged and the publish proceeds; the pushes
// themselves will surface a real authentication problem.
func (p *Publisher) login(ctx context.Context) {
	for _, registry := range p.registries() {
		cred, ok := p.Credentials.Lookup(registry)
		if !ok {
			logging.DebugContext(ctx, "no credentials for %s, assuming an authenticated engine", registry)
			continue
		}
		if err := p.Engine.Login(ctx, registry, cred.Username, cred.Password); err != nil {
			logging.WarnContext(ctx, "login to %s failed: %v", registry, err)
		}
	}
}

// registryRef selects the ref an ArchImage carries for one registry.
func (p *Publisher) registryRef(img builder.ArchImage, registry string) string {
	if registry == p.Secondary {
		return img.SecondaryRef
	}
	return img.PrimaryRef
}

// Publish pushes every per-arch image to both registries, then creates and
// pushes the manifest lists class by class. Individual failures are
// recorded in the report and do not stop the batch; if anything failed the
// returned error is a *PublishError.
func (p *Publisher) Publish(ctx context.Context, req *builder.ResolvedRequest, images []builder.ArchImage) (*Report, error) {
	report := &Report{
		Version:   req.Version.Normalized,
		Stable:    req.Version.Stable,
		StartedAt: req.Stamp,
	}

	p.login(ctx)

	// Images first. A manifest list referencing an unpushed image would be
	// broken, so every push attempt happens before any list is created.
	for _, registry := range p.registries() {
		for _, img := range images {
			ref := p.registryRef(img, registry)
			item := Item{Kind: KindImage, Registry: registry, Ref: ref, Arch: img.Arch}

			logging.InfoContext(ctx, "pushing %s", ref)
			if err := p.Engine.PushImage(ctx, ref); err != nil {
				item.Error = err.Error()
				logging.ErrorContext(ctx, "push of %s failed: %v", ref, err)
			}
			report.Items = append(report.Items, item)
		}
	}

	for _, class := range ClassesFor(req.Version.Stable) {
		for _, registry := range p.registries() {
			report.Items = append(report.Items, p.publishList(ctx, registry, class, req, images))
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, &PublishError{FailedCount: len(failed)}
	}
	return report, nil
}

// publishList creates and pushes one manifest list, returning the recorded
// attempt.
func (p *Publisher) publishList(ctx context.Context, registry string, class TagClass, req *builder.ResolvedRequest, images []builder.ArchImage) Item {
	ref := listRef(registry, req.ImageName, class, req)
	item := Item{Kind: KindManifest, Registry: registry, Ref: ref, Class: class.String()}

	if _, err := name.ParseReference(ref); err != nil {
		item.Error = fmt.Sprintf("invalid manifest reference: %v", err)
		logging.ErrorContext(ctx, "skipping manifest %s: %s", ref, item.Error)
		return item
	}

	members := make([]string, len(images))
	for i, img := range images {
		members[i] = p.registryRef(img, registry)
	}

	logging.InfoContext(ctx, "publishing manifest %s (%d members)", ref, len(members))
	if err := p.Engine.CreateManifest(ctx, ref, members); err != nil {
		item.Error = err.Error()
		logging.ErrorContext(ctx, "manifest create for %s failed: %v", ref, err)
		return item
	}
	if err := p.Engine.PushManifest(ctx, ref); err != nil {
		item.Error = err.Error()
		logging.ErrorContext(ctx, "manifest push for %s failed: %v", ref, err)
	}
	return item
}
