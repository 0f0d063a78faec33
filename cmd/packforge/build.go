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

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packforge/packforge/builder"
	"github.com/packforge/packforge/config"
	"github.com/packforge/packforge/engine"
	"github.com/packforge/packforge/logging"
	"github.com/packforge/packforge/manifests"
	"github.com/packforge/packforge/repo"
)

type buildOptions struct {
	buildConfig string
	repoRoot    string
	report      string
	verify      bool
	dryRun      bool
}

var buildOpts = &buildOptions{}

var buildCmd = &cobra.Command{
	Use:   "build VERSION BUILD_TYPE [ARCH] [OS_VERSION]",
	Short: "Run one configured build",
	Long: `Run one build from the build configuration.

Examples:
  # Debian packages for one arch and OS version
  packforge build v10.9.0 debian amd64 bookworm

  # Portable archive (no arch, no OS version)
  packforge build v10.9.0 portable

  # Snapshot multi-arch container images with registry verification
  packforge build master docker --verify

  # Show the resolved plan without touching the container engine
  packforge build v10.9.0 docker --dry-run`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOpts.buildConfig, "build-config", "build.yaml", "Build configuration file (YAML, or HCL by .hcl extension)")
	buildCmd.Flags().StringVar(&buildOpts.repoRoot, "repo-root", "", "Repository root (default: discovered from the working directory)")
	buildCmd.Flags().StringVar(&buildOpts.report, "report", "", "Write the publish report to this file (docker builds)")
	buildCmd.Flags().BoolVar(&buildOpts.verify, "verify", false, "Verify published manifests against the registries (docker builds)")
	buildCmd.Flags().BoolVar(&buildOpts.dryRun, "dry-run", false, "Resolve and print the build plan without running anything")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req := builder.Request{Version: args[0], BuildType: args[1]}
	if len(args) > 2 {
		req.Architecture = args[2]
	}
	if len(args) > 3 {
		req.OSVersion = args[3]
	}

	reg, err := config.Load(buildOpts.buildConfig)
	if err != nil {
		return err
	}

	resolver := &builder.Resolver{Registry: reg}
	resolved, err := resolver.Resolve(ctx, req)
	if err != nil {
		return err
	}

	if buildOpts.dryRun {
		printPlan(cmd, resolved)
		return nil
	}

	root := buildOpts.repoRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		root, err = repo.FindRoot(cwd)
		if err != nil {
			return err
		}
	}

	eng := engine.NewDockerCLI()
	if binary := v.GetString("docker.binary"); binary != "" {
		eng.Binary = binary
	}
	if image := v.GetString("docker.emulation_image"); image != "" {
		eng.EmulationImage = image
	}

	if resolved.Function == builder.FunctionDocker {
		return runDockerBuild(ctx, eng, root, resolved)
	}

	b := &builder.SingleTargetBuilder{Engine: eng, RepoRoot: root}
	result, err := b.Build(ctx, resolved)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "artifacts written to %s", result.OutputDir)
	return nil
}

// runDockerBuild runs the multi-arch build and the full publish sequence.
func runDockerBuild(ctx context.Context, eng engine.Engine, root string, resolved *builder.ResolvedRequest) error {
	primary := v.GetString("registry.primary")
	secondary := v.GetString("registry.secondary")

	mb := &builder.MultiArchImageBuilder{
		Engine:            eng,
		RepoRoot:          root,
		PrimaryRegistry:   primary,
		SecondaryRegistry: secondary,
	}
	images, err := mb.BuildAll(ctx, resolved)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials(v.GetString("credentials.file"))
	if err != nil {
		logging.WarnContext(ctx, "could not load registry credentials: %v", err)
	}

	publisher := &manifests.Publisher{
		Engine:      eng,
		Primary:     primary,
		Secondary:   secondary,
		Credentials: creds,
	}
	report, pubErr := publisher.Publish(ctx, resolved, images)

	if buildOpts.verify {
		manifests.VerifyPublished(ctx, report, manifests.VerifyOptions{})
	}
	if buildOpts.report != "" {
		if err := report.WriteFile(buildOpts.report); err != nil {
			logging.ErrorContext(ctx, "%v", err)
		}
	}

	for _, item := range report.Failed() {
		logging.ErrorContext(ctx, "%s %s failed: %s", item.Kind, item.Ref, item.Error)
	}
	return pubErr
}

// printPlan writes the resolved build plan to the command's stdout.
func printPlan(cmd *cobra.Command, resolved *builder.ResolvedRequest) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "build type:  %s (%s)\n", resolved.BuildType, resolved.Function)
	fmt.Fprintf(out, "version:     %s (stable: %t)\n", resolved.Version.Normalized, resolved.Version.Stable)
	fmt.Fprintf(out, "dockerfile:  %s\n", resolved.Dockerfile)
	fmt.Fprintf(out, "image name:  %s\n", resolved.ImageName)
	if resolved.Architecture != "" {
		fmt.Fprintf(out, "arch:        %s\n", resolved.Architecture)
	}
	if len(resolved.Architectures) > 0 {
		fmt.Fprintf(out, "arches:      %s\n", strings.Join(resolved.Architectures, ", "))
	}
	if resolved.OSVersionName != "" {
		fmt.Fprintf(out, "os version:  %s (id %s, toolchain %s)\n",
			resolved.OSVersionName, resolved.OSIdentifier, resolved.ToolchainVersion)
	}
	if len(resolved.ArchiveTypes) > 0 {
		fmt.Fprintf(out, "archives:    %s\n", strings.Join(resolved.ArchiveTypes, ", "))
	}
}
