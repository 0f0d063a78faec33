package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/packforge/packforge/errors"
)

const (
	// DefaultBinary is the container engine binary driven by DockerCLI.
	DefaultBinary = "docker"

	// DefaultEmulationImage is the privileged helper image that registers
	// qemu binfmt handlers for cross-architecture builds.
	DefaultEmulationImage = "multiarch/qemu-user-static:register"
)

// runnerFunc executes the engine binary with the given arguments. Tests
// substitute it to capture command lines without running anything.
type runnerFunc func(ctx context.Context, stdin io.Reader, args ...string) error

// DockerCLI drives the docker command line. Build and run output streams to
// Stdout/Stderr; the orchestrator never parses it.
type DockerCLI struct {
	Binary         string
	EmulationImage string
	Stdout         io.Writer
	Stderr         io.Writer

	run runnerFunc
}

// NewDockerCLI returns a DockerCLI with defaults for every field.
func NewDockerCLI() *DockerCLI {
	d := &DockerCLI{
		Binary:         DefaultBinary,
		EmulationImage: DefaultEmulationImage,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
	d.run = d.execRun
	return d
}

func (d *DockerCLI) execRun(ctx context.Context, stdin io.Reader, args ...string) error {
	cmd := exec.CommandContext(ctx, d.Binary, args...)
	cmd.Stdin = stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", d.Binary, strings.Join(args[:min(2, len(args))], " "), err)
	}
	return nil
}

// BuildImage runs "docker build" with deterministic argument order.
func (d *DockerCLI) BuildImage(ctx context.Context, opts BuildImageOptions) error {
	args := []string{"build", "--progress=plain", "--no-cache"}
	for _, k := range sortedArgKeys(opts.BuildArgs) {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, opts.BuildArgs[k]))
	}
	args = append(args, "--file", opts.Dockerfile, "--tag", opts.Tag, opts.ContextDir)

	return errors.Wrap("build image", opts.Tag, d.run(ctx, nil, args...))
}

// RunContainer runs "docker run --rm" to completion.
func (d *DockerCLI) RunContainer(ctx context.Context, opts RunContainerOptions) error {
	args := []string{"run", "--rm"}
	for _, m := range opts.Mounts {
		args = append(args, "--volume", fmt.Sprintf("%s:%s", m.Host, m.Container))
	}
	for _, k := range sortedArgKeys(opts.Env) {
		args = append(args, "--env", fmt.Sprintf("%s=%s", k, opts.Env[k]))
	}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	args = append(args, opts.Image)

	return errors.Wrap("run build container", opts.Image, d.run(ctx, nil, args...))
}

// TagImage runs "docker image tag".
func (d *DockerCLI) TagImage(ctx context.Context, src, dst string) error {
	return errors.Wrap("tag image", dst, d.run(ctx, nil, "image", "tag", src, dst))
}

// PushImage runs "docker push".
func (d *DockerCLI) PushImage(ctx context.Context, ref string) error {
	return errors.Wrap("push image", ref, d.run(ctx, nil, "push", ref))
}

// CreateManifest runs "docker manifest create".
func (d *DockerCLI) CreateManifest(ctx context.Context, list string, members []string) error {
	args := append([]string{"manifest", "create", list}, members...)
	return errors.Wrap("create manifest", list, d.run(ctx, nil, args...))
}

// PushManifest runs "docker manifest push --purge" so stale manifest state
// from earlier runs never leaks into the pushed list.
func (d *DockerCLI) PushManifest(ctx context.Context, list string) error {
	return errors.Wrap("push manifest", list, d.run(ctx, nil, "manifest", "push", "--purge", list))
}

// Login runs "docker login" feeding the password on stdin.
func (d *DockerCLI) Login(ctx context.Context, server, username, password string) error {
	err := d.run(ctx, strings.NewReader(password),
		"login", "--username", username, "--password-stdin", server)
	return errors.Wrap("log in to registry", server, err)
}

// ResetEmulation re-registers qemu binfmt handlers via the privileged
// helper image.
func (d *DockerCLI) ResetEmulation(ctx context.Context) error {
	image := d.EmulationImage
	if image == "" {
		image = DefaultEmulationImage
	}
	err := d.run(ctx, nil, "run", "--rm", "--privileged", image, "--reset")
	return errors.Wrap("reset emulation support", image, err)
}

func sortedArgKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
