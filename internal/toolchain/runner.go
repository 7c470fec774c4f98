// Package toolchain runs the external documentation CLI as a child process.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

var (
	// ErrToolchainNotFound indicates the CLI executable was not found on PATH.
	ErrToolchainNotFound = errors.New("documentation toolchain not found")
	// ErrToolchainFailed indicates the CLI exited non-zero or could not complete.
	ErrToolchainFailed = errors.New("documentation toolchain failed")
)

// waitDelay bounds how long a killed child may hold its output pipes open.
const waitDelay = 2 * time.Second

// Runner invokes the documentation CLI with the given subcommand arguments and
// blocks until it exits.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// ExecRunner runs a base command (e.g. "npx @redocly/cli") followed by the
// per-call arguments. The child inherits the configured output streams.
type ExecRunner struct {
	command  []string
	stdout   io.Writer
	stderr   io.Writer
	timeout  time.Duration
	lookPath func(string) (string, error)
}

// NewExecRunner creates a runner for command, writing child output to the
// parent's stdout and stderr.
func NewExecRunner(command []string) *ExecRunner {
	return &ExecRunner{
		command:  append([]string(nil), command...),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		lookPath: exec.LookPath,
	}
}

// WithOutput redirects the child's output streams.
func (r *ExecRunner) WithOutput(stdout, stderr io.Writer) *ExecRunner {
	r.stdout, r.stderr = stdout, stderr
	return r
}

// WithTimeout bounds each invocation; zero disables the bound.
func (r *ExecRunner) WithTimeout(d time.Duration) *ExecRunner {
	r.timeout = d
	return r
}

// String renders the base command line.
func (r *ExecRunner) String() string {
	return strings.Join(r.command, " ")
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) error {
	if len(r.command) == 0 {
		return fmt.Errorf("%w: empty command", ErrToolchainNotFound)
	}
	path, err := r.lookPath(r.command[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrToolchainNotFound, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := append(append([]string(nil), r.command[1:]...), args...)
	// #nosec G204 -- command comes from operator configuration
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay

	line := r.String() + " " + strings.Join(args, " ")
	slog.Debug("Invoking documentation toolchain", logfields.Command(line))

	start := time.Now()
	err = cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w: %w", ErrToolchainFailed, line, ctxErr, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrToolchainFailed, line, err)
	}
	slog.Debug("Documentation toolchain finished", logfields.Command(line), logfields.Duration(time.Since(start)))
	return nil
}

// ExitCode returns the exit status carried by err, or -1 when err does not come
// from a child that exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
