// Package proc runs the external programs the components wrap. It is the
// only place the dispatcher touches os/exec; components describe argument
// lists and let the Runner spawn, stream, and collect exit codes.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/agrun/internal/ctxlog"
)

// Runner spawns external processes with a shared default working directory
// and environment. When Dry is set no process is started; the command line
// is echoed instead.
type Runner struct {
	Dry  bool
	Root string   // default working directory for spawned commands
	Env  []string // extra KEY=VALUE entries appended to the inherited env
	Out  io.Writer
	ErrW io.Writer
}

// Opt overrides per-invocation process settings.
type Opt struct {
	Dir string   // working directory; empty means the Runner's Root
	Env []string // extra KEY=VALUE entries for this invocation only
}

// Run executes name with args, streaming stdio to the Runner's writers, and
// returns the subprocess exit code. A non-zero exit is a collaborator result
// and is returned without an error; an error is only returned when the
// process could not be run at all.
func (r *Runner) Run(ctx context.Context, opt Opt, name string, args ...string) (int, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	if r.Dry {
		fmt.Fprintf(r.errw(), "+ %s\n", line)
		return 0, nil
	}

	fmt.Fprintf(r.out(), "Running command: %s\n", line)
	ctxlog.FromContext(ctx).Debug("Spawning external process.", "command", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opt.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.Root
	}
	cmd.Env = append(os.Environ(), append(r.Env, opt.Env...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.out()
	cmd.Stderr = r.errw()

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	return 1, fmt.Errorf("running %s: %w", name, err)
}

// Printf writes user-facing output, components' progress and summary lines.
func (r *Runner) Printf(format string, args ...any) {
	fmt.Fprintf(r.out(), format, args...)
}

// Errorf writes a user-facing error line to the error stream.
func (r *Runner) Errorf(format string, args ...any) {
	fmt.Fprintf(r.errw(), format, args...)
}

// EnsureDir creates dir (and parents) when it does not exist yet. Components
// use it for volume, log, and result directories before launching.
func (r *Runner) EnsureDir(dir string) error {
	if dir == "" || r.Dry {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) errw() io.Writer {
	if r.ErrW != nil {
		return r.ErrW
	}
	return os.Stderr
}
