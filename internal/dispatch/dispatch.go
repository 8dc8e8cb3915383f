package dispatch

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Exit codes the dispatcher hands back to the shell.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInterrupt = 130
)

var (
	warnLabel = color.New(color.FgYellow).Sprint("[WARNING]")
	errLabel  = color.New(color.FgRed).Sprint("[ERROR]")
)

// Options carries the collaborators Dispatch resolves against.
type Options struct {
	Registry *registry.Registry
	Surface  *registry.Surface
	Proc     *proc.Runner
	Out      io.Writer
	ErrW     io.Writer

	// NoRefresh disables re-validating the selected component's manifest
	// immediately before invocation.
	NoRefresh bool
}

// Dispatch resolves argv[0] against the command surface and invokes the
// bound entry point with the remaining arguments parsed. It maps every
// outcome to a process exit code and never lets a component failure escape.
func Dispatch(ctx context.Context, opts *Options, argv []string) int {
	out, errW := opts.out(), opts.errw()

	if len(argv) == 0 {
		printUsage(errW, opts.Surface)
		return ExitFailure
	}

	name := argv[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(out, opts.Surface)
		return ExitOK
	}

	desc, ok := opts.Surface.Lookup(name)
	if !ok {
		fmt.Fprintf(errW, "%s unknown command %q\n", errLabel, name)
		printUsage(errW, opts.Surface)
		return ExitFailure
	}

	desc = opts.refresh(ctx, desc)

	fs, bind := desc.NewFlagSet(errW)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  agrun %s [flags]\n\n%s\n\nFlags:\n", desc.Command, desc.Description)
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitFailure
	}

	inv := &registry.Invocation{Proc: opts.Proc, Surface: opts.Surface}
	code, err := desc.Handler.Entry(ctx, inv, bind())

	if ctx.Err() != nil {
		fmt.Fprintln(errW, "\nOperation interrupted by user.")
		return ExitInterrupt
	}
	if err != nil {
		kind, kinded := errkind.KindOf(err)
		if kind == errkind.Interrupt {
			fmt.Fprintln(errW, "\nOperation interrupted by user.")
			return ExitInterrupt
		}
		msg := err.Error()
		if !kinded {
			msg = fmt.Sprintf("%s: %s", errkind.Dispatch, msg)
		}
		fmt.Fprintf(errW, "%s %s\n", errLabel, msg)
		ctxlog.FromContext(ctx).Error("Component entry failed.", "command", desc.Command, "kind", kind.String(), "error", err)
		return ExitFailure
	}
	return code
}

// refresh re-validates the selected component's manifest so flag or default
// edits made after the surface was built take effect. Best-effort: any
// failure keeps the descriptor loaded at build time.
func (o *Options) refresh(ctx context.Context, desc *registry.Descriptor) *registry.Descriptor {
	if o.NoRefresh || o.Registry == nil || desc.ManifestPath == "" {
		return desc
	}

	fresh, err := o.Registry.Validate(ctx, desc.ManifestPath)
	if err != nil {
		fmt.Fprintf(o.errw(), "%s could not refresh component %q, using the version loaded at startup (%v)\n", warnLabel, desc.Command, err)
		ctxlog.FromContext(ctx).Warn("Component refresh failed.", "command", desc.Command, "error", err)
		return desc
	}
	if fresh.Command != desc.Command {
		fmt.Fprintf(o.errw(), "%s manifest for %q now claims command %q; using the version loaded at startup\n", warnLabel, desc.Command, fresh.Command)
		return desc
	}
	return fresh
}

func printUsage(w io.Writer, surface *registry.Surface) {
	fmt.Fprint(w, `agrun - AutoGen build & run utility.

Usage:
  agrun [global options] <command> [flags]

Commands:
`)
	for _, name := range surface.Commands() {
		desc, _ := surface.Lookup(name)
		fmt.Fprintf(w, "  %-15s %s\n", name, desc.Description)
	}
	fmt.Fprint(w, "\nRun 'agrun <command> -h' to see a command's flags.\n")
}

func (o *Options) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

func (o *Options) errw() io.Writer {
	if o.ErrW != nil {
		return o.ErrW
	}
	return os.Stderr
}
