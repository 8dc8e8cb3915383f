// Package run_all runs every registered sample command in sequence, applying
// a shared set of overrides and printing an execution summary at the end.
package run_all

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/vk/agrun/internal/registry"
)

// Input defines the shared flags for the all command. Each value is forwarded
// to every target command that declares a flag with the same name.
type Input struct {
	Model           string  `cli:"model"`
	Temperature     float64 `cli:"temperature"`
	MaxTokens       int     `cli:"max-tokens"`
	CacheSeed       int     `cli:"cache-seed"`
	CacheDir        string  `cli:"cache-dir"`
	Verbose         bool    `cli:"verbose"`
	IncludeDocker   bool    `cli:"include-docker"`
	ContinueOnError bool    `cli:"continue-on-error"`
	Port            int     `cli:"port"`
	Host            string  `cli:"host"`
	Timeout         int     `cli:"timeout"`
	WorkDir         string  `cli:"work-dir"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the all command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("all", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

type result struct {
	command string
	code    int
	err     error
	elapsed time.Duration
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)
	overrides := sharedOverrides(in)

	var results []result
	for _, command := range inv.Surface.Commands() {
		if skip(command, in.IncludeDocker) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		d, _ := inv.Surface.Lookup(command)
		inv.Proc.Printf("\n--- Running %s ---\n", command)

		start := time.Now()
		code, err := invoke(ctx, inv, d, overrides)
		results = append(results, result{
			command: command,
			code:    code,
			err:     err,
			elapsed: time.Since(start),
		})

		if (code != 0 || err != nil) && !in.ContinueOnError {
			break
		}
	}

	return summarize(inv, results), ctx.Err()
}

// invoke runs one target command with its manifest defaults, overlaid with
// the shared flag values for every flag the target declares.
func invoke(ctx context.Context, inv *registry.Invocation, d *registry.Descriptor, overrides map[string]string) (int, error) {
	fs, bind := d.NewFlagSet(io.Discard)
	if err := fs.Parse(nil); err != nil {
		return 1, err
	}
	for name, value := range overrides {
		if fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return 1, err
		}
	}
	return d.Handler.Entry(ctx, inv, bind())
}

// skip reports whether a command is excluded from the batch: the batch
// command itself always, docker-backed commands unless requested.
func skip(command string, includeDocker bool) bool {
	if command == "all" {
		return true
	}
	return !includeDocker && strings.Contains(command, "docker")
}

func sharedOverrides(in *Input) map[string]string {
	return map[string]string{
		"model":       in.Model,
		"temperature": strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"max-tokens":  strconv.Itoa(in.MaxTokens),
		"cache-seed":  strconv.Itoa(in.CacheSeed),
		"cache-dir":   in.CacheDir,
		"verbose":     strconv.FormatBool(in.Verbose),
		"port":        strconv.Itoa(in.Port),
		"host":        in.Host,
		"timeout":     strconv.Itoa(in.Timeout),
		"work-dir":    in.WorkDir,
	}
}

// summarize prints the execution summary and returns the batch exit code:
// zero only when every target succeeded.
func summarize(inv *registry.Invocation, results []result) int {
	var failed []string
	var total time.Duration
	for _, r := range results {
		total += r.elapsed
		if r.code != 0 || r.err != nil {
			failed = append(failed, r.command)
		}
	}

	rule := strings.Repeat("=", 50)
	inv.Proc.Printf("\n%s\nEXECUTION SUMMARY\n%s\n", rule, rule)
	for _, r := range results {
		status := "ok"
		if r.code != 0 || r.err != nil {
			status = fmt.Sprintf("failed (exit %d)", r.code)
			if r.err != nil {
				status = "failed (" + r.err.Error() + ")"
			}
		}
		inv.Proc.Printf("  %-20s %-30s %s\n", r.command, status, r.elapsed.Round(time.Millisecond))
	}
	inv.Proc.Printf("Total: %d run, %d failed, %s elapsed\n", len(results), len(failed), total.Round(time.Millisecond))
	if len(failed) > 0 {
		inv.Proc.Printf("Failed commands: %s\n", strings.Join(failed, ", "))
		return 1
	}
	return 0
}
