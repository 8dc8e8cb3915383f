// Package agent_eval wraps the agent evaluation framework, scoring agent
// performance against standardized tasks.
package agent_eval

import (
	"context"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the eval command.
type Input struct {
	Model         string  `cli:"model"`
	EvalModel     string  `cli:"eval-model"`
	Temperature   float64 `cli:"temperature"`
	CacheSeed     int     `cli:"cache-seed"`
	CacheDir      string  `cli:"cache-dir"`
	NumEvals      int     `cli:"num-evals"`
	ParallelEvals int     `cli:"parallel-evals"`
	LogFile       string  `cli:"log-file"`
	EvalCriteria  string  `cli:"eval-criteria"`
	TaskSet       string  `cli:"task-set"`
	Verbose       bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the eval command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("eval", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the evaluation framework.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agenteval.eval_with_agenteval",
		"--model", in.Model,
		"--eval-model", in.EvalModel,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--cache-seed", strconv.Itoa(in.CacheSeed),
		"--cache-dir", in.CacheDir,
		"--num-evals", strconv.Itoa(in.NumEvals),
		"--parallel-evals", strconv.Itoa(in.ParallelEvals),
		"--log-file", in.LogFile,
		"--verbose", strconv.FormatBool(in.Verbose),
	}
	if in.EvalCriteria != "" {
		args = append(args, "--eval-criteria", in.EvalCriteria)
	}
	if in.TaskSet != "" {
		args = append(args, "--task-set", in.TaskSet)
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	if dir := filepath.Dir(in.LogFile); dir != "." {
		if err := inv.Proc.EnsureDir(dir); err != nil {
			return 1, err
		}
	}

	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
