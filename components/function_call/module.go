// Package function_call wraps the sample showcasing OpenAI function calling
// integrated with AutoGen agents.
package function_call

import (
	"context"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the function-call command.
type Input struct {
	Model          string  `cli:"model"`
	Temperature    float64 `cli:"temperature"`
	MaxTokens      int     `cli:"max-tokens"`
	CacheSeed      int     `cli:"cache-seed"`
	CacheDir       string  `cli:"cache-dir"`
	Verbose        bool    `cli:"verbose"`
	Stream         bool    `cli:"stream"`
	FunctionConfig string  `cli:"function-config"`
	AllowParallel  bool    `cli:"allow-parallel"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the function-call command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("function-call", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the function calling sample.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agentchat.agent_with_function_call",
		"--model", in.Model,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max_tokens", strconv.Itoa(in.MaxTokens),
		"--cache_seed", strconv.Itoa(in.CacheSeed),
		"--cache_dir", in.CacheDir,
		"--verbose", strconv.FormatBool(in.Verbose),
		"--stream", strconv.FormatBool(in.Stream),
	}
	if in.FunctionConfig != "" {
		args = append(args, "--function_config", in.FunctionConfig)
	}
	if in.AllowParallel {
		args = append(args, "--allow_parallel", "true")
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)
	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
