// Package basic_agent wraps the simplest AutoGen sample: a single-agent
// conversation between a user and an assistant.
package basic_agent

import (
	"context"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the basic-agent command.
type Input struct {
	Model       string  `cli:"model"`
	Temperature float64 `cli:"temperature"`
	MaxTokens   int     `cli:"max-tokens"`
	CacheSeed   int     `cli:"cache-seed"`
	CacheDir    string  `cli:"cache-dir"`
	Verbose     bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the basic-agent command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("basic-agent", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the simple agent chat sample.
func sampleArgs(in *Input) []string {
	return []string{
		"-m", "python.samples.agentchat.simple",
		"--model", in.Model,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max_tokens", strconv.Itoa(in.MaxTokens),
		"--cache_seed", strconv.Itoa(in.CacheSeed),
		"--cache_dir", in.CacheDir,
		"--verbose", strconv.FormatBool(in.Verbose),
	}
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)
	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
