// Package group_chat wraps the multi-agent group chat sample with code
// generation and execution.
package group_chat

import (
	"context"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the group-chat command.
type Input struct {
	Model       string  `cli:"model"`
	Temperature float64 `cli:"temperature"`
	MaxTokens   int     `cli:"max-tokens"`
	CacheSeed   int     `cli:"cache-seed"`
	CacheDir    string  `cli:"cache-dir"`
	Timeout     int     `cli:"timeout"`
	WorkDir     string  `cli:"work-dir"`
	Verbose     bool    `cli:"verbose"`
	Stream      bool    `cli:"stream"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the group-chat command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("group-chat", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the group chat sample.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agentchat.group_chat_with_code",
		"--model", in.Model,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max_tokens", strconv.Itoa(in.MaxTokens),
		"--cache_seed", strconv.Itoa(in.CacheSeed),
		"--cache_dir", in.CacheDir,
		"--timeout", strconv.Itoa(in.Timeout),
		"--work_dir", in.WorkDir,
		"--verbose", strconv.FormatBool(in.Verbose),
	}
	if in.Stream {
		args = append(args, "--stream", "true")
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)
	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
