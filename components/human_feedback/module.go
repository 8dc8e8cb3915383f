// Package human_feedback wraps the sample where agent responses are refined
// through human feedback.
package human_feedback

import (
	"context"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the human-feedback command.
type Input struct {
	Model          string  `cli:"model"`
	Temperature    float64 `cli:"temperature"`
	MaxTokens      int     `cli:"max-tokens"`
	FeedbackModel  string  `cli:"feedback-model"`
	MaxIterations  int     `cli:"max-iterations"`
	FeedbackSource string  `cli:"feedback-source"`
	CacheSeed      int     `cli:"cache-seed"`
	CacheDir       string  `cli:"cache-dir"`
	LogFile        string  `cli:"log-file"`
	Verbose        bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the human-feedback command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("human-feedback", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the human feedback sample.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agentchat.human_feedback",
		"--model", in.Model,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max-tokens", strconv.Itoa(in.MaxTokens),
		"--feedback-model", in.FeedbackModel,
		"--max-iterations", strconv.Itoa(in.MaxIterations),
		"--cache-seed", strconv.Itoa(in.CacheSeed),
		"--cache-dir", in.CacheDir,
		"--log-file", in.LogFile,
		"--verbose", strconv.FormatBool(in.Verbose),
	}
	if in.FeedbackSource != "" {
		args = append(args, "--feedback-source", in.FeedbackSource)
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
