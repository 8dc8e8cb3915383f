// Package benchmark wraps the performance benchmarking framework.
package benchmark

import (
	"context"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the benchmark command.
type Input struct {
	Model           string  `cli:"model"`
	BenchmarkSet    string  `cli:"benchmark-set"`
	EvalModel       string  `cli:"eval-model"`
	Temperature     float64 `cli:"temperature"`
	MaxTokens       int     `cli:"max-tokens"`
	ResultsDir      string  `cli:"results-dir"`
	ParallelRuns    int     `cli:"parallel-runs"`
	Timeout         int     `cli:"timeout"`
	CacheSeed       int     `cli:"cache-seed"`
	CacheDir        string  `cli:"cache-dir"`
	CustomBenchmark string  `cli:"custom-benchmark"`
	ReportFormat    string  `cli:"report-format"`
	Verbose         bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the benchmark command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("benchmark", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the benchmark framework.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agenteval.benchmark",
		"--benchmark-set", in.BenchmarkSet,
		"--model", in.Model,
		"--eval-model", in.EvalModel,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max-tokens", strconv.Itoa(in.MaxTokens),
		"--cache-seed", strconv.Itoa(in.CacheSeed),
		"--cache-dir", in.CacheDir,
		"--results-dir", in.ResultsDir,
		"--parallel-runs", strconv.Itoa(in.ParallelRuns),
		"--timeout", strconv.Itoa(in.Timeout),
		"--verbose", strconv.FormatBool(in.Verbose),
	}
	if in.CustomBenchmark != "" {
		args = append(args, "--custom-benchmark", in.CustomBenchmark)
	}
	if in.ReportFormat != "" {
		args = append(args, "--report-format", in.ReportFormat)
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	if err := inv.Proc.EnsureDir(in.ResultsDir); err != nil {
		return 1, err
	}

	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
