// Package dotnet_group builds and runs the .NET Group Chat sample,
// demonstrating the suite's language-agnostic side.
package dotnet_group

import (
	"context"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

const sampleDir = "dotnet/samples/AgentChat/AutoGen.GroupChat.Sample"

// Input defines the flags for the dotnet-group command.
type Input struct {
	Model       string  `cli:"model"`
	Temperature float64 `cli:"temperature"`
	MaxTokens   int     `cli:"max-tokens"`
	CacheSeed   int     `cli:"cache-seed"`
	CacheDir    string  `cli:"cache-dir"`
	Timeout     int     `cli:"timeout"`
	Verbose     bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the dotnet-group command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("dotnet-group", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// buildArgs builds the dotnet release build invocation.
func buildArgs() []string {
	return []string{
		"build",
		"-c", "Release",
		"-o", "./bin/Release",
		"--no-restore",
		"--nologo",
		"/p:DebugType=None",
		"/p:DebugSymbols=false",
	}
}

// sampleArgs builds the invocation of the compiled sample binary.
func sampleArgs(in *Input) []string {
	return []string{
		"--model", in.Model,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max-tokens", strconv.Itoa(in.MaxTokens),
		"--cache-seed", strconv.Itoa(in.CacheSeed),
		"--cache-dir", in.CacheDir,
		"--timeout", strconv.Itoa(in.Timeout),
		"--verbose", strconv.FormatBool(in.Verbose),
	}
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	dir := filepath.Join(inv.Proc.Root, sampleDir)
	if code, err := inv.Proc.Run(ctx, proc.Opt{Dir: dir}, "dotnet", buildArgs()...); err != nil || code != 0 {
		if err == nil {
			inv.Proc.Printf("[ERROR] .NET build failed\n")
			return 1, nil
		}
		return code, err
	}

	buildDir := filepath.Join(dir, "bin/Release")
	return inv.Proc.Run(ctx, proc.Opt{Dir: buildDir}, "./AutoGen.GroupChat.Sample", sampleArgs(in)...)
}
