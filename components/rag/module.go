// Package rag wraps the retrieval-augmented generation sample, integrating
// external documents into agent conversations.
package rag

import (
	"context"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// Input defines the flags for the rag command.
type Input struct {
	Model                 string  `cli:"model"`
	EmbeddingModel        string  `cli:"embedding-model"`
	Temperature           float64 `cli:"temperature"`
	MaxTokens             int     `cli:"max-tokens"`
	RetrievalTopK         int     `cli:"retrieval-top-k"`
	RetrievalChunkSize    int     `cli:"retrieval-chunk-size"`
	RetrievalChunkOverlap int     `cli:"retrieval-chunk-overlap"`
	VectorStoreDir        string  `cli:"vector-store-dir"`
	DocumentPath          string  `cli:"document-path"`
	Query                 string  `cli:"query"`
	CacheSeed             int     `cli:"cache-seed"`
	CacheDir              string  `cli:"cache-dir"`
	Verbose               bool    `cli:"verbose"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the rag command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("rag", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// sampleArgs builds the python invocation for the retrieval chat sample.
func sampleArgs(in *Input) []string {
	args := []string{
		"-m", "python.samples.agentchat.retrievechat",
		"--model", in.Model,
		"--embedding-model", in.EmbeddingModel,
		"--temperature", strconv.FormatFloat(in.Temperature, 'g', -1, 64),
		"--max-tokens", strconv.Itoa(in.MaxTokens),
		"--retrieval-top-k", strconv.Itoa(in.RetrievalTopK),
		"--retrieval-chunk-size", strconv.Itoa(in.RetrievalChunkSize),
		"--retrieval-chunk-overlap", strconv.Itoa(in.RetrievalChunkOverlap),
		"--vector-store-dir", in.VectorStoreDir,
		"--cache-seed", strconv.Itoa(in.CacheSeed),
		"--cache-dir", in.CacheDir,
		"--verbose", strconv.FormatBool(in.Verbose),
	}
	if in.DocumentPath != "" {
		args = append(args, "--document-path", in.DocumentPath)
	}
	if in.Query != "" {
		args = append(args, "--query", in.Query)
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	if err := inv.Proc.EnsureDir(in.VectorStoreDir); err != nil {
		return 1, err
	}

	return inv.Proc.Run(ctx, proc.Opt{}, "python", sampleArgs(in)...)
}
