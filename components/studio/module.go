// Package studio builds and runs AutoGen Studio: it installs the python
// package, produces an optimized frontend build, and launches the server.
package studio

import (
	"context"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

const (
	packageDir  = "python/samples/apps/autogen-studio"
	frontendDir = "python/samples/apps/autogen-studio/autogenstudio/web"
)

// Input defines the flags for the studio command.
type Input struct {
	Host                string `cli:"host"`
	Port                int    `cli:"port"`
	DatabaseURI         string `cli:"database-uri"`
	LogLevel            string `cli:"log-level"`
	StoragePath         string `cli:"storage-path"`
	EnableCache         bool   `cli:"enable-cache"`
	CacheDir            string `cli:"cache-dir"`
	CacheSeed           int    `cli:"cache-seed"`
	NumWorkers          int    `cli:"num-workers"`
	RequestTimeout      int    `cli:"request-timeout"`
	ModelCacheSize      int    `cli:"model-cache-size"`
	DatabasePoolSize    int    `cli:"database-pool-size"`
	DatabasePoolRecycle int    `cli:"database-pool-recycle"`
	MaxFileSize         int    `cli:"max-file-size"`
	MaxNodes            int    `cli:"max-nodes"`
	MaxEdges            int    `cli:"max-edges"`
	StaticRootPath      string `cli:"static-root-path"`
	FileLogging         bool   `cli:"file-logging"`
	LogFile             string `cli:"log-file"`
	FileLogLevel        string `cli:"file-log-level"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the studio command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("studio", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// installArgs builds the editable pip install of the studio package.
func installArgs() []string {
	return []string{"install", "-e", packageDir + "[dev]"}
}

// frontendBuildArgs builds the production npm build invocation.
func frontendBuildArgs() []string {
	return []string{
		"run", "build", "--",
		"--production",
		"--optimize-minimize",
		"--no-source-maps",
	}
}

// serveArgs builds the autogenstudio server invocation.
func serveArgs(in *Input) []string {
	args := []string{
		"-m", "autogenstudio",
		"--host", in.Host,
		"--port", strconv.Itoa(in.Port),
		"--database_uri", in.DatabaseURI,
		"--log_level", in.LogLevel,
		"--storage_path", in.StoragePath,
		"--enable_cache", strconv.FormatBool(in.EnableCache),
		"--cache_dir", in.CacheDir,
		"--cache_seed", strconv.Itoa(in.CacheSeed),
		"--num_workers", strconv.Itoa(in.NumWorkers),
		"--request_timeout", strconv.Itoa(in.RequestTimeout),
		"--model_cache_size", strconv.Itoa(in.ModelCacheSize),
		"--database_pool_size", strconv.Itoa(in.DatabasePoolSize),
		"--database_pool_recycle", strconv.Itoa(in.DatabasePoolRecycle),
		"--max_file_size", strconv.Itoa(in.MaxFileSize),
		"--max_nodes", strconv.Itoa(in.MaxNodes),
		"--max_edges", strconv.Itoa(in.MaxEdges),
	}
	if in.StaticRootPath != "" {
		args = append(args, "--static_root_path", in.StaticRootPath)
	}
	if in.FileLogging {
		args = append(args,
			"--file_logging", "true",
			"--log_file", in.LogFile,
			"--file_log_level", in.FileLogLevel,
		)
	}
	return args
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	if code, err := inv.Proc.Run(ctx, proc.Opt{}, "pip", installArgs()...); err != nil || code != 0 {
		return failure(code, err)
	}

	web := filepath.Join(inv.Proc.Root, frontendDir)
	if code, err := inv.Proc.Run(ctx, proc.Opt{Dir: web}, "npm", "install"); err != nil || code != 0 {
		return failure(code, err)
	}
	if code, err := inv.Proc.Run(ctx, proc.Opt{Dir: web}, "npm", frontendBuildArgs()...); err != nil || code != 0 {
		return failure(code, err)
	}

	return inv.Proc.Run(ctx, proc.Opt{}, "python", serveArgs(in)...)
}

func failure(code int, err error) (int, error) {
	if err != nil {
		return code, err
	}
	return 1, nil
}
