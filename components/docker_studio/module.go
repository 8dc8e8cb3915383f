// Package docker_studio builds the AutoGen Studio container image and runs it
// with persistent data and storage volumes.
package docker_studio

import (
	"context"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

const (
	imageTag       = "autogen-studio"
	dockerfilePath = "python/samples/apps/autogen-studio/Dockerfile"
)

// Input defines the flags for the docker-studio command.
type Input struct {
	Port             int    `cli:"port"`
	NodeEnv          string `cli:"node-env"`
	BuildOptimize    bool   `cli:"build-optimize"`
	EnableSourceMaps bool   `cli:"enable-source-maps"`
	CacheDir         string `cli:"cache-dir"`
	NumWorkers       int    `cli:"num-workers"`
	DataVolume       string `cli:"data-volume"`
	StorageVolume    string `cli:"storage-volume"`
	EnableCache      bool   `cli:"enable-cache"`
	LogLevel         string `cli:"log-level"`
	RequestTimeout   int    `cli:"request-timeout"`
	MaxFileSize      int    `cli:"max-file-size"`
	ContainerMemory  string `cli:"container-memory"`
	ContainerCPUs    string `cli:"container-cpus"`
	ContainerName    string `cli:"container-name"`
	RmContainer      bool   `cli:"rm-container"`
	Detached         bool   `cli:"detached"`
}

// Component implements the registry.Component interface for this package.
type Component struct{}

// Register registers the handler for the docker-studio command.
func (c *Component) Register(r *registry.Registry) {
	r.RegisterComponent("docker-studio", &registry.RegisteredComponent{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Entry:     run,
	})
}

// buildArgs builds the docker build invocation for the studio image.
func buildArgs(in *Input) []string {
	return []string{
		"build",
		"-t", imageTag,
		"--build-arg", "NODE_ENV=" + in.NodeEnv,
		"--build-arg", "BUILD_OPTIMIZE=" + strconv.FormatBool(in.BuildOptimize),
		"--build-arg", "ENABLE_SOURCE_MAPS=" + strconv.FormatBool(in.EnableSourceMaps),
		"--build-arg", "CACHE_DIR=" + in.CacheDir,
		"--build-arg", "NUM_WORKERS=" + strconv.Itoa(in.NumWorkers),
		"-f", dockerfilePath,
		".",
	}
}

// runArgs builds the docker run invocation. dataDir and storageDir must be
// absolute paths on the host.
func runArgs(in *Input, dataDir, storageDir string) []string {
	args := []string{
		"run",
		"-p", strconv.Itoa(in.Port) + ":8081",
		"-v", dataDir + ":/app/data",
		"-v", storageDir + ":/app/storage",
		"-e", "AUTOGENSTUDIO_DATABASE_URI=sqlite:///data/autogenstudio.db",
		"-e", "AUTOGENSTUDIO_STORAGE_PATH=/app/storage",
		"-e", "AUTOGENSTUDIO_ENABLE_CACHE=" + strconv.FormatBool(in.EnableCache),
		"-e", "AUTOGENSTUDIO_CACHE_DIR=/app/.cache",
		"-e", "AUTOGENSTUDIO_NUM_WORKERS=" + strconv.Itoa(in.NumWorkers),
		"-e", "AUTOGENSTUDIO_LOG_LEVEL=" + in.LogLevel,
		"-e", "AUTOGENSTUDIO_REQUEST_TIMEOUT=" + strconv.Itoa(in.RequestTimeout),
		"-e", "AUTOGENSTUDIO_MAX_FILE_SIZE=" + strconv.Itoa(in.MaxFileSize),
		"--memory", in.ContainerMemory,
		"--cpus", in.ContainerCPUs,
	}
	if in.ContainerName != "" {
		args = append(args, "--name", in.ContainerName)
	}
	if in.RmContainer {
		args = append(args, "--rm")
	}
	if in.Detached {
		args = append(args, "-d")
	}
	return append(args, imageTag)
}

func run(ctx context.Context, inv *registry.Invocation, input any) (int, error) {
	in := input.(*Input)

	code, err := inv.Proc.Run(ctx, proc.Opt{}, "docker", buildArgs(in)...)
	if err != nil {
		return code, err
	}
	if code != 0 {
		inv.Proc.Printf("[ERROR] Docker build failed\n")
		return 1, nil
	}

	dataDir := hostPath(inv.Proc.Root, in.DataVolume)
	storageDir := hostPath(inv.Proc.Root, in.StorageVolume)
	if err := inv.Proc.EnsureDir(dataDir); err != nil {
		return 1, err
	}
	if err := inv.Proc.EnsureDir(storageDir); err != nil {
		return 1, err
	}

	return inv.Proc.Run(ctx, proc.Opt{}, "docker", runArgs(in, dataDir, storageDir)...)
}

// hostPath resolves a volume path relative to the repository root.
func hostPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(filepath.Join(root, p))
	if err != nil {
		return filepath.Join(root, p)
	}
	return abs
}
