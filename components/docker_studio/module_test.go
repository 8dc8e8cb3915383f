package docker_studio

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

func defaultInput() *Input {
	return &Input{
		Port:             8081,
		NodeEnv:          "production",
		BuildOptimize:    true,
		EnableSourceMaps: false,
		CacheDir:         ".cache",
		NumWorkers:       4,
		DataVolume:       "./autogenstudio_data",
		StorageVolume:    "./autogenstudio_storage",
		EnableCache:      true,
		LogLevel:         "INFO",
		RequestTimeout:   300,
		MaxFileSize:      10485760,
		ContainerMemory:  "4g",
		ContainerCPUs:    "2",
	}
}

func TestBuildArgs(t *testing.T) {
	t.Parallel()
	args := buildArgs(defaultInput())

	assert.Equal(t, []string{
		"build",
		"-t", "autogen-studio",
		"--build-arg", "NODE_ENV=production",
		"--build-arg", "BUILD_OPTIMIZE=true",
		"--build-arg", "ENABLE_SOURCE_MAPS=false",
		"--build-arg", "CACHE_DIR=.cache",
		"--build-arg", "NUM_WORKERS=4",
		"-f", "python/samples/apps/autogen-studio/Dockerfile",
		".",
	}, args)
}

func TestRunArgs_ForwardsLogLevel(t *testing.T) {
	t.Parallel()
	in := defaultInput()
	in.LogLevel = "DEBUG"

	args := runArgs(in, "/data", "/storage")

	assert.Contains(t, args, "AUTOGENSTUDIO_LOG_LEVEL=DEBUG")
	assert.Contains(t, args, "-v")
	assert.Contains(t, args, "/data:/app/data")
	assert.Contains(t, args, "/storage:/app/storage")
	assert.Equal(t, "autogen-studio", args[len(args)-1])
}

func TestRunArgs_OptionalContainerFlags(t *testing.T) {
	t.Parallel()
	in := defaultInput()

	base := runArgs(in, "/d", "/s")
	assert.NotContains(t, base, "--name")
	assert.NotContains(t, base, "--rm")
	assert.NotContains(t, base, "-d")

	in.ContainerName = "studio"
	in.RmContainer = true
	in.Detached = true
	full := runArgs(in, "/d", "/s")
	assert.Contains(t, full, "--name")
	assert.Contains(t, full, "studio")
	assert.Contains(t, full, "--rm")
	assert.Contains(t, full, "-d")
	// The image tag stays last regardless of optional flags.
	assert.Equal(t, "autogen-studio", full[len(full)-1])
}

func TestHostPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/abs/path", hostPath("/repo", "/abs/path"))
	assert.Equal(t, "/repo/rel", hostPath("/repo", "./rel"))
}

func TestRun_DryBuildsThenRuns(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var errW bytes.Buffer
	inv := &registry.Invocation{Proc: &proc.Runner{Dry: true, Root: "/repo", ErrW: &errW}}

	// --- Act ---
	code, err := run(context.Background(), inv, defaultInput())

	// --- Assert ---
	require.NoError(t, err)
	assert.Zero(t, code)
	out := errW.String()
	assert.Contains(t, out, "+ docker build -t autogen-studio")
	assert.Contains(t, out, "+ docker run -p 8081:8081")
}
