package proc_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/agrun/internal/proc"
)

func TestRun_DryEchoesWithoutSpawning(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var out, errW bytes.Buffer
	r := &proc.Runner{Dry: true, Out: &out, ErrW: &errW}

	// --- Act ---
	code, err := r.Run(context.Background(), proc.Opt{}, "definitely-not-a-binary", "--flag", "value")

	// --- Assert ---
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Empty(t, out.String())
	assert.Equal(t, "+ definitely-not-a-binary --flag value\n", errW.String())
}

func TestRun_ReportsSubprocessExitCode(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := &proc.Runner{Out: &out, ErrW: &out}

	code, err := r.Run(context.Background(), proc.Opt{}, "sh", "-c", "exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, out.String(), "Running command: sh -c exit 3")
}

func TestRun_MissingBinaryIsAnError(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := &proc.Runner{Out: &out, ErrW: &out}

	code, err := r.Run(context.Background(), proc.Opt{}, "agrun-test-no-such-binary")

	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestRun_OptDirOverridesRoot(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	root := t.TempDir()
	other := t.TempDir()
	var out bytes.Buffer
	r := &proc.Runner{Root: root, Out: &out, ErrW: &out}

	// --- Act ---
	code, err := r.Run(context.Background(), proc.Opt{Dir: other}, "sh", "-c", "touch marker")

	// --- Assert ---
	require.NoError(t, err)
	require.Zero(t, code)
	assert.FileExists(t, filepath.Join(other, "marker"))
	assert.NoFileExists(t, filepath.Join(root, "marker"))
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "a", "b")
	r := &proc.Runner{}

	require.NoError(t, r.EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_NoopWhenDry(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "never-created")
	r := &proc.Runner{Dry: true}

	require.NoError(t, r.EnsureDir(dir))

	assert.NoDirExists(t, dir)
}
