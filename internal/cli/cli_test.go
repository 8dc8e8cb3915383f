package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/agrun/internal/cli"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var buf bytes.Buffer

	// --- Act ---
	config, rest, shouldExit, err := cli.Parse([]string{"studio"}, &buf)

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, []string{"studio"}, rest)
	assert.Equal(t, "components", config.ComponentsPath)
	assert.Equal(t, ".agrun-cache", config.CacheDir)
	assert.False(t, config.NoCache)
	assert.False(t, config.DryRun)
	assert.Equal(t, ".", config.RootDir)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
}

func TestParse_GlobalFlagsStopAtCommand(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	config, rest, _, err := cli.Parse([]string{
		"--dry-run",
		"--log-level", "DEBUG",
		"studio",
		"--port", "9000",
	}, &buf)

	require.NoError(t, err)
	assert.True(t, config.DryRun)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, []string{"studio", "--port", "9000"}, rest)
}

func TestParse_HelpRequestsCleanExit(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	_, _, shouldExit, err := cli.Parse([]string{"--help"}, &buf)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, buf.String(), "Global options:")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	_, _, _, err := cli.Parse([]string{"--log-level", "loud"}, &buf)

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-level")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	_, _, _, err := cli.Parse([]string{"--log-format", "xml"}, &buf)

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	_, _, _, err := cli.Parse([]string{"--bogus"}, &buf)

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestParse_NoCacheDropsCacheDirRequirement(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	config, _, _, err := cli.Parse([]string{"--no-cache", "--cache-dir", ""}, &buf)

	require.NoError(t, err)
	assert.True(t, config.NoCache)
}
