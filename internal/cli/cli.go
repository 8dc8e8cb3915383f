package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/agrun/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes the global command-line arguments, stopping at the first
// non-flag argument. It returns the populated config, the remaining
// arguments (the selected command and its flags), and a boolean indicating
// the program should exit cleanly (help was requested).
func Parse(args []string, output io.Writer) (*app.Config, []string, bool, error) {
	flagSet := flag.NewFlagSet("agrun", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `agrun - AutoGen build & run utility.

Usage:
  agrun [global options] <command> [flags]

Run 'agrun help' to list the available commands.

Global options:
`)
		flagSet.PrintDefaults()
	}

	componentsPath := flagSet.String("components-path", "components", "Path to the directory containing component manifests.")
	cacheDir := flagSet.String("cache-dir", ".agrun-cache", "Directory for the validated-component cache.")
	noCache := flagSet.Bool("no-cache", false, "Disable the validated-component cache.")
	dryRun := flagSet.Bool("dry-run", false, "Print external commands instead of running them.")
	rootDir := flagSet.String("root", ".", "Repository root the wrapped commands run from.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, true, nil
		}
		return nil, nil, false, &ExitError{Code: 1, Message: err.Error()}
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, nil, false, &ExitError{Code: 1, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, nil, false, &ExitError{Code: 1, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ComponentsPath: *componentsPath,
		CacheDir:       *cacheDir,
		NoCache:        *noCache,
		DryRun:         *dryRun,
		RootDir:        *rootDir,
		LogFormat:      format,
		LogLevel:       level,
	})
	if err != nil {
		return nil, nil, false, &ExitError{Code: 1, Message: err.Error()}
	}

	return config, flagSet.Args(), false, nil
}
