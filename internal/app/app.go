package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vk/agrun/internal/cache"
	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/dispatch"
	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: logger, component registry, cache, and the built command
// surface.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	config  *Config
	reg     *registry.Registry
	surface *registry.Surface
	skipped int
}

// NewApp constructs a fully initialized App: it registers the compiled-in
// components (coreComponents unless overridden), builds the command surface
// from the on-disk manifests, and wires the descriptor cache. A failure to
// enumerate manifests is the only fatal outcome; individual invalid
// components are skipped with warnings.
func NewApp(outW, errW io.Writer, config *Config, components ...registry.Component) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, errW).With("run_id", uuid.NewString())
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New()
	if len(components) == 0 {
		components = coreComponents
	}
	for _, c := range components {
		c.Register(reg)
	}
	logger.Debug("All compiled-in components registered.", "count", len(components))

	store := cache.New(config.CacheDir)
	if config.NoCache {
		store = cache.Disabled()
	}

	surface, skipped, err := reg.BuildSurface(ctx, config.ComponentsPath, store)
	if err != nil {
		return nil, fmt.Errorf("building command surface: %w", err)
	}
	if surface.Len() == 0 {
		// Not fatal: an empty surface still answers help.
		logger.Warn("No valid components were registered. Some commands may not be available.")
	}

	return &App{
		outW:    outW,
		errW:    errW,
		logger:  logger,
		config:  config,
		reg:     reg,
		surface: surface,
		skipped: skipped,
	}, nil
}

// Run dispatches the selected command and returns the process exit code.
func (a *App) Run(ctx context.Context, argv []string) int {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	runner := &proc.Runner{
		Dry:  a.config.DryRun,
		Root: a.config.RootDir,
		Out:  a.outW,
		ErrW: a.errW,
	}

	return dispatch.Dispatch(ctx, &dispatch.Options{
		Registry: a.reg,
		Surface:  a.surface,
		Proc:     runner,
		Out:      a.outW,
		ErrW:     a.errW,
	}, argv)
}

// Surface returns the built command surface. This is primarily for testing.
func (a *App) Surface() *registry.Surface {
	return a.surface
}

// Skipped reports how many discovered components were rejected.
func (a *App) Skipped() int {
	return a.skipped
}
