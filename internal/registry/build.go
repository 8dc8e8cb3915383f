package registry

import (
	"context"
	"os"

	"github.com/vk/agrun/internal/cache"
	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/errkind"
)

// BuildSurface discovers every component manifest under componentsPath,
// validates each (consulting the cache first), and registers the survivors
// into a fresh command surface. One broken component is skipped with a
// warning and never blocks the others; the skip count is returned alongside
// the surface. A surface with zero commands is valid — the caller decides
// what to do about it.
func (r *Registry) BuildSurface(ctx context.Context, componentsPath string, store *cache.Store) (*Surface, int, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := Discover(ctx, componentsPath)
	if err != nil {
		return nil, 0, err
	}

	surface := NewSurface()
	skipped := 0

	for _, path := range paths {
		ident := Identifier(path)

		src, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable component.", "identifier", ident, "error", errkind.Newf(errkind.Load, "reading manifest %s: %w", path, err))
			skipped++
			continue
		}

		desc, fresh, err := r.resolve(ctx, path, ident, src, store)
		if err != nil {
			logger.Warn("Skipping invalid component.", "identifier", ident, "error", err)
			skipped++
			continue
		}

		if fresh {
			if err := store.Store(ctx, ident, src, desc.Data()); err != nil {
				// The cache is an optimization; a failed store never aborts the run.
				logger.Warn("Failed to cache validated component.", "identifier", ident, "error", err)
			}
		}

		if err := surface.Add(desc); err != nil {
			logger.Warn("Command name conflict.", "identifier", ident, "error", err)
			skipped++
			continue
		}
	}

	logger.Info("Command surface built.", "commands", surface.Len(), "skipped", skipped)
	return surface, skipped, nil
}

// resolve produces the descriptor for one manifest, from cache when the
// source bytes are unchanged, otherwise by fresh validation. The boolean
// reports whether fresh validation ran (and the result should be stored).
func (r *Registry) resolve(ctx context.Context, path, ident string, src []byte, store *cache.Store) (*Descriptor, bool, error) {
	if data, ok := store.Lookup(ctx, ident, src); ok {
		handler, ok := r.Handler(data.Command)
		if ok && handler.Entry != nil {
			return &Descriptor{
				Command:      data.Command,
				Description:  data.Description,
				Flags:        data.Flags,
				Handler:      handler,
				ManifestPath: path,
			}, false, nil
		}
		// A cached descriptor whose handler vanished means the binary
		// changed under the cache; fall through to fresh validation so the
		// failure is reported with its real category.
	}

	manifest, err := parseManifest(src, path)
	if err != nil {
		return nil, false, err
	}
	desc, err := r.validateManifest(ctx, path, manifest)
	if err != nil {
		return nil, false, err
	}
	return desc, true, nil
}
