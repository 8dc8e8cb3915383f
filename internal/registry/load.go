package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/fsutil"
	"github.com/vk/agrun/internal/schema"
)

// ManifestName is the file name every component manifest must use.
const ManifestName = "manifest.hcl"

// Discover enumerates all component manifests under componentsPath in a
// deterministic (sorted) order. A missing components directory is reported
// as zero manifests, not an error: an empty surface is a valid, if useless,
// run.
func Discover(ctx context.Context, componentsPath string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(componentsPath); os.IsNotExist(err) {
		logger.Warn("Components path does not exist; no components will be registered.", "path", componentsPath)
		return nil, nil
	}

	paths, err := fsutil.FindFilesByName(componentsPath, ManifestName)
	if err != nil {
		return nil, errkind.Newf(errkind.Load, "walking components path %s: %w", componentsPath, err)
	}

	logger.Debug("Discovered component manifests.", "path", componentsPath, "count", len(paths))
	return paths, nil
}

// Identifier derives the component identifier from a manifest's location:
// the name of the directory holding it.
func Identifier(manifestPath string) string {
	return filepath.Base(filepath.Dir(manifestPath))
}

// loadManifest reads and decodes a single manifest file. It returns the
// decoded manifest together with the exact source bytes, which callers hash
// for cache addressing. All failures are load errors.
func loadManifest(path string) (*schema.ComponentManifest, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errkind.Newf(errkind.Load, "reading manifest %s: %w", path, err)
	}
	manifest, err := parseManifest(src, path)
	if err != nil {
		return nil, nil, err
	}
	return manifest, src, nil
}

// parseManifest decodes manifest source that has already been read.
func parseManifest(src []byte, path string) (*schema.ComponentManifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, errkind.Newf(errkind.Load, "parsing manifest %s: %w", path, diags)
	}

	var mf schema.ManifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &mf); diags.HasErrors() {
		return nil, errkind.Newf(errkind.Load, "decoding manifest %s: %w", path, diags)
	}

	if len(mf.Components) != 1 {
		return nil, errkind.Newf(errkind.Load, "manifest %s must declare exactly one component, found %d", path, len(mf.Components))
	}

	return mf.Components[0], nil
}
