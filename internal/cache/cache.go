// Package cache persists validated component descriptors keyed by a content
// hash of their manifest source. The cache is purely an optimization: every
// failure degrades to a miss or a logged warning, never an aborted run.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/schema"
)

// Store is an on-disk, content-addressed descriptor cache. One file per
// (identifier, content hash) pair; a byte-level change to the source yields a
// new key, so entries are never invalidated in place. The zero value is not
// usable; construct with New or Disabled.
type Store struct {
	dir      string
	disabled bool
}

// New creates a store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Disabled returns a store whose Lookup always misses and whose Store is a
// no-op. Used for --no-cache.
func Disabled() *Store {
	return &Store{disabled: true}
}

// Lookup returns the cached descriptor for the exact current content of src,
// or a miss. Unreadable or undecodable entries are treated as misses; stale
// entries for other content hashes are simply never addressed.
func (s *Store) Lookup(ctx context.Context, ident string, src []byte) (*schema.DescriptorData, bool) {
	if s.disabled {
		return nil, false
	}
	logger := ctxlog.FromContext(ctx)

	path := s.entryPath(ident, src)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var data schema.DescriptorData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		logger.Debug("Discarding undecodable cache entry.", "path", path, "error", err)
		return nil, false
	}
	if data.Command == "" {
		logger.Debug("Discarding structurally empty cache entry.", "path", path)
		return nil, false
	}

	logger.Debug("Descriptor cache hit.", "identifier", ident, "path", path)
	return &data, true
}

// Store persists data under the content hash of src. The write is atomic: a
// temp file is renamed into place, so an interrupted store leaves no partial
// entry visible to later lookups. Failures are reported as cache errors for
// the caller to log; they must never abort the run.
func (s *Store) Store(ctx context.Context, ident string, src []byte, data *schema.DescriptorData) error {
	if s.disabled {
		return nil
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		return errkind.Newf(errkind.Cache, "serializing descriptor for %s: %w", ident, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errkind.Newf(errkind.Cache, "creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errkind.Newf(errkind.Cache, "creating temp entry for %s: %w", ident, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errkind.Newf(errkind.Cache, "writing entry for %s: %w", ident, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errkind.Newf(errkind.Cache, "closing entry for %s: %w", ident, err)
	}

	path := s.entryPath(ident, src)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errkind.Newf(errkind.Cache, "publishing entry for %s: %w", ident, err)
	}

	ctxlog.FromContext(ctx).Debug("Descriptor cached.", "identifier", ident, "path", path)
	return nil
}

// entryPath derives the cache file name from the identifier and the content
// hash of src. The identifier is part of the key to rule out cross-component
// collisions for identical sources.
func (s *Store) entryPath(ident string, src []byte) string {
	sum := sha256.Sum256(src)
	name := fmt.Sprintf("%s_%s.yaml", sanitize(ident), hex.EncodeToString(sum[:]))
	return filepath.Join(s.dir, name)
}

func sanitize(ident string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, ident)
}
