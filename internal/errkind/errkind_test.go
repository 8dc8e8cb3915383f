package errkind_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/agrun/internal/errkind"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	kind, ok := errkind.KindOf(errkind.Newf(errkind.Load, "reading manifest"))
	require.True(t, ok)
	assert.Equal(t, errkind.Load, kind)

	// An unkinded error falls back to Dispatch.
	kind, ok = errkind.KindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, errkind.Dispatch, kind)
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	t.Parallel()
	inner := errkind.New(errkind.Shape, errors.New("flag mismatch"))
	wrapped := fmt.Errorf("building surface: %w", inner)

	kind, ok := errkind.KindOf(wrapped)

	require.True(t, ok)
	assert.Equal(t, errkind.Shape, kind)
}

func TestNewf_PreservesWrappedCause(t *testing.T) {
	t.Parallel()
	err := errkind.Newf(errkind.Load, "reading manifest: %w", fs.ErrNotExist)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "load error: reading manifest: file does not exist", err.Error())
}

func TestKindLabels(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "load error", errkind.Load.String())
	assert.Equal(t, "shape error", errkind.Shape.String())
	assert.Equal(t, "cache error", errkind.Cache.String())
	assert.Equal(t, "duplicate command", errkind.Duplicate.String())
	assert.Equal(t, "dispatch failure", errkind.Dispatch.String())
	assert.Equal(t, "interrupted", errkind.Interrupt.String())
}
