package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/agrun/internal/dispatch"
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/proc"
	"github.com/vk/agrun/internal/registry"
)

type echoInput struct {
	Model string `cli:"model"`
	Code  int    `cli:"code"`
}

const echoManifest = `
component "echo" {
  description = "Echo sample"

  flag "model" {
    type    = string
    default = "gpt-4-turbo"
  }

  flag "code" {
    type    = number
    default = 0
  }
}
`

// fixture wires a registry, a one-command surface, and capture buffers for a
// dispatch round-trip. The entry records its input and returns input.Code.
type fixture struct {
	reg      *registry.Registry
	surface  *registry.Surface
	manifest string
	out      bytes.Buffer
	errW     bytes.Buffer

	gotInput *echoInput
	entryErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	f.reg = registry.New()
	f.reg.RegisterComponent("echo", &registry.RegisteredComponent{
		NewInput:  func() any { return new(echoInput) },
		InputType: reflect.TypeOf(echoInput{}),
		Entry: func(_ context.Context, _ *registry.Invocation, input any) (int, error) {
			f.gotInput = input.(*echoInput)
			if f.entryErr != nil {
				return 1, f.entryErr
			}
			return f.gotInput.Code, nil
		},
	})

	dir := filepath.Join(t.TempDir(), "echo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	f.manifest = filepath.Join(dir, registry.ManifestName)
	require.NoError(t, os.WriteFile(f.manifest, []byte(echoManifest), 0o644))

	desc, err := f.reg.Validate(context.Background(), f.manifest)
	require.NoError(t, err)
	f.surface = registry.NewSurface()
	require.NoError(t, f.surface.Add(desc))

	return f
}

func (f *fixture) options() *dispatch.Options {
	return &dispatch.Options{
		Registry: f.reg,
		Surface:  f.surface,
		Proc:     &proc.Runner{Dry: true, Out: &f.out, ErrW: &f.errW},
		Out:      &f.out,
		ErrW:     &f.errW,
	}
}

func TestDispatch_NoCommandPrintsUsageAndFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), nil)

	assert.Equal(t, dispatch.ExitFailure, code)
	assert.Contains(t, f.errW.String(), "Commands:")
	assert.Contains(t, f.errW.String(), "echo")
}

func TestDispatch_HelpSucceeds(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"help"})

	assert.Equal(t, dispatch.ExitOK, code)
	assert.Contains(t, f.out.String(), "echo")
	assert.Contains(t, f.out.String(), "Echo sample")
}

func TestDispatch_UnknownCommandFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"nope"})

	assert.Equal(t, dispatch.ExitFailure, code)
	assert.Contains(t, f.errW.String(), `unknown command "nope"`)
}

func TestDispatch_InvokesEntryWithParsedFlags(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	f := newFixture(t)

	// --- Act ---
	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo", "--model", "gpt-3.5-turbo"})

	// --- Assert ---
	assert.Equal(t, dispatch.ExitOK, code)
	require.NotNil(t, f.gotInput)
	assert.Equal(t, "gpt-3.5-turbo", f.gotInput.Model)
}

func TestDispatch_PassesThroughEntryExitCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo", "--code", "42"})

	assert.Equal(t, 42, code)
}

func TestDispatch_BadFlagFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo", "--no-such-flag"})

	assert.Equal(t, dispatch.ExitFailure, code)
	assert.Nil(t, f.gotInput)
}

func TestDispatch_CommandHelpSucceeds(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo", "-h"})

	assert.Equal(t, dispatch.ExitOK, code)
	assert.Contains(t, f.errW.String(), "agrun echo [flags]")
	assert.Nil(t, f.gotInput)
}

func TestDispatch_EntryErrorFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.entryErr = errors.New("collaborator blew up")

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo"})

	assert.Equal(t, dispatch.ExitFailure, code)
	assert.Contains(t, f.errW.String(), "dispatch failure: collaborator blew up")
}

func TestDispatch_InterruptErrorMapsToInterruptCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.entryErr = errkind.Newf(errkind.Interrupt, "signal received")

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo"})

	assert.Equal(t, dispatch.ExitInterrupt, code)
	assert.Contains(t, f.errW.String(), "Operation interrupted by user.")
}

func TestDispatch_CancelledContextMapsToInterruptCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := dispatch.Dispatch(ctx, f.options(), []string{"echo"})

	assert.Equal(t, dispatch.ExitInterrupt, code)
	assert.Contains(t, f.errW.String(), "Operation interrupted by user.")
}

func TestDispatch_RefreshPicksUpManifestEdits(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	f := newFixture(t)
	edited := `
component "echo" {
  description = "Echo sample"

  flag "model" {
    type    = string
    default = "gpt-4o"
  }

  flag "code" {
    type    = number
    default = 7
  }
}
`
	require.NoError(t, os.WriteFile(f.manifest, []byte(edited), 0o644))

	// --- Act ---
	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo"})

	// --- Assert: the edited defaults are in effect.
	assert.Equal(t, 7, code)
	require.NotNil(t, f.gotInput)
	assert.Equal(t, "gpt-4o", f.gotInput.Model)
}

func TestDispatch_RefreshFailureKeepsStartupDescriptor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.manifest, []byte(`component "echo" {`), 0o644))

	code := dispatch.Dispatch(context.Background(), f.options(), []string{"echo"})

	assert.Equal(t, dispatch.ExitOK, code)
	require.NotNil(t, f.gotInput)
	assert.Equal(t, "gpt-4-turbo", f.gotInput.Model)
	assert.Contains(t, f.errW.String(), "could not refresh")
}

func TestDispatch_NoRefreshSkipsRevalidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.manifest, []byte(`component "echo" {`), 0o644))
	opts := f.options()
	opts.NoRefresh = true

	code := dispatch.Dispatch(context.Background(), opts, []string{"echo"})

	assert.Equal(t, dispatch.ExitOK, code)
	assert.NotContains(t, f.errW.String(), "could not refresh")
}
