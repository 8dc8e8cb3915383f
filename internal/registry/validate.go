package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/agrun/internal/ctxlog"
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/schema"
)

// InputTag is the struct tag binding an input field to its flag name.
const InputTag = "cli"

// Validate loads the manifest at path and checks it against the registered
// Go handlers. It returns a descriptor only when the manifest parses, a
// handler is registered for its command, and the manifest flags are in
// strict parity with the handler's input struct. Failures are load errors
// (the unit could not be loaded) or shape errors (it loaded but does not
// expose the required capability).
func (r *Registry) Validate(ctx context.Context, path string) (*Descriptor, error) {
	manifest, _, err := loadManifest(path)
	if err != nil {
		return nil, err
	}
	return r.validateManifest(ctx, path, manifest)
}

func (r *Registry) validateManifest(ctx context.Context, path string, manifest *schema.ComponentManifest) (*Descriptor, error) {
	data, err := manifest.Data()
	if err != nil {
		return nil, errkind.Newf(errkind.Shape, "component %q: %w", manifest.Command, err)
	}

	handler, ok := r.Handler(manifest.Command)
	if !ok {
		return nil, errkind.Newf(errkind.Shape, "component %q: no compiled-in handler registered for this command", manifest.Command)
	}
	if handler.Entry == nil {
		return nil, errkind.Newf(errkind.Shape, "component %q: handler has no entry point", manifest.Command)
	}

	if err := checkParity(manifest, handler); err != nil {
		return nil, errkind.New(errkind.Shape, err)
	}

	ctxlog.FromContext(ctx).Debug("Component validated.", "command", manifest.Command, "manifest", path)

	return &Descriptor{
		Command:      data.Command,
		Description:  data.Description,
		Flags:        data.Flags,
		Handler:      handler,
		ManifestPath: path,
	}, nil
}

// checkParity performs a strict parity check between a manifest's flag
// declarations and the handler's Go input struct. It checks both presence
// and type compatibility in both directions.
func checkParity(manifest *schema.ComponentManifest, handler *RegisteredComponent) error {
	var errs []string

	goFlags := inputFields(handler.InputType)

	declared := make(map[string]cty.Type, len(manifest.Flags))
	for _, f := range manifest.Flags {
		ty, err := f.TypeConstraint()
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		declared[f.Name] = ty
	}

	for name := range goFlags {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Sprintf("Go input struct declares flag %q which is missing from the manifest", name))
		}
	}
	for name := range declared {
		if _, ok := goFlags[name]; !ok {
			errs = append(errs, fmt.Sprintf("manifest declares flag %q which has no field in the Go input struct", name))
		}
	}

	for name, manifestType := range declared {
		field, ok := goFlags[name]
		if !ok {
			continue
		}
		goType, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface())
		if err != nil {
			errs = append(errs, fmt.Sprintf("flag %q: cannot imply manifest type from Go field type %s: %v", name, field.Type, err))
			continue
		}
		if !manifestType.Equals(goType) {
			errs = append(errs, fmt.Sprintf("flag %q: type mismatch, manifest declares %s but Go field %s is %s",
				name, manifestType.FriendlyName(), field.Name, goType.FriendlyName()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("component %q failed manifest parity check:\n- %s", manifest.Command, strings.Join(errs, "\n- "))
	}
	return nil
}

// inputFields collects the exported, tagged fields of a component input
// struct, keyed by flag name.
func inputFields(inputType reflect.Type) map[string]reflect.StructField {
	out := make(map[string]reflect.StructField)
	if inputType == nil {
		return out
	}
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get(InputTag)
		name := strings.Split(tag, ",")[0]
		if name != "" && name != "-" {
			out[name] = field
		}
	}
	return out
}
