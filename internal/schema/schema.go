package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// --- Manifest structures ---

// FlagDef defines a single command-line flag for a component, as declared in
// its HCL manifest.
type FlagDef struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default *cty.Value     `hcl:"default,optional"`
	Help    string         `hcl:"help,optional"`
}

// ComponentManifest represents a `component` block from a manifest file: the
// command name it claims, its description, and its flag declarations.
type ComponentManifest struct {
	Command     string     `hcl:"command,label"`
	Description string     `hcl:"description,optional"`
	Flags       []*FlagDef `hcl:"flag,block"`
}

// ManifestFile represents the top-level structure of a component manifest.
// A manifest declares exactly one component; the slice only exists so a
// decode failure can name the surplus blocks.
type ManifestFile struct {
	Components []*ComponentManifest `hcl:"component,block"`
}

// TypeConstraint evaluates the flag's declared type expression into a cty
// type. Only the primitive types string, number and bool are accepted.
func (f *FlagDef) TypeConstraint() (cty.Type, error) {
	ty, diags := typeexpr.TypeConstraint(f.Type)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("flag %q: invalid type expression: %w", f.Name, diags)
	}
	switch ty {
	case cty.String, cty.Number, cty.Bool:
		return ty, nil
	default:
		return cty.NilType, fmt.Errorf("flag %q: unsupported type %s (want string, number or bool)", f.Name, ty.FriendlyName())
	}
}

// --- Cache-safe descriptor data ---

// FlagSchema is the serializable form of a flag declaration. Rehydrating it
// never executes code; defaults are carried as their string rendering and
// re-typed by the flag surface using the component's input struct.
type FlagSchema struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default,omitempty"`
	Help    string `yaml:"help,omitempty"`
}

// DescriptorData is the pure-data slice of a validated component descriptor:
// everything the cache is allowed to persist.
type DescriptorData struct {
	Command     string       `yaml:"command"`
	Description string       `yaml:"description,omitempty"`
	Flags       []FlagSchema `yaml:"flags"`
}

// Schema resolves the flag definition into its serializable form. The
// declared default, when present, must be convertible to the declared type.
func (f *FlagDef) Schema() (FlagSchema, error) {
	ty, err := f.TypeConstraint()
	if err != nil {
		return FlagSchema{}, err
	}

	out := FlagSchema{Name: f.Name, Type: typeName(ty), Help: f.Help}

	if f.Default != nil && !f.Default.IsNull() {
		typed, err := convert.Convert(*f.Default, ty)
		if err != nil {
			return FlagSchema{}, fmt.Errorf("flag %q: default does not conform to type %s: %w", f.Name, ty.FriendlyName(), err)
		}
		str, err := convert.Convert(typed, cty.String)
		if err != nil {
			return FlagSchema{}, fmt.Errorf("flag %q: cannot render default: %w", f.Name, err)
		}
		out.Default = str.AsString()
	}

	return out, nil
}

// Data resolves the whole manifest into its serializable descriptor form.
func (m *ComponentManifest) Data() (*DescriptorData, error) {
	data := &DescriptorData{
		Command:     m.Command,
		Description: m.Description,
		Flags:       make([]FlagSchema, 0, len(m.Flags)),
	}
	for _, f := range m.Flags {
		fs, err := f.Schema()
		if err != nil {
			return nil, err
		}
		data.Flags = append(data.Flags, fs)
	}
	return data, nil
}

// Flag returns the schema entry with the given name, if present.
func (d *DescriptorData) Flag(name string) (FlagSchema, bool) {
	for _, f := range d.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return FlagSchema{}, false
}

func typeName(ty cty.Type) string {
	switch ty {
	case cty.Number:
		return "number"
	case cty.Bool:
		return "bool"
	default:
		return "string"
	}
}
