package registry

import (
	"flag"
	"io"
	"reflect"
	"strconv"
)

// NewFlagSet materializes the descriptor's flag schema into a flag.FlagSet.
// Concrete flag kinds come from the handler's input struct; defaults and
// help text come from the schema data, so a descriptor rehydrated from cache
// parses exactly like a freshly validated one. The returned bind function
// builds a new input struct populated from the parsed flag values.
func (d *Descriptor) NewFlagSet(output io.Writer) (*flag.FlagSet, func() any) {
	fs := flag.NewFlagSet(d.Command, flag.ContinueOnError)
	fs.SetOutput(output)

	fields := inputFields(d.Handler.InputType)
	values := make(map[string]any, len(fields))

	for name, field := range fields {
		def, _ := d.flagDefault(name)
		help := d.flagHelp(name)

		switch field.Type.Kind() {
		case reflect.Bool:
			b, _ := strconv.ParseBool(def)
			values[name] = fs.Bool(name, b, help)
		case reflect.Int:
			n, _ := strconv.Atoi(def)
			values[name] = fs.Int(name, n, help)
		case reflect.Int64:
			n, _ := strconv.ParseInt(def, 10, 64)
			values[name] = fs.Int64(name, n, help)
		case reflect.Float64:
			f, _ := strconv.ParseFloat(def, 64)
			values[name] = fs.Float64(name, f, help)
		default:
			values[name] = fs.String(name, def, help)
		}
	}

	bind := func() any {
		input := d.Handler.NewInput()
		v := reflect.ValueOf(input).Elem()
		for name, field := range fields {
			target := v.FieldByIndex(field.Index)
			switch ptr := values[name].(type) {
			case *bool:
				target.SetBool(*ptr)
			case *int:
				target.SetInt(int64(*ptr))
			case *int64:
				target.SetInt(*ptr)
			case *float64:
				target.SetFloat(*ptr)
			case *string:
				target.SetString(*ptr)
			}
		}
		return input
	}

	return fs, bind
}

func (d *Descriptor) flagDefault(name string) (string, bool) {
	for _, f := range d.Flags {
		if f.Name == name {
			return f.Default, true
		}
	}
	return "", false
}

func (d *Descriptor) flagHelp(name string) string {
	for _, f := range d.Flags {
		if f.Name == name {
			return f.Help
		}
	}
	return ""
}
