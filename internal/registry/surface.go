package registry

import (
	"github.com/vk/agrun/internal/errkind"
	"github.com/vk/agrun/internal/schema"
)

// Descriptor is the validated, loaded representation of a component: the
// manifest-derived flag schema bound to its compiled entry point. Immutable
// once constructed.
type Descriptor struct {
	Command      string
	Description  string
	Flags        []schema.FlagSchema
	Handler      *RegisteredComponent
	ManifestPath string // empty for descriptors rehydrated purely from cache
}

// Data returns the cache-safe slice of the descriptor.
func (d *Descriptor) Data() *schema.DescriptorData {
	return &schema.DescriptorData{
		Command:     d.Command,
		Description: d.Description,
		Flags:       d.Flags,
	}
}

// Surface is the complete set of recognized subcommands for one run: a
// mapping from command name to descriptor, with insertion order preserved
// for stable usage listings.
type Surface struct {
	byName map[string]*Descriptor
	order  []string
}

// NewSurface creates an empty command surface.
func NewSurface() *Surface {
	return &Surface{byName: make(map[string]*Descriptor)}
}

// Add registers d under its command name. When the name is already claimed
// the first registration wins and a duplicate-command error is returned for
// the caller to log.
func (s *Surface) Add(d *Descriptor) error {
	if _, exists := s.byName[d.Command]; exists {
		return errkind.Newf(errkind.Duplicate, "command %q is already registered; keeping the first registration", d.Command)
	}
	s.byName[d.Command] = d
	s.order = append(s.order, d.Command)
	return nil
}

// Lookup resolves a command name by exact match.
func (s *Surface) Lookup(command string) (*Descriptor, bool) {
	d, ok := s.byName[command]
	return d, ok
}

// Commands returns the registered command names in registration order.
func (s *Surface) Commands() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports how many commands are registered.
func (s *Surface) Len() int {
	return len(s.order)
}
