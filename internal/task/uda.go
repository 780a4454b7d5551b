package task

import "fmt"

// UDAType is the declared type of a user-defined attribute.
type UDAType string

const (
	UDAString   UDAType = "string"
	UDADate     UDAType = "date"
	UDADuration UDAType = "duration"
	UDANumeric  UDAType = "numeric"
)

// UDASchema is the immutable table of user-defined attribute declarations
// loaded from configuration at startup (`uda.<name>.type`). It never
// mutates after construction; orphan UDAs present on a task but absent
// from the schema are tolerated, not rejected, and surfaced through
// Diagnostics rather than failing validation.
type UDASchema struct {
	types map[string]UDAType
}

// NewUDASchema builds a schema from a name->type map, rejecting any name
// that collides with a reserved attribute.
func NewUDASchema(decls map[string]UDAType) (*UDASchema, error) {
	s := &UDASchema{types: make(map[string]UDAType, len(decls))}
	for name, typ := range decls {
		if IsReservedAttribute(name) {
			return nil, fmt.Errorf("uda %q collides with a reserved attribute name", name)
		}
		switch typ {
		case UDAString, UDADate, UDADuration, UDANumeric:
		default:
			return nil, fmt.Errorf("uda %q has unknown type %q", name, typ)
		}
		s.types[name] = typ
	}
	return s, nil
}

// TypeOf returns the declared type of name and whether it is declared.
func (s *UDASchema) TypeOf(name string) (UDAType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Names returns every declared UDA name.
func (s *UDASchema) Names() []string {
	out := make([]string, 0, len(s.types))
	for n := range s.types {
		out = append(out, n)
	}
	return out
}

// Diagnostics reports every attribute on t that is neither a reserved
// field nor declared in the schema: an orphan UDA, tolerated at load time
// per the "UDAs as extensible schema" design note but worth surfacing.
func (s *UDASchema) Diagnostics(t *Task) []string {
	var orphans []string
	for _, name := range t.All() {
		if IsReservedAttribute(name) {
			continue
		}
		if _, declared := s.types[name]; !declared {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
