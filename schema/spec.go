package schema

import (
	"fmt"
	"reflect"
	"strings"
)

type Kind int

const (
	AnyKind Kind = iota
	StringKind
	IntKind
	FloatKind
	BoolKind
	TimestampKind
	PathKind
	SeqKind
	MapKind
	OptionalKind
	UnionKind
	ClassKind
	EnumKind
	UserStringKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		AnyKind:        "any",
		StringKind:     "string",
		IntKind:        "int",
		FloatKind:      "float",
		BoolKind:       "bool",
		TimestampKind:  "timestamp",
		PathKind:       "path",
		SeqKind:        "seq",
		MapKind:        "map",
		OptionalKind:   "optional",
		UnionKind:      "union",
		ClassKind:      "class",
		EnumKind:       "enum",
		UserStringKind: "userstring",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Spec describes the shape a document node must satisfy. Specs are
// built once at registry construction and immutable afterwards.
type Spec struct {
	Kind Kind

	// Elem is the element spec for Seq and Optional, and the value
	// spec for Map.
	Elem *Spec
	// Key is the key spec for Map; string-kinded.
	Key *Spec
	// Alts are the Union alternatives.
	Alts []*Spec

	Class *Class
	Enum  *Enum
	Str   *UserString

	// Type is the Go type values of this spec bind to.
	Type reflect.Type
}

// Desc renders the spec the way error messages name expected shapes.
func (s *Spec) Desc() string {
	switch s.Kind {
	case AnyKind:
		return "any value"
	case StringKind, IntKind, FloatKind, BoolKind, TimestampKind, PathKind:
		return s.Kind.String()
	case SeqKind:
		return "a list of " + s.Elem.Desc()
	case MapKind:
		return fmt.Sprintf("a mapping of %s to %s", s.Key.Desc(), s.Elem.Desc())
	case OptionalKind:
		return "an optional " + s.Elem.Desc()
	case UnionKind:
		descs := make([]string, len(s.Alts))
		for i, a := range s.Alts {
			descs[i] = a.Desc()
		}
		return "one of " + strings.Join(descs, ", ")
	case ClassKind:
		return s.Class.Name
	case EnumKind:
		return s.Enum.Name
	case UserStringKind:
		return s.Str.Name
	default:
		return s.Kind.String()
	}
}

func (s *Spec) String() string {
	return s.Desc()
}

// Any returns the spec matching any tree; it binds generic values.
func Any() *Spec {
	return &Spec{Kind: AnyKind, Type: anyType}
}

// IsScalar reports whether the spec matches scalar nodes only.
func (s *Spec) IsScalar() bool {
	switch s.Kind {
	case StringKind, IntKind, FloatKind, BoolKind, TimestampKind,
		PathKind, EnumKind, UserStringKind:
		return true
	default:
		return false
	}
}
