package schema

import (
	"reflect"

	"github.com/expr-lang/expr/vm"
)

// Param is one constructor parameter of a class: an exported struct
// field with its document key and spec.
type Param struct {
	// Name is the Go field name, Key the document key it binds.
	Name string
	Key  string
	// Index is the reflect field index path, descending through
	// embedded bases.
	Index []int

	Spec *Spec

	HasDefault bool
	Default    reflect.Value

	// Extra marks the extras-capture parameter (type Extra).
	Extra bool
}

// Required reports whether a document must provide the key.
func (p *Param) Required() bool {
	return !p.HasDefault && !p.Extra && p.Spec.Kind != OptionalKind
}

// CompiledCheck is a class invariant compiled from an expression at
// registry build time and evaluated against the bound attributes
// after construction.
type CompiledCheck struct {
	Source  string
	Program *vm.Program
}

// Class is the spec side of one registered struct type.
type Class struct {
	Name string
	Type reflect.Type

	// Spec is the ClassKind spec wrapping this class.
	Spec *Spec

	// Abstract classes dispatch to subclasses and never construct.
	Abstract bool

	Parent     *Class
	Subclasses []*Class

	// Params in declaration order, inherited (embedded) params first.
	Params []*Param
	// ExtraParam is the extras-capture parameter, nil if none.
	ExtraParam *Param

	// Hooks is the per-class strategy object; capabilities are
	// discovered by interface assertion. Never inherited.
	Hooks any

	Checks []*CompiledCheck
}

// Param returns the parameter with the given document key, nil if
// absent.
func (c *Class) Param(key string) *Param {
	for _, p := range c.Params {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// Descendants returns all transitive subclasses, depth first.
func (c *Class) Descendants() []*Class {
	var res []*Class
	for _, sub := range c.Subclasses {
		res = append(res, sub)
		res = append(res, sub.Descendants()...)
	}
	return res
}

// Ancestry returns the inheritance chain from the root class down to
// c itself.
func (c *Class) Ancestry() []*Class {
	if c.Parent == nil {
		return []*Class{c}
	}
	return append(c.Parent.Ancestry(), c)
}

// DerivedFrom reports whether c is other or one of its descendants.
func (c *Class) DerivedFrom(other *Class) bool {
	for x := c; x != nil; x = x.Parent {
		if x == other {
			return true
		}
	}
	return false
}
