package schema

import (
	"fmt"
	"reflect"
	"sort"
)

// Enum is a registered enumeration: a named Go type with a fixed
// label set. Nodes recognize and bind by label; a seasoning hook on
// the enum may remap labels to and from arbitrary text.
type Enum struct {
	Name string
	Type reflect.Type

	Labels  []string
	byLabel map[string]reflect.Value

	Hooks any
}

func newEnum(t reflect.Type, name string, labels map[string]reflect.Value) *Enum {
	e := &Enum{
		Name:    name,
		Type:    t,
		byLabel: labels,
	}
	for label := range labels {
		e.Labels = append(e.Labels, label)
	}
	sort.Strings(e.Labels)
	return e
}

func (e *Enum) Value(label string) (reflect.Value, bool) {
	v, ok := e.byLabel[label]
	return v, ok
}

// Label finds the label for a value when dumping.
func (e *Enum) Label(v reflect.Value) (string, error) {
	for label, ev := range e.byLabel {
		if ev.Interface() == v.Interface() {
			return label, nil
		}
	}
	return "", fmt.Errorf("value %v is not a member of %s", v.Interface(), e.Name)
}

// UserString is a registered string type with a validating
// constructor: if the type implements Validator or
// encoding.TextUnmarshaler, a text that fails validation fails
// recognition.
type UserString struct {
	Name string
	Type reflect.Type

	Hooks any
}
