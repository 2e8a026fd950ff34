package ir

import "fmt"

// Require* methods let a class recognition override state what it
// needs from a node; each returns a descriptive error on violation,
// which the pipeline surfaces as a recognition failure.

func (y *Node) RequireScalar(types ...Type) error {
	if !y.IsScalar() {
		return fmt.Errorf("%s: a scalar is required, got %s", y.Span, article(y.Type))
	}
	if len(types) == 0 {
		return nil
	}
	for _, t := range types {
		if y.Type == t {
			return nil
		}
	}
	return fmt.Errorf("%s: a scalar of type %v is required, got %s", y.Span, types, article(y.Type))
}

func (y *Node) RequireMapping() error {
	if y.Type != ObjectType {
		return fmt.Errorf("%s: a mapping is required, got %s", y.Span, article(y.Type))
	}
	return nil
}

func (y *Node) RequireSequence() error {
	if y.Type != ArrayType {
		return fmt.Errorf("%s: a sequence is required, got %s", y.Span, article(y.Type))
	}
	return nil
}

func (y *Node) RequireAttr(key string, types ...Type) error {
	if err := y.RequireMapping(); err != nil {
		return err
	}
	val := y.Attr(key)
	if val == nil {
		return fmt.Errorf("%s: an attribute %q is required", y.Span, key)
	}
	if len(types) == 0 {
		return nil
	}
	for _, t := range types {
		if val.Type == t {
			return nil
		}
	}
	return fmt.Errorf("%s: attribute %q must have type %v, got %s",
		val.Span, key, types, article(val.Type))
}

// RequireAttrValue requires the scalar under key to render exactly as
// value ("true", "6", "circle", ...).
func (y *Node) RequireAttrValue(key, value string) error {
	if err := y.RequireAttr(key); err != nil {
		return err
	}
	val := y.Attr(key)
	if !val.IsScalar() || val.Text() != value {
		return fmt.Errorf("%s: attribute %q must have value %q", val.Span, key, value)
	}
	return nil
}

func (y *Node) RequireAttrValueNot(key, value string) error {
	if y.Type != ObjectType {
		return nil
	}
	val := y.Attr(key)
	if val == nil {
		return nil
	}
	if val.IsScalar() && val.Text() == value {
		return fmt.Errorf("%s: attribute %q may not have value %q", val.Span, key, value)
	}
	return nil
}

func (y *Node) Text() string {
	switch y.Type {
	case StringType:
		return y.String
	case BoolType:
		if y.Bool {
			return "true"
		}
		return "false"
	case NumberType:
		return FormatNumber(y)
	case NullType:
		return "null"
	default:
		return ""
	}
}

func article(t Type) string {
	switch t {
	case ObjectType, ArrayType:
		return "a " + t.String()
	default:
		return "a " + t.String() + " scalar"
	}
}
