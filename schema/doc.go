// Package schema derives the type specification the binding pipeline
// works from. Callers register their Go types once; the resulting
// Registry is immutable and safe to share across any number of
// concurrent loads and dumps.
//
// A Spec is a closed tagged union describing the shape a document
// node must satisfy: a scalar kind, a sequence, a mapping, an
// optional, a union, a class, an enumeration, or a user-defined
// string. Class specs carry their ordered parameter list (derived
// from exported struct fields), default values, subclass edges and
// the abstract flag.
//
//	reg, err := schema.New(
//	    schema.Register(Shape{}, schema.Abstract()),
//	    schema.Register(Circle{}, schema.WithHooks(circleHooks{})),
//	    schema.RegisterEnum(map[string]Color{
//	        "red": Red, "green": Green, "blue": Blue,
//	    }),
//	)
//
// Registration fails with a ConfigurationError if a field's type
// cannot be represented, or if it references a struct type that was
// not itself registered.
package schema
