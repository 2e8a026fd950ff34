package schema

import "github.com/savorlabs/savor/ir"

// Seasoning hooks are strategy objects attached per class with
// WithHooks. The pipeline discovers what a hooks object can do by
// interface assertion, so a class implements only the hooks it
// wants. A hook belongs to exactly the class it was attached to;
// subclasses that want the same behavior attach their own.

// Recognizer replaces default recognition for its class: it reports
// whether the node can be this class, and its verdict is the only
// check performed.
type Recognizer interface {
	RecognizeClass(n *ir.Node) error
}

// Savorizer rewrites the mapping node after recognition and before
// binding, on the load path.
type Savorizer interface {
	Savorize(n *ir.Node) error
}

// Sweetener rewrites the node right after extraction, on the dump
// path.
type Sweetener interface {
	Sweeten(n *ir.Node) error
}

// Attributer overrides dump-side attribute extraction. It must
// return the attributes in class declaration order.
type Attributer interface {
	Attributes(instance any) ([]Attr, error)
}

// Attr is one extracted (key, value) pair.
type Attr struct {
	Key   string
	Value any
}

// Extra is the ordered extras-capture collection: mapping keys that
// matched no declared parameter, in document order. Declare a field
// of this type with the `savor:",extra"` tag to receive them.
type Extra []Attr

func (e Extra) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

func (e Extra) Get(key string) (any, bool) {
	for _, a := range e {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Validator lets a user-defined string type (or any registered
// class) check itself. For user strings the check runs during
// recognition, so a failure correctly removes the alternative from
// union disambiguation. For classes it runs after binding, as the
// constructor's own invariant check.
type Validator interface {
	Validate() error
}
