package schema

import (
	"reflect"
	"sync"

	"github.com/expr-lang/expr"
)

// Registry holds every type participating in loading and dumping,
// with subclass edges and derived specs. Built once with New and
// immutable afterwards; safe for concurrent use.
type Registry struct {
	classes map[reflect.Type]*Class
	enums   map[reflect.Type]*Enum
	strs    map[reflect.Type]*UserString
	byName  map[string]*Spec

	mu    sync.RWMutex
	specs map[reflect.Type]*Spec
}

type Option func(*builder)

type classReg struct {
	proto    any
	name     string
	abstract bool
	base     any
	hooks    any
	checks   []string
	labels   map[string]reflect.Value
	kind     Kind
}

type ClassOption func(*classReg)

// Register declares a struct type as a loadable/dumpable class. The
// prototype's exported fields become the constructor parameters.
func Register(proto any, opts ...ClassOption) Option {
	return func(b *builder) {
		cr := &classReg{proto: proto, kind: ClassKind}
		for _, opt := range opts {
			opt(cr)
		}
		b.regs = append(b.regs, cr)
	}
}

// RegisterEnum declares a named type with a fixed label set.
func RegisterEnum[T comparable](labels map[string]T, opts ...ClassOption) Option {
	return func(b *builder) {
		var zero T
		cr := &classReg{
			proto:  zero,
			kind:   EnumKind,
			labels: map[string]reflect.Value{},
		}
		for label, v := range labels {
			cr.labels[label] = reflect.ValueOf(v)
		}
		for _, opt := range opts {
			opt(cr)
		}
		b.regs = append(b.regs, cr)
	}
}

// RegisterString declares a named string type whose values validate
// themselves (see Validator).
func RegisterString(proto any, opts ...ClassOption) Option {
	return func(b *builder) {
		cr := &classReg{proto: proto, kind: UserStringKind}
		for _, opt := range opts {
			opt(cr)
		}
		b.regs = append(b.regs, cr)
	}
}

// Abstract marks a class as dispatch-only: it takes part in
// recognition through its subclasses but never constructs.
func Abstract() ClassOption {
	return func(cr *classReg) { cr.abstract = true }
}

// Base declares the superclass explicitly. Without it, a struct
// embedding a registered struct as its first anonymous field gets
// that struct as its base.
func Base(proto any) ClassOption {
	return func(cr *classReg) { cr.base = proto }
}

// WithHooks attaches a seasoning strategy object to the class; see
// the hook interfaces for the capabilities it may implement.
func WithHooks(h any) ClassOption {
	return func(cr *classReg) { cr.hooks = h }
}

// Check attaches invariant expressions evaluated against the bound
// attributes after construction.
func Check(srcs ...string) ClassOption {
	return func(cr *classReg) { cr.checks = append(cr.checks, srcs...) }
}

// Named overrides the document-facing name of the type.
func Named(name string) ClassOption {
	return func(cr *classReg) { cr.name = name }
}

type builder struct {
	regs []*classReg
}

func New(opts ...Option) (*Registry, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	r := &Registry{
		classes: map[reflect.Type]*Class{},
		enums:   map[reflect.Type]*Enum{},
		strs:    map[reflect.Type]*UserString{},
		byName:  map[string]*Spec{},
		specs:   map[reflect.Type]*Spec{},
	}
	if err := b.prime(r); err != nil {
		return nil, err
	}
	if err := b.link(r); err != nil {
		return nil, err
	}
	if err := b.derive(r); err != nil {
		return nil, err
	}
	return r, nil
}

// prime creates the shells for every registration so that derivation
// can resolve mutual references.
func (b *builder) prime(r *Registry) error {
	for _, cr := range b.regs {
		t := reflect.TypeOf(cr.proto)
		if t == nil {
			return confErrf("", "", "cannot register an untyped nil")
		}
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		name := cr.name
		if name == "" {
			name = t.Name()
		}
		if name == "" {
			return confErrf("", "", "cannot register unnamed type %s", t)
		}
		if _, dup := r.byName[name]; dup {
			return confErrf(name, "", "registered twice")
		}
		var spec *Spec
		switch cr.kind {
		case ClassKind:
			if t.Kind() != reflect.Struct {
				return confErrf(name, "", "a class must be a struct type, got %s", t.Kind())
			}
			c := &Class{Name: name, Type: t, Abstract: cr.abstract, Hooks: cr.hooks}
			r.classes[t] = c
			spec = &Spec{Kind: ClassKind, Class: c, Type: t}
			c.Spec = spec
		case EnumKind:
			labels := make(map[string]reflect.Value, len(cr.labels))
			for label, v := range cr.labels {
				labels[label] = v.Convert(t)
			}
			e := newEnum(t, name, labels)
			e.Hooks = cr.hooks
			r.enums[t] = e
			spec = &Spec{Kind: EnumKind, Enum: e, Type: t}
		case UserStringKind:
			if t.Kind() != reflect.String {
				return confErrf(name, "", "a user string must have string as underlying type, got %s", t.Kind())
			}
			us := &UserString{Name: name, Type: t, Hooks: cr.hooks}
			r.strs[t] = us
			spec = &Spec{Kind: UserStringKind, Str: us, Type: t}
		}
		r.byName[name] = spec
		r.specs[t] = spec
	}
	return nil
}

// link resolves subclass edges.
func (b *builder) link(r *Registry) error {
	for _, cr := range b.regs {
		if cr.kind != ClassKind {
			continue
		}
		t := reflect.TypeOf(cr.proto)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		c := r.classes[t]
		var parent *Class
		if cr.base != nil {
			bt := reflect.TypeOf(cr.base)
			if bt.Kind() == reflect.Pointer {
				bt = bt.Elem()
			}
			parent = r.classes[bt]
			if parent == nil {
				return confErrf(c.Name, "", "base type %s is not a registered class", bt)
			}
		} else {
			parent = b.embeddedBase(r, t)
		}
		if parent != nil {
			c.Parent = parent
			parent.Subclasses = append(parent.Subclasses, c)
		}
	}
	return nil
}

func (b *builder) embeddedBase(r *Registry, t reflect.Type) *Class {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if c := r.classes[f.Type]; c != nil {
			return c
		}
	}
	return nil
}

// derive builds parameter lists and compiles checks, to closure over
// everything the registered classes reference.
func (b *builder) derive(r *Registry) error {
	for _, cr := range b.regs {
		if cr.kind != ClassKind {
			continue
		}
		t := reflect.TypeOf(cr.proto)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		c := r.classes[t]
		if err := deriveParams(r, c, c.Type, nil); err != nil {
			return err
		}
		keys := map[string]bool{}
		for _, p := range c.Params {
			if keys[p.Key] {
				return confErrf(c.Name, p.Name, "duplicate document key %q", p.Key)
			}
			keys[p.Key] = true
		}
		for _, src := range cr.checks {
			prg, err := expr.Compile(src, expr.AllowUndefinedVariables())
			if err != nil {
				return confErrf(c.Name, "", "bad check %q: %v", src, err)
			}
			c.Checks = append(c.Checks, &CompiledCheck{Source: src, Program: prg})
		}
	}
	return nil
}

var extraType = reflect.TypeOf(Extra(nil))

func deriveParams(r *Registry, c *Class, t reflect.Type, prefix []int) error {
	for i := range t.NumField() {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if err := deriveParams(r, c, f.Type, index); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := parseFieldTag(f.Tag)
		if tag.Skip {
			continue
		}
		if tag.Extra {
			if f.Type != extraType {
				return confErrf(c.Name, f.Name, "extras field must have type schema.Extra")
			}
			p := &Param{Name: f.Name, Key: keyFor(f.Name, tag), Index: index, Extra: true}
			c.Params = append(c.Params, p)
			if c.ExtraParam != nil {
				return confErrf(c.Name, f.Name, "multiple extras fields")
			}
			c.ExtraParam = p
			continue
		}
		var (
			spec *Spec
			err  error
		)
		if len(tag.Union) > 0 {
			spec, err = r.unionSpec(tag.Union, f.Type)
		} else {
			spec, err = r.specFor(f.Type, map[reflect.Type]bool{})
		}
		if err != nil {
			return wrapConfErr(err, c.Name, f.Name)
		}
		p := &Param{
			Name:  f.Name,
			Key:   keyFor(f.Name, tag),
			Index: index,
			Spec:  spec,
		}
		if raw, ok := f.Tag.Lookup("default"); ok {
			dv, err := parseDefault(r, spec, f.Type, raw)
			if err != nil {
				return confErrf(c.Name, f.Name, "bad default %q: %v", raw, err)
			}
			p.HasDefault = true
			p.Default = dv
		}
		c.Params = append(c.Params, p)
	}
	return nil
}

func keyFor(fieldName string, tag fieldTag) string {
	if tag.Key != "" {
		return NormalizeKey(tag.Key)
	}
	return snakeCase(fieldName)
}

func wrapConfErr(err error, class, field string) error {
	ce, ok := err.(*ConfigurationError)
	if !ok {
		return &ConfigurationError{Class: class, Field: field, Message: err.Error(), Err: err}
	}
	if ce.Class == "" {
		ce.Class = class
		ce.Field = field
	}
	return ce
}

// ClassFor returns the class registered for t, nil if none.
func (r *Registry) ClassFor(t reflect.Type) *Class {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.classes[t]
}

// EnumFor returns the enum registered for t, nil if none.
func (r *Registry) EnumFor(t reflect.Type) *Enum {
	return r.enums[t]
}

// UserStringFor returns the user string registered for t, nil if
// none.
func (r *Registry) UserStringFor(t reflect.Type) *UserString {
	return r.strs[t]
}

// ByName resolves a registered name (or builtin kind name) to its
// spec.
func (r *Registry) ByName(name string) *Spec {
	if s, ok := r.byName[name]; ok {
		return s
	}
	if k, ok := builtinKinds[name]; ok {
		return &Spec{Kind: k, Type: builtinType(k)}
	}
	return nil
}

// SpecFor derives (and memoizes) the spec for a Go type. Used for
// field types at build time and for root types at loader
// construction.
func (r *Registry) SpecFor(proto any) (*Spec, error) {
	t, ok := proto.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(proto)
	}
	if t == nil {
		return nil, confErrf("", "", "cannot derive a spec for untyped nil")
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		t = t.Elem()
	}
	return r.specFor(t, map[reflect.Type]bool{})
}

func (r *Registry) specFor(t reflect.Type, inFlight map[reflect.Type]bool) (*Spec, error) {
	r.mu.RLock()
	s, ok := r.specs[t]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	if inFlight[t] {
		return nil, confErrf("", "", "recursive type %s must be registered", t)
	}
	inFlight[t] = true
	s, err := r.deriveSpec(t, inFlight)
	delete(inFlight, t)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.specs[t] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) unionSpec(names []string, fieldType reflect.Type) (*Spec, error) {
	if fieldType.Kind() != reflect.Interface {
		return nil, confErrf("", "", "union tags require an interface-typed field, got %s", fieldType)
	}
	alts := make([]*Spec, 0, len(names))
	for _, name := range names {
		alt := r.ByName(name)
		if alt == nil {
			return nil, confErrf("", "", "unknown union alternative %q", name)
		}
		alts = append(alts, alt)
	}
	if len(alts) < 2 {
		return nil, confErrf("", "", "a union needs at least two alternatives")
	}
	return &Spec{Kind: UnionKind, Alts: alts, Type: fieldType}, nil
}
