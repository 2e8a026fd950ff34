package savor

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/savorlabs/savor/debug"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/recognize"
	"github.com/savorlabs/savor/schema"
)

var anyT = reflect.TypeOf((*any)(nil)).Elem()

// binder turns a recognized tree into Go values. One binder serves
// one Load call; the tree may be rewritten by savorize hooks as the
// binder descends.
type binder struct {
	reg *schema.Registry
}

func (b *binder) process(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	chosen, err := recognize.Recognize(n, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if debug.Bind() {
		debug.Logf("bind %s node at %s as %s", n.Type, n.Span, chosen.Desc())
	}
	switch chosen.Kind {
	case schema.AnyKind:
		return b.anyValue(n), nil
	case schema.StringKind, schema.PathKind:
		v := reflect.New(chosen.Type).Elem()
		v.SetString(n.String)
		return v, nil
	case schema.IntKind:
		return b.intValue(n, chosen)
	case schema.FloatKind:
		return b.floatValue(n, chosen)
	case schema.BoolKind:
		v := reflect.New(chosen.Type).Elem()
		v.SetBool(n.Bool)
		return v, nil
	case schema.TimestampKind:
		ts, err := schema.ParseTimestamp(n.String)
		if err != nil {
			return reflect.Value{}, &ConstructionError{Span: n.Span, Err: err}
		}
		return reflect.ValueOf(ts), nil
	case schema.SeqKind:
		return b.seqValue(n, chosen)
	case schema.MapKind:
		return b.mapValue(n, chosen)
	case schema.OptionalKind:
		return b.optionalValue(n, chosen)
	case schema.ClassKind:
		return b.classValue(n, chosen.Class)
	case schema.EnumKind:
		return b.enumValue(n, chosen)
	case schema.UserStringKind:
		return b.userStringValue(n, chosen)
	default:
		return reflect.Value{}, &ConstructionError{
			Span: n.Span,
			Err:  fmt.Errorf("cannot bind %s", chosen.Desc()),
		}
	}
}

func (b *binder) intValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	i := *n.Int64
	v := reflect.New(s.Type).Elem()
	switch s.Type.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 || v.OverflowUint(uint64(i)) {
			return reflect.Value{}, &ConstructionError{
				Span: n.Span,
				Err:  fmt.Errorf("%d does not fit in %s", i, s.Type),
			}
		}
		v.SetUint(uint64(i))
	default:
		if v.OverflowInt(i) {
			return reflect.Value{}, &ConstructionError{
				Span: n.Span,
				Err:  fmt.Errorf("%d does not fit in %s", i, s.Type),
			}
		}
		v.SetInt(i)
	}
	return v, nil
}

func (b *binder) floatValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	f := *n.Float64
	v := reflect.New(s.Type).Elem()
	if v.OverflowFloat(f) {
		return reflect.Value{}, &ConstructionError{
			Span: n.Span,
			Err:  fmt.Errorf("%v does not fit in %s", f, s.Type),
		}
	}
	v.SetFloat(f)
	return v, nil
}

func (b *binder) seqValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	var res reflect.Value
	switch s.Type.Kind() {
	case reflect.Array:
		if len(n.Values) != s.Type.Len() {
			return reflect.Value{}, &ConstructionError{
				Span: n.Span,
				Err:  fmt.Errorf("expected %d items, got %d", s.Type.Len(), len(n.Values)),
			}
		}
		res = reflect.New(s.Type).Elem()
	default:
		res = reflect.MakeSlice(s.Type, len(n.Values), len(n.Values))
	}
	for i, el := range n.Values {
		v, err := b.process(el, s.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := assign(res.Index(i), v, el.Span); err != nil {
			return reflect.Value{}, err
		}
	}
	return res, nil
}

func (b *binder) mapValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	res := reflect.MakeMapWithSize(s.Type, len(n.Fields))
	for i, field := range n.Fields {
		key, err := b.process(field, s.Key)
		if err != nil {
			return reflect.Value{}, err
		}
		val, err := b.process(n.Values[i], s.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		kv := reflect.New(s.Type.Key()).Elem()
		if err := assign(kv, key, field.Span); err != nil {
			return reflect.Value{}, err
		}
		vv := reflect.New(s.Type.Elem()).Elem()
		if err := assign(vv, val, n.Values[i].Span); err != nil {
			return reflect.Value{}, err
		}
		res.SetMapIndex(kv, vv)
	}
	return res, nil
}

func (b *binder) optionalValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	if n.Type == ir.NullType {
		return reflect.Zero(s.Type), nil
	}
	v, err := b.process(n, s.Elem)
	if err != nil {
		return reflect.Value{}, err
	}
	if v.Type() == s.Type {
		return v, nil
	}
	p := reflect.New(s.Type.Elem())
	if err := assign(p.Elem(), v, n.Span); err != nil {
		return reflect.Value{}, err
	}
	return p, nil
}

// classValue binds a mapping to a pointer to the class's struct:
// savorize hooks rewrite the node first, top of the ancestry down,
// then each parameter binds by key.
func (b *binder) classValue(n *ir.Node, c *schema.Class) (reflect.Value, error) {
	for _, anc := range c.Ancestry() {
		sav, ok := anc.Hooks.(schema.Savorizer)
		if !ok {
			continue
		}
		if err := sav.Savorize(n); err != nil {
			return reflect.Value{}, &SeasoningError{
				Span:  n.Span,
				Class: anc.Name,
				Hook:  "savorize",
				Err:   err,
			}
		}
	}
	if n.Type != ir.ObjectType {
		return reflect.Value{}, recognize.Errorf(n.Span,
			"expected a mapping for %s", c.Name)
	}

	res := reflect.New(c.Type)
	elem := res.Elem()
	used := make([]bool, len(n.Fields))
	env := map[string]any{}
	for _, p := range c.Params {
		if p.Extra {
			continue
		}
		val, idx := attrByKey(n, p.Key)
		if val == nil {
			if p.HasDefault {
				if err := assign(elem.FieldByIndex(p.Index), p.Default, n.Span); err != nil {
					return reflect.Value{}, err
				}
				env[p.Key] = p.Default.Interface()
				continue
			}
			if p.Spec.Kind == schema.OptionalKind {
				continue
			}
			return reflect.Value{}, recognize.Errorf(n.Span,
				"%s is missing attribute %q%s", c.Name, p.Key,
				suggestTypo(p.Key, docKeys(n)))
		}
		used[idx] = true
		v, err := b.process(val, p.Spec)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := assign(elem.FieldByIndex(p.Index), v, val.Span); err != nil {
			return reflect.Value{}, err
		}
		env[p.Key] = v.Interface()
	}

	var extras schema.Extra
	for i, field := range n.Fields {
		if used[i] {
			continue
		}
		if c.ExtraParam == nil {
			return reflect.Value{}, recognize.Errorf(field.Span,
				"%s has no attribute %q%s", c.Name, field.String,
				suggestKey(schema.NormalizeKey(field.String), paramKeys(c)))
		}
		v, err := b.process(n.Values[i], schema.Any())
		if err != nil {
			return reflect.Value{}, err
		}
		extras = append(extras, schema.Attr{Key: field.String, Value: iface(v)})
	}
	if c.ExtraParam != nil && len(extras) > 0 {
		elem.FieldByIndex(c.ExtraParam.Index).Set(reflect.ValueOf(extras))
	}

	if err := c.RunChecks(env); err != nil {
		return reflect.Value{}, &ConstructionError{Span: n.Span, Class: c.Name, Err: err}
	}
	if v, ok := res.Interface().(schema.Validator); ok {
		if err := v.Validate(); err != nil {
			return reflect.Value{}, &ConstructionError{Span: n.Span, Class: c.Name, Err: err}
		}
	}
	return res, nil
}

func (b *binder) enumValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	label := n.String
	if sav, ok := s.Enum.Hooks.(schema.Savorizer); ok {
		probe := n.Clone()
		if err := sav.Savorize(probe); err != nil {
			return reflect.Value{}, &SeasoningError{
				Span:  n.Span,
				Class: s.Enum.Name,
				Hook:  "savorize",
				Err:   err,
			}
		}
		label = probe.String
	}
	v, ok := s.Enum.Value(label)
	if !ok {
		return reflect.Value{}, recognize.Errorf(n.Span,
			"%q is not a member of %s", n.String, s.Enum.Name)
	}
	return v.Convert(s.Type), nil
}

func (b *binder) userStringValue(n *ir.Node, s *schema.Spec) (reflect.Value, error) {
	p := reflect.New(s.Type)
	if tu, ok := p.Interface().(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(n.String)); err != nil {
			return reflect.Value{}, recognize.Errorf(n.Span, "%v", err)
		}
		return p.Elem(), nil
	}
	p.Elem().SetString(n.String)
	return p.Elem(), nil
}

// anyValue builds untyped Go data: mappings become map[string]any,
// sequences []any, scalars their natural Go type.
func (b *binder) anyValue(n *ir.Node) reflect.Value {
	res := reflect.New(anyT).Elem()
	switch n.Type {
	case ir.NullType:
	case ir.BoolType:
		res.Set(reflect.ValueOf(n.Bool))
	case ir.StringType:
		res.Set(reflect.ValueOf(n.String))
	case ir.NumberType:
		switch {
		case n.Int64 != nil:
			res.Set(reflect.ValueOf(int(*n.Int64)))
		case n.Float64 != nil:
			res.Set(reflect.ValueOf(*n.Float64))
		default:
			res.Set(reflect.ValueOf(n.Number))
		}
	case ir.ArrayType:
		vs := make([]any, len(n.Values))
		for i, el := range n.Values {
			vs[i] = iface(b.anyValue(el))
		}
		res.Set(reflect.ValueOf(vs))
	case ir.ObjectType:
		m := make(map[string]any, len(n.Fields))
		for i, field := range n.Fields {
			m[field.String] = iface(b.anyValue(n.Values[i]))
		}
		res.Set(reflect.ValueOf(m))
	}
	return res
}

// assign stores v into dst, dereferencing a bound class pointer when
// the destination holds the struct by value.
func assign(dst, v reflect.Value, span ir.Span) error {
	switch {
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Kind() == reflect.Pointer && v.Type().Elem().AssignableTo(dst.Type()):
		dst.Set(v.Elem())
	case v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return &ConstructionError{
			Span: span,
			Err:  fmt.Errorf("cannot store %s into %s", v.Type(), dst.Type()),
		}
	}
	return nil
}

func iface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func attrByKey(n *ir.Node, key string) (*ir.Node, int) {
	for i, field := range n.Fields {
		if schema.NormalizeKey(field.String) == key {
			return n.Values[i], i
		}
	}
	return nil, -1
}

func docKeys(n *ir.Node) []string {
	keys := make([]string, len(n.Fields))
	for i, field := range n.Fields {
		keys[i] = schema.NormalizeKey(field.String)
	}
	return keys
}

func paramKeys(c *schema.Class) []string {
	var keys []string
	for _, p := range c.Params {
		if p.Extra {
			continue
		}
		keys = append(keys, p.Key)
	}
	return keys
}
