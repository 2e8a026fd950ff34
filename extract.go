package savor

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/savorlabs/savor/debug"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/schema"
)

var timeT = reflect.TypeOf(time.Time{})

// extractor walks Go values and builds the node tree for the
// encoder. One extractor serves one Dump call.
type extractor struct {
	reg *schema.Registry

	// onPath guards against reference cycles.
	onPath map[uintptr]bool
}

func (x *extractor) extract(v any) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	return x.node(reflect.ValueOf(v))
}

func (x *extractor) node(v reflect.Value) (*ir.Node, error) {
	if !v.IsValid() {
		return ir.Null(), nil
	}
	t := v.Type()
	if t == timeT {
		return timestampNode(v.Interface().(time.Time)), nil
	}
	if c := x.reg.ClassFor(t); c != nil {
		if t.Kind() == reflect.Struct || t.Kind() == reflect.Pointer {
			return x.classNode(v, c)
		}
	}
	if e := x.reg.EnumFor(t); e != nil {
		return x.enumNode(v, e)
	}
	if us := x.reg.UserStringFor(t); us != nil {
		return x.sweetened(ir.FromString(v.String()), us.Name, us.Hooks)
	}

	switch t.Kind() {
	case reflect.Bool:
		return ir.FromBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > 1<<63-1 {
			return &ir.Node{Type: ir.NumberType, Number: strconv.FormatUint(u, 10)}, nil
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(v.Float()), nil
	case reflect.String:
		return ir.FromString(v.String()), nil
	case reflect.Pointer:
		if v.IsNil() {
			return ir.Null(), nil
		}
		ptr := v.Pointer()
		if x.onPath[ptr] {
			return nil, &ConstructionError{Err: fmt.Errorf("cannot dump a cyclic value of type %s", t)}
		}
		x.onPath[ptr] = true
		defer delete(x.onPath, ptr)
		return x.node(v.Elem())
	case reflect.Interface:
		if v.IsNil() {
			return ir.Null(), nil
		}
		return x.node(v.Elem())
	case reflect.Slice, reflect.Array:
		vs := make([]*ir.Node, v.Len())
		for i := range vs {
			el, err := x.node(v.Index(i))
			if err != nil {
				return nil, err
			}
			vs[i] = el
		}
		return ir.FromSlice(vs), nil
	case reflect.Map:
		return x.mapNode(v)
	case reflect.Struct:
		return nil, &schema.ConfigurationError{
			Message: fmt.Sprintf("struct type %s is not registered", t),
		}
	default:
		return nil, &ConstructionError{Err: fmt.Errorf("cannot dump a value of type %s", t)}
	}
}

// mapNode emits map entries sorted by key text, so dumps are
// deterministic.
func (x *extractor) mapNode(v reflect.Value) (*ir.Node, error) {
	type entry struct {
		text string
		val  reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		text, err := x.keyText(iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{text: text, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].text < entries[j].text })
	kvs := make([]ir.KeyVal, len(entries))
	for i, e := range entries {
		val, err := x.node(e.val)
		if err != nil {
			return nil, err
		}
		kvs[i] = ir.KeyVal{Key: ir.FromString(e.text), Val: val}
	}
	return ir.FromKeyVals(kvs), nil
}

func (x *extractor) keyText(k reflect.Value) (string, error) {
	if e := x.reg.EnumFor(k.Type()); e != nil {
		return e.Label(k)
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	return "", &ConstructionError{Err: fmt.Errorf("cannot dump a map key of type %s", k.Type())}
}

// classNode extracts a class instance's attributes in declaration
// order, then sweetens the mapping from the class itself up through
// its ancestry.
func (x *extractor) classNode(v reflect.Value, c *schema.Class) (*ir.Node, error) {
	if debug.Extract() {
		debug.Logf("extract %s", c.Name)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ir.Null(), nil
		}
		ptr := v.Pointer()
		if x.onPath[ptr] {
			return nil, &ConstructionError{
				Class: c.Name,
				Err:   fmt.Errorf("cannot dump a cyclic value"),
			}
		}
		x.onPath[ptr] = true
		defer delete(x.onPath, ptr)
	}
	var kvs []ir.KeyVal
	if att, ok := c.Hooks.(schema.Attributer); ok {
		attrs, err := att.Attributes(v.Interface())
		if err != nil {
			return nil, &ConstructionError{Class: c.Name, Err: err}
		}
		for _, a := range attrs {
			val, err := x.extract(a.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(a.Key), Val: val})
		}
	} else {
		sv := v
		if sv.Kind() == reflect.Pointer {
			sv = sv.Elem()
		}
		for _, p := range c.Params {
			if p.Extra {
				extra, _ := sv.FieldByIndex(p.Index).Interface().(schema.Extra)
				for _, a := range extra {
					val, err := x.extract(a.Value)
					if err != nil {
						return nil, err
					}
					kvs = append(kvs, ir.KeyVal{Key: ir.FromString(a.Key), Val: val})
				}
				continue
			}
			val, err := x.node(sv.FieldByIndex(p.Index))
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(p.Key), Val: val})
		}
	}
	obj := ir.FromKeyVals(kvs)
	for cl := c; cl != nil; cl = cl.Parent {
		if _, err := x.sweetened(obj, cl.Name, cl.Hooks); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (x *extractor) enumNode(v reflect.Value, e *schema.Enum) (*ir.Node, error) {
	label, err := e.Label(v)
	if err != nil {
		return nil, &ConstructionError{Class: e.Name, Err: err}
	}
	return x.sweetened(ir.FromString(label), e.Name, e.Hooks)
}

func (x *extractor) sweetened(n *ir.Node, name string, hooks any) (*ir.Node, error) {
	if sw, ok := hooks.(schema.Sweetener); ok {
		if err := sw.Sweeten(n); err != nil {
			return nil, &SeasoningError{Class: name, Hook: "sweeten", Err: err}
		}
	}
	return n, nil
}

// timestampNode spells midnight UTC timestamps as bare dates.
func timestampNode(ts time.Time) *ir.Node {
	layout := time.RFC3339
	if h, m, s := ts.Clock(); h == 0 && m == 0 && s == 0 &&
		ts.Nanosecond() == 0 && ts.Location() == time.UTC {
		layout = "2006-01-02"
	}
	return ir.FromString(ts.Format(layout))
}
