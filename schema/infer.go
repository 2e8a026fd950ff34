package schema

import (
	"reflect"
	"sort"
	"strconv"
	"time"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	pathType = reflect.TypeOf(Path(""))
	anyType  = reflect.TypeOf((*any)(nil)).Elem()
)

var builtinKinds = map[string]Kind{
	"string":    StringKind,
	"str":       StringKind,
	"int":       IntKind,
	"float":     FloatKind,
	"bool":      BoolKind,
	"timestamp": TimestampKind,
	"path":      PathKind,
	"any":       AnyKind,
}

func builtinType(k Kind) reflect.Type {
	switch k {
	case StringKind:
		return reflect.TypeOf("")
	case IntKind:
		return reflect.TypeOf(int(0))
	case FloatKind:
		return reflect.TypeOf(float64(0))
	case BoolKind:
		return reflect.TypeOf(false)
	case TimestampKind:
		return timeType
	case PathKind:
		return pathType
	case AnyKind:
		return anyType
	default:
		return anyType
	}
}

func (r *Registry) deriveSpec(t reflect.Type, inFlight map[reflect.Type]bool) (*Spec, error) {
	switch t {
	case timeType:
		return &Spec{Kind: TimestampKind, Type: t}, nil
	case pathType:
		return &Spec{Kind: PathKind, Type: t}, nil
	}
	switch t.Kind() {
	case reflect.String:
		return &Spec{Kind: StringKind, Type: t}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Spec{Kind: IntKind, Type: t}, nil
	case reflect.Float32, reflect.Float64:
		return &Spec{Kind: FloatKind, Type: t}, nil
	case reflect.Bool:
		return &Spec{Kind: BoolKind, Type: t}, nil
	case reflect.Pointer:
		elem, err := r.specFor(t.Elem(), inFlight)
		if err != nil {
			return nil, err
		}
		return &Spec{Kind: OptionalKind, Elem: elem, Type: t}, nil
	case reflect.Slice, reflect.Array:
		elem, err := r.specFor(t.Elem(), inFlight)
		if err != nil {
			return nil, err
		}
		return &Spec{Kind: SeqKind, Elem: elem, Type: t}, nil
	case reflect.Map:
		key, err := r.specFor(t.Key(), inFlight)
		if err != nil {
			return nil, err
		}
		switch key.Kind {
		case StringKind, UserStringKind, PathKind, EnumKind:
		default:
			return nil, confErrf("", "", "mapping keys must be string-kinded, got %s", key.Desc())
		}
		elem, err := r.specFor(t.Elem(), inFlight)
		if err != nil {
			return nil, err
		}
		return &Spec{Kind: MapKind, Key: key, Elem: elem, Type: t}, nil
	case reflect.Struct:
		return nil, confErrf("", "", "struct type %s is not registered", t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return &Spec{Kind: AnyKind, Type: t}, nil
		}
		var alts []*Spec
		for ct := range r.classes {
			if reflect.PointerTo(ct).Implements(t) || ct.Implements(t) {
				alts = append(alts, r.specs[ct])
			}
		}
		sort.Slice(alts, func(i, j int) bool {
			return alts[i].Class.Name < alts[j].Class.Name
		})
		if len(alts) == 0 {
			return nil, confErrf("", "", "no registered class implements %s", t)
		}
		if len(alts) == 1 {
			return alts[0], nil
		}
		return &Spec{Kind: UnionKind, Alts: alts, Type: t}, nil
	default:
		return nil, confErrf("", "", "type %s has no document representation", t)
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp resolves the scalar timestamp spellings accepted by
// the loader.
func ParseTimestamp(v string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, v)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

func parseDefault(r *Registry, s *Spec, fieldType reflect.Type, raw string) (reflect.Value, error) {
	if s.Kind == OptionalKind {
		if raw == "null" || raw == "~" {
			return reflect.Zero(fieldType), nil
		}
		elem, err := parseDefault(r, s.Elem, fieldType.Elem(), raw)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(fieldType.Elem())
		p.Elem().Set(elem)
		return p, nil
	}
	switch s.Kind {
	case StringKind, PathKind, UserStringKind:
		return reflect.ValueOf(raw).Convert(fieldType), nil
	case IntKind:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i).Convert(fieldType), nil
	case FloatKind:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(fieldType), nil
	case BoolKind:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(fieldType), nil
	case TimestampKind:
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(ts), nil
	case EnumKind:
		v, ok := s.Enum.Value(raw)
		if !ok {
			return reflect.Value{}, confErrf("", "", "%q is not a member of %s", raw, s.Enum.Name)
		}
		return v.Convert(fieldType), nil
	case AnyKind, UnionKind:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return reflect.ValueOf(int(i)), nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return reflect.ValueOf(f), nil
		}
		if b, err := strconv.ParseBool(raw); err == nil {
			return reflect.ValueOf(b), nil
		}
		return reflect.ValueOf(raw), nil
	default:
		return reflect.Value{}, confErrf("", "", "defaults are not supported for %s", s.Desc())
	}
}
