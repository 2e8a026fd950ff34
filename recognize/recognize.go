// Package recognize decides which spec alternative, if any, a node
// satisfies. Recognition is a pure function of (node, spec) with no
// side effects: it never rewrites the tree and never constructs
// values, it only selects how the node will be processed further.
//
// Built-in kinds match on exact scalar resolution: an int literal is
// not a float, a quoted scalar is always a string (except for
// timestamps, which accept quoted text so that JSON documents can
// carry them). User strings
// validate during recognition, so a failing value correctly drops
// out of union disambiguation. Within a class hierarchy the most
// derived matching class wins; ambiguity between unrelated
// alternatives is an error.
package recognize

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/savorlabs/savor/debug"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/schema"
)

// Recognize selects the single alternative of s that n satisfies.
// Zero matches and ambiguous matches (outside a subclass chain)
// return a *RecognitionError.
func Recognize(n *ir.Node, s *schema.Spec) (*schema.Spec, error) {
	matches, cause := recognize(n, s)
	matches = dedupeDerived(matches)
	if debug.Recognize() {
		debug.Logf("recognize %s as %s: %d match(es)", n.Type, s.Desc(), len(matches))
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, noMatchError(n, s, cause)
	default:
		return nil, ambiguityError(n, matches)
	}
}

func recognize(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	switch s.Kind {
	case schema.AnyKind:
		return match(s), nil
	case schema.StringKind:
		if n.Type == ir.StringType {
			return match(s), nil
		}
		return nil, expected(n, "a string")
	case schema.IntKind:
		if n.Type == ir.NumberType && n.Int64 != nil {
			return match(s), nil
		}
		return nil, expected(n, "an int")
	case schema.FloatKind:
		if n.Type == ir.NumberType && n.Float64 != nil {
			return match(s), nil
		}
		return nil, expected(n, "a float")
	case schema.BoolKind:
		if n.Type == ir.BoolType {
			return match(s), nil
		}
		return nil, expected(n, "a bool")
	case schema.TimestampKind:
		// Quoted text parses too: JSON can only spell a timestamp
		// as a quoted string.
		if n.Type == ir.StringType {
			if _, err := schema.ParseTimestamp(n.String); err == nil {
				return match(s), nil
			}
		}
		return nil, expected(n, "a timestamp")
	case schema.PathKind:
		if n.Type == ir.StringType {
			return match(s), nil
		}
		return nil, expected(n, "a path")
	case schema.SeqKind:
		return recognizeSeq(n, s)
	case schema.MapKind:
		return recognizeMap(n, s)
	case schema.OptionalKind:
		if n.Type == ir.NullType {
			return match(s), nil
		}
		if ms, cause := recognize(n, s.Elem); len(ms) == 0 {
			return nil, &Mismatch{
				Span:    n.Span,
				Message: fmt.Sprintf("expected %s or null", s.Elem.Desc()),
				Causes:  causes(cause),
			}
		}
		return match(s), nil
	case schema.UnionKind:
		return recognizeUnion(n, s)
	case schema.ClassKind:
		return recognizeLattice(n, s.Class)
	case schema.EnumKind:
		return recognizeEnum(n, s)
	case schema.UserStringKind:
		return recognizeUserString(n, s)
	default:
		return nil, expected(n, s.Desc())
	}
}

func recognizeSeq(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	if n.Type != ir.ArrayType {
		return nil, expected(n, s.Desc())
	}
	for _, el := range n.Values {
		if ms, cause := recognize(el, s.Elem); len(ms) == 0 {
			return nil, &Mismatch{
				Span:    el.Span,
				Message: fmt.Sprintf("expected a list item of type %s", s.Elem.Desc()),
				Causes:  causes(cause),
			}
		}
	}
	return match(s), nil
}

func recognizeMap(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	if n.Type != ir.ObjectType {
		return nil, expected(n, s.Desc())
	}
	for i, field := range n.Fields {
		if ms, cause := recognize(field, s.Key); len(ms) == 0 {
			return nil, &Mismatch{
				Span:    field.Span,
				Message: fmt.Sprintf("expected a key of type %s", s.Key.Desc()),
				Causes:  causes(cause),
			}
		}
		if ms, cause := recognize(n.Values[i], s.Elem); len(ms) == 0 {
			return nil, &Mismatch{
				Span:    n.Values[i].Span,
				Message: fmt.Sprintf("expected a value of type %s under %q", s.Elem.Desc(), field.String),
				Causes:  causes(cause),
			}
		}
	}
	return match(s), nil
}

func recognizeUnion(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	var (
		all  []*schema.Spec
		alts []*Mismatch
	)
	for _, alt := range s.Alts {
		ms, cause := recognize(n, alt)
		all = append(all, ms...)
		if cause != nil {
			alts = append(alts, cause)
		}
	}
	if len(all) == 0 {
		return nil, &Mismatch{
			Span:    n.Span,
			Message: fmt.Sprintf("expected %s", s.Desc()),
			Causes:  alts,
		}
	}
	return uniq(all), nil
}

// recognizeLattice recognizes against a class and every registered
// descendant. An explicit document tag restricts the lattice to the
// named class.
func recognizeLattice(n *ir.Node, c *schema.Class) ([]*schema.Spec, *Mismatch) {
	candidates := append([]*schema.Class{c}, c.Descendants()...)
	if n.Tag != "" {
		var tagged *schema.Class
		for _, cand := range candidates {
			if cand.Name == n.Tag {
				tagged = cand
				break
			}
		}
		if tagged == nil {
			return nil, &Mismatch{
				Span:    n.Span,
				Message: fmt.Sprintf("tag %q does not name %s or one of its subclasses", n.Tag, c.Name),
			}
		}
		candidates = []*schema.Class{tagged}
	}
	var (
		all  []*schema.Spec
		alts []*Mismatch
	)
	for _, cand := range candidates {
		if cand.Abstract {
			continue
		}
		if cause := recognizeClass(n, cand); cause != nil {
			alts = append(alts, cause)
			continue
		}
		all = append(all, cand.Spec)
	}
	if len(all) == 0 {
		return nil, &Mismatch{
			Span:    n.Span,
			Message: fmt.Sprintf("expected a %s", c.Name),
			Causes:  alts,
		}
	}
	return all, nil
}

// recognizeClass runs the default structural check for a single
// class, unless the class carries an authoritative recognition hook.
func recognizeClass(n *ir.Node, c *schema.Class) *Mismatch {
	if rec, ok := c.Hooks.(schema.Recognizer); ok {
		if err := rec.RecognizeClass(n); err != nil {
			return &Mismatch{Span: n.Span, Message: err.Error()}
		}
		return nil
	}
	if n.Type != ir.ObjectType {
		return expected(n, fmt.Sprintf("a mapping for %s", c.Name))
	}
	for _, p := range c.Params {
		if !p.Required() {
			continue
		}
		val := attrByKey(n, p.Key)
		if val == nil {
			return &Mismatch{
				Span:    n.Span,
				Message: fmt.Sprintf("%s is missing attribute %q", c.Name, p.Key),
			}
		}
		if ms, cause := recognize(val, p.Spec); len(ms) == 0 {
			return &Mismatch{
				Span:    val.Span,
				Message: fmt.Sprintf("attribute %q of %s must be %s", p.Key, c.Name, p.Spec.Desc()),
				Causes:  causes(cause),
			}
		}
	}
	if c.ExtraParam == nil {
		for _, field := range n.Fields {
			if c.Param(schema.NormalizeKey(field.String)) == nil {
				return &Mismatch{
					Span:    field.Span,
					Message: fmt.Sprintf("%s has no attribute %q", c.Name, field.String),
				}
			}
		}
	}
	return nil
}

func recognizeEnum(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	if n.Type != ir.StringType {
		return nil, expected(n, fmt.Sprintf("a %s label", s.Enum.Name))
	}
	label := n.String
	if sav, ok := s.Enum.Hooks.(schema.Savorizer); ok {
		probe := n.Clone()
		if err := sav.Savorize(probe); err != nil {
			return nil, &Mismatch{Span: n.Span, Message: err.Error()}
		}
		label = probe.String
	}
	if _, ok := s.Enum.Value(label); !ok {
		return nil, &Mismatch{
			Span:    n.Span,
			Message: fmt.Sprintf("%q is not a member of %s", n.String, s.Enum.Name),
		}
	}
	return match(s), nil
}

func recognizeUserString(n *ir.Node, s *schema.Spec) ([]*schema.Spec, *Mismatch) {
	if n.Type != ir.StringType {
		return nil, expected(n, fmt.Sprintf("a %s", s.Str.Name))
	}
	if err := ValidateUserString(s.Str, n.String); err != nil {
		return nil, &Mismatch{Span: n.Span, Message: err.Error()}
	}
	return match(s), nil
}

// ValidateUserString runs the type's validating constructor: a
// Validate method on the value, or an UnmarshalText method on its
// pointer.
func ValidateUserString(us *schema.UserString, text string) error {
	p := reflect.New(us.Type)
	p.Elem().SetString(text)
	if tu, ok := p.Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(text))
	}
	if v, ok := p.Elem().Interface().(schema.Validator); ok {
		return v.Validate()
	}
	if v, ok := p.Interface().(schema.Validator); ok {
		return v.Validate()
	}
	return nil
}

func attrByKey(n *ir.Node, key string) *ir.Node {
	for i, field := range n.Fields {
		if schema.NormalizeKey(field.String) == key {
			return n.Values[i]
		}
	}
	return nil
}

func match(s *schema.Spec) []*schema.Spec {
	return []*schema.Spec{s}
}

func uniq(specs []*schema.Spec) []*schema.Spec {
	seen := map[*schema.Spec]bool{}
	res := specs[:0]
	for _, s := range specs {
		if seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}

// dedupeDerived implements the most-derived-wins tie-break: a class
// match is dropped when one of its proper descendants also matched.
func dedupeDerived(matches []*schema.Spec) []*schema.Spec {
	if len(matches) < 2 {
		return matches
	}
	res := make([]*schema.Spec, 0, len(matches))
	for _, m := range matches {
		if m.Kind == schema.ClassKind && hasDerivedMatch(m.Class, matches) {
			continue
		}
		res = append(res, m)
	}
	return res
}

func hasDerivedMatch(c *schema.Class, matches []*schema.Spec) bool {
	for _, m := range matches {
		if m.Kind != schema.ClassKind || m.Class == c {
			continue
		}
		if m.Class.DerivedFrom(c) {
			return true
		}
	}
	return false
}
