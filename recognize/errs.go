package recognize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/schema"
)

var ErrRecognition = errors.New("recognition error")

// Mismatch explains why one alternative did not match, with nested
// causes for the alternatives it tried in turn.
type Mismatch struct {
	Span    ir.Span
	Message string
	Causes  []*Mismatch
}

// Leaves walks the cause tree and collects the innermost messages,
// deduplicated in first-seen order.
func (m *Mismatch) Leaves() []*Mismatch {
	if len(m.Causes) == 0 {
		return []*Mismatch{m}
	}
	var res []*Mismatch
	seen := map[string]bool{}
	for _, c := range m.Causes {
		for _, leaf := range c.Leaves() {
			if seen[leaf.Message] {
				continue
			}
			seen[leaf.Message] = true
			res = append(res, leaf)
		}
	}
	return res
}

// RecognitionError reports that no alternative, or more than one
// unrelated alternative, matched a node. Span is the innermost
// failing location.
type RecognitionError struct {
	Span    ir.Span
	Message string
	Cause   *Mismatch
}

func (e *RecognitionError) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

func (e *RecognitionError) Unwrap() error {
	return ErrRecognition
}

// Errorf builds a recognition error at a span; the binder uses it
// for missing and unexpected attributes.
func Errorf(span ir.Span, format string, args ...any) *RecognitionError {
	return &RecognitionError{
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

func noMatchError(n *ir.Node, s *schema.Spec, cause *Mismatch) *RecognitionError {
	span := n.Span
	msg := fmt.Sprintf("cannot interpret this as %s", s.Desc())
	if cause != nil {
		leaves := cause.Leaves()
		if len(leaves) > 0 && leaves[0].Span.IsValid() {
			span = leaves[0].Span
		}
		msg = renderLeaves(leaves)
	}
	return &RecognitionError{Span: span, Message: msg, Cause: cause}
}

func renderLeaves(leaves []*Mismatch) string {
	// a single leaf's span becomes the error's own span, so the
	// message must not repeat it
	if len(leaves) == 1 {
		return leaves[0].Message
	}
	msgs := make([]string, len(leaves))
	for i, leaf := range leaves {
		if leaf.Span.IsValid() {
			msgs[i] = fmt.Sprintf("%s: %s", leaf.Span, leaf.Message)
		} else {
			msgs[i] = leaf.Message
		}
	}
	return "multiple things are allowed here, but none of them were" +
		" recognized correctly; at least one of these should apply," +
		" solve that one and ignore the others:\n  " +
		strings.Join(msgs, "\n  ")
}

func ambiguityError(n *ir.Node, matches []*schema.Spec) *RecognitionError {
	descs := make([]string, len(matches))
	for i, m := range matches {
		descs[i] = m.Desc()
	}
	return &RecognitionError{
		Span: n.Span,
		Message: fmt.Sprintf("value matches more than one type: %s;"+
			" add a tag or adjust the value to disambiguate",
			strings.Join(descs, ", ")),
	}
}

func expected(n *ir.Node, what string) *Mismatch {
	return &Mismatch{
		Span:    n.Span,
		Message: fmt.Sprintf("expected %s, got %s", what, got(n)),
	}
}

func got(n *ir.Node) string {
	switch n.Type {
	case ir.ObjectType:
		return "a mapping"
	case ir.ArrayType:
		return "a list"
	case ir.NullType:
		return "null"
	case ir.StringType:
		return fmt.Sprintf("%q", n.String)
	default:
		return n.Text()
	}
}

func causes(m *Mismatch) []*Mismatch {
	if m == nil {
		return nil
	}
	return []*Mismatch{m}
}
