package parse

import (
	"errors"
	"testing"

	"github.com/savorlabs/savor/ir"
)

func mustParse(t *testing.T, in string) *ir.Node {
	t.Helper()
	n, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse(%q): %v", in, err)
	}
	return n
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, n *ir.Node)
	}{
		{"int", "42", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.NumberType || n.Int64 == nil || *n.Int64 != 42 {
				t.Fatalf("got %+v, want int 42", n)
			}
		}},
		{"negative int", "-7", func(t *testing.T, n *ir.Node) {
			if n.Int64 == nil || *n.Int64 != -7 {
				t.Fatalf("got %+v, want int -7", n)
			}
		}},
		{"float", "3.5", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.NumberType || n.Float64 == nil || *n.Float64 != 3.5 {
				t.Fatalf("got %+v, want float 3.5", n)
			}
			if n.Int64 != nil {
				t.Fatal("float scalar must not carry an int value")
			}
		}},
		{"bool", "true", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.BoolType || !n.Bool {
				t.Fatalf("got %+v, want true", n)
			}
		}},
		{"null", "null", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.NullType {
				t.Fatalf("got %v, want Null", n.Type)
			}
		}},
		{"plain string", "hello", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.StringType || n.String != "hello" || n.Quoted {
				t.Fatalf("got %+v, want plain string hello", n)
			}
		}},
		{"quoted number stays string", `"42"`, func(t *testing.T, n *ir.Node) {
			if n.Type != ir.StringType || n.String != "42" || !n.Quoted {
				t.Fatalf("got %+v, want quoted string \"42\"", n)
			}
		}},
		{"single quoted", "'on'", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.StringType || !n.Quoted {
				t.Fatalf("got %+v, want quoted string", n)
			}
		}},
		{"str tag pins string", "!!str 42", func(t *testing.T, n *ir.Node) {
			if n.Type != ir.StringType || !n.Quoted {
				t.Fatalf("got %+v, want pinned string", n)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mustParse(t, tt.in))
		})
	}
}

func TestParseMapping(t *testing.T) {
	n := mustParse(t, "name: Janice\nage: 6\n")
	if n.Type != ir.ObjectType || len(n.Fields) != 2 {
		t.Fatalf("got %+v, want a two-key mapping", n)
	}
	if n.Attr("name").String != "Janice" {
		t.Fatalf("name = %q", n.Attr("name").String)
	}
	if *n.Attr("age").Int64 != 6 {
		t.Fatalf("age = %v", n.Attr("age"))
	}
	if got := n.Attr("age").Span.Start.Line; got != 2 {
		t.Fatalf("age span line = %d, want 2", got)
	}
}

func TestParseSequence(t *testing.T) {
	n := mustParse(t, "- 1\n- two\n- [3, 4]\n")
	if n.Type != ir.ArrayType || len(n.Values) != 3 {
		t.Fatalf("got %+v", n)
	}
	if n.Values[2].Type != ir.ArrayType || len(n.Values[2].Values) != 2 {
		t.Fatalf("nested list = %+v", n.Values[2])
	}
}

func TestParseJSONInput(t *testing.T) {
	n := mustParse(t, `{"a": 1, "b": [true, null]}`)
	if n.Type != ir.ObjectType {
		t.Fatalf("got %v, want Object", n.Type)
	}
	if *n.Attr("a").Int64 != 1 {
		t.Fatalf("a = %v", n.Attr("a"))
	}
	b := n.Attr("b")
	if b.Values[0].Type != ir.BoolType || b.Values[1].Type != ir.NullType {
		t.Fatalf("b = %+v", b)
	}
}

func TestParseAnchorsAndAliases(t *testing.T) {
	n := mustParse(t, "base: &b\n  x: 1\ncopy: *b\n")
	cp := n.Attr("copy")
	if cp.Type != ir.ObjectType || *cp.Attr("x").Int64 != 1 {
		t.Fatalf("copy = %+v", cp)
	}
	// the alias is a copy, not a shared node
	cp.SetAttr("x", ir.FromInt(9))
	if got := *n.Attr("base").Attr("x").Int64; got != 1 {
		t.Fatalf("mutating the alias changed the anchor: %d", got)
	}
}

func TestParseMergeKeys(t *testing.T) {
	n := mustParse(t, "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n  z: 4\n")
	d := n.Attr("derived")
	if got := *d.Attr("y").Int64; got != 3 {
		t.Fatalf("y = %d, merged keys must not override", got)
	}
	if got := *d.Attr("x").Int64; got != 1 {
		t.Fatalf("x = %d, want merged 1", got)
	}
	if got := *d.Attr("z").Int64; got != 4 {
		t.Fatalf("z = %d", got)
	}
}

func TestParseTag(t *testing.T) {
	n := mustParse(t, "shape: !Circle\n  radius: 1\n")
	s := n.Attr("shape")
	if s.Tag != "Circle" {
		t.Fatalf("tag = %q, want Circle", s.Tag)
	}
	if s.Type != ir.ObjectType || *s.Attr("radius").Int64 != 1 {
		t.Fatalf("tagged node = %+v", s)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	n := mustParse(t, "")
	if n.Type != ir.NullType {
		t.Fatalf("empty input = %v, want Null", n.Type)
	}
}

func TestParseMultiDocumentRejected(t *testing.T) {
	_, err := Parse([]byte("a: 1\n---\nb: 2\n"))
	if !errors.Is(err, ErrMultiDoc) {
		t.Fatalf("err = %v, want ErrMultiDoc", err)
	}
}

func TestParseErrorCarriesFilename(t *testing.T) {
	_, err := Parse([]byte("a: [1,\n"), ParseFilename("broken.yaml"))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if pe.Filename != "broken.yaml" {
		t.Fatalf("filename = %q", pe.Filename)
	}
}
