package encode

import (
	"bytes"
	"testing"

	"github.com/fatih/color"

	"github.com/savorlabs/savor/format"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/parse"
)

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: ir.FromString(k), Val: v}
}

func encodeString(t *testing.T, n *ir.Node, opts ...EncodeOption) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(n, &buf, opts...); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.String()
}

func TestEncodeYAML(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		want string
	}{
		{"scalar int", ir.FromInt(42), "42\n"},
		{"scalar float", ir.FromFloat(3.0), "3.0\n"},
		{"plain string", ir.FromString("hello"), "hello\n"},
		{"empty string quoted", ir.FromString(""), "\"\"\n"},
		{"bool-like string quoted", ir.FromString("true"), "\"true\"\n"},
		{"number-like string quoted", ir.FromString("42"), "\"42\"\n"},
		{"flat mapping", ir.FromKeyVals([]ir.KeyVal{
			kv("a", ir.FromInt(1)),
			kv("b", ir.FromString("x")),
		}), "a: 1\nb: x\n"},
		{"nested mapping", ir.FromKeyVals([]ir.KeyVal{
			kv("outer", ir.FromKeyVals([]ir.KeyVal{kv("inner", ir.FromInt(2))})),
		}), "outer:\n  inner: 2\n"},
		{"list", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)}), "- 1\n- 2\n"},
		{"list under key", ir.FromKeyVals([]ir.KeyVal{
			kv("xs", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})),
		}), "xs:\n  - 1\n  - 2\n"},
		{"empty containers", ir.FromKeyVals([]ir.KeyVal{
			kv("m", ir.FromKeyVals(nil)),
			kv("s", ir.FromSlice(nil)),
		}), "m: {}\ns: []\n"},
		{"multiline string", ir.FromString("line one\nline two"), "|-\n  line one\n  line two\n"},
		{"tagged scalar", ir.FromString("x").WithTag("Name"), "!Name x\n"},
		{"null", ir.Null(), "null\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeString(t, tt.node); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		kv("a", ir.FromInt(1)),
		kv("b", ir.FromSlice([]*ir.Node{ir.FromString("x"), ir.Null()})),
	})
	want := "{\n  \"a\": 1,\n  \"b\": [\n    \"x\",\n    null\n  ]\n}\n"
	got := encodeString(t, node, EncodeFormat(format.JSONFormat))
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeJSONRejectsTags(t *testing.T) {
	node := ir.FromString("x").WithTag("Name")
	var buf bytes.Buffer
	if err := Encode(node, &buf, EncodeFormat(format.JSONFormat)); err == nil {
		t.Fatal("expected an error encoding a tagged node as json")
	}
}

// Encoding then reparsing must reproduce the same scalar kinds.
func TestEncodeRoundTrip(t *testing.T) {
	inputs := []string{
		"a: 1\nb: two\nc: 3.5\nd: true\ne: null\n",
		"xs:\n  - 1\n  - \"2\"\n",
		"msg: |-\n  first\n  second\n",
	}
	for _, in := range inputs {
		orig, err := parse.Parse([]byte(in))
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		out := encodeString(t, orig)
		back, err := parse.Parse([]byte(out))
		if err != nil {
			t.Fatalf("reparse %q: %v", out, err)
		}
		var assertSame func(a, b *ir.Node)
		assertSame = func(a, b *ir.Node) {
			if a.Type != b.Type {
				t.Fatalf("round trip of %q changed %v to %v", in, a.Type, b.Type)
			}
			if a.Type == ir.StringType && a.String != b.String {
				t.Fatalf("round trip of %q changed %q to %q", in, a.String, b.String)
			}
			if (a.Int64 == nil) != (b.Int64 == nil) {
				t.Fatalf("round trip of %q changed int-ness", in)
			}
			for i := range a.Values {
				assertSame(a.Values[i], b.Values[i])
			}
		}
		assertSame(orig, back)
	}
}

func TestEncodeColorized(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	node := ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(1))})
	got := encodeString(t, node, EncodeColors(NewColors()))
	if !bytes.Contains([]byte(got), []byte("\x1b[")) {
		t.Fatalf("colorized output has no escape codes: %q", got)
	}
}
