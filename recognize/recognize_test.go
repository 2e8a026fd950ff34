package recognize

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/parse"
	"github.com/savorlabs/savor/schema"
)

type shape struct {
	Center []float64
}

type circle struct {
	shape
	Radius float64
}

type square struct {
	shape
	Side float64
}

type animal struct {
	Name string
}

type dog struct {
	animal
	Breed *string
}

type email string

func (e email) Validate() error {
	if !strings.Contains(string(e), "@") {
		return fmt.Errorf("%q is not an email address", string(e))
	}
	return nil
}

type priority int

func testRegistry(t *testing.T) *testReg {
	t.Helper()
	reg, err := schema.New(
		schema.Register(shape{}, schema.Abstract()),
		schema.Register(circle{}),
		schema.Register(square{}),
		schema.Register(animal{}),
		schema.Register(dog{}),
		schema.RegisterString(email("")),
		schema.RegisterEnum(map[string]priority{"low": 0, "high": 2}),
	)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return &testReg{reg}
}

// testReg wraps schema.Registry with a fatal-on-error spec lookup.
type testReg struct {
	*schema.Registry
}

func (r *testReg) spec(t *testing.T, proto any) *schema.Spec {
	t.Helper()
	s, err := r.SpecFor(proto)
	if err != nil {
		t.Fatalf("SpecFor(%T): %v", proto, err)
	}
	return s
}

func node(t *testing.T, text string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(text))
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return n
}

func TestRecognizeScalars(t *testing.T) {
	reg := testRegistry(t)
	tests := []struct {
		name  string
		text  string
		proto any
		ok    bool
	}{
		{"int", "42", 0, true},
		{"int is not float", "42", 0.0, false},
		{"float", "3.5", 0.0, true},
		{"float is not int", "3.5", 0, false},
		{"quoted int is string", `"42"`, "", true},
		{"quoted int is not int", `"42"`, 0, false},
		{"bool", "true", false, true},
		{"string yes is not bool", "yes", false, false},
		{"timestamp", "2020-01-02", time.Time{}, true},
		{"quoted timestamp", `"2020-01-02"`, time.Time{}, true},
		{"non-date string is not timestamp", `soon`, time.Time{}, false},
		{"mapping is not string", "a: 1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recognize(node(t, tt.text), reg.spec(t, tt.proto))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected a recognition error")
			}
		})
	}
}

func TestRecognizeUnionExactlyOne(t *testing.T) {
	reg := testRegistry(t)
	union := &schema.Spec{
		Kind: schema.UnionKind,
		Alts: []*schema.Spec{reg.spec(t, 0), reg.spec(t, "")},
	}
	got, err := Recognize(node(t, "six"), union)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Kind != schema.StringKind {
		t.Fatalf("matched %v, want string", got.Kind)
	}
	got, err = Recognize(node(t, "6"), union)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Kind != schema.IntKind {
		t.Fatalf("matched %v, want int", got.Kind)
	}
}

func TestRecognizeUserStringInUnion(t *testing.T) {
	reg := testRegistry(t)
	union := &schema.Spec{
		Kind: schema.UnionKind,
		Alts: []*schema.Spec{reg.spec(t, email("")), reg.spec(t, "")},
	}
	// a validating value matches both alternatives: ambiguous
	if _, err := Recognize(node(t, "a@b.example"), union); err == nil {
		t.Fatal("expected ambiguity between email and string")
	}
	// a failing value drops the user string and falls back to string
	got, err := Recognize(node(t, "not-an-email"), union)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Kind != schema.StringKind {
		t.Fatalf("matched %v, want plain string", got.Kind)
	}
}

func TestRecognizeClassLattice(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, shape{})

	got, err := Recognize(node(t, "center: [0.0, 0.0]\nradius: 1.0\n"), spec)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Class == nil || got.Class.Name != "circle" {
		t.Fatalf("matched %v, want circle", got)
	}

	// neither subclass fits
	if _, err := Recognize(node(t, "center: [0.0, 0.0]\n"), spec); err == nil {
		t.Fatal("abstract shape alone must not match")
	}
}

func TestRecognizeMostDerivedWins(t *testing.T) {
	reg := testRegistry(t)
	got, err := Recognize(node(t, "name: Rex\n"), reg.spec(t, animal{}))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Class.Name != "dog" {
		t.Fatalf("matched %s, want dog (most derived)", got.Class.Name)
	}
}

func TestRecognizeTagDisambiguates(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, animal{})

	n := node(t, "pet: !animal\n  name: Rex\n").Attr("pet")
	got, err := Recognize(n, spec)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got.Class.Name != "animal" {
		t.Fatalf("matched %s, want tagged animal", got.Class.Name)
	}

	bad := node(t, "pet: !circle\n  name: Rex\n").Attr("pet")
	if _, err := Recognize(bad, spec); err == nil {
		t.Fatal("a tag outside the lattice must fail")
	}
}

func TestRecognizeClassRejectsUnknownKey(t *testing.T) {
	reg := testRegistry(t)
	_, err := Recognize(node(t, "name: Rex\nwings: 2\n"), reg.spec(t, animal{}))
	if err == nil {
		t.Fatal("expected a recognition error")
	}
	var re *RecognitionError
	if !errors.As(err, &re) {
		t.Fatalf("err = %T", err)
	}
}

func TestRecognizeEnum(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, priority(0))
	if _, err := Recognize(node(t, "high"), spec); err != nil {
		t.Fatalf("Recognize(high): %v", err)
	}
	if _, err := Recognize(node(t, "urgent"), spec); err == nil {
		t.Fatal("unknown label must not match")
	}
}

func TestRecognizeOptional(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, (*int)(nil))
	if _, err := Recognize(node(t, "null"), spec); err != nil {
		t.Fatalf("null: %v", err)
	}
	if _, err := Recognize(node(t, "3"), spec); err != nil {
		t.Fatalf("elem: %v", err)
	}
	if _, err := Recognize(node(t, "x"), spec); err == nil {
		t.Fatal("expected a recognition error")
	}
}

func TestRecognitionErrorSpans(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, map[string][]int(nil))
	_, err := Recognize(node(t, "xs:\n  - 1\n  - oops\n"), spec)
	var re *RecognitionError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v", err)
	}
	if re.Span.Start.Line != 3 {
		t.Fatalf("span = %v, want the innermost failure on line 3", re.Span)
	}
	if n := strings.Count(re.Error(), re.Span.String()); n != 1 {
		t.Fatalf("error %q renders its span %d times, want once", re.Error(), n)
	}
}

func TestRecognizeSeqDeep(t *testing.T) {
	reg := testRegistry(t)
	spec := reg.spec(t, []int(nil))
	if _, err := Recognize(node(t, "[1, 2, 3]"), spec); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if _, err := Recognize(node(t, "[1, x, 3]"), spec); err == nil {
		t.Fatal("expected a recognition error")
	}
}
