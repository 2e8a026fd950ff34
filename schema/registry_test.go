package schema

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type testSubmission struct {
	Name   string
	Age    any    `union:"int|string"`
	Tool   string `default:"vim"`
	Secret string `savor:"-"`
}

type testShape struct {
	Center []float64
}

type testCircle struct {
	testShape
	Radius float64
}

type testSquare struct {
	testShape
	Side float64
}

type testServer struct {
	HTTPPort int
	Hostname string `savor:"host"`
	Started  *time.Time
	Rest     Extra `savor:",extra"`
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	reg, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

func TestRegisterClassParams(t *testing.T) {
	reg := newTestRegistry(t, Register(testSubmission{}))
	c := reg.ClassFor(reflect.TypeOf(testSubmission{}))
	if c == nil {
		t.Fatal("class not registered")
	}
	if c.Name != "testSubmission" {
		t.Fatalf("name = %q", c.Name)
	}
	keys := make([]string, len(c.Params))
	for i, p := range c.Params {
		keys[i] = p.Key
	}
	want := []string{"name", "age", "tool"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("param keys = %v, want %v", keys, want)
	}

	age := c.Param("age")
	if age.Spec.Kind != UnionKind || len(age.Spec.Alts) != 2 {
		t.Fatalf("age spec = %v", age.Spec)
	}
	tool := c.Param("tool")
	if !tool.HasDefault || tool.Default.String() != "vim" {
		t.Fatalf("tool default = %v", tool.Default)
	}
	if tool.Required() {
		t.Fatal("a defaulted parameter must not be required")
	}
	if name := c.Param("name"); !name.Required() {
		t.Fatal("name must be required")
	}
}

func TestRegisterKeyDerivation(t *testing.T) {
	reg := newTestRegistry(t, Register(testServer{}))
	c := reg.ClassFor(reflect.TypeOf(testServer{}))
	if c.Param("http_port") == nil {
		t.Fatal("HTTPPort must derive key http_port")
	}
	if c.Param("host") == nil {
		t.Fatal("savor tag rename ignored")
	}
	if c.ExtraParam == nil || c.ExtraParam.Name != "Rest" {
		t.Fatalf("extras param = %+v", c.ExtraParam)
	}
	started := c.Param("started")
	if started.Spec.Kind != OptionalKind || started.Spec.Elem.Kind != TimestampKind {
		t.Fatalf("started spec = %v", started.Spec)
	}
	if started.Required() {
		t.Fatal("optional parameters must not be required")
	}
}

func TestSubclassLinking(t *testing.T) {
	reg := newTestRegistry(t,
		Register(testShape{}, Abstract()),
		Register(testCircle{}),
		Register(testSquare{}),
	)
	shape := reg.ClassFor(reflect.TypeOf(testShape{}))
	circle := reg.ClassFor(reflect.TypeOf(testCircle{}))
	if !shape.Abstract {
		t.Fatal("shape must be abstract")
	}
	if circle.Parent != shape {
		t.Fatalf("circle parent = %v", circle.Parent)
	}
	if len(shape.Subclasses) != 2 {
		t.Fatalf("shape has %d subclasses, want 2", len(shape.Subclasses))
	}
	keys := make([]string, len(circle.Params))
	for i, p := range circle.Params {
		keys[i] = p.Key
	}
	want := []string{"center", "radius"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("circle params = %v, want %v", keys, want)
	}
	if !circle.DerivedFrom(shape) || shape.DerivedFrom(circle) {
		t.Fatal("DerivedFrom wrong")
	}
}

type testUnregisteredField struct {
	Inner struct{ X int }
}

func TestUnregisteredStructIsConfigurationError(t *testing.T) {
	_, err := New(Register(testUnregisteredField{}))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want a configuration error", err)
	}
}

type testBadMapKey struct {
	M map[int]string
}

func TestNonStringMapKeyRejected(t *testing.T) {
	_, err := New(Register(testBadMapKey{}))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want a configuration error", err)
	}
}

type testPriority int

func TestRegisterEnum(t *testing.T) {
	reg := newTestRegistry(t, RegisterEnum(map[string]testPriority{
		"low":  0,
		"high": 2,
	}))
	e := reg.EnumFor(reflect.TypeOf(testPriority(0)))
	if e == nil {
		t.Fatal("enum not registered")
	}
	if !reflect.DeepEqual(e.Labels, []string{"high", "low"}) {
		t.Fatalf("labels = %v", e.Labels)
	}
	v, ok := e.Value("high")
	if !ok || v.Interface() != testPriority(2) {
		t.Fatalf("Value(high) = %v, %v", v, ok)
	}
	label, err := e.Label(reflect.ValueOf(testPriority(0)))
	if err != nil || label != "low" {
		t.Fatalf("Label(0) = %q, %v", label, err)
	}
}

func TestByName(t *testing.T) {
	reg := newTestRegistry(t, Register(testSubmission{}, Named("Submission")))
	if reg.ByName("Submission") == nil {
		t.Fatal("named lookup failed")
	}
	if reg.ByName("testSubmission") != nil {
		t.Fatal("Named must replace the default name")
	}
	if s := reg.ByName("int"); s == nil || s.Kind != IntKind {
		t.Fatalf("builtin lookup = %v", s)
	}
}

func TestSpecForBuiltins(t *testing.T) {
	reg := newTestRegistry(t)
	tests := []struct {
		proto any
		kind  Kind
	}{
		{"", StringKind},
		{0, IntKind},
		{0.0, FloatKind},
		{false, BoolKind},
		{time.Time{}, TimestampKind},
		{Path(""), PathKind},
		{[]int(nil), SeqKind},
		{map[string]bool(nil), MapKind},
		{(*int)(nil), OptionalKind},
	}
	for _, tt := range tests {
		s, err := reg.SpecFor(tt.proto)
		if err != nil {
			t.Fatalf("SpecFor(%T): %v", tt.proto, err)
		}
		if s.Kind != tt.kind {
			t.Fatalf("SpecFor(%T) = %v, want %v", tt.proto, s.Kind, tt.kind)
		}
	}
}

func TestChecksCompile(t *testing.T) {
	reg := newTestRegistry(t, Register(testSubmission{}, Check("age >= 0")))
	c := reg.ClassFor(reflect.TypeOf(testSubmission{}))
	if len(c.Checks) != 1 {
		t.Fatalf("checks = %d, want 1", len(c.Checks))
	}
	var chk *CompiledCheck = c.Checks[0]
	if chk.Source != "age >= 0" || chk.Program == nil {
		t.Fatalf("compiled check = %+v", chk)
	}
	if err := c.RunChecks(map[string]any{"age": 6}); err != nil {
		t.Fatalf("passing check failed: %v", err)
	}
	if err := c.RunChecks(map[string]any{"age": -1}); err == nil {
		t.Fatal("failing check passed")
	}
}

func TestBadCheckRejectedAtBuild(t *testing.T) {
	_, err := New(Register(testSubmission{}, Check("age >=")))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want a configuration error", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, v := range []string{"2020-01-02", "2020-01-02T03:04:05", "2020-01-02T03:04:05Z"} {
		if _, err := ParseTimestamp(v); err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", v, err)
		}
	}
	if _, err := ParseTimestamp("not a date"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Name", "name"},
		{"MaxSize", "max_size"},
		{"HTTPPort", "http_port"},
		{"ID", "id"},
	}
	for _, tt := range tests {
		if got := snakeCase(tt.in); got != tt.want {
			t.Fatalf("snakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
