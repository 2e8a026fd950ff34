package ir

import (
	"testing"
)

func TestCloneIndependence(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: FromString("a"), Val: FromInt(1)},
		{Key: FromString("b"), Val: FromSlice([]*Node{FromString("x"), FromBool(true)})},
	})
	cp := orig.Clone()
	cp.Values[0].Int64 = nil
	cp.Values[0].Type = StringType
	cp.Values[0].String = "changed"
	if orig.Values[0].Type != NumberType || *orig.Values[0].Int64 != 1 {
		t.Fatalf("mutating a clone changed the original: %+v", orig.Values[0])
	}
	if got := cp.Values[1].Values[0].Parent; got != cp.Values[1] {
		t.Fatalf("clone parent = %p, want %p", got, cp.Values[1])
	}
}

func TestFromKeyValsIndexing(t *testing.T) {
	obj := FromKeyVals([]KeyVal{
		{Key: FromString("one"), Val: FromInt(1)},
		{Key: FromString("two"), Val: FromInt(2)},
	})
	for i, f := range obj.Fields {
		if f.Parent != obj || f.ParentIndex != i {
			t.Fatalf("field %d parent linkage wrong", i)
		}
		if obj.Values[i].ParentField != f.String {
			t.Fatalf("value %d ParentField = %q, want %q", i, obj.Values[i].ParentField, f.String)
		}
	}
}

func TestReType(t *testing.T) {
	n := FromString("42")
	n.ReType()
	if n.Type != NumberType || n.Int64 == nil || *n.Int64 != 42 {
		t.Fatalf("ReType(\"42\") = %+v, want number 42", n)
	}

	quoted := FromString("42")
	quoted.Quoted = true
	quoted.ReType()
	if quoted.Type != StringType {
		t.Fatalf("ReType of quoted scalar = %v, want String", quoted.Type)
	}
}

func TestFormatNumber(t *testing.T) {
	i := int64(7)
	f := 2.5
	whole := 3.0
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"int", &Node{Type: NumberType, Int64: &i}, "7"},
		{"float", &Node{Type: NumberType, Float64: &f}, "2.5"},
		{"whole float", &Node{Type: NumberType, Float64: &whole}, "3.0"},
		{"raw", &Node{Type: NumberType, Number: "18446744073709551615"}, "18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.node); got != tt.want {
				t.Fatalf("FormatNumber = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: Pos{Line: 2, Col: 3}, End: Pos{Line: 2, Col: 8}}
	b := Span{Start: Pos{Line: 1, Col: 5}, End: Pos{Line: 3, Col: 1}}
	got := a.Cover(b)
	if got.Start != b.Start || got.End != b.End {
		t.Fatalf("Cover = %+v, want %+v", got, b)
	}
	if got := a.Cover(Span{}); got != a {
		t.Fatalf("Cover with zero span = %+v, want %+v", got, a)
	}
}
