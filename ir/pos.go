package ir

import "fmt"

// Pos is a 1-based line/column position in the source text.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "<generated>"
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Span locates a node in the source text. Nodes built
// programmatically have a zero span.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

func (s Span) String() string {
	return s.Start.String()
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	if !s.IsValid() {
		return o
	}
	if !o.IsValid() {
		return s
	}
	res := s
	if o.Start.Line < res.Start.Line ||
		o.Start.Line == res.Start.Line && o.Start.Col < res.Start.Col {
		res.Start = o.Start
	}
	if o.End.Line > res.End.Line ||
		o.End.Line == res.End.Line && o.End.Col > res.End.Col {
		res.End = o.End
	}
	return res
}
