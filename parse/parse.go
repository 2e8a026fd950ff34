// Package parse turns YAML or JSON text into an ir.Node tree with
// source spans. The grammar work is delegated to goccy/go-yaml; this
// package only maps its AST onto the ir, resolving anchors, aliases
// and merge keys along the way.
package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/savorlabs/savor/ir"
)

func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	po := &parseOpts{}
	for _, opt := range opts {
		opt(po)
	}
	file, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, &Error{
			Filename: po.filename,
			Message:  err.Error(),
			Err:      ErrParse,
		}
	}
	docs := file.Docs
	switch len(docs) {
	case 0:
		return ir.Null(), nil
	case 1:
	default:
		return nil, &Error{
			Filename: po.filename,
			Message:  fmt.Sprintf("expected a single document, got %d", len(docs)),
			Err:      ErrMultiDoc,
		}
	}
	if docs[0].Body == nil {
		return ir.Null(), nil
	}
	cv := &converter{filename: po.filename, anchors: map[string]*ir.Node{}}
	return cv.node(docs[0].Body)
}

func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}

type converter struct {
	filename string
	anchors  map[string]*ir.Node
}

func (cv *converter) node(n ast.Node) (*ir.Node, error) {
	switch v := n.(type) {
	case *ast.NullNode:
		return ir.Null().WithSpan(span(n)), nil
	case *ast.BoolNode:
		return ir.FromBool(v.Value).WithSpan(span(n)), nil
	case *ast.IntegerNode:
		return cv.integer(v)
	case *ast.FloatNode:
		return ir.FromFloat(v.Value).WithSpan(span(n)), nil
	case *ast.InfinityNode:
		return ir.FromFloat(v.Value).WithSpan(span(n)), nil
	case *ast.NanNode:
		res := &ir.Node{Type: ir.NumberType, Number: "nan"}
		return res.WithSpan(span(n)), nil
	case *ast.StringNode:
		res := ir.FromString(v.Value).WithSpan(span(n))
		res.Quoted = isQuoted(n.GetToken())
		return res, nil
	case *ast.LiteralNode:
		res := ir.FromString(v.Value.Value).WithSpan(span(n))
		res.Quoted = true
		return res, nil
	case *ast.MappingNode:
		return cv.mapping(v.Values, span(n))
	case *ast.MappingValueNode:
		return cv.mapping([]*ast.MappingValueNode{v}, span(n))
	case *ast.SequenceNode:
		return cv.sequence(v)
	case *ast.AnchorNode:
		return cv.anchor(v)
	case *ast.AliasNode:
		return cv.alias(v)
	case *ast.TagNode:
		return cv.tagged(v)
	default:
		return nil, cv.errAt(n, fmt.Sprintf("unsupported construct %s", n.Type()))
	}
}

func (cv *converter) integer(v *ast.IntegerNode) (*ir.Node, error) {
	switch n := v.Value.(type) {
	case int64:
		return ir.FromInt(n).WithSpan(span(v)), nil
	case uint64:
		if n <= 1<<63-1 {
			return ir.FromInt(int64(n)).WithSpan(span(v)), nil
		}
		res := &ir.Node{Type: ir.NumberType, Number: v.GetToken().Value}
		return res.WithSpan(span(v)), nil
	case int:
		return ir.FromInt(int64(n)).WithSpan(span(v)), nil
	default:
		return nil, cv.errAt(v, fmt.Sprintf("unsupported integer representation %T", v.Value))
	}
}

func (cv *converter) mapping(values []*ast.MappingValueNode, sp ir.Span) (*ir.Node, error) {
	kvs := make([]ir.KeyVal, 0, len(values))
	var merges []*ir.Node
	for _, mv := range values {
		if _, isMerge := mv.Key.(*ast.MergeKeyNode); isMerge {
			merged, err := cv.node(mv.Value)
			if err != nil {
				return nil, err
			}
			merges = append(merges, merged)
			continue
		}
		key, err := cv.key(mv.Key)
		if err != nil {
			return nil, err
		}
		val, err := cv.node(mv.Value)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: key, Val: val})
	}
	res := ir.FromKeyVals(kvs)
	res.Span = sp
	for _, m := range merges {
		if err := cv.merge(res, m); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// merge applies YAML merge-key semantics: merged-in keys never
// override keys already present.
func (cv *converter) merge(dst, src *ir.Node) error {
	switch src.Type {
	case ir.ObjectType:
		for i, f := range src.Fields {
			if dst.HasAttr(f.String) {
				continue
			}
			dst.SetAttr(f.String, src.Values[i].Clone())
		}
		return nil
	case ir.ArrayType:
		for _, v := range src.Values {
			if err := cv.merge(dst, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return &Error{
			Filename: cv.filename,
			Pos:      src.Span.Start,
			Message:  "merge value must be a mapping or a list of mappings",
			Err:      ErrParse,
		}
	}
}

func (cv *converter) key(n ast.MapKeyNode) (*ir.Node, error) {
	switch v := n.(type) {
	case *ast.StringNode:
		res := ir.FromString(v.Value).WithSpan(span(n))
		res.Quoted = isQuoted(n.GetToken())
		return res, nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.NullNode:
		// non-string keys are carried by their rendered text
		return ir.FromString(n.GetToken().Value).WithSpan(span(n)), nil
	default:
		return nil, cv.errAt(n, fmt.Sprintf("unsupported mapping key %s", n.Type()))
	}
}

func (cv *converter) sequence(v *ast.SequenceNode) (*ir.Node, error) {
	vals := make([]*ir.Node, 0, len(v.Values))
	for _, el := range v.Values {
		y, err := cv.node(el)
		if err != nil {
			return nil, err
		}
		vals = append(vals, y)
	}
	res := ir.FromSlice(vals)
	res.Span = span(v)
	return res, nil
}

func (cv *converter) anchor(v *ast.AnchorNode) (*ir.Node, error) {
	res, err := cv.node(v.Value)
	if err != nil {
		return nil, err
	}
	cv.anchors[v.Name.GetToken().Value] = res
	return res, nil
}

func (cv *converter) alias(v *ast.AliasNode) (*ir.Node, error) {
	name := v.Value.GetToken().Value
	src, ok := cv.anchors[name]
	if !ok {
		return nil, cv.errAt(v, fmt.Sprintf("unknown anchor %q", name))
	}
	res := src.Clone()
	res.Span = span(v)
	return res, nil
}

func (cv *converter) tagged(v *ast.TagNode) (*ir.Node, error) {
	res, err := cv.node(v.Value)
	if err != nil {
		return nil, err
	}
	tag := v.Start.Value
	switch tag {
	case "!!str", "tag:yaml.org,2002:str":
		if res.Type != ir.StringType {
			res.String = v.Value.GetToken().Value
			res.Int64 = nil
			res.Float64 = nil
		}
		res.Type = ir.StringType
		res.Quoted = true
	case "!!int", "tag:yaml.org,2002:int",
		"!!float", "tag:yaml.org,2002:float",
		"!!bool", "tag:yaml.org,2002:bool",
		"!!null", "tag:yaml.org,2002:null",
		"!!map", "tag:yaml.org,2002:map",
		"!!seq", "tag:yaml.org,2002:seq":
		// core-schema tags restate what resolution already decided
	default:
		res.Tag = strings.TrimPrefix(tag, "!")
	}
	res.Span = span(v)
	return res, nil
}

func (cv *converter) errAt(n ast.Node, msg string) error {
	return &Error{
		Filename: cv.filename,
		Pos:      span(n).Start,
		Message:  msg,
		Err:      ErrParse,
	}
}

func span(n ast.Node) ir.Span {
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return ir.Span{}
	}
	start := ir.Pos{Line: tk.Position.Line, Col: tk.Position.Column}
	end := start
	if i := strings.IndexByte(tk.Value, '\n'); i < 0 {
		end.Col += len(tk.Value)
	} else {
		end.Col += i
	}
	return ir.Span{Start: start, End: end}
}

func isQuoted(tk *token.Token) bool {
	if tk == nil {
		return false
	}
	switch tk.Type {
	case token.SingleQuoteType, token.DoubleQuoteType:
		return true
	default:
		return false
	}
}
