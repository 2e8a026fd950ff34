// Package encode renders ir.Node trees as YAML (block style) or
// JSON text, optionally colorized for terminals.
package encode

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/savorlabs/savor/format"
	"github.com/savorlabs/savor/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	indent int
	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	var err error
	if es.format.IsJSON() {
		err = encodeJSON(node, w, es, 0)
	} else {
		err = encodeYAML(node, w, es, 0, false)
	}
	if err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func writeIndent(w io.Writer, es *EncState, depth int) error {
	return writeString(w, strings.Repeat(" ", es.indent*depth))
}

func applyColor(es *EncState, t ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

// YAML encoding

// encodeYAML writes node at depth. When inline, the caller already
// wrote "key:" or "- " on the current line and scalars follow after
// a space.
func encodeYAML(node *ir.Node, w io.Writer, es *EncState, depth int, inline bool) error {
	if node.Tag != "" {
		tag := applyColor(es, node.Type, TagColor, "!"+node.Tag)
		lead := ""
		if inline {
			lead = " "
		}
		if err := writeString(w, lead+tag); err != nil {
			return err
		}
		if node.Type.IsLeaf() {
			inlineNode := *node
			inlineNode.Tag = ""
			return encodeYAML(&inlineNode, w, es, depth, true)
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		taggedNode := *node
		taggedNode.Tag = ""
		return encodeYAMLBlock(&taggedNode, w, es, depth+1)
	}
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			return writeInlineValue(w, es, inline, applyColor(es, ir.ObjectType, ValueColor, "{}"))
		}
		if inline {
			if err := writeString(w, "\n"); err != nil {
				return err
			}
			depth++
		}
		return encodeYAMLBlock(node, w, es, depth)
	case ir.ArrayType:
		if len(node.Values) == 0 {
			return writeInlineValue(w, es, inline, applyColor(es, ir.ArrayType, ValueColor, "[]"))
		}
		if inline {
			if err := writeString(w, "\n"); err != nil {
				return err
			}
			depth++
		}
		return encodeYAMLBlock(node, w, es, depth)
	case ir.StringType:
		if strings.Contains(node.String, "\n") {
			return encodeBlockLit(node, w, es, depth, inline)
		}
		return writeInlineValue(w, es, inline, yamlString(node, es))
	default:
		v := applyColor(es, node.Type, ValueColor, node.Text())
		return writeInlineValue(w, es, inline, v)
	}
}

func writeInlineValue(w io.Writer, es *EncState, inline bool, v string) error {
	if inline {
		v = " " + v
	}
	return writeString(w, v)
}

func encodeYAMLBlock(node *ir.Node, w io.Writer, es *EncState, depth int) error {
	switch node.Type {
	case ir.ObjectType:
		for i, field := range node.Fields {
			if i > 0 {
				if err := writeString(w, "\n"); err != nil {
					return err
				}
			}
			if err := writeIndent(w, es, depth); err != nil {
				return err
			}
			if err := writeYAMLField(w, es, field.String); err != nil {
				return err
			}
			if err := encodeYAML(node.Values[i], w, es, depth, true); err != nil {
				return err
			}
		}
		return nil
	case ir.ArrayType:
		for i, v := range node.Values {
			if i > 0 {
				if err := writeString(w, "\n"); err != nil {
					return err
				}
			}
			if err := writeIndent(w, es, depth); err != nil {
				return err
			}
			marker := applyColor(es, ir.ArrayType, SepColor, "-")
			if err := writeString(w, marker); err != nil {
				return err
			}
			if err := encodeYAML(v, w, es, depth, true); err != nil {
				return err
			}
		}
		return nil
	default:
		if err := writeIndent(w, es, depth); err != nil {
			return err
		}
		return encodeYAML(node, w, es, depth, false)
	}
}

func writeYAMLField(w io.Writer, es *EncState, f string) error {
	if needsQuote(f) {
		f = strconv.Quote(f)
	}
	f = applyColor(es, ir.ObjectType, FieldColor, f)
	sep := applyColor(es, ir.ObjectType, SepColor, ":")
	return writeString(w, f+sep)
}

func encodeBlockLit(node *ir.Node, w io.Writer, es *EncState, depth int, inline bool) error {
	v := node.String
	marker := "|"
	if !strings.HasSuffix(v, "\n") {
		marker = "|-"
	} else {
		v = strings.TrimSuffix(v, "\n")
	}
	lead := ""
	if inline {
		lead = " "
	}
	if err := writeString(w, lead+applyColor(es, ir.StringType, SepColor, marker)); err != nil {
		return err
	}
	for _, ln := range strings.Split(v, "\n") {
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		if ln == "" {
			continue
		}
		if err := writeIndent(w, es, depth+1); err != nil {
			return err
		}
		if err := writeString(w, applyColor(es, ir.StringType, LiteralMultiColor, ln)); err != nil {
			return err
		}
	}
	return nil
}

func yamlString(node *ir.Node, es *EncState) string {
	v := node.String
	attr := LiteralSingleColor
	if node.Quoted || needsQuote(v) {
		v = strconv.Quote(v)
		attr = ValueColor
	}
	return applyColor(es, ir.StringType, attr, v)
}

// needsQuote reports whether a plain rendering of v would change its
// resolved kind or break the block grammar.
func needsQuote(v string) bool {
	if v == "" {
		return true
	}
	if strings.TrimSpace(v) != v {
		return true
	}
	switch v {
	case "null", "~", "true", "false", "Null", "True", "False", "yes", "no", "on", "off":
		return true
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return true
	}
	if strings.ContainsAny(v, "\n\t") {
		return true
	}
	switch v[0] {
	case '*', '&', '%', '@', ':', '#', ',', '{', '}', '[', ']', '!', '|', '>', '?', '-', '\'', '"':
		return true
	}
	if strings.Contains(v, ": ") || strings.HasSuffix(v, ":") || strings.Contains(v, " #") {
		return true
	}
	return false
}

// JSON encoding

func encodeJSON(node *ir.Node, w io.Writer, es *EncState, depth int) error {
	if node.Tag != "" {
		return errors.Join(ErrEncoding, errors.New("cannot encode tags in json"))
	}
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			return writeString(w, "{}")
		}
		if err := writeString(w, applyColor(es, ir.ObjectType, SepColor, "{")); err != nil {
			return err
		}
		for i, field := range node.Fields {
			if i > 0 {
				if err := writeString(w, applyColor(es, ir.ObjectType, SepColor, ",")); err != nil {
					return err
				}
			}
			if err := writeString(w, "\n"); err != nil {
				return err
			}
			if err := writeIndent(w, es, depth+1); err != nil {
				return err
			}
			k := jsonQuote(field.String)
			k = applyColor(es, ir.ObjectType, FieldColor, k)
			sep := applyColor(es, ir.ObjectType, SepColor, ":")
			if err := writeString(w, k+sep+" "); err != nil {
				return err
			}
			if err := encodeJSON(node.Values[i], w, es, depth+1); err != nil {
				return err
			}
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		if err := writeIndent(w, es, depth); err != nil {
			return err
		}
		return writeString(w, applyColor(es, ir.ObjectType, SepColor, "}"))
	case ir.ArrayType:
		if len(node.Values) == 0 {
			return writeString(w, "[]")
		}
		if err := writeString(w, applyColor(es, ir.ArrayType, SepColor, "[")); err != nil {
			return err
		}
		for i, v := range node.Values {
			if i > 0 {
				if err := writeString(w, applyColor(es, ir.ArrayType, SepColor, ",")); err != nil {
					return err
				}
			}
			if err := writeString(w, "\n"); err != nil {
				return err
			}
			if err := writeIndent(w, es, depth+1); err != nil {
				return err
			}
			if err := encodeJSON(v, w, es, depth+1); err != nil {
				return err
			}
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		if err := writeIndent(w, es, depth); err != nil {
			return err
		}
		return writeString(w, applyColor(es, ir.ArrayType, SepColor, "]"))
	case ir.StringType:
		return writeString(w, applyColor(es, ir.StringType, ValueColor, jsonQuote(node.String)))
	default:
		return writeString(w, applyColor(es, node.Type, ValueColor, node.Text()))
	}
}

func jsonQuote(v string) string {
	d, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote(v)
	}
	return string(d)
}
