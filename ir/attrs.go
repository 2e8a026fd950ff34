package ir

import (
	"fmt"
	"strings"
)

// Attribute helpers used by seasoning hooks to rewrite object nodes
// in place. All of them keep the Fields/Values pairing and the
// parent links intact.

func (y *Node) IsScalar() bool {
	return y.Type.IsLeaf()
}

func (y *Node) IsMapping() bool {
	return y.Type == ObjectType
}

func (y *Node) IsSequence() bool {
	return y.Type == ArrayType
}

func (y *Node) HasAttr(key string) bool {
	return y.attrIndex(key) >= 0
}

func (y *Node) Attr(key string) *Node {
	i := y.attrIndex(key)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// SetAttr replaces the value under key, or appends a new key-value
// pair if the key is absent.
func (y *Node) SetAttr(key string, val *Node) {
	if i := y.attrIndex(key); i >= 0 {
		val.Parent = y
		val.ParentIndex = i
		val.ParentField = key
		y.Values[i] = val
		return
	}
	i := len(y.Fields)
	field := &Node{
		Parent:      y,
		ParentIndex: i,
		ParentField: key,
		Type:        StringType,
		String:      key,
	}
	val.Parent = y
	val.ParentIndex = i
	val.ParentField = key
	y.Fields = append(y.Fields, field)
	y.Values = append(y.Values, val)
}

// RemoveAttr removes key and its value. Removing an absent key is a
// no-op.
func (y *Node) RemoveAttr(key string) {
	i := y.attrIndex(key)
	if i < 0 {
		return
	}
	y.Fields = append(y.Fields[:i], y.Fields[i+1:]...)
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	y.reindex()
}

// RenameAttr renames key to newKey in place, keeping its position.
func (y *Node) RenameAttr(key, newKey string) {
	i := y.attrIndex(key)
	if i < 0 {
		return
	}
	y.Fields[i].String = newKey
	y.Fields[i].ParentField = newKey
	y.Values[i].ParentField = newKey
}

// UndersToDashes rewrites every key's underscores to dashes;
// DashesToUnders is the inverse. Typical one-line sweeten/savorize
// bodies.
func (y *Node) UndersToDashes() {
	y.mapKeys(func(k string) string { return strings.ReplaceAll(k, "_", "-") })
}

func (y *Node) DashesToUnders() {
	y.mapKeys(func(k string) string { return strings.ReplaceAll(k, "-", "_") })
}

// SeqAttrToMap converts the sequence under attr from a list of
// mappings into a mapping indexed by each item's keyAttr, which is
// removed from the item. With a valueAttr, two-attribute items
// collapse to just that value. Already-converted input is left
// alone, so the transform is idempotent across savorize runs.
func (y *Node) SeqAttrToMap(attr, keyAttr string, valueAttr ...string) error {
	seq := y.Attr(attr)
	if seq == nil || seq.Type != ArrayType {
		return nil
	}
	var vAttr string
	if len(valueAttr) > 0 {
		vAttr = valueAttr[0]
	}
	kvs := make([]KeyVal, 0, len(seq.Values))
	for _, item := range seq.Values {
		if item.Type != ObjectType {
			return fmt.Errorf("%s: expected a list of mappings under %q", item.Span, attr)
		}
		keyNode := item.Attr(keyAttr)
		if keyNode == nil {
			return fmt.Errorf("%s: item under %q is missing key %q", item.Span, attr, keyAttr)
		}
		if keyNode.Type != StringType {
			return fmt.Errorf("%s: key %q must be a string", keyNode.Span, keyAttr)
		}
		item.RemoveAttr(keyAttr)
		val := item
		if vAttr != "" && len(item.Fields) == 1 && item.Fields[0].String == vAttr {
			val = item.Values[0]
		}
		kvs = append(kvs, KeyVal{
			Key: FromString(keyNode.String).WithSpan(keyNode.Span),
			Val: val,
		})
	}
	mapped := FromKeyVals(kvs)
	mapped.Span = seq.Span
	y.SetAttr(attr, mapped)
	return nil
}

// MapAttrToSeq is the inverse of SeqAttrToMap: the mapping under attr
// becomes a sequence of mappings, each regaining keyAttr. With a
// valueAttr, scalar values expand to {keyAttr: k, valueAttr: v}.
func (y *Node) MapAttrToSeq(attr, keyAttr string, valueAttr ...string) error {
	obj := y.Attr(attr)
	if obj == nil || obj.Type != ObjectType {
		return nil
	}
	var vAttr string
	if len(valueAttr) > 0 {
		vAttr = valueAttr[0]
	}
	items := make([]*Node, 0, len(obj.Fields))
	for i, field := range obj.Fields {
		val := obj.Values[i]
		if val.Type != ObjectType {
			if vAttr == "" {
				return fmt.Errorf("%s: value under %q is not a mapping", val.Span, field.String)
			}
			val = FromKeyVals([]KeyVal{{Key: FromString(vAttr), Val: val}})
		}
		item := FromKeyVals([]KeyVal{{
			Key: FromString(keyAttr),
			Val: FromString(field.String).WithSpan(field.Span),
		}})
		item.Span = val.Span
		item.Fields = append(item.Fields, val.Fields...)
		item.Values = append(item.Values, val.Values...)
		item.reindex()
		items = append(items, item)
	}
	seq := FromSlice(items)
	seq.Span = obj.Span
	y.SetAttr(attr, seq)
	return nil
}

// MapAttrToIndex rewrites the mapping under attr into an index: each
// value becomes a mapping that regains keyAttr from its outer key.
// With a valueAttr, scalar values first expand to {valueAttr: v}.
// Running it again replaces keyAttr with the same text, so savorize
// hooks can call it unconditionally.
func (y *Node) MapAttrToIndex(attr, keyAttr string, valueAttr ...string) error {
	obj := y.Attr(attr)
	if obj == nil || obj.Type != ObjectType {
		return nil
	}
	var vAttr string
	if len(valueAttr) > 0 {
		vAttr = valueAttr[0]
	}
	for i, field := range obj.Fields {
		val := obj.Values[i]
		if val.Type != ObjectType {
			if vAttr == "" {
				return fmt.Errorf("%s: value under %q is not a mapping", val.Span, field.String)
			}
			wrapped := FromKeyVals([]KeyVal{{Key: FromString(vAttr), Val: val}})
			wrapped.Span = val.Span
			obj.SetAttr(field.String, wrapped)
			val = wrapped
		}
		val.SetAttr(keyAttr, FromString(field.String).WithSpan(field.Span))
	}
	return nil
}

// IndexAttrToMap is the inverse of MapAttrToIndex: each value of the
// mapping under attr loses its redundant keyAttr, and with a
// valueAttr, items left holding only that attribute collapse to its
// value. For sweeten hooks.
func (y *Node) IndexAttrToMap(attr, keyAttr string, valueAttr ...string) error {
	obj := y.Attr(attr)
	if obj == nil || obj.Type != ObjectType {
		return nil
	}
	var vAttr string
	if len(valueAttr) > 0 {
		vAttr = valueAttr[0]
	}
	for i, field := range obj.Fields {
		val := obj.Values[i]
		if val.Type != ObjectType {
			return fmt.Errorf("%s: value under %q is not a mapping", val.Span, field.String)
		}
		val.RemoveAttr(keyAttr)
		if vAttr != "" && len(val.Fields) == 1 && val.Fields[0].String == vAttr {
			obj.SetAttr(field.String, val.Values[0])
		}
	}
	return nil
}

func (y *Node) attrIndex(key string) int {
	if y.Type != ObjectType {
		return -1
	}
	for i := range y.Fields {
		if y.Fields[i].String == key {
			return i
		}
	}
	return -1
}

func (y *Node) mapKeys(f func(string) string) {
	if y.Type != ObjectType {
		return
	}
	for i := range y.Fields {
		k := f(y.Fields[i].String)
		y.Fields[i].String = k
		y.Fields[i].ParentField = k
		y.Values[i].ParentField = k
	}
}

func (y *Node) reindex() {
	for i := range y.Values {
		y.Values[i].Parent = y
		y.Values[i].ParentIndex = i
		if i < len(y.Fields) {
			y.Fields[i].Parent = y
			y.Fields[i].ParentIndex = i
			y.Fields[i].ParentField = y.Fields[i].String
			y.Values[i].ParentField = y.Fields[i].String
		}
	}
}
