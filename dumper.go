package savor

import (
	"bytes"
	"io"

	"github.com/savorlabs/savor/encode"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/schema"
)

// Dumper writes values back out as YAML (default) or JSON. The dump
// pipeline mirrors the loader: extract attributes, run the sweeten
// hooks, emit. A Dumper is safe for concurrent use.
type Dumper struct {
	reg *schema.Registry
	enc []encode.EncodeOption
}

// NewDumper builds a dumper. Pass WithRegistry for user-defined
// types and WithFormat(format.JSONFormat) for JSON output.
func NewDumper(opts ...Option) (*Dumper, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Dumper{reg: c.reg, enc: c.enc}, nil
}

// Dump renders v as a document.
func (d *Dumper) Dump(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.DumpTo(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DumpTo renders v to w.
func (d *Dumper) DumpTo(w io.Writer, v any) error {
	node, err := d.Extract(v)
	if err != nil {
		return err
	}
	return encode.Encode(node, w, d.enc...)
}

// DumpString renders v and panics on error; for values known to be
// dumpable.
func (d *Dumper) DumpString(v any) string {
	data, err := d.Dump(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Extract builds the node tree for v, sweetened but not yet encoded.
func (d *Dumper) Extract(v any) (*ir.Node, error) {
	x := &extractor{reg: d.reg, onPath: map[uintptr]bool{}}
	return x.extract(v)
}
