package savor

import (
	"fmt"
	"io"
	"os"

	"github.com/savorlabs/savor/encode"
	"github.com/savorlabs/savor/format"
	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/parse"
	"github.com/savorlabs/savor/schema"
)

// Option configures a Loader or a Dumper.
type Option func(*config)

// LoaderOption and DumperOption alias Option; format and color
// options only take effect on the dump side.
type (
	LoaderOption = Option
	DumperOption = Option
)

type config struct {
	reg *schema.Registry
	enc []encode.EncodeOption
}

// WithRegistry supplies the registry of user-defined types. Without
// it only built-in kinds resolve.
func WithRegistry(reg *schema.Registry) Option {
	return func(c *config) { c.reg = reg }
}

// WithFormat selects the output format of a Dumper.
func WithFormat(f format.Format) Option {
	return func(c *config) { c.enc = append(c.enc, encode.EncodeFormat(f)) }
}

// WithIndent sets the output indent width of a Dumper.
func WithIndent(n int) Option {
	return func(c *config) { c.enc = append(c.enc, encode.Indent(n)) }
}

// WithEncodeOptions passes options through to the encoder, e.g.
// encode.AutoColors.
func WithEncodeOptions(opts ...encode.EncodeOption) Option {
	return func(c *config) { c.enc = append(c.enc, opts...) }
}

func newConfig(opts []Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.reg == nil {
		reg, err := schema.New()
		if err != nil {
			return nil, err
		}
		c.reg = reg
	}
	return c, nil
}

// Loader reads documents into values of one root type. A Loader is
// built once and safe for concurrent use.
type Loader struct {
	reg  *schema.Registry
	root *schema.Spec
}

// NewLoader builds a loader for the given root. The root may be a
// prototype value, a reflect.Type, or a *schema.Spec. Types the
// registry does not know are a ConfigurationError here, never at
// load time.
func NewLoader(root any, opts ...Option) (*Loader, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	spec, ok := root.(*schema.Spec)
	if !ok {
		spec, err = c.reg.SpecFor(root)
		if err != nil {
			return nil, err
		}
	}
	return &Loader{reg: c.reg, root: spec}, nil
}

// Load parses one document and binds it to the root type. Registered
// classes come back as pointers to their struct type.
func (l *Loader) Load(data []byte) (any, error) {
	return l.load(data)
}

// LoadReader reads all of r and loads it.
func (l *Loader) LoadReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return l.load(data)
}

// LoadFile loads the document in the named file; errors carry the
// filename.
func (l *Loader) LoadFile(name string) (any, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return l.load(data, parse.ParseFilename(name))
}

func (l *Loader) load(data []byte, opts ...parse.ParseOption) (any, error) {
	node, err := parse.Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return l.bind(node)
}

// LoadNode binds an already parsed tree; the savorize hooks may
// rewrite it in place.
func (l *Loader) LoadNode(node *ir.Node) (any, error) {
	return l.bind(node)
}

func (l *Loader) bind(node *ir.Node) (any, error) {
	b := &binder{reg: l.reg}
	v, err := b.process(node, l.root)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// Load is the typed convenience around (*Loader).Load.
func Load[T any](l *Loader, data []byte) (T, error) {
	var zero T
	v, err := l.Load(data)
	if err != nil {
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("loaded %T, not %T", v, zero)
	}
	return res, nil
}

// LoadFile is the typed convenience around (*Loader).LoadFile.
func LoadFile[T any](l *Loader, name string) (T, error) {
	var zero T
	v, err := l.LoadFile(name)
	if err != nil {
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("loaded %T, not %T", v, zero)
	}
	return res, nil
}
