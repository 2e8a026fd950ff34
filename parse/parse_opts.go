package parse

import "github.com/savorlabs/savor/format"

type ParseOption func(*parseOpts)

type parseOpts struct {
	filename string
	format   format.Format
}

// ParseFilename names the input in error messages.
func ParseFilename(name string) ParseOption {
	return func(po *parseOpts) { po.filename = name }
}

// ParseFormat declares the input format. JSON is a YAML subset, so
// both formats take the same path; the declaration is kept for
// callers that branch on it.
func ParseFormat(f format.Format) ParseOption {
	return func(po *parseOpts) { po.format = f }
}
