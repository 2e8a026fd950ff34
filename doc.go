// Package savor loads YAML and JSON documents into typed Go values
// and dumps them back, driven by struct declarations instead of
// per-format code.
//
// A Loader runs the read pipeline: parse the text into a tagged node
// tree, recognize which registered type each node is, run the class's
// savorize hooks to rewrite convenience spellings into canonical
// form, and bind the tree onto Go values with reflection. A Dumper
// runs the mirror pipeline: extract attributes from values, run the
// sweeten hooks to restore the convenient spellings, and emit YAML or
// JSON.
//
// Types are declared once in a schema.Registry:
//
//	reg, err := schema.New(
//		schema.Register(Submission{}),
//	)
//	ldr, err := savor.NewLoader(Submission{}, savor.WithRegistry(reg))
//	sub, err := savor.Load[*Submission](ldr, data)
//
// Errors carry the line and column of the innermost node that failed,
// and each call reports exactly one of the four pipeline error kinds:
// recognition, seasoning, construction or configuration.
package savor
