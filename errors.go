package savor

import (
	"errors"
	"fmt"

	"github.com/savorlabs/savor/ir"
	"github.com/savorlabs/savor/recognize"
	"github.com/savorlabs/savor/schema"
)

var (
	ErrSeasoning    = errors.New("seasoning error")
	ErrConstruction = errors.New("construction error")
)

// RecognitionError reports that a node matched no alternative, or
// several unrelated ones.
type RecognitionError = recognize.RecognitionError

// ConfigurationError reports an invalid registry or loader setup.
type ConfigurationError = schema.ConfigurationError

// SeasoningError wraps a failure from a savorize or sweeten hook,
// located at the node the hook was rewriting.
type SeasoningError struct {
	Span  ir.Span
	Class string
	Hook  string
	Err   error
}

func (e *SeasoningError) Error() string {
	msg := fmt.Sprintf("%s hook of %s: %v", e.Hook, e.Class, e.Err)
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s", e.Span, msg)
	}
	return msg
}

func (e *SeasoningError) Unwrap() error {
	return ErrSeasoning
}

// ConstructionError reports that a recognized node could not be
// turned into a value: an invariant check or Validate method
// rejected it, or a scalar does not fit its field.
type ConstructionError struct {
	Span  ir.Span
	Class string
	Err   error
}

func (e *ConstructionError) Error() string {
	msg := e.Err.Error()
	if e.Class != "" {
		msg = fmt.Sprintf("cannot construct %s: %v", e.Class, e.Err)
	}
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s", e.Span, msg)
	}
	return msg
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstruction
}
