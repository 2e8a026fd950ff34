package schema

import (
	"errors"
	"fmt"
)

var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports an invalid or incomplete registry. It
// is raised while building a registry or a loader/dumper, before any
// document is processed.
type ConfigurationError struct {
	Class   string
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	at := ""
	switch {
	case e.Class != "" && e.Field != "":
		at = fmt.Sprintf(" for %s.%s", e.Class, e.Field)
	case e.Class != "":
		at = fmt.Sprintf(" for %s", e.Class)
	}
	return fmt.Sprintf("configuration error%s: %s", at, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConfiguration
}

func confErrf(class, field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Class:   class,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
