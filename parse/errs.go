package parse

import (
	"errors"
	"fmt"

	"github.com/savorlabs/savor/ir"
)

var (
	ErrParse    = errors.New("parse error")
	ErrMultiDoc = fmt.Errorf("%w: multi-document input", ErrParse)
)

type Error struct {
	Filename string
	Pos      ir.Pos
	Message  string
	Err      error
}

func (e *Error) Error() string {
	where := ""
	if e.Filename != "" {
		where = e.Filename + ": "
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s%s: %s", where, e.Pos, e.Message)
	}
	return where + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
