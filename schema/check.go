package schema

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// RunChecks evaluates the class's invariant expressions against the
// bound attributes (document keys to bound values). The first
// failing or non-boolean check is reported.
func (c *Class) RunChecks(env map[string]any) error {
	for _, chk := range c.Checks {
		out, err := expr.Run(chk.Program, env)
		if err != nil {
			return fmt.Errorf("check %q: %w", chk.Source, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return fmt.Errorf("check %q: expected a boolean result, got %T", chk.Source, out)
		}
		if !ok {
			return fmt.Errorf("check %q failed", chk.Source)
		}
	}
	return nil
}
