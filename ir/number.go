package ir

import (
	"strconv"
	"strings"
)

// FormatNumber renders a number node the way the emitter would.
// Whole-valued floats keep a trailing ".0" so they read back as
// floats.
func FormatNumber(y *Node) string {
	if y.Int64 != nil {
		return strconv.FormatInt(*y.Int64, 10)
	}
	if y.Float64 != nil {
		v := strconv.FormatFloat(*y.Float64, 'f', -1, 64)
		if !strings.ContainsAny(v, ".eE") {
			v += ".0"
		}
		return v
	}
	return y.Number
}
