// Package debug exposes env-var switches for tracing the pipeline:
// SAVOR_DEBUG_RECOGNIZE, SAVOR_DEBUG_BIND and SAVOR_DEBUG_EXTRACT.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Recognize bool
	Bind      bool
	Extract   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Recognize = boolEnv("SAVOR_DEBUG_RECOGNIZE")
	d.Bind = boolEnv("SAVOR_DEBUG_BIND")
	d.Extract = boolEnv("SAVOR_DEBUG_EXTRACT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Recognize() bool {
	return d.Recognize
}
func Bind() bool {
	return d.Bind
}
func Extract() bool {
	return d.Extract
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
