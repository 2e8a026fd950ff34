package schema

import (
	"reflect"
	"strings"
	"unicode"
)

// Field tags:
//
//	Name string `savor:"name"`          rename the document key
//	Skip string `savor:"-"`             not a parameter
//	Rest schema.Extra `savor:",extra"`  extras capture
//	Age int `default:"42"`              default value literal
//	ID any `union:"int|string"`         union alternatives
type fieldTag struct {
	Key   string
	Skip  bool
	Extra bool
	Union []string
}

func parseFieldTag(tag reflect.StructTag) fieldTag {
	res := fieldTag{}
	sv, ok := tag.Lookup("savor")
	if ok {
		if sv == "-" {
			res.Skip = true
			return res
		}
		parts := strings.Split(sv, ",")
		res.Key = parts[0]
		for _, flag := range parts[1:] {
			if flag == "extra" {
				res.Extra = true
			}
		}
	}
	if uv, ok := tag.Lookup("union"); ok && uv != "" {
		res.Union = strings.Split(uv, "|")
		for i := range res.Union {
			res.Union[i] = strings.TrimSpace(res.Union[i])
		}
	}
	return res
}

// snakeCase derives the default document key from a Go field name:
// "MaxSize" -> "max_size", "HTTPPort" -> "http_port".
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	n := len(runes)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < n && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeKey folds the dashed spelling of a key onto its declared
// underscore form, so sweetened documents keep binding.
func NormalizeKey(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}
