package savor

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// suggestKey proposes the closest declared key for a misspelled one,
// or lists the declared keys when nothing is a plausible typo.
func suggestKey(key string, candidates []string) string {
	dmp := diffmatchpatch.New()
	best := ""
	bestDist := len(key) + 1
	for _, cand := range candidates {
		diffs := dmp.DiffMain(key, cand, false)
		dist := dmp.DiffLevenshtein(diffs)
		if dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	if best == "" || bestDist > (len(key)+2)/3 {
		if len(candidates) == 0 {
			return ""
		}
		return "; expected " + cjoin(candidates)
	}
	return fmt.Sprintf("; did you mean %q?", best)
}

// suggestTypo points at a document key that looks like a misspelling
// of a missing attribute.
func suggestTypo(missing string, docKeys []string) string {
	dmp := diffmatchpatch.New()
	for _, k := range docKeys {
		diffs := dmp.DiffMain(missing, k, false)
		if dmp.DiffLevenshtein(diffs) <= (len(missing)+2)/3 {
			return fmt.Sprintf("; is %q a misspelling of it?", k)
		}
	}
	return ""
}

// cjoin renders a list for prose: "a", "a and b", "a, b and c".
func cjoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
