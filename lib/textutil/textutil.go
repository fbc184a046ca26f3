package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases the string and removes all whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// ContainsFold reports whether `needle` is a case-insensitive substring of
// `haystack`, ignoring whitespace in both.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(NormalizeName(haystack), NormalizeName(needle))
}

type suggestion struct {
	value string
	score float64
}

// Suggest returns up to `limit` candidates most similar to `target` by
// Jaro-Winkler distance. Candidates scoring below `threshold` are left out.
func Suggest(target string, candidates []string, limit int, threshold float64) []string {
	target = NormalizeName(target)

	var scored []suggestion
	for _, c := range candidates {
		score := matchr.JaroWinkler(target, NormalizeName(c), false)
		if score < threshold {
			continue
		}
		scored = append(scored, suggestion{value: c, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score == scored[j].score {
			return scored[i].value < scored[j].value
		}
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.value
	}
	return out
}
