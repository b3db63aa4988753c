package audio

import (
	"regexp"
	"strings"
)

var punctRe = regexp.MustCompile(`[^\w\s]`)

// FillerSet builds the lowercase whole-token lookup.
func FillerSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// CountFillers lowercases, strips punctuation and counts tokens that exactly
// match the filler set. Tokenization happens on whitespace first, so
// multi-word fillers like "you know" never match; known limitation carried
// from the trained vocabulary.
func CountFillers(text string, fillers map[string]struct{}) int {
	clean := punctRe.ReplaceAllString(strings.ToLower(text), "")
	n := 0
	for _, w := range strings.Fields(clean) {
		if _, ok := fillers[w]; ok {
			n++
		}
	}
	return n
}
