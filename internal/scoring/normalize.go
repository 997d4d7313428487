package scoring

import "strings"

// Text comparison across all deterministic rules uses the same canonical
// form: trimmed, lower-cased, whitespace-collapsed. No locale handling, no
// stemming.

const tokenPunctuation = `.,!?;:'"`

// Normalize returns the canonical form of a free-text answer for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize splits free text into comparison tokens: runs of whitespace
// delimit tokens, each token is lower-cased and stripped of leading and
// trailing punctuation. Tokens that were punctuation only are dropped.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, tokenPunctuation)
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// WordCount counts whitespace-separated words. Used by the length-banded
// free-text rule, which scores form, not content.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
