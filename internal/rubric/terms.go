package rubric

import "strings"

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// CountTerm counts case-insensitive occurrences of term in text that are not part of
// a longer word. Terms may contain punctuation, e.g. "c++" or "node.js".
func CountTerm(text, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}
	lower := strings.ToLower(text)

	count := 0
	for offset := 0; offset < len(lower); {
		idx := strings.Index(lower[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(term)
		before := start == 0 || !isWordByte(lower[start-1]) || !isWordByte(term[0])
		after := end == len(lower) || !isWordByte(lower[end]) || !isWordByte(term[len(term)-1])
		if before && after {
			count++
			offset = end
		} else {
			offset = start + 1
		}
	}
	return count
}

// ContainsTerm reports whether term occurs in text as a whole word or phrase.
func ContainsTerm(text, term string) bool {
	return CountTerm(text, term) > 0
}

// ContainsAny returns the first term from terms found in text.
func ContainsAny(text string, terms []string) (string, bool) {
	for _, t := range terms {
		if ContainsTerm(text, t) {
			return t, true
		}
	}
	return "", false
}
