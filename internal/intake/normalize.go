package intake

import "strings"

// stopWords holds common English filler plus support-domain boilerplate
// ("dear", "regards", ...) that carries no signal for classification.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
		"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do",
		"does", "did", "will", "would", "could", "should", "may", "might", "shall",
		"this", "that", "these", "those", "i", "we", "you", "he", "she", "they", "it",
		"my", "our", "your", "his", "her", "their", "its", "me", "us", "him",
		"dear", "customer", "support", "team", "hello", "hi", "hope", "message",
		"reaching", "out", "please", "thank", "thanks", "regards", "sincerely",
	} {
		stopWords[w] = struct{}{}
	}
}

// Normalize produces the canonical token string fed to the classifiers:
// lower-cased, punctuation stripped, stop-words and tokens of length <= 2
// removed, surviving tokens joined by single spaces in original order.
// Empty or all-noise input yields the empty string; Normalize never fails.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	kept := make([]string, 0, 16)
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
