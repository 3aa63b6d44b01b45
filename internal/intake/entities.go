package intake

import (
	"regexp"
	"sort"
	"strings"
)

// entityVocabularies are the fixed vocabularies for rule-based entity
// extraction. Multi-word terms match as contiguous phrases.
var entityVocabularies = []struct {
	category string
	terms    []string
}{
	{"devices", []string{
		"laptop", "desktop", "printer", "router", "switch", "server", "monitor", "keyboard",
		"mouse", "projector", "tablet", "phone", "iphone", "android", "macbook", "workstation",
		"scanner", "firewall", "access point", "wifi", "vlan", "nas", "storage",
	}},
	{"software", []string{
		"windows", "linux", "macos", "ubuntu", "outlook", "excel", "word", "office",
		"teams", "slack", "zoom", "vpn", "chrome", "firefox", "edge", "sap", "salesforce",
		"servicenow", "jira", "github", "docker", "kubernetes", "active directory", "ad",
	}},
	{"errors", []string{
		"error", "crash", "freeze", "hang", "timeout", "not responding", "blue screen",
		"bsod", "kernel panic", "failed", "corrupt", "malware", "virus", "not charging",
		"connection refused", "access denied", "permission denied", "404", "500",
	}},
	{"brands", []string{
		"dell", "hp", "lenovo", "cisco", "apple", "microsoft", "google", "samsung", "sony",
		"logitech", "intel", "amd", "nvidia", "aws", "azure", "gcp",
	}},
}

type entityMatcher struct {
	category string
	pattern  *regexp.Regexp
}

var entityMatchers = buildEntityMatchers()

func buildEntityMatchers() []entityMatcher {
	matchers := make([]entityMatcher, 0, len(entityVocabularies))
	for _, vocab := range entityVocabularies {
		quoted := make([]string, 0, len(vocab.terms))
		for _, term := range vocab.terms {
			quoted = append(quoted, regexp.QuoteMeta(term))
		}
		// \b on both sides keeps "vpn" from matching inside "vpnclient".
		expr := `\b(` + strings.Join(quoted, "|") + `)\b`
		matchers = append(matchers, entityMatcher{
			category: vocab.category,
			pattern:  regexp.MustCompile(expr),
		})
	}
	return matchers
}

// ExtractEntities scans subject and body for known IT entities and returns
// the deduplicated matches grouped by category. Categories without matches
// are omitted from the result. The scan runs on the raw lower-cased text,
// not the normalized token string, so stop-word handling never hides terms.
func ExtractEntities(subject, body string) map[string][]string {
	text := strings.ToLower(subject + " " + body)

	entities := make(map[string][]string)
	for _, m := range entityMatchers {
		found := m.pattern.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(found))
		unique := make([]string, 0, len(found))
		for _, term := range found {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			unique = append(unique, term)
		}
		sort.Strings(unique)
		entities[m.category] = unique
	}
	return entities
}
