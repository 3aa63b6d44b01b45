package intake

import "strings"

// urgencyPhrases is scanned in order; the first phrase found in the raw text
// wins and the scan stops.
var urgencyPhrases = []string{
	"not working", "cannot access", "system down", "outage", "urgent", "asap",
	"critical", "emergency", "immediately", "broken", "crashed", "failure",
	"security breach", "data loss", "ransomware", "cyberattack", "hack",
	"cannot login", "locked out", "server down", "network down", "production down",
}

// ApplyOverride escalates the predicted priority to "high" when the raw
// ticket text contains an urgency phrase. The override is only reported when
// it actually changed the priority: if the classifier already said "high",
// the match is a no-op and RuleOverride stays false.
func ApplyOverride(rawText string, result *Analysis) {
	lowered := strings.ToLower(rawText)
	for _, phrase := range urgencyPhrases {
		if strings.Contains(lowered, phrase) {
			if result.Priority != "high" {
				result.Priority = "high"
				result.RuleOverride = true
				result.OverrideKeyword = phrase
			}
			break
		}
	}
}
