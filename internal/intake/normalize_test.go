package intake

import (
	"strings"
	"testing"
)

func TestNormalizeDropsStopWordsAndShortTokens(t *testing.T) {
	got := Normalize("The Server is DOWN!!! URGENT issue")

	if got != "server down urgent issue" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only punctuation", "!!! ??? ...", ""},
		{"only stop words", "the and or but", ""},
		{"short tokens dropped", "my pc is ok", ""},
		{"mixed case and digits", "Error 404 on VPN", "error 404 vpn"},
		{"order preserved", "printer broken laptop frozen", "printer broken laptop frozen"},
		{"domain filler removed", "Dear support team, please fix: laptop crashed. Thanks, regards", "fix laptop crashed"},
		{"collapses whitespace", "network   down\t\ttoday", "network down today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Server is DOWN!!! URGENT issue",
		"Dear team, my MacBook won't charge anymore...",
		"error 500 from the SAP gateway",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeNeverEmitsStopWordsOrShortTokens(t *testing.T) {
	got := Normalize("I am at a loss, the big server in our office has had an outage")
	for _, tok := range strings.Fields(got) {
		if len(tok) <= 2 {
			t.Fatalf("token %q too short in %q", tok, got)
		}
		if _, stop := stopWords[tok]; stop {
			t.Fatalf("stop word %q survived in %q", tok, got)
		}
	}
}
