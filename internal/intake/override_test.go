package intake

import "testing"

func TestApplyOverrideEscalates(t *testing.T) {
	result := Analysis{Priority: "medium"}
	ApplyOverride("The whole system down since 9am", &result)

	if result.Priority != "high" {
		t.Fatalf("priority = %q, want high", result.Priority)
	}
	if !result.RuleOverride {
		t.Fatal("expected rule_override to be set")
	}
	if result.OverrideKeyword != "system down" {
		t.Fatalf("override_keyword = %q, want system down", result.OverrideKeyword)
	}
}

func TestApplyOverrideFirstMatchWins(t *testing.T) {
	// "not working" precedes "urgent" in the phrase list.
	result := Analysis{Priority: "low"}
	ApplyOverride("urgent: printer not working", &result)

	if result.OverrideKeyword != "not working" {
		t.Fatalf("override_keyword = %q, want not working", result.OverrideKeyword)
	}
}

func TestApplyOverrideAlreadyHigh(t *testing.T) {
	result := Analysis{Priority: "high"}
	ApplyOverride("urgent server down", &result)

	if result.Priority != "high" {
		t.Fatalf("priority = %q, want high", result.Priority)
	}
	if result.RuleOverride {
		t.Fatal("rule_override must stay false when priority was already high")
	}
	if result.OverrideKeyword != "" {
		t.Fatalf("override_keyword = %q, want empty", result.OverrideKeyword)
	}
}

func TestApplyOverrideNoMatch(t *testing.T) {
	result := Analysis{Priority: "medium"}
	ApplyOverride("requesting a second monitor for my desk", &result)

	if result.Priority != "medium" || result.RuleOverride || result.OverrideKeyword != "" {
		t.Fatalf("classification changed without a matching phrase: %+v", result)
	}
}

func TestApplyOverrideCaseInsensitive(t *testing.T) {
	result := Analysis{Priority: "low"}
	ApplyOverride("PRODUCTION DOWN, need help", &result)

	if result.Priority != "high" || result.OverrideKeyword != "production down" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
