package intake

import (
	"errors"
	"sync"
	"testing"
)

type stubPredictor struct {
	scores []LabelScore
	err    error
}

func (s *stubPredictor) PredictProba(text string) ([]LabelScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func TestAnalyzeAllPredictorsMissing(t *testing.T) {
	engine := NewEngine(EngineDependencies{}, nil)

	result := engine.Analyze("x", "y")

	if result.Category != DefaultCategory {
		t.Fatalf("category = %q, want %q", result.Category, DefaultCategory)
	}
	if result.Queue != DefaultQueue {
		t.Fatalf("queue = %q, want %q", result.Queue, DefaultQueue)
	}
	if result.Priority != DefaultPriority {
		t.Fatalf("priority = %q, want %q", result.Priority, DefaultPriority)
	}
	if result.ConfidenceCategory != DefaultConfidenceCategory {
		t.Fatalf("confidence_category = %v, want %v", result.ConfidenceCategory, DefaultConfidenceCategory)
	}
	if result.ConfidencePriority != DefaultConfidencePriority {
		t.Fatalf("confidence_priority = %v, want %v", result.ConfidencePriority, DefaultConfidencePriority)
	}
	if result.RuleOverride {
		t.Fatal("rule_override must be false without urgency phrases")
	}
}

func TestAnalyzePicksArgmaxAndRounds(t *testing.T) {
	engine := NewEngine(EngineDependencies{
		Category: &stubPredictor{scores: []LabelScore{
			{Label: "Incident", Prob: 0.31234},
			{Label: "Request", Prob: 0.68766},
		}},
		Queue: &stubPredictor{scores: []LabelScore{
			{Label: "Billing", Prob: 0.9},
			{Label: "Technical Support", Prob: 0.1},
		}},
		Priority: &stubPredictor{scores: []LabelScore{
			{Label: "low", Prob: 0.6219},
			{Label: "medium", Prob: 0.3781},
		}},
	}, nil)

	result := engine.Analyze("monitor flickers", "screen flickers every morning")

	if result.Category != "Request" {
		t.Fatalf("category = %q, want Request", result.Category)
	}
	if result.ConfidenceCategory != 0.688 {
		t.Fatalf("confidence_category = %v, want 0.688", result.ConfidenceCategory)
	}
	if result.Queue != "Billing" {
		t.Fatalf("queue = %q, want Billing", result.Queue)
	}
	if result.Priority != "low" {
		t.Fatalf("priority = %q, want low", result.Priority)
	}
	if result.ConfidencePriority != 0.622 {
		t.Fatalf("confidence_priority = %v, want 0.622", result.ConfidencePriority)
	}
}

func TestAnalyzePredictorFailureDegradesOnlyThatField(t *testing.T) {
	engine := NewEngine(EngineDependencies{
		Category: &stubPredictor{err: errors.New("boom")},
		Queue:    &stubPredictor{scores: []LabelScore{{Label: "IT Operations", Prob: 1}}},
		Priority: &stubPredictor{scores: []LabelScore{{Label: "low", Prob: 0.8}, {Label: "high", Prob: 0.2}}},
	}, nil)

	result := engine.Analyze("printer jam", "paper stuck again")

	if result.Category != DefaultCategory || result.ConfidenceCategory != DefaultConfidenceCategory {
		t.Fatalf("category did not fall back to defaults: %+v", result)
	}
	if result.Queue != "IT Operations" {
		t.Fatalf("queue = %q, want IT Operations", result.Queue)
	}
	if result.Priority != "low" {
		t.Fatalf("priority = %q, want low", result.Priority)
	}
}

func TestAnalyzeOverrideBeatsClassifier(t *testing.T) {
	engine := NewEngine(EngineDependencies{
		Priority: &stubPredictor{scores: []LabelScore{{Label: "medium", Prob: 0.95}, {Label: "high", Prob: 0.05}}},
	}, nil)

	result := engine.Analyze("URGENT", "the production server crashed")

	if result.Priority != "high" {
		t.Fatalf("priority = %q, want high after override", result.Priority)
	}
	if !result.RuleOverride || result.OverrideKeyword != "urgent" {
		t.Fatalf("unexpected override fields: %+v", result)
	}
}

func TestAnalyzeIncludesEntities(t *testing.T) {
	engine := NewEngine(EngineDependencies{}, nil)

	result := engine.Analyze("Laptop issue", "my dell laptop shows a blue screen")

	if !contains(result.Entities["devices"], "laptop") {
		t.Fatalf("devices = %v, want laptop", result.Entities["devices"])
	}
	if !contains(result.Entities["brands"], "dell") {
		t.Fatalf("brands = %v, want dell", result.Entities["brands"])
	}
	if !contains(result.Entities["errors"], "blue screen") {
		t.Fatalf("errors = %v, want blue screen", result.Entities["errors"])
	}
}

func TestAnalyzeConcurrentCallsDoNotInterfere(t *testing.T) {
	engine := NewEngine(EngineDependencies{
		Priority: &stubPredictor{scores: []LabelScore{{Label: "low", Prob: 1}}},
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		urgent := i%2 == 0
		wg.Add(1)
		go func() {
			defer wg.Done()
			if urgent {
				r := engine.Analyze("urgent", "system down right now")
				if r.Priority != "high" || !r.RuleOverride {
					t.Errorf("urgent call got %+v", r)
				}
			} else {
				r := engine.Analyze("question", "where do I find the handbook")
				if r.Priority != "low" || r.RuleOverride {
					t.Errorf("calm call got %+v", r)
				}
			}
		}()
	}
	wg.Wait()
}
