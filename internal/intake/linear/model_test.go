package linear

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const testArtifact = `{
  "task": "priority",
  "classes": ["low", "medium", "high"],
  "ngram_min": 1,
  "ngram_max": 2,
  "vocabulary": {
    "password": 0,
    "reset": 1,
    "server": 2,
    "down": 3,
    "server down": 4
  },
  "idf": [1.2, 1.5, 1.1, 1.3, 2.0],
  "coef": [
    [2.0, 1.5, -1.0, -1.5, -2.0],
    [0.2, 0.1, 0.3, 0.1, 0.0],
    [-2.0, -1.5, 1.5, 2.0, 3.0]
  ],
  "intercept": [0.1, 0.3, -0.2]
}`

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadModelValidates(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json at all"},
		{"single class", `{"classes":["only"],"vocabulary":{},"idf":[],"coef":[[]],"intercept":[0]}`},
		{"coef mismatch", `{"classes":["a","b"],"vocabulary":{"x":0},"idf":[1],"coef":[[1]],"intercept":[0,0]}`},
		{"idf mismatch", `{"classes":["a","b"],"vocabulary":{"x":0},"idf":[1,2],"coef":[[1],[1]],"intercept":[0,0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, dir, tt.name+".json", tt.content)
			if _, err := LoadModel(path); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPredictProbaDistribution(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "priority.json", testArtifact)
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	scores, err := model.PredictProba("server down since morning")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}

	var sum float64
	best := scores[0]
	for _, s := range scores {
		if s.Prob < 0 || s.Prob > 1 {
			t.Fatalf("probability out of range: %+v", s)
		}
		sum += s.Prob
		if s.Prob > best.Prob {
			best = s
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}
	if best.Label != "high" {
		t.Fatalf("argmax = %q, want high for outage wording", best.Label)
	}
}

func TestPredictProbaUsesBigrams(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "priority.json", testArtifact)
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// "server down" as a contiguous bigram carries extra weight toward high.
	together, err := model.PredictProba("server down")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	apart, err := model.PredictProba("server still down")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if together[2].Prob <= apart[2].Prob {
		t.Fatalf("bigram did not raise high probability: together=%v apart=%v",
			together[2].Prob, apart[2].Prob)
	}
}

func TestPredictProbaEmptyText(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "priority.json", testArtifact)
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	scores, err := model.PredictProba("")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// No features: scores reduce to a softmax over intercepts.
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	var sum float64
	for _, s := range scores {
		sum += s.Prob
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}
}

func TestLoadDirectoryDegradesGracefully(t *testing.T) {
	models := Load(t.TempDir(), zap.NewNop())

	if models.Category != nil || models.Queue != nil || models.Priority != nil {
		t.Fatal("expected nil predictors for empty models dir")
	}
	if models.Stats == nil {
		t.Fatal("stats map must not be nil")
	}
}

func TestLoadDirectoryPartial(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "priority.json", testArtifact)
	writeArtifact(t, dir, "stats.json", `{"priority_accuracy": 0.91}`)

	models := Load(dir, zap.NewNop())

	if models.Priority == nil {
		t.Fatal("priority model should have loaded")
	}
	if models.Category != nil || models.Queue != nil {
		t.Fatal("missing artifacts must stay nil")
	}
	if models.Stats["priority_accuracy"] != 0.91 {
		t.Fatalf("stats = %v", models.Stats)
	}
}
