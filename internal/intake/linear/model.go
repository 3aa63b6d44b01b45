// Package linear loads text classification models exported by the offline
// training pipeline and exposes them as intake.Predictor implementations.
//
// Each artifact is a JSON file describing a tf-idf + linear classifier:
// class labels, word n-gram vocabulary, idf weights, per-class coefficient
// rows and intercepts. Scores are mapped to probabilities with a softmax.
// A loaded Model is read-only and safe for concurrent use.
package linear

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spec-kit/smartdesk/internal/intake"
)

type artifact struct {
	Task       string         `json:"task"`
	Classes    []string       `json:"classes"`
	NgramMin   int            `json:"ngram_min"`
	NgramMax   int            `json:"ngram_max"`
	Vocabulary map[string]int `json:"vocabulary"`
	Idf        []float64      `json:"idf"`
	Coef       [][]float64    `json:"coef"`
	Intercept  []float64      `json:"intercept"`
}

// Model is one trained multi-class text classifier.
type Model struct {
	task     string
	classes  []string
	ngramMin int
	ngramMax int
	vocab    map[string]int
	idf      []float64
	coef     [][]float64
	bias     []float64
}

// LoadModel reads and validates a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}

	if len(art.Classes) < 2 {
		return nil, fmt.Errorf("model %s: need at least 2 classes, got %d", path, len(art.Classes))
	}
	if len(art.Coef) != len(art.Classes) || len(art.Intercept) != len(art.Classes) {
		return nil, fmt.Errorf("model %s: coef/intercept rows do not match class count", path)
	}
	featureCount := len(art.Vocabulary)
	if len(art.Idf) != featureCount {
		return nil, fmt.Errorf("model %s: idf length %d does not match vocabulary size %d", path, len(art.Idf), featureCount)
	}
	for i, row := range art.Coef {
		if len(row) != featureCount {
			return nil, fmt.Errorf("model %s: coef row %d has %d features, want %d", path, i, len(row), featureCount)
		}
	}
	if art.NgramMin <= 0 {
		art.NgramMin = 1
	}
	if art.NgramMax < art.NgramMin {
		art.NgramMax = art.NgramMin
	}

	return &Model{
		task:     art.Task,
		classes:  art.Classes,
		ngramMin: art.NgramMin,
		ngramMax: art.NgramMax,
		vocab:    art.Vocabulary,
		idf:      art.Idf,
		coef:     art.Coef,
		bias:     art.Intercept,
	}, nil
}

// Task returns the task name recorded in the artifact.
func (m *Model) Task() string {
	return m.task
}

// Classes returns the label set in artifact order.
func (m *Model) Classes() []string {
	return append([]string(nil), m.classes...)
}

// PredictProba scores the normalized text and returns a probability for
// every class, in artifact class order.
func (m *Model) PredictProba(text string) ([]intake.LabelScore, error) {
	features := m.vectorize(text)

	scores := make([]float64, len(m.classes))
	for i, row := range m.coef {
		score := m.bias[i]
		for idx, weight := range features {
			score += row[idx] * weight
		}
		scores[i] = score
	}
	probs := softmax(scores)

	result := make([]intake.LabelScore, len(m.classes))
	for i, class := range m.classes {
		result[i] = intake.LabelScore{Label: class, Prob: probs[i]}
	}
	return result, nil
}

// vectorize builds the sparse l2-normalized sublinear tf-idf vector over
// word n-grams of the input.
func (m *Model) vectorize(text string) map[int]float64 {
	tokens := strings.Fields(text)

	counts := make(map[int]int)
	for n := m.ngramMin; n <= m.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := strings.Join(tokens[i:i+n], " ")
			if idx, ok := m.vocab[term]; ok {
				counts[idx]++
			}
		}
	}

	features := make(map[int]float64, len(counts))
	var norm float64
	for idx, count := range counts {
		tf := 1 + math.Log(float64(count))
		weight := tf * m.idf[idx]
		features[idx] = weight
		norm += weight * weight
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}

func softmax(scores []float64) []float64 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
