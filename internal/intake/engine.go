package intake

import (
	"math"

	"go.uber.org/zap"
)

// Default values used when a classifier is unavailable or fails at call time.
const (
	DefaultCategory           = "Incident"
	DefaultQueue              = "Technical Support"
	DefaultPriority           = "medium"
	DefaultConfidenceCategory = 0.85
	DefaultConfidencePriority = 0.75
)

// LabelScore pairs a predicted label with its probability. Label sets are
// data-dependent (whatever existed in training data), so labels are plain
// strings rather than enumerated types.
type LabelScore struct {
	Label string
	Prob  float64
}

// Predictor is the opaque scored-label capability backing one classification
// task. Implementations must be safe for concurrent use after construction.
type Predictor interface {
	PredictProba(text string) ([]LabelScore, error)
}

// Analysis is the outcome of running one ticket text through the intake
// pipeline. It is immutable once Analyze returns.
type Analysis struct {
	Subject            string              `json:"subject"`
	Category           string              `json:"category"`
	Queue              string              `json:"queue"`
	Priority           string              `json:"priority"`
	ConfidenceCategory float64             `json:"confidence_category"`
	ConfidencePriority float64             `json:"confidence_priority"`
	RuleOverride       bool                `json:"rule_override"`
	OverrideKeyword    string              `json:"override_keyword,omitempty"`
	Entities           map[string][]string `json:"entities"`
}

// Engine bundles the three task predictors behind the analysis pipeline.
// Any predictor may be nil; the engine then keeps the fixed default for
// that field and stays fully functional.
type Engine struct {
	category Predictor
	queue    Predictor
	priority Predictor
	logger   *zap.Logger
}

// EngineDependencies bundles predictors for engine construction.
type EngineDependencies struct {
	Category Predictor
	Queue    Predictor
	Priority Predictor
}

// NewEngine constructs the engine. The predictors are injected rather than
// read from package state so tests can supply fakes and concurrent requests
// share a single read-only capability.
func NewEngine(deps EngineDependencies, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		category: deps.Category,
		queue:    deps.Queue,
		priority: deps.Priority,
		logger:   logger,
	}
}

// Analyze runs the full pipeline: normalization, three classifications,
// entity extraction, then the keyword priority override. It is pure with
// respect to external state and safe to call concurrently.
func (e *Engine) Analyze(subject, body string) Analysis {
	fullText := subject + " " + body
	cleanText := Normalize(fullText)

	result := Analysis{
		Subject:            subject,
		Category:           DefaultCategory,
		Queue:              DefaultQueue,
		Priority:           DefaultPriority,
		ConfidenceCategory: DefaultConfidenceCategory,
		ConfidencePriority: DefaultConfidencePriority,
		Entities:           ExtractEntities(subject, body),
	}

	if label, conf, ok := e.predict(e.category, "category", cleanText); ok {
		result.Category = label
		result.ConfidenceCategory = conf
	}
	if label, _, ok := e.predict(e.queue, "queue", cleanText); ok {
		result.Queue = label
	}
	if label, conf, ok := e.predict(e.priority, "priority", cleanText); ok {
		result.Priority = label
		result.ConfidencePriority = conf
	}

	ApplyOverride(fullText, &result)
	return result
}

// predict picks the argmax label for one task. A nil predictor or a failed
// call leaves the caller's default untouched; failures never abort the
// other tasks.
func (e *Engine) predict(p Predictor, task, text string) (string, float64, bool) {
	if p == nil {
		return "", 0, false
	}
	scores, err := p.PredictProba(text)
	if err != nil {
		e.logger.Warn("prediction failed", zap.String("task", task), zap.Error(err))
		return "", 0, false
	}
	if len(scores) == 0 {
		return "", 0, false
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Prob > best.Prob {
			best = s
		}
	}
	return best.Label, round3(best.Prob), true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
