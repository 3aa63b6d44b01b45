package linear

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spec-kit/smartdesk/internal/intake"
)

// Models holds the per-task predictors plus training metadata. Any predictor
// may be nil when its artifact was missing or malformed; the intake engine
// falls back to fixed defaults for that task.
type Models struct {
	Category intake.Predictor
	Queue    intake.Predictor
	Priority intake.Predictor
	Stats    map[string]any
}

// Load reads the model artifacts from dir. Missing or broken artifacts are
// logged and skipped rather than failing startup: the service must remain
// fully functional on defaults when models are absent.
func Load(dir string, logger *zap.Logger) *Models {
	if logger == nil {
		logger = zap.NewNop()
	}

	models := &Models{Stats: map[string]any{}}
	models.Category = loadOne(dir, "category.json", logger)
	models.Queue = loadOne(dir, "queue.json", logger)
	models.Priority = loadOne(dir, "priority.json", logger)

	statsPath := filepath.Join(dir, "stats.json")
	if data, err := os.ReadFile(statsPath); err == nil {
		if err := json.Unmarshal(data, &models.Stats); err != nil {
			logger.Warn("model stats unreadable", zap.String("path", statsPath), zap.Error(err))
		}
	}

	return models
}

func loadOne(dir, name string, logger *zap.Logger) intake.Predictor {
	path := filepath.Join(dir, name)
	model, err := LoadModel(path)
	if err != nil {
		logger.Warn("model not loaded", zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Info("model loaded",
		zap.String("task", model.Task()),
		zap.Int("classes", len(model.classes)),
		zap.Int("features", len(model.vocab)))
	return model
}
