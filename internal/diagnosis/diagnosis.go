// Package diagnosis wires normalization, classification and risk
// calculation into one call.
package diagnosis

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Brownie44l1/caries-risk/internal/imaging"
	"github.com/Brownie44l1/caries-risk/internal/pattern"
	"github.com/Brownie44l1/caries-risk/internal/risk"
	"github.com/google/uuid"
)

type Normalizer interface {
	Normalize(path string) (*imaging.Tensor, error)
}

type Classifier interface {
	Classify(t *imaging.Tensor) (pattern.Probabilities, error)
}

type RiskCalculator interface {
	Compute(probs pattern.Probabilities, gender string) (risk.Assessment, error)
}

// Result is one completed diagnosis.
type Result struct {
	Pattern pattern.Label `json:"pattern"`
	Risk    float64       `json:"risk_percentage"`
}

func (r Result) String() string {
	return fmt.Sprintf("Pattern Type: %s\nCaries Risk: %s%%",
		r.Pattern, strconv.FormatFloat(r.Risk, 'f', -1, 64))
}

type Service struct {
	normalizer Normalizer
	classifier Classifier
	calculator RiskCalculator
	logger     *slog.Logger
}

func NewService(n Normalizer, c Classifier, rc RiskCalculator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		normalizer: n,
		classifier: c,
		calculator: rc,
		logger:     logger,
	}
}

// Diagnose runs normalize, classify and risk calculation on the image at
// path. Any failure is returned as a *DiagnosisError naming the stage.
func (s *Service) Diagnose(path, gender string) (*Result, error) {
	log := s.logger.With("diagnosis_id", uuid.NewString())
	log.Info("diagnosis started", "image", path, "gender", gender)

	tensor, err := s.normalizer.Normalize(path)
	if err != nil {
		return nil, s.fail(log, StageNormalize, err)
	}

	probs, err := s.classifier.Classify(tensor)
	if err != nil {
		return nil, s.fail(log, StageClassify, err)
	}

	assessment, err := s.calculator.Compute(probs, gender)
	if err != nil {
		return nil, s.fail(log, StageRisk, err)
	}

	result := &Result{
		Pattern: assessment.Pattern,
		Risk:    assessment.Risk,
	}
	log.Info("diagnosis complete",
		"pattern", result.Pattern,
		"risk", result.Risk,
		"probabilities", probs)
	return result, nil
}

func (s *Service) fail(log *slog.Logger, stage Stage, err error) error {
	log.Error("diagnosis failed", "stage", stage, "error", err)
	return &DiagnosisError{Stage: stage, Err: err}
}
