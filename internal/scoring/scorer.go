// Package scoring wraps the external fraud classifier: it assembles the
// named feature map into the fixed-order vector the model expects, invokes
// the model, and derives the binary label from its discrete prediction.
package scoring

import (
	"context"
	"fmt"
	"math"

	"fraudtrack/internal/features"
	"fraudtrack/internal/ml_client"
	"fraudtrack/internal/models"
)

// ExpectedFeatures is the input width of the fraud model.
const ExpectedFeatures = 20

// Classifier is the external model capability: one vector in, one class
// prediction with a positive-class probability out.
type Classifier interface {
	Predict(ctx context.Context, featureVector []float64) (*ml_client.PredictResponse, error)
}

// FeatureShapeError reports a vector that cannot be presented to the model:
// either a named feature is missing or the assembled width is wrong.
type FeatureShapeError struct {
	MissingFeature string
	Expected       int
	Got            int
}

func (e *FeatureShapeError) Error() string {
	if e.MissingFeature != "" {
		return fmt.Sprintf("missing feature: %s", e.MissingFeature)
	}
	return fmt.Sprintf("feature shape mismatch, expected: %d, got: %d", e.Expected, e.Got)
}

// Result is the scorer's verdict on one session.
type Result struct {
	Label string
	Score float64
}

type Scorer struct {
	classifier Classifier
}

func NewScorer(classifier Classifier) *Scorer {
	return &Scorer{classifier: classifier}
}

// Assemble orders the named features into the model-facing vector. Every
// name in features.Order must be present.
func Assemble(featureMap map[string]float64) ([]float64, error) {
	vector := make([]float64, 0, len(features.Order))
	for _, name := range features.Order {
		value, ok := featureMap[name]
		if !ok {
			return nil, &FeatureShapeError{MissingFeature: name}
		}
		vector = append(vector, value)
	}
	if len(vector) != ExpectedFeatures {
		return nil, &FeatureShapeError{Expected: ExpectedFeatures, Got: len(vector)}
	}
	return vector, nil
}

// Score classifies one feature map. The label follows the model's discrete
// prediction; the probability of the suspicious class is reported alongside
// it, rounded to 4 decimals, so callers can apply their own threshold.
func (s *Scorer) Score(ctx context.Context, featureMap map[string]float64) (*Result, error) {
	vector, err := Assemble(featureMap)
	if err != nil {
		return nil, err
	}

	resp, err := s.classifier.Predict(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("classifier invocation failed: %w", err)
	}

	label := models.LabelClean
	if resp.Prediction == 1 {
		label = models.LabelSuspicious
	}

	return &Result{
		Label: label,
		Score: math.Round(resp.Probability*1e4) / 1e4,
	}, nil
}
