package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fraudtrack/internal/features"
	"fraudtrack/internal/ml_client"
	"fraudtrack/internal/models"
)

// fakeClassifier returns a canned response or error and records the vector
// it was asked to score.
type fakeClassifier struct {
	resp       *ml_client.PredictResponse
	err        error
	lastVector []float64
	calls      int
}

func (f *fakeClassifier) Predict(ctx context.Context, featureVector []float64) (*ml_client.PredictResponse, error) {
	f.calls++
	f.lastVector = featureVector
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func fullFeatureMap() map[string]float64 {
	featureMap := make(map[string]float64, len(features.Order))
	for i, name := range features.Order {
		featureMap[name] = float64(i)
	}
	return featureMap
}

func TestAssembleOrder(t *testing.T) {
	vector, err := Assemble(fullFeatureMap())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if len(vector) != ExpectedFeatures {
		t.Fatalf("vector length = %d, want %d", len(vector), ExpectedFeatures)
	}
	for i, value := range vector {
		if value != float64(i) {
			t.Errorf("vector[%d] = %f, want %f (order not respected)", i, value, float64(i))
		}
	}
}

func TestAssembleMissingFeature(t *testing.T) {
	featureMap := fullFeatureMap()
	delete(featureMap, "pasteRatio")

	_, err := Assemble(featureMap)
	if err == nil {
		t.Fatal("expected error for missing feature")
	}

	var shapeErr *FeatureShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *FeatureShapeError, got %T", err)
	}
	if shapeErr.MissingFeature != "pasteRatio" {
		t.Errorf("MissingFeature = %q, want %q", shapeErr.MissingFeature, "pasteRatio")
	}
	if !strings.Contains(err.Error(), "pasteRatio") {
		t.Errorf("error message %q does not name the missing feature", err.Error())
	}
}

func TestScoreLabels(t *testing.T) {
	tests := []struct {
		name        string
		prediction  int
		probability float64
		wantLabel   string
		wantScore   float64
	}{
		{"suspicious", 1, 0.87654321, models.LabelSuspicious, 0.8765},
		{"clean", 0, 0.12349999, models.LabelClean, 0.1235},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{
				resp: &ml_client.PredictResponse{
					Prediction:  tt.prediction,
					Probability: tt.probability,
				},
			}
			scorer := NewScorer(classifier)

			result, err := scorer.Score(context.Background(), fullFeatureMap())
			if err != nil {
				t.Fatalf("Score returned error: %v", err)
			}
			if result.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", result.Label, tt.wantLabel)
			}
			if result.Score != tt.wantScore {
				t.Errorf("score = %f, want %f (rounded to 4 decimals)", result.Score, tt.wantScore)
			}
		})
	}
}

func TestScoreClassifierFailureNotRetried(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model service unavailable")}
	scorer := NewScorer(classifier)

	_, err := scorer.Score(context.Background(), fullFeatureMap())
	if err == nil {
		t.Fatal("expected error from failing classifier")
	}
	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want exactly 1 (no retries)", classifier.calls)
	}

	var shapeErr *FeatureShapeError
	if errors.As(err, &shapeErr) {
		t.Error("classifier failure should not surface as a shape error")
	}
}

func TestScoreDoesNotCallClassifierOnBadShape(t *testing.T) {
	classifier := &fakeClassifier{resp: &ml_client.PredictResponse{}}
	scorer := NewScorer(classifier)

	featureMap := fullFeatureMap()
	delete(featureMap, "duration_ms")

	if _, err := scorer.Score(context.Background(), featureMap); err == nil {
		t.Fatal("expected shape error")
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times for a malformed vector, want 0", classifier.calls)
	}
}
