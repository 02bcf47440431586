package features

import (
	"math"
	"testing"

	"fraudtrack/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtractEmptySession(t *testing.T) {
	payload := &models.SessionPayload{
		SessionID: "empty",
		Fields:    map[string]models.FieldPayload{},
	}

	featureMap := Extract(payload)

	zeroed := []string{
		"avgTimePerField", "avgChangesPerField", "avgPastePerField",
		"avgDeletePerField", "stdTimePerField", "maxPasteCount",
		"pasteRatio", "deleteRatio", "fieldOrderDeviation",
	}
	for _, name := range zeroed {
		if featureMap[name] != 0 {
			t.Errorf("%s = %f, want 0 for a session without fields", name, featureMap[name])
		}
	}
}

func TestExtractAlwaysProducesFullVector(t *testing.T) {
	featureMap := Extract(&models.SessionPayload{})

	if len(featureMap) != len(Order) {
		t.Fatalf("feature map has %d entries, want %d", len(featureMap), len(Order))
	}
	for _, name := range Order {
		if _, ok := featureMap[name]; !ok {
			t.Errorf("feature %q missing from extracted map", name)
		}
	}
}

func TestScrollDensity(t *testing.T) {
	tests := []struct {
		name        string
		durationMs  int64
		scrollCount int
		want        float64
	}{
		{"normal", 10000, 25, 2.5},
		{"zero duration", 0, 40, 0},
		{"negative duration", -500, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &models.SessionPayload{
				DurationMs:  tt.durationMs,
				ScrollCount: tt.scrollCount,
			}
			got := Extract(payload)["scrollDensity"]
			if !almostEqual(got, tt.want) {
				t.Errorf("scrollDensity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestFieldOrderDeviation(t *testing.T) {
	order := []string{"nom", "prenom", "cin", "adresse"}

	t.Run("in-order fill has no deviation", func(t *testing.T) {
		fields := map[string]models.FieldPayload{
			"nom":     {FocusCount: 1},
			"prenom":  {FocusCount: 1},
			"cin":     {FocusCount: 1},
			"adresse": {FocusCount: 1},
		}
		if got := FieldOrderDeviation(order, fields); got != 0 {
			t.Errorf("deviation = %d, want 0", got)
		}
	})

	t.Run("unfocused fields are ignored", func(t *testing.T) {
		// Skipping prenom and adresse entirely should not count as deviation
		// on its own, but the remaining focused fields now sit at earlier
		// positions than expected.
		fields := map[string]models.FieldPayload{
			"nom": {FocusCount: 2},
			"cin": {FocusCount: 1},
		}
		// actual = [nom, cin]; expected prefix = [nom, prenom] -> one mismatch
		if got := FieldOrderDeviation(order, fields); got != 1 {
			t.Errorf("deviation = %d, want 1", got)
		}
	})

	t.Run("deviation independent of never-focused fields", func(t *testing.T) {
		focusedOnly := map[string]models.FieldPayload{
			"nom":    {FocusCount: 1},
			"prenom": {FocusCount: 1},
		}
		withUnfocused := map[string]models.FieldPayload{
			"nom":     {FocusCount: 1},
			"prenom":  {FocusCount: 1},
			"cin":     {FocusCount: 0},
			"adresse": {FocusCount: 0},
		}
		if FieldOrderDeviation(order, focusedOnly) != FieldOrderDeviation(order, withUnfocused) {
			t.Error("adding never-focused fields changed the deviation")
		}
	})
}

func TestExtractPasteHeavyField(t *testing.T) {
	payload := &models.SessionPayload{
		SessionID:  "s1",
		FieldOrder: []string{"cin"},
		Fields: map[string]models.FieldPayload{
			"cin": {
				TimeSpentMs: 1000,
				Paste:       8,
				Delete:      0,
				Changes:     1,
				FocusCount:  1,
			},
		},
	}

	featureMap := Extract(payload)

	if got := featureMap["fieldCount"]; got != 1 {
		t.Errorf("fieldCount = %f, want 1", got)
	}
	if got := featureMap["maxPasteCount"]; got != 8 {
		t.Errorf("maxPasteCount = %f, want 8", got)
	}
	if got := featureMap["pasteRatio"]; got != 1.0 {
		t.Errorf("pasteRatio = %f, want 1.0", got)
	}
	if got := featureMap["deleteRatio"]; got != 0.0 {
		t.Errorf("deleteRatio = %f, want 0.0", got)
	}
	// A single field has no spread.
	if got := featureMap["stdTimePerField"]; got != 0 {
		t.Errorf("stdTimePerField = %f, want 0", got)
	}
}

func TestExtractAggregates(t *testing.T) {
	payload := &models.SessionPayload{
		DurationMs: 20000,
		FieldOrder: []string{"a", "b"},
		Fields: map[string]models.FieldPayload{
			"a": {TimeSpentMs: 1000, Changes: 2, Paste: 1, Delete: 3, FocusCount: 1},
			"b": {TimeSpentMs: 3000, Changes: 4, Paste: 0, Delete: 0, FocusCount: 2},
		},
	}

	featureMap := Extract(payload)

	if got := featureMap["totalTimeSpent"]; got != 4000 {
		t.Errorf("totalTimeSpent = %f, want 4000", got)
	}
	if got := featureMap["avgTimePerField"]; got != 2000 {
		t.Errorf("avgTimePerField = %f, want 2000", got)
	}
	if got := featureMap["totalFocusCount"]; got != 3 {
		t.Errorf("totalFocusCount = %f, want 3", got)
	}
	if got := featureMap["avgChangesPerField"]; got != 3 {
		t.Errorf("avgChangesPerField = %f, want 3", got)
	}
	if got := featureMap["pasteRatio"]; !almostEqual(got, 0.5) {
		t.Errorf("pasteRatio = %f, want 0.5", got)
	}
	if got := featureMap["deleteRatio"]; !almostEqual(got, 0.5) {
		t.Errorf("deleteRatio = %f, want 0.5", got)
	}
	// Population stddev of {1000, 3000} is 1000.
	if got := featureMap["stdTimePerField"]; !almostEqual(got, 1000) {
		t.Errorf("stdTimePerField = %f, want 1000", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	payload := &models.SessionPayload{
		SessionID:       "repeat",
		DurationMs:      12345,
		ScrollCount:     7,
		MouseClickCount: 3,
		DeviceType:      "mobile",
		FieldOrder:      []string{"nom", "cin"},
		Fields: map[string]models.FieldPayload{
			"nom": {TimeSpentMs: 800, FocusCount: 1},
			"cin": {TimeSpentMs: 1500, Paste: 2, FocusCount: 1},
		},
	}

	first := Extract(payload)
	second := Extract(payload)

	for _, name := range Order {
		if first[name] != second[name] {
			t.Errorf("%s differs between runs: %v vs %v", name, first[name], second[name])
		}
	}
}

func TestEncodeDeviceType(t *testing.T) {
	tests := []struct {
		deviceType string
		want       int
	}{
		{"desktop", 0},
		{"mobile", 1},
		{"tablet", 2},
		{"unknown", 3},
		{"unknown-device", 3},
		{"", 3},
	}

	for _, tt := range tests {
		if got := EncodeDeviceType(tt.deviceType); got != tt.want {
			t.Errorf("EncodeDeviceType(%q) = %d, want %d", tt.deviceType, got, tt.want)
		}
	}
}
