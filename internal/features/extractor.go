// Package features turns a raw session payload into the canonical 20-feature
// numeric vector consumed by the fraud classifier.
//
// Extraction is a pure function of its input: no I/O, no hidden state, and
// every per-field aggregate degrades to 0 when the session carries no fields.
package features

import (
	"github.com/montanaflynn/stats"

	"fraudtrack/internal/models"
)

// Order is the fixed, classifier-facing feature order. The scorer assembles
// the model input vector in exactly this sequence.
var Order = []string{
	"duration_ms",
	"mouseClickCount",
	"scrollCount",
	"scrollDensity",
	"viewportChanges",
	"tabCount",
	"enterPressed",
	"deviceType_encoded",
	"fieldCount",
	"totalTimeSpent",
	"avgTimePerField",
	"totalFocusCount",
	"avgChangesPerField",
	"avgPastePerField",
	"avgDeletePerField",
	"fieldOrderDeviation",
	"stdTimePerField",
	"maxPasteCount",
	"pasteRatio",
	"deleteRatio",
}

// deviceCodes is the closed, sorted device vocabulary. Values outside it
// encode as "unknown".
var deviceCodes = map[string]int{
	"desktop": 0,
	"mobile":  1,
	"tablet":  2,
	"unknown": 3,
}

// EncodeDeviceType maps a reported device type to its stable integer code.
func EncodeDeviceType(deviceType string) int {
	if code, ok := deviceCodes[deviceType]; ok {
		return code
	}
	return deviceCodes["unknown"]
}

// FieldOrderDeviation counts positional mismatches between the expected form
// order and the order restricted to fields that were actually focused,
// truncated to the length of the focused list. Fields that were never
// focused do not contribute.
func FieldOrderDeviation(expectedOrder []string, fields map[string]models.FieldPayload) int {
	actualOrder := make([]string, 0, len(expectedOrder))
	for _, name := range expectedOrder {
		if fields[name].FocusCount > 0 {
			actualOrder = append(actualOrder, name)
		}
	}

	deviation := 0
	for i := range actualOrder {
		if expectedOrder[i] != actualOrder[i] {
			deviation++
		}
	}
	return deviation
}

// Extract computes the feature vector for one session payload. All 20 names
// of Order are always present in the result.
func Extract(payload *models.SessionPayload) map[string]float64 {
	fields := payload.Fields
	fieldCount := len(fields)
	durationMs := payload.DurationMs

	var totalTimeSpent, totalFocusCount float64
	timesSpent := make([]float64, 0, fieldCount)
	changes := make([]float64, 0, fieldCount)
	pastes := make([]float64, 0, fieldCount)
	deletes := make([]float64, 0, fieldCount)
	var pastedFields, editedFields int

	for _, field := range fields {
		totalTimeSpent += float64(field.TimeSpentMs)
		totalFocusCount += float64(field.FocusCount)
		timesSpent = append(timesSpent, float64(field.TimeSpentMs))
		changes = append(changes, float64(field.Changes))
		pastes = append(pastes, float64(field.Paste))
		deletes = append(deletes, float64(field.Delete))
		if field.Paste > 0 {
			pastedFields++
		}
		if field.Delete > 0 {
			editedFields++
		}
	}

	var avgTimePerField, avgChangesPerField, avgPastePerField, avgDeletePerField float64
	var stdTimePerField, maxPasteCount, pasteRatio, deleteRatio float64
	if fieldCount > 0 {
		avgTimePerField = totalTimeSpent / float64(fieldCount)
		avgChangesPerField, _ = stats.Mean(changes)
		avgPastePerField, _ = stats.Mean(pastes)
		avgDeletePerField, _ = stats.Mean(deletes)
		stdTimePerField, _ = stats.StandardDeviationPopulation(timesSpent)
		maxPasteCount, _ = stats.Max(pastes)
		pasteRatio = float64(pastedFields) / float64(fieldCount)
		deleteRatio = float64(editedFields) / float64(fieldCount)
	}

	var scrollDensity float64
	if durationMs > 0 {
		scrollDensity = float64(payload.ScrollCount) / (float64(durationMs) / 1000)
	}

	enterPressed := 0.0
	if payload.EnterPressed {
		enterPressed = 1
	}

	return map[string]float64{
		"duration_ms":         float64(durationMs),
		"mouseClickCount":     float64(payload.MouseClickCount),
		"scrollCount":         float64(payload.ScrollCount),
		"scrollDensity":       scrollDensity,
		"viewportChanges":     float64(payload.ViewportChanges),
		"tabCount":            float64(payload.TabKeyCount),
		"enterPressed":        enterPressed,
		"deviceType_encoded":  float64(EncodeDeviceType(payload.DeviceType)),
		"fieldCount":          float64(fieldCount),
		"totalTimeSpent":      totalTimeSpent,
		"avgTimePerField":     avgTimePerField,
		"totalFocusCount":     totalFocusCount,
		"avgChangesPerField":  avgChangesPerField,
		"avgPastePerField":    avgPastePerField,
		"avgDeletePerField":   avgDeletePerField,
		"fieldOrderDeviation": float64(FieldOrderDeviation(payload.FieldOrder, fields)),
		"stdTimePerField":     stdTimePerField,
		"maxPasteCount":       maxPasteCount,
		"pasteRatio":          pasteRatio,
		"deleteRatio":         deleteRatio,
	}
}
