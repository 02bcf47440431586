// Package service orchestrates the ingestion and decision pipeline: it
// validates incoming payloads, persists them, runs feature extraction and
// scoring, records the outcome, and fans out alerts for suspicious sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fraudtrack/internal/alert"
	"fraudtrack/internal/audit"
	"fraudtrack/internal/features"
	"fraudtrack/internal/metrics"
	"fraudtrack/internal/models"
	"fraudtrack/internal/repository"
	"fraudtrack/internal/scoring"
)

const timestampLayout = "2006-01-02 15:04:05"

// ValidationError reports malformed client input, naming every missing
// field.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// SaveRequest is the typed shape of a /api/save body. Required attributes
// are pointers so that absent keys can be told apart from zero values.
type SaveRequest struct {
	SessionID       *string                        `json:"session_id"`
	StartTime       *int64                         `json:"start_time"`
	EndTime         *int64                         `json:"end_time"`
	SubmitDelayMs   *int64                         `json:"submit_delay_ms"`
	FieldOrder      []string                       `json:"field_order"`
	Fields          map[string]models.FieldPayload `json:"fields"`
	FastFill        bool                           `json:"fast_fill"`
	MouseMoved      bool                           `json:"mouseMoved"`
	MouseClickCount int                            `json:"mouseClickCount"`
	ScrollCount     int                            `json:"scrollCount"`
	ViewportChanges int                            `json:"viewportChanges"`
	TabKeyCount     int                            `json:"tabKeyCount"`
	EnterPressed    bool                           `json:"enterPressed"`
	DeviceType      string                         `json:"deviceType"`
}

// IngestService drives one request through the pipeline states:
// validate → persist (save) or extract → score → log → alert (predict).
type IngestService struct {
	repo            repository.SessionRepository
	scorer          *scoring.Scorer
	auditLog        *audit.Log
	dispatchers     []alert.Dispatcher
	metrics         *metrics.Metrics
	logger          *zap.Logger
	caseFileBaseURL string
	alertTimeout    time.Duration

	now func() time.Time
}

func NewIngestService(
	repo repository.SessionRepository,
	scorer *scoring.Scorer,
	auditLog *audit.Log,
	dispatchers []alert.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
	caseFileBaseURL string,
	alertTimeout time.Duration,
) *IngestService {
	return &IngestService{
		repo:            repo,
		scorer:          scorer,
		auditLog:        auditLog,
		dispatchers:     dispatchers,
		metrics:         m,
		logger:          logger,
		caseFileBaseURL: caseFileBaseURL,
		alertTimeout:    alertTimeout,
		now:             time.Now,
	}
}

// validateSave collects every missing required attribute into a single
// ValidationError so the client learns about all of them at once.
func validateSave(req *SaveRequest) error {
	var missing []string
	if req.SessionID == nil {
		missing = append(missing, "session_id")
	}
	if req.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if req.EndTime == nil {
		missing = append(missing, "end_time")
	}
	if req.SubmitDelayMs == nil {
		missing = append(missing, "submit_delay_ms")
	}
	if req.FieldOrder == nil {
		missing = append(missing, "field_order")
	}
	if req.Fields == nil {
		missing = append(missing, "fields")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// SaveSession validates and persists one ingested session and its field
// interactions. duration_ms is derived here, not trusted from the client.
func (s *IngestService) SaveSession(req *SaveRequest) error {
	if err := validateSave(req); err != nil {
		s.metrics.SessionsSaved.WithLabelValues("rejected").Inc()
		return err
	}

	session := &models.Session{
		SessionID:       *req.SessionID,
		StartTime:       *req.StartTime,
		EndTime:         *req.EndTime,
		DurationMs:      *req.EndTime - *req.StartTime,
		SubmitDelayMs:   *req.SubmitDelayMs,
		FastFill:        req.FastFill,
		MouseMoved:      req.MouseMoved,
		MouseClickCount: req.MouseClickCount,
		ScrollCount:     req.ScrollCount,
		ViewportChanges: req.ViewportChanges,
		TabKeyCount:     req.TabKeyCount,
		EnterPressed:    req.EnterPressed,
		DeviceType:      req.DeviceType,
		FieldFocusOrder: strings.Join(req.FieldOrder, ","),
	}
	if session.DeviceType == "" {
		session.DeviceType = "unknown"
	}

	fields := make([]*models.FieldInteraction, 0, len(req.Fields))
	for name, infos := range req.Fields {
		fields = append(fields, &models.FieldInteraction{
			SessionID:       session.SessionID,
			FieldName:       name,
			Value:           infos.Value,
			TimeSpentMs:     infos.TimeSpentMs,
			HoverDurationMs: infos.HoverDurationMs,
			CopyCount:       infos.Copy,
			PasteCount:      infos.Paste,
			DeleteCount:     infos.Delete,
			ChangesCount:    infos.Changes,
			FocusCount:      infos.FocusCount,
		})
	}

	if err := s.repo.SaveSession(session, fields); err != nil {
		s.metrics.SessionsSaved.WithLabelValues("error").Inc()
		return err
	}

	s.metrics.SessionsSaved.WithLabelValues("success").Inc()
	s.logger.Info("Session ingested",
		zap.String("session_id", session.SessionID),
		zap.Int("field_count", len(fields)))
	return nil
}

// Predict extracts the feature vector from the payload, scores it, appends
// one audit record, and dispatches alerts when the session is suspicious.
// Audit and alert failures are best-effort and never change the result.
func (s *IngestService) Predict(ctx context.Context, payload *models.SessionPayload, clientIP string) (*scoring.Result, error) {
	if payload.SessionID == "" {
		payload.SessionID = "unknown"
	}

	featureMap := features.Extract(payload)

	result, err := s.scorer.Score(ctx, featureMap)
	if err != nil {
		return nil, err
	}

	timestamp := s.now()
	s.logger.Info("Session scored",
		zap.String("session_id", payload.SessionID),
		zap.String("label", result.Label),
		zap.Float64("score", result.Score))
	s.metrics.Predictions.WithLabelValues(result.Label).Inc()

	if err := s.auditLog.Append(&models.PredictionRecord{
		Timestamp: timestamp,
		SessionID: payload.SessionID,
		Label:     result.Label,
		Score:     result.Score,
	}); err != nil {
		s.logger.Error("Failed to append prediction record", zap.Error(err))
	}

	if result.Label == models.LabelSuspicious {
		s.dispatchAlerts(payload, clientIP, result, timestamp)
	}

	return result, nil
}

// dispatchAlerts sends the alert to every configured channel with a bounded
// wait. Failures are logged and swallowed.
func (s *IngestService) dispatchAlerts(payload *models.SessionPayload, clientIP string, result *scoring.Result, timestamp time.Time) {
	alertPayload := alert.BuildPayload(
		payload, clientIP, result.Score, result.Label,
		timestamp.Format(timestampLayout), s.caseFileBaseURL,
	)

	for _, dispatcher := range s.dispatchers {
		dispatchCtx, cancel := context.WithTimeout(context.Background(), s.alertTimeout)
		if err := dispatcher.Dispatch(dispatchCtx, alertPayload); err != nil {
			channel := "webhook"
			var dispatchErr *alert.DispatchError
			if errors.As(err, &dispatchErr) {
				channel = dispatchErr.Channel
			}
			s.metrics.AlertFailures.WithLabelValues(channel).Inc()
			s.logger.Warn("Alert dispatch failed",
				zap.String("session_id", payload.SessionID),
				zap.String("channel", channel),
				zap.Error(err))
		} else {
			s.logger.Info("Alert dispatched",
				zap.String("session_id", payload.SessionID),
				zap.Float64("score", result.Score))
		}
		cancel()
	}
}
