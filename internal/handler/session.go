package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fraudtrack/internal/models"
	"fraudtrack/internal/scoring"
	"fraudtrack/internal/service"
)

type SessionHandler interface {
	SaveSession(c *gin.Context)
	Predict(c *gin.Context)
}

type sessionHandler struct {
	service *service.IngestService
	logger  *zap.Logger
}

func NewSessionHandler(svc *service.IngestService, logger *zap.Logger) SessionHandler {
	return &sessionHandler{
		service: svc,
		logger:  logger,
	}
}

// SaveSession handles POST /api/save
func (h *sessionHandler) SaveSession(c *gin.Context) {
	var req service.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for session save", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session payload"})
		return
	}

	if err := h.service.SaveSession(&req); err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Warn("Rejected session payload", zap.Strings("missing", validationErr.Missing))
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		h.logger.Error("Failed to persist session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Predict handles POST /api/predict
func (h *sessionHandler) Predict(c *gin.Context) {
	var payload models.SessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Error("Failed to bind JSON for prediction", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or malformed session data"})
		return
	}

	result, err := h.service.Predict(c.Request.Context(), &payload, c.ClientIP())
	if err != nil {
		var shapeErr *scoring.FeatureShapeError
		if errors.As(err, &shapeErr) {
			h.logger.Warn("Feature vector rejected", zap.String("session_id", payload.SessionID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": shapeErr.Error()})
			return
		}
		h.logger.Error("Prediction failed", zap.String("session_id", payload.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Votre session a été transmise pour vérification.",
		"score":   result.Score,
		"label":   result.Label,
	})
}
