package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fraudtrack/internal/handler"
	"fraudtrack/internal/metrics"
	"fraudtrack/internal/repository"
	"fraudtrack/internal/service"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

func NewServer(
	svc *service.IngestService,
	repo repository.SessionRepository,
	m *metrics.Metrics,
	exportDir string,
	logger *zap.Logger,
) *Server {
	router := gin.Default()
	router.Use(m.Middleware())

	s := &Server{
		router: router,
		logger: logger,
	}

	s.setupRoutes(svc, repo, exportDir)

	return s
}

func (s *Server) setupRoutes(svc *service.IngestService, repo repository.SessionRepository, exportDir string) {
	sessionHandler := handler.NewSessionHandler(svc, s.logger)
	exportHandler := handler.NewExportHandler(repo, exportDir, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/save", sessionHandler.SaveSession)
		api.POST("/predict", sessionHandler.Predict)
	}

	export := s.router.Group("/export")
	{
		export.GET("/sessions", exportHandler.ExportSessions)
		export.GET("/fields", exportHandler.ExportFields)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
