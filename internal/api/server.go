package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/internal/intake"
	"github.com/prostho-cdss-server/internal/middleware"
	"github.com/prostho-cdss-server/internal/ontology"
	"github.com/prostho-cdss-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	config    *domain.Config
	logger    *logrus.Logger
	engine    *service.Engine
	spanCache *lru.Cache[string, spansResponse]
	router    *gin.Engine
	server    *http.Server
}

// spansRequest is the body of POST /api/spans.
type spansRequest struct {
	Missing []string `json:"missing"`
}

// spansResponse pairs the detected spans with the abutment teeth a case form
// must collect health records for.
type spansResponse struct {
	Spans     domain.SpanSet `json:"spans"`
	Abutments []string       `json:"abutments"`
}

// planRequest is the body of POST /api/plan. Spans are always re-derived from
// the missing list server-side.
type planRequest struct {
	Missing        []string                `json:"missing"`
	AbutmentHealth []domain.AbutmentHealth `json:"abutment_health"`
	PatientRisk    domain.PatientRisk      `json:"patient_risk"`
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, logger *logrus.Logger, engine *service.Engine) (*Server, error) {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Span detection is a pure function of the missing list, so responses
	// can be memoized.
	spanCache, err := lru.New[string, spansResponse](cfg.Engine.SpanCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create span cache: %w", err)
	}

	router := gin.New()
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	server := &Server{
		config:    cfg,
		logger:    logger,
		engine:    engine,
		spanCache: spanCache,
		router:    router,
	}

	server.setupRoutes()

	return server, nil
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/enums", s.handleEnums)

	api := s.router.Group("/api")
	{
		api.GET("/ontology", s.handleOntology)
		api.POST("/spans", s.handleSpans)
		api.POST("/plan", s.handlePlan)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"timestamp":       time.Now(),
		"engine_version":  service.EngineVersion,
		"ruleset_version": service.RulesetVersion,
	})
}

// handleEnums returns the selectable option lists for case intake forms.
func (s *Server) handleEnums(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status_options":       intake.StatusOptions,
		"mobility_options":     intake.MobilityOptions,
		"crr_options":          intake.CrownRootRatioOptions,
		"caries_options":       intake.CariesOptions,
		"occlusion_options":    intake.OcclusionOptions,
		"parafunction_options": intake.ParafunctionOptions,
		"opposing_options":     intake.OpposingOptions,
		"systemic_options":     intake.SystemicOptions,
	})
}

// handleOntology returns the static label/tooltip vocabulary.
func (s *Server) handleOntology(c *gin.Context) {
	c.JSON(http.StatusOK, ontology.Get())
}

// handleSpans runs span detection on a missing-tooth list and reports the
// abutment teeth that need health records.
func (s *Server) handleSpans(c *gin.Context) {
	var req spansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewInputError("invalid request body: %v", err))
		return
	}

	key := spanCacheKey(req.Missing)
	if cached, ok := s.spanCache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	spans, err := s.engine.AnalyzeSpans(req.Missing)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := spansResponse{
		Spans:     spans,
		Abutments: intake.GatherAbutmentTeeth(spans),
	}
	s.spanCache.Add(key, resp)
	c.JSON(http.StatusOK, resp)
}

// handlePlan runs the full planning pipeline for a submitted case.
func (s *Server) handlePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewInputError("invalid request body: %v", err))
		return
	}

	spans, err := s.engine.AnalyzeSpans(req.Missing)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.engine.Run(domain.CasePayload{
		Missing:        req.Missing,
		Spans:          spans,
		PatientRisk:    req.PatientRisk,
		AbutmentHealth: req.AbutmentHealth,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError maps pipeline errors onto HTTP statuses: input faults are the
// caller's (400), invariant violations are ours (500).
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := domain.ErrCodeInternalServer

	switch {
	case domain.IsInputError(err):
		status = http.StatusBadRequest
		code = domain.ErrCodeInvalidInput
	case domain.IsInvariantError(err):
		code = domain.ErrCodeInvariant
		s.logger.WithFields(logrus.Fields{
			"correlation_id": c.GetString("correlation_id"),
			"path":           c.FullPath(),
		}).WithError(err).Error("Pipeline invariant violated")
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
		"correlation_id": c.GetString("correlation_id"),
	})
}

// spanCacheKey builds the memoization key for a missing-tooth list. Trimming
// mirrors the detector's own normalization; order is preserved so the key is
// cheap and deterministic.
func spanCacheKey(missing []string) string {
	trimmed := make([]string, 0, len(missing))
	for _, t := range missing {
		if tt := strings.TrimSpace(t); tt != "" {
			trimmed = append(trimmed, tt)
		}
	}
	return strings.Join(trimmed, ",")
}
