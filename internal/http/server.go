package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"spendwise/internal/cache"
	"spendwise/internal/config"
	"spendwise/internal/core"
	"spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/ocr"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

const (
	insightCacheSize        = 1024
	recommendationCacheSize = 1024
	cacheCleanupInterval    = 10 * time.Minute
)

// Server wires the API routes over the expense and analytics services.
// Insight and recommendation responses are memoized per user and
// invalidated on any expense write.
type Server struct {
	httpServer *http.Server

	expenses   *services.ExpenseService
	analytics  *services.AnalyticsService
	storage    *storage.SQLiteRepository
	recognizer ocr.TextRecognizer
	logger     *log.Logger

	insightCache        *cache.LRUCache[insightsEnvelope]
	recommendationCache *cache.LRUCache[recommendationsEnvelope]
	cacheManager        *cache.Manager
	limiter             *ratelimit.Limiter

	maxReceiptBytes int64
	startedAt       time.Time
}

func NewServer(
	cfg *config.Config,
	expenses *services.ExpenseService,
	analytics *services.AnalyticsService,
	repo *storage.SQLiteRepository,
	recognizer ocr.TextRecognizer,
	logger *log.Logger,
) *Server {
	s := &Server{
		expenses:            expenses,
		analytics:           analytics,
		storage:             repo,
		recognizer:          recognizer,
		logger:              logger.WithComponent(log.ComponentHTTP),
		insightCache:        cache.NewLRUCache[insightsEnvelope](insightCacheSize, cfg.InsightCacheTTL),
		recommendationCache: cache.NewLRUCache[recommendationsEnvelope](recommendationCacheSize, cfg.InsightCacheTTL),
		cacheManager:        cache.NewManager(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		maxReceiptBytes: cfg.MaxReceiptBytes,
		startedAt:       time.Now(),
	}

	s.cacheManager.Register(s.insightCache)
	s.cacheManager.Register(s.recommendationCache)
	s.cacheManager.StartCleanup(cacheCleanupInterval)

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestLogger(s.logger))
	r.Use(s.limiter.Middleware(clientIP))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleListCategories)
		r.Post("/categorize", s.handleCategorize)

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/stats", s.handleStats)
			r.Get("/{id}", s.handleGetExpense)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Get("/alerts", s.handleBudgetAlerts)
			r.Get("/{id}", s.handleGetBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", s.handleInsights)
			r.Get("/recommendations", s.handleRecommendations)
		})

		r.Post("/receipts/scan", s.handleReceiptScan)
	})

	return r
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", log.FieldOperation, log.OpStartup, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the background cache and
// limiter goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	err := s.httpServer.Shutdown(ctx)
	s.limiter.Stop()
	s.cacheManager.Stop()
	return err
}

// invalidateUserCaches drops memoized analytics for a user after a write.
func (s *Server) invalidateUserCaches(userID int64) {
	key := cacheKey(userID)
	s.insightCache.Delete(key)
	s.recommendationCache.Delete(key)
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage not ready", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds":       int64(time.Since(s.startedAt).Seconds()),
		"insight_cache":        s.insightCache.Size(),
		"recommendation_cache": s.recommendationCache.Size(),
		"rate_limited_clients": s.limiter.ActiveClients(),
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(core.Categories))
	for _, c := range core.Categories {
		out = append(out, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, map[string][]categoryResponse{"categories": out})
}
