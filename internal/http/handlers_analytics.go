package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/log"
)

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required", "")
		return
	}

	category := analytics.Categorize(req.Title, req.Description)
	respondJSON(w, http.StatusOK, map[string]categoryResponse{
		"category": toCategoryResponse(category),
	})
}

// handleInsights is fail-soft: analytics failures degrade to an empty
// insight list with a note, never a 5xx. The dashboard stays usable even
// when storage is unhappy.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	key := cacheKey(uid)
	if cached, ok := s.insightCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	envelope := insightsEnvelope{
		Insights:    []insightResponse{},
		GeneratedAt: time.Now().UTC(),
	}
	insights, err := s.analytics.Insights(r.Context(), uid, time.Now())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Insight generation failed",
			log.FieldUserID, uid, log.FieldError, err)
		envelope.Error = "Unable to generate insights at this time"
		respondJSON(w, http.StatusOK, envelope)
		return
	}

	envelope.Insights = toInsightResponses(insights)
	s.insightCache.Set(key, envelope)
	respondJSON(w, http.StatusOK, envelope)
}

// fallbackRecommendations is the degraded response when the analytics
// pipeline fails. Conservative starting figures, marked low confidence.
func fallbackRecommendations() []core.BudgetRecommendation {
	return []core.BudgetRecommendation{
		{
			Category:   core.CategoryFoodDining,
			Amount:     decimal.NewFromInt(5000),
			Reason:     "Typical food budget for getting started",
			Confidence: core.ConfidenceLow,
		},
		{
			Category:   core.CategoryTransportation,
			Amount:     decimal.NewFromInt(3000),
			Reason:     "Typical transportation budget for getting started",
			Confidence: core.ConfidenceLow,
		},
	}
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	key := cacheKey(uid)
	if cached, ok := s.recommendationCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	envelope := recommendationsEnvelope{GeneratedAt: time.Now().UTC()}
	recs, err := s.analytics.Recommendations(r.Context(), uid, time.Now())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Recommendation generation failed",
			log.FieldUserID, uid, log.FieldError, err)
		envelope.Recommendations = toRecommendationResponses(fallbackRecommendations())
		envelope.Error = "Showing default recommendations"
		respondJSON(w, http.StatusOK, envelope)
		return
	}

	envelope.Recommendations = toRecommendationResponses(recs)
	s.recommendationCache.Set(key, envelope)
	respondJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	alerts, err := s.analytics.BudgetAlerts(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate budgets", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string][]alertResponse{"alerts": toAlertResponses(alerts)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	stats, err := s.analytics.Stats(r.Context(), uid, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute statistics", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toStatsResponse(stats))
}
