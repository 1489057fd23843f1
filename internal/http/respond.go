package http

import (
	"encoding/json"
	"net/http"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type categoryResponse struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type insightResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

type insightsEnvelope struct {
	Insights    []insightResponse `json:"insights"`
	GeneratedAt time.Time         `json:"generated_at"`
	Error       string            `json:"error,omitempty"`
}

type recommendationResponse struct {
	Category          string `json:"category"`
	RecommendedAmount string `json:"recommended_amount"`
	Reason            string `json:"reason"`
	Confidence        string `json:"confidence"`
}

type recommendationsEnvelope struct {
	Recommendations []recommendationResponse `json:"recommendations"`
	GeneratedAt     time.Time                `json:"generated_at"`
	Error           string                   `json:"error,omitempty"`
}

type alertResponse struct {
	BudgetID int64  `json:"budget_id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Spent    string `json:"spent"`
	Limit    string `json:"limit"`
}

type expenseResponse struct {
	ID              int64     `json:"id"`
	Category        string    `json:"category"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Amount          string    `json:"amount"`
	Date            string    `json:"date"`
	AutoCategorized bool      `json:"auto_categorized"`
	CreatedAt       time.Time `json:"created_at"`
}

type budgetResponse struct {
	ID                 int64  `json:"id"`
	Category           string `json:"category"`
	Amount             string `json:"amount"`
	Period             string `json:"period"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	Active             bool   `json:"active"`
	Spent              string `json:"spent"`
	Remaining          string `json:"remaining"`
	ProgressPercentage string `json:"progress_percentage"`
}

type monthTotalResponse struct {
	Month  string `json:"month"`
	Year   int    `json:"year"`
	Amount string `json:"amount"`
}

type breakdownResponse struct {
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
}

type statsResponse struct {
	TotalExpenses     string               `json:"total_expenses"`
	TotalTransactions int                  `json:"total_transactions"`
	AvgTransaction    string               `json:"avg_transaction"`
	TopCategory       string               `json:"top_category"`
	MonthlyTrend      []monthTotalResponse `json:"monthly_trend"`
	CategoryBreakdown []breakdownResponse  `json:"category_breakdown"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg, details string) {
	respondJSON(w, status, errorResponse{Error: msg, Details: details})
}

func toCategoryResponse(c core.Category) categoryResponse {
	meta := c.Meta()
	return categoryResponse{Name: string(c), Icon: meta.Icon, Color: meta.Color}
}

func toInsightResponses(insights []core.Insight) []insightResponse {
	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightResponse{
			Type:    string(in.Kind),
			Title:   in.Title,
			Message: in.Message,
			Value:   in.Value.StringFixed(1),
		})
	}
	return out
}

func toRecommendationResponses(recs []core.BudgetRecommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recommendationResponse{
			Category:          string(rec.Category),
			RecommendedAmount: rec.Amount.StringFixed(2),
			Reason:            rec.Reason,
			Confidence:        string(rec.Confidence),
		})
	}
	return out
}

func toAlertResponses(alerts []core.BudgetAlert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertResponse{
			BudgetID: a.BudgetID,
			Category: string(a.Category),
			Severity: string(a.Severity),
			Message:  a.Message,
			Spent:    a.Spent.StringFixed(2),
			Limit:    a.Limit.StringFixed(2),
		})
	}
	return out
}

func toExpenseResponse(e core.Expense) expenseResponse {
	meta := e.Category.Meta()
	return expenseResponse{
		ID:              e.ID,
		Category:        string(e.Category),
		Icon:            meta.Icon,
		Color:           meta.Color,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          e.Amount.StringFixed(2),
		Date:            e.Date.String(),
		AutoCategorized: e.AutoCategorized,
		CreatedAt:       e.CreatedAt,
	}
}

func toBudgetResponse(s core.BudgetStatus) budgetResponse {
	return budgetResponse{
		ID:                 s.ID,
		Category:           string(s.Category),
		Amount:             s.Amount.StringFixed(2),
		Period:             string(s.Period),
		StartDate:          s.StartDate.String(),
		EndDate:            s.EndDate.String(),
		Active:             s.Active,
		Spent:              s.Spent.StringFixed(2),
		Remaining:          s.Remaining.StringFixed(2),
		ProgressPercentage: s.Progress.StringFixed(1),
	}
}

func toStatsResponse(stats analytics.SpendingStats) statsResponse {
	out := statsResponse{
		TotalExpenses:     stats.Total.StringFixed(2),
		TotalTransactions: stats.Transactions,
		AvgTransaction:    stats.AvgTransaction.StringFixed(2),
		TopCategory:       string(stats.TopCategory),
		MonthlyTrend:      make([]monthTotalResponse, 0, len(stats.MonthlyTrend)),
		CategoryBreakdown: make([]breakdownResponse, 0, len(stats.Breakdown)),
	}
	for _, m := range stats.MonthlyTrend {
		out.MonthlyTrend = append(out.MonthlyTrend, monthTotalResponse{
			Month:  m.Month.String(),
			Year:   m.Year,
			Amount: m.Amount.StringFixed(2),
		})
	}
	for _, b := range stats.Breakdown {
		meta := b.Category.Meta()
		out.CategoryBreakdown = append(out.CategoryBreakdown, breakdownResponse{
			Category: string(b.Category),
			Icon:     meta.Icon,
			Color:    meta.Color,
			Total:    b.Total.StringFixed(2),
			Count:    b.Count,
		})
	}
	return out
}
