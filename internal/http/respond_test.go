package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, 201, map[string]string{"status": "created"})

	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "created" {
		t.Errorf("body = %v", body)
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, 400, "invalid expense", "amount must be positive")

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error != "invalid expense" || body.Details != "amount must be positive" {
		t.Errorf("body = %+v", body)
	}
}

func TestToExpenseResponse(t *testing.T) {
	e := core.Expense{
		ID:              5,
		Category:        core.CategoryFoodDining,
		Title:           "Lunch",
		Amount:          decimal.NewFromFloat(250.5),
		Date:            core.NewDate(2024, 3, 15),
		AutoCategorized: true,
	}

	got := toExpenseResponse(e)
	if got.Amount != "250.50" {
		t.Errorf("Amount = %q, want 250.50", got.Amount)
	}
	if got.Date != "2024-03-15" {
		t.Errorf("Date = %q, want 2024-03-15", got.Date)
	}
	if !got.AutoCategorized {
		t.Error("AutoCategorized lost in mapping")
	}
	if got.Icon == "" || got.Color == "" {
		t.Errorf("missing category metadata: %+v", got)
	}
}

func TestToBudgetResponse(t *testing.T) {
	b := core.Budget{
		ID:        2,
		Category:  core.CategoryTravel,
		Amount:    decimal.NewFromInt(1000),
		Period:    core.Monthly,
		StartDate: core.NewDate(2024, 3, 1),
		EndDate:   core.NewDate(2024, 3, 31),
		Active:    true,
	}
	got := toBudgetResponse(b.Status(decimal.NewFromInt(850)))

	if got.Spent != "850.00" || got.Remaining != "150.00" {
		t.Errorf("spent/remaining = %s/%s, want 850.00/150.00", got.Spent, got.Remaining)
	}
	if got.ProgressPercentage != "85.0" {
		t.Errorf("ProgressPercentage = %q, want 85.0", got.ProgressPercentage)
	}
	if got.StartDate != "2024-03-01" || got.EndDate != "2024-03-31" {
		t.Errorf("dates = %s..%s", got.StartDate, got.EndDate)
	}
}

func TestFallbackRecommendations(t *testing.T) {
	recs := fallbackRecommendations()
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Category != core.CategoryFoodDining || recs[1].Category != core.CategoryTransportation {
		t.Errorf("categories = %q, %q", recs[0].Category, recs[1].Category)
	}
	for i, rec := range recs {
		if rec.Confidence != core.ConfidenceLow {
			t.Errorf("recommendation %d confidence = %q, want low", i, rec.Confidence)
		}
	}
}

func TestToInsightResponses(t *testing.T) {
	in := []core.Insight{{
		Kind:    core.InsightWarning,
		Title:   "High Spending Alert",
		Message: "Your spending increased by 25.0% this month",
		Value:   decimal.NewFromInt(25),
	}}

	got := toInsightResponses(in)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Type != "warning" {
		t.Errorf("Type = %q, want warning", got[0].Type)
	}
	if got[0].Value != "25.0" {
		t.Errorf("Value = %q, want 25.0", got[0].Value)
	}
}
