package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

func TestRecommend_EmptyHistory(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	recs := Recommend(nil, now, now)
	if len(recs) != 1 {
		t.Fatalf("Recommend(empty) returned %d recommendations, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Category != "Getting Started" {
		t.Errorf("Category = %q, want %q", rec.Category, "Getting Started")
	}
	if !rec.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Amount = %s, want 5000", rec.Amount)
	}
	if rec.Confidence != core.ConfidenceLow {
		t.Errorf("Confidence = %q, want %q", rec.Confidence, core.ConfidenceLow)
	}
}

func TestRecommend_MonthlyAverageWithBuffer(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -60) // two active months

	d := core.NewDate(2024, 2, 1)
	expenses := make([]core.Expense, 0, 6)
	for i := 0; i < 6; i++ {
		expenses = append(expenses, expense(core.CategoryFoodDining, 600, d))
	}

	recs := Recommend(expenses, joined, now)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	rec := recs[0]

	// 3600 over 2 months = 1800/month, plus the 10% buffer.
	if rec.Amount.StringFixed(2) != "1980.00" {
		t.Errorf("Amount = %s, want 1980.00", rec.Amount.StringFixed(2))
	}
	if rec.Confidence != core.ConfidenceHigh {
		t.Errorf("Confidence = %q, want high for more than five transactions", rec.Confidence)
	}
	wantReason := "Based on your average monthly spending of ₹1800.00"
	if rec.Reason != wantReason {
		t.Errorf("Reason = %q, want %q", rec.Reason, wantReason)
	}
}

func TestRecommend_FewTransactionsAreMediumConfidence(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	d := core.NewDate(2024, 2, 20)

	recs := Recommend([]core.Expense{
		expense(core.CategoryFitness, 1500, d),
	}, now.AddDate(0, 0, -10), now)

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Confidence != core.ConfidenceMedium {
		t.Errorf("Confidence = %q, want %q", recs[0].Confidence, core.ConfidenceMedium)
	}
}

func TestRecommend_TopFiveByTotalSpend(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	d := core.NewDate(2024, 2, 15)

	categories := []core.Category{
		core.CategoryFoodDining,
		core.CategoryTransportation,
		core.CategoryShopping,
		core.CategoryEntertainment,
		core.CategoryHealthcare,
		core.CategoryUtilities,
		core.CategoryEducation,
	}
	expenses := make([]core.Expense, 0, len(categories))
	for i, cat := range categories {
		expenses = append(expenses, expense(cat, float64(100*(i+1)), d))
	}

	recs := Recommend(expenses, now.AddDate(0, 0, -30), now)
	if len(recs) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(recs))
	}
	// Education spent the most (700), then Utilities (600) and so on.
	want := []core.Category{
		core.CategoryEducation,
		core.CategoryUtilities,
		core.CategoryHealthcare,
		core.CategoryEntertainment,
		core.CategoryShopping,
	}
	for i, cat := range want {
		if recs[i].Category != cat {
			t.Errorf("recommendation %d = %q, want %q", i, recs[i].Category, cat)
		}
	}
}

func TestActiveMonths(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		joinedAt time.Time
		want     string
	}{
		{name: "joined today floors to one month", joinedAt: now, want: "1"},
		{name: "joined ten days ago floors to one month", joinedAt: now.AddDate(0, 0, -10), want: "1"},
		{name: "joined ninety days ago", joinedAt: now.AddDate(0, 0, -90), want: "3"},
		{name: "zoned join time measures the same instant", joinedAt: now.AddDate(0, 0, -90).In(time.FixedZone("IST", 5*3600+1800)), want: "3"},
		{name: "future join date clamps instead of going negative", joinedAt: now.AddDate(0, 0, 5), want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := activeMonths(tt.joinedAt, now)
			if got.String() != tt.want {
				t.Errorf("activeMonths() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAlerts(t *testing.T) {
	makeStatus := func(id int64, category core.Category, amount, spent int64, active bool) core.BudgetStatus {
		b := core.Budget{
			ID:        id,
			Category:  category,
			Amount:    decimal.NewFromInt(amount),
			Period:    core.Monthly,
			StartDate: core.NewDate(2024, 3, 1),
			EndDate:   core.NewDate(2024, 3, 31),
			Active:    active,
		}
		return b.Status(decimal.NewFromInt(spent))
	}

	tests := []struct {
		name         string
		status       core.BudgetStatus
		wantAlert    bool
		wantSeverity core.AlertSeverity
		wantMessage  string
	}{
		{
			name:         "85 percent warns",
			status:       makeStatus(1, core.CategoryFoodDining, 1000, 850, true),
			wantAlert:    true,
			wantSeverity: core.AlertWarning,
			wantMessage:  "You have used 85.0% of your Food & Dining budget",
		},
		{
			name:         "exactly 80 percent warns",
			status:       makeStatus(2, core.CategoryShopping, 1000, 800, true),
			wantAlert:    true,
			wantSeverity: core.AlertWarning,
		},
		{
			name:         "exactly 100 percent is danger",
			status:       makeStatus(3, core.CategoryUtilities, 1000, 1000, true),
			wantAlert:    true,
			wantSeverity: core.AlertDanger,
		},
		{
			name:         "overspend clamps to 100 and stays danger",
			status:       makeStatus(4, core.CategoryTravel, 1000, 1200, true),
			wantAlert:    true,
			wantSeverity: core.AlertDanger,
			wantMessage:  "You have used 100.0% of your Travel budget",
		},
		{
			name:      "half used stays quiet",
			status:    makeStatus(5, core.CategoryFoodDining, 1000, 500, true),
			wantAlert: false,
		},
		{
			name:      "inactive budget stays quiet even when exhausted",
			status:    makeStatus(6, core.CategoryFoodDining, 1000, 1000, false),
			wantAlert: false,
		},
		{
			name:      "zero allowance never alerts",
			status:    makeStatus(7, core.CategoryFoodDining, 0, 500, true),
			wantAlert: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Alerts([]core.BudgetStatus{tt.status})
			if tt.wantAlert != (len(alerts) == 1) {
				t.Fatalf("Alerts() returned %d alerts, wantAlert=%v", len(alerts), tt.wantAlert)
			}
			if !tt.wantAlert {
				return
			}
			a := alerts[0]
			if a.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", a.Severity, tt.wantSeverity)
			}
			if tt.wantMessage != "" && a.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", a.Message, tt.wantMessage)
			}
			if a.BudgetID != tt.status.ID {
				t.Errorf("BudgetID = %d, want %d", a.BudgetID, tt.status.ID)
			}
		})
	}
}

func TestAlerts_MultipleBudgets(t *testing.T) {
	statuses := make([]core.BudgetStatus, 0, 3)
	for i, spent := range []int64{850, 400, 1100} {
		b := core.Budget{
			ID:        int64(i + 1),
			Category:  core.Categories[i],
			Amount:    decimal.NewFromInt(1000),
			Period:    core.Monthly,
			StartDate: core.NewDate(2024, 3, 1),
			EndDate:   core.NewDate(2024, 3, 31),
			Active:    true,
		}
		statuses = append(statuses, b.Status(decimal.NewFromInt(spent)))
	}

	alerts := Alerts(statuses)
	if len(alerts) != 2 {
		t.Fatalf("Alerts() returned %d alerts, want 2", len(alerts))
	}
	if alerts[0].Severity != core.AlertWarning || alerts[1].Severity != core.AlertDanger {
		t.Errorf("severities = %q, %q; want warning, danger", alerts[0].Severity, alerts[1].Severity)
	}
}

func TestRecommend_ReasonUsesTwoDecimalAverage(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	d := core.NewDate(2024, 2, 10)

	recs := Recommend([]core.Expense{
		expense(core.CategoryBills, 999.99, d),
	}, now.AddDate(0, 0, -15), now)

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	want := fmt.Sprintf("Based on your average monthly spending of ₹%s", "999.99")
	if recs[0].Reason != want {
		t.Errorf("Reason = %q, want %q", recs[0].Reason, want)
	}
}
