package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// AnalyticsService feeds storage snapshots into the pure analytics engine.
// Each call re-reads a consistent snapshot; nothing is retained between
// calls.
type AnalyticsService struct {
	storage *storage.SQLiteRepository
	trends  *analytics.TrendAnalyzer
}

func NewAnalyticsService(repo *storage.SQLiteRepository) *AnalyticsService {
	return &AnalyticsService{
		storage: repo,
		trends:  analytics.NewTrendAnalyzer(),
	}
}

// Insights runs the trend analyzer over the user's full expense history.
func (s *AnalyticsService) Insights(ctx context.Context, userID int64, asOf time.Time) ([]core.Insight, error) {
	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("load expense snapshot: %w", err)
	}
	return s.trends.Analyze(expenses, asOf), nil
}

// Recommendations derives budget suggestions from the user's history and
// join date. An unknown user gets the empty-history placeholder.
func (s *AnalyticsService) Recommendations(ctx context.Context, userID int64, now time.Time) ([]core.BudgetRecommendation, error) {
	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("load expense snapshot: %w", err)
	}

	joinedAt := now
	user, err := s.storage.GetUser(ctx, userID)
	switch {
	case err == nil:
		joinedAt = user.JoinedAt
	case errors.Is(err, storage.ErrNotFound):
		// Brand-new user, treat as joined now.
	default:
		return nil, fmt.Errorf("load user: %w", err)
	}

	return analytics.Recommend(expenses, joinedAt, now), nil
}

// BudgetStatuses derives spent/remaining/progress for the user's budgets.
// The spent amount sums the user's expenses matching the budget's category
// inside [start_date, end_date].
func (s *AnalyticsService) BudgetStatuses(ctx context.Context, userID int64, activeOnly bool) ([]core.BudgetStatus, error) {
	budgets, err := s.storage.ListBudgets(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []core.BudgetStatus{}, nil
	}

	// One snapshot serves every budget.
	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("load expense snapshot: %w", err)
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := decimal.Zero
		for _, e := range expenses {
			if e.Category == b.Category && e.Date.Within(b.StartDate, b.EndDate) {
				spent = spent.Add(e.Amount)
			}
		}
		statuses = append(statuses, b.Status(spent))
	}
	return statuses, nil
}

// BudgetStatus derives spent/remaining/progress for a single budget from
// the user's expenses matching its category inside [start_date, end_date].
func (s *AnalyticsService) BudgetStatus(ctx context.Context, budget core.Budget) (core.BudgetStatus, error) {
	expenses, err := s.storage.ListExpenses(ctx, budget.UserID, storage.ExpenseFilter{
		From:     budget.StartDate,
		To:       budget.EndDate,
		Category: budget.Category,
	})
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("load expense snapshot: %w", err)
	}
	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	return budget.Status(spent), nil
}

// BudgetAlerts evaluates the user's active budgets against the alert
// thresholds.
func (s *AnalyticsService) BudgetAlerts(ctx context.Context, userID int64) ([]core.BudgetAlert, error) {
	statuses, err := s.BudgetStatuses(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return analytics.Alerts(statuses), nil
}

// Stats aggregates the user's expense history for the statistics endpoint.
func (s *AnalyticsService) Stats(ctx context.Context, userID int64, now time.Time) (analytics.SpendingStats, error) {
	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{})
	if err != nil {
		return analytics.SpendingStats{}, fmt.Errorf("load expense snapshot: %w", err)
	}
	return analytics.ComputeStats(expenses, now), nil
}
