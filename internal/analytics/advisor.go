package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const maxRecommendations = 5

// alertThreshold is the progress percentage at which a budget starts
// alerting; dangerThreshold upgrades the severity.
var (
	alertThreshold  = decimal.NewFromInt(80)
	dangerThreshold = decimal.NewFromInt(100)

	recommendationBuffer = decimal.NewFromFloat(1.10)
	placeholderAmount    = decimal.NewFromInt(5000)
)

// Recommend derives a monthly budget suggestion per category from historical
// spend, ordered by total spend descending and truncated to the top five.
// An empty history returns a single low-confidence placeholder rather than
// an empty sequence.
func Recommend(expenses []core.Expense, joinedAt, now time.Time) []core.BudgetRecommendation {
	if len(expenses) == 0 {
		return []core.BudgetRecommendation{{
			Category:   "Getting Started",
			Amount:     placeholderAmount,
			Reason:     "Start tracking expenses to get personalized recommendations",
			Confidence: core.ConfidenceLow,
		}}
	}

	activeMonths := activeMonths(joinedAt, now)

	type catStats struct {
		category core.Category
		total    decimal.Decimal
		count    int
	}
	byCategory := make(map[core.Category]*catStats)
	for _, e := range expenses {
		s, ok := byCategory[e.Category]
		if !ok {
			s = &catStats{category: e.Category}
			byCategory[e.Category] = s
		}
		s.total = s.total.Add(e.Amount)
		s.count++
	}

	stats := make([]*catStats, 0, len(byCategory))
	for _, s := range byCategory {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if c := stats[i].total.Cmp(stats[j].total); c != 0 {
			return c > 0
		}
		// Equal totals fall back to the category name for stable output.
		return stats[i].category < stats[j].category
	})

	recs := make([]core.BudgetRecommendation, 0, maxRecommendations)
	for _, s := range stats {
		monthlyAvg := s.total.Div(activeMonths)
		confidence := core.ConfidenceMedium
		if s.count > 5 {
			confidence = core.ConfidenceHigh
		}
		recs = append(recs, core.BudgetRecommendation{
			Category:   s.category,
			Amount:     monthlyAvg.Mul(recommendationBuffer).Round(2),
			Reason:     fmt.Sprintf("Based on your average monthly spending of ₹%s", monthlyAvg.StringFixed(2)),
			Confidence: confidence,
		})
		if len(recs) == maxRecommendations {
			break
		}
	}
	return recs
}

// activeMonths counts the months between join date and now with a floor of
// one, preventing division blow-up for brand-new accounts. A join date in
// the future clamps to zero days rather than going negative.
func activeMonths(joinedAt, now time.Time) decimal.Decimal {
	days := int64(now.Sub(joinedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	months := decimal.NewFromInt(days).Div(decimal.NewFromInt(30))
	one := decimal.NewFromInt(1)
	if months.LessThan(one) {
		return one
	}
	return months
}

// Alerts emits an alert for every active budget at or past 80% progress.
// Severity is danger at or past 100%, warning below. Budgets under the
// threshold produce nothing.
func Alerts(statuses []core.BudgetStatus) []core.BudgetAlert {
	alerts := make([]core.BudgetAlert, 0)
	for _, s := range statuses {
		if !s.Active || s.Progress.LessThan(alertThreshold) {
			continue
		}
		severity := core.AlertWarning
		if !s.Progress.LessThan(dangerThreshold) {
			severity = core.AlertDanger
		}
		alerts = append(alerts, core.BudgetAlert{
			BudgetID: s.ID,
			Category: s.Category,
			Severity: severity,
			Message:  fmt.Sprintf("You have used %s%% of your %s budget", s.Progress.StringFixed(1), s.Category),
			Spent:    s.Spent,
			Limit:    s.Amount,
		})
	}
	return alerts
}
