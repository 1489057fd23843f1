package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// DefaultSmallTxnThreshold is the amount below which a transaction counts as
// a micro-transaction, in currency units.
var DefaultSmallTxnThreshold = decimal.NewFromInt(100)

// TrendAnalyzer compares aggregate spend across calendar months and flags
// spending patterns. Zero value is not usable; use NewTrendAnalyzer.
type TrendAnalyzer struct {
	// SmallTxnThreshold overrides the micro-transaction cutoff.
	SmallTxnThreshold decimal.Decimal
}

func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{SmallTxnThreshold: DefaultSmallTxnThreshold}
}

// Analyze produces the ordered insight sequence for an expense snapshot.
// Order of emission is fixed: month delta, dominant category, micro-pattern.
// An empty snapshot yields an empty sequence, never an error.
func (a *TrendAnalyzer) Analyze(expenses []core.Expense, asOf time.Time) []core.Insight {
	insights := make([]core.Insight, 0, 3)

	if in, ok := a.monthOverMonth(expenses, asOf); ok {
		insights = append(insights, in)
	}
	if in, ok := a.dominantCategory(expenses); ok {
		insights = append(insights, in)
	}
	if in, ok := a.microTransactions(expenses); ok {
		insights = append(insights, in)
	}
	return insights
}

// monthOverMonth sums the asOf calendar month against the immediately
// preceding one (December wraps into the previous year) and flags swings
// beyond ±20%. A zero previous month emits nothing.
func (a *TrendAnalyzer) monthOverMonth(expenses []core.Expense, asOf time.Time) (core.Insight, bool) {
	curYear, curMonth := asOf.Year(), asOf.Month()
	prevYear, prevMonth := curYear, curMonth-1
	if curMonth == time.January {
		prevYear, prevMonth = curYear-1, time.December
	}

	current := decimal.Zero
	previous := decimal.Zero
	for _, e := range expenses {
		switch {
		case e.Date.SameMonth(curYear, curMonth):
			current = current.Add(e.Amount)
		case e.Date.SameMonth(prevYear, prevMonth):
			previous = previous.Add(e.Amount)
		}
	}

	if !previous.IsPositive() {
		return core.Insight{}, false
	}

	hundred := decimal.NewFromInt(100)
	change := current.Sub(previous).Div(previous).Mul(hundred)
	twenty := decimal.NewFromInt(20)

	switch {
	case change.GreaterThan(twenty):
		return core.Insight{
			Kind:    core.InsightWarning,
			Title:   "High Spending Alert",
			Message: fmt.Sprintf("Your spending increased by %s%% this month", change.StringFixed(1)),
			Value:   change,
		}, true
	case change.LessThan(twenty.Neg()):
		saved := change.Abs()
		return core.Insight{
			Kind:    core.InsightSuccess,
			Title:   "Great Savings!",
			Message: fmt.Sprintf("You saved %s%% compared to last month", saved.StringFixed(1)),
			Value:   saved,
		}, true
	}
	return core.Insight{}, false
}

// dominantCategory names the category with the largest all-time total.
func (a *TrendAnalyzer) dominantCategory(expenses []core.Expense) (core.Insight, bool) {
	if len(expenses) == 0 {
		return core.Insight{}, false
	}

	totals := make(map[core.Category]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	// Iterate the fixed category order so equal totals resolve the same way
	// on every call.
	top := core.CategoryOther
	topTotal := decimal.Zero
	found := false
	for _, cat := range core.Categories {
		total, ok := totals[cat]
		if !ok {
			continue
		}
		if !found || total.GreaterThan(topTotal) {
			top, topTotal, found = cat, total, true
		}
	}
	if !found {
		return core.Insight{}, false
	}

	return core.Insight{
		Kind:    core.InsightInfo,
		Title:   "Top Spending Category",
		Message: fmt.Sprintf("You spend most on %s", top),
		Value:   topTotal,
	}, true
}

// microTransactions flags histories where more than 60% of transactions fall
// below the small-transaction threshold.
func (a *TrendAnalyzer) microTransactions(expenses []core.Expense) (core.Insight, bool) {
	if len(expenses) == 0 {
		return core.Insight{}, false
	}

	threshold := a.SmallTxnThreshold
	if threshold.IsZero() {
		threshold = DefaultSmallTxnThreshold
	}

	small := 0
	for _, e := range expenses {
		if e.Amount.LessThan(threshold) {
			small++
		}
	}

	ratio := decimal.NewFromInt(int64(small)).Div(decimal.NewFromInt(int64(len(expenses))))
	if !ratio.GreaterThan(decimal.NewFromFloat(0.6)) {
		return core.Insight{}, false
	}

	return core.Insight{
		Kind:    core.InsightTip,
		Title:   "Small Transaction Pattern",
		Message: "Consider bundling small purchases to reduce transaction frequency",
		Value:   decimal.NewFromInt(int64(small)),
	}, true
}
