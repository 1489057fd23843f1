package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const (
	trendMonths      = 6
	breakdownEntries = 5
)

type (
	// MonthTotal is the aggregate spend for one calendar month.
	MonthTotal struct {
		Year   int
		Month  time.Month
		Amount decimal.Decimal
	}

	// CategoryTotal is the aggregate spend and count for one category.
	CategoryTotal struct {
		Category core.Category
		Total    decimal.Decimal
		Count    int
	}

	// SpendingStats is the computed statistics snapshot for one user.
	SpendingStats struct {
		Total          decimal.Decimal
		Transactions   int
		AvgTransaction decimal.Decimal
		TopCategory    core.Category
		MonthlyTrend   []MonthTotal
		Breakdown      []CategoryTotal
	}
)

// ComputeStats aggregates an expense snapshot: overall totals, the dominant
// category, a six-month trend ending at now's month, and the top-five
// category breakdown.
func ComputeStats(expenses []core.Expense, now time.Time) SpendingStats {
	stats := SpendingStats{
		Total:          decimal.Zero,
		AvgTransaction: decimal.Zero,
		TopCategory:    "None",
		MonthlyTrend:   make([]MonthTotal, 0, trendMonths),
		Breakdown:      make([]CategoryTotal, 0, breakdownEntries),
	}

	byCategory := make(map[core.Category]*CategoryTotal)
	for _, e := range expenses {
		stats.Total = stats.Total.Add(e.Amount)
		stats.Transactions++

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
	}

	if stats.Transactions > 0 {
		stats.AvgTransaction = stats.Total.Div(decimal.NewFromInt(int64(stats.Transactions))).Round(2)
	}

	// Six-month trend, oldest first, ending at now's calendar month.
	year, month := now.Year(), now.Month()
	for i := trendMonths - 1; i >= 0; i-- {
		y, m := shiftMonth(year, month, -i)
		total := decimal.Zero
		for _, e := range expenses {
			if e.Date.SameMonth(y, m) {
				total = total.Add(e.Amount)
			}
		}
		stats.MonthlyTrend = append(stats.MonthlyTrend, MonthTotal{Year: y, Month: m, Amount: total})
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})

	if len(totals) > 0 {
		stats.TopCategory = totals[0].Category
	}
	if len(totals) > breakdownEntries {
		totals = totals[:breakdownEntries]
	}
	stats.Breakdown = totals

	return stats
}

// shiftMonth moves a year/month pair by delta months, wrapping years.
func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	m := int(month) - 1 + delta
	y := year + m/12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}
