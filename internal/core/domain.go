package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

type (
	// Period is a budget period kind.
	Period string

	// Expense is a single recorded expense. The analytics components only
	// read expenses; creation and updates happen through the storage layer.
	Expense struct {
		ID              int64
		UserID          int64
		Category        Category
		Title           string
		Description     string
		Amount          decimal.Decimal
		Date            Date
		AutoCategorized bool
		CreatedAt       time.Time
	}

	// Budget is a per-category spending allowance over a date range.
	// At most one active budget exists per (user, category, period).
	Budget struct {
		ID        int64
		UserID    int64
		Category  Category
		Amount    decimal.Decimal
		Period    Period
		StartDate Date
		EndDate   Date
		Active    bool
		CreatedAt time.Time
	}

	// BudgetStatus is a budget together with its derived spend figures.
	BudgetStatus struct {
		Budget
		Spent     decimal.Decimal
		Remaining decimal.Decimal
		Progress  decimal.Decimal // percentage, clamped to [0, 100]
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrInvalidRange    = errors.New("end date before start date")
)

// Validate checks the period kind.
func (p Period) Validate() error {
	switch p {
	case Weekly, Monthly, Yearly:
		return nil
	}
	return ErrInvalidPeriod
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return ErrTitleTooLong
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	if err := b.EndDate.Validate(); err != nil {
		return err
	}
	if b.EndDate.Before(b.StartDate.Time) {
		return ErrInvalidRange
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	return b.Period.Validate()
}

// Status derives the spend figures for the budget. Progress is 0 when the
// allowance is 0, avoiding the divide-by-zero case.
func (b Budget) Status(spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
		Progress:  decimal.Zero,
	}
	if b.Amount.IsZero() {
		return status
	}
	hundred := decimal.NewFromInt(100)
	progress := spent.Div(b.Amount).Mul(hundred)
	if progress.GreaterThan(hundred) {
		progress = hundred
	}
	if progress.IsNegative() {
		progress = decimal.Zero
	}
	status.Progress = progress
	return status
}
