package core

import "github.com/shopspring/decimal"

const (
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
	InsightTip     InsightKind = "tip"
)

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	AlertWarning AlertSeverity = "warning"
	AlertDanger  AlertSeverity = "danger"
)

type (
	// InsightKind is the severity kind of an advisory insight.
	InsightKind string

	// Confidence is the qualitative trust label on a recommendation.
	Confidence string

	// AlertSeverity grades budget alerts.
	AlertSeverity string

	// Insight is a transient advisory analytics message. Never persisted.
	Insight struct {
		Kind    InsightKind
		Title   string
		Message string
		Value   decimal.Decimal
	}

	// BudgetRecommendation is a suggested monthly allowance for a category.
	BudgetRecommendation struct {
		Category   Category
		Amount     decimal.Decimal
		Reason     string
		Confidence Confidence
	}

	// BudgetAlert flags a budget whose spend crossed the warning threshold.
	BudgetAlert struct {
		BudgetID int64
		Category Category
		Severity AlertSeverity
		Message  string
		Spent    decimal.Decimal
		Limit    decimal.Decimal
	}

	// ReceiptExtraction is the best-guess structured read of OCR text.
	ReceiptExtraction struct {
		Amount   decimal.Decimal
		Merchant string
		RawText  string
		Success  bool
		Err      string
	}
)
