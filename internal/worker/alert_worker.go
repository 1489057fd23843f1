// Package worker evaluates budget alerts off the request path. It reacts to
// expense-created events and runs a periodic sweep as the backup path for
// missed messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

// AlertWorker re-evaluates a user's budgets whenever their expense history
// changes and logs every threshold crossing.
type AlertWorker struct {
	storage     *storage.SQLiteRepository
	analytics   *services.AnalyticsService
	concurrency int
}

func NewAlertWorker(repo *storage.SQLiteRepository, analytics *services.AnalyticsService, concurrency int) *AlertWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AlertWorker{
		storage:     repo,
		analytics:   analytics,
		concurrency: concurrency,
	}
}

// HandleExpenseCreated processes a single expense-created event from AMQP.
func (w *AlertWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	slog.InfoContext(ctx, "Processing expense created event",
		"user_id", msg.UserID,
		"expense_id", msg.ExpenseID)

	return w.evaluateUser(ctx, msg.UserID)
}

// SweepAllUsers re-evaluates every known user's budgets. Users are swept in
// parallel with bounded concurrency; one failing user does not stop the
// sweep.
func (w *AlertWorker) SweepAllUsers(ctx context.Context) error {
	userIDs, err := w.storage.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for sweep: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Starting budget alert sweep", "users", len(userIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if err := w.evaluateUser(ctx, userID); err != nil {
				slog.ErrorContext(ctx, "Sweep failed for user",
					"user_id", userID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *AlertWorker) evaluateUser(ctx context.Context, userID int64) error {
	alerts, err := w.analytics.BudgetAlerts(ctx, userID)
	if err != nil {
		return fmt.Errorf("evaluate budgets for user %d: %w", userID, err)
	}

	for _, alert := range alerts {
		level := slog.LevelWarn
		if alert.Severity == core.AlertDanger {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Budget alert",
			"user_id", userID,
			"budget_id", alert.BudgetID,
			"category", alert.Category,
			"severity", alert.Severity,
			"spent", alert.Spent.StringFixed(2),
			"limit", alert.Limit.StringFixed(2))
	}

	if len(alerts) == 0 {
		slog.DebugContext(ctx, "No budget alerts for user", "user_id", userID)
	}
	return nil
}
