// Package services orchestrates storage, analytics and messaging behind the
// HTTP boundary.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// ExpenseService owns expense writes: persistence, keyword
// auto-categorization when the caller leaves the category empty, and the
// async expense-created event for the alert worker.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense saves an expense and publishes the created event. An empty
// category is filled in by the keyword categorizer and flagged as such.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Category == "" {
		e.Category = analytics.Categorize(e.Title, e.Description)
		e.AutoCategorized = true
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if _, err := s.storage.EnsureUser(ctx, e.UserID); err != nil {
		return core.Expense{}, fmt.Errorf("ensure user: %w", err)
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	// Async event, non-blocking. A lost event is recovered by the worker's
	// periodic sweep.
	if s.amqpClient != nil {
		if err := s.amqpClient.PublishExpenseCreated(ctx, e.UserID, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense created event",
				"user_id", e.UserID, "expense_id", id, "error", err)
		}
	} else {
		slog.DebugContext(ctx, "AMQP client not available, skipping expense event")
	}

	return e, nil
}

// UpdateExpense rewrites an existing expense after validation.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateExpense(ctx, e)
}

// DeleteExpense soft deletes the expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteExpense(ctx, userID, id)
}

// Close closes both storage and AMQP connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
