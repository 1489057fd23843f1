// Package storage is the relational store behind the analytics engine:
// users, expenses and budgets in SQLite. The analytics components never
// touch it directly; they receive already-materialized snapshots.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"spendwise/internal/core"
)

var ErrNotFound = errors.New("not found")

// IsConflict reports whether err is a unique-constraint violation, e.g. a
// second active budget for the same (user, category, period).
func IsConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// User is an account reference as the excluded auth layer supplies it.
// Only the join date matters to the analytics core.
type User struct {
	ID       int64
	JoinedAt time.Time
}

// ExpenseFilter narrows ListExpenses. Zero values mean "no filter".
type ExpenseFilter struct {
	From     core.Date
	To       core.Date
	Category core.Category
	Search   string
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database connection is usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureUser creates the user row on first sight and returns it. The join
// date is the first time this backend saw the user.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, userID int64) (User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, created_at) VALUES (?, ?)`,
		userID, time.Now().UTC())
	if err != nil {
		return User{}, fmt.Errorf("ensure user: %w", err)
	}
	return r.GetUser(ctx, userID)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, userID int64) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &u.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUserIDs returns every known user, for the worker's periodic sweep.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, category, title, description, amount, date, auto_categorized, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, string(e.Category), e.Title, e.Description,
		e.Amount.String(), e.Date.String(), e.AutoCategorized, now, now)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, title, description, amount, date, auto_categorized, created_at
		 FROM expenses
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the user's expense snapshot, newest date first, with
// optional range/category/search filters.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	query := strings.Builder{}
	query.WriteString(
		`SELECT id, user_id, category, title, description, amount, date, auto_categorized, created_at
		 FROM expenses
		 WHERE user_id = ? AND deleted_at IS NULL`)
	args := []any{userID}

	if !f.From.IsZero() {
		query.WriteString(` AND date >= ?`)
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query.WriteString(` AND date <= ?`)
		args = append(args, f.To.String())
	}
	if f.Category != "" {
		query.WriteString(` AND category = ?`)
		args = append(args, string(f.Category))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		query.WriteString(` AND (title LIKE ? OR description LIKE ?)`)
		pattern := "%" + s + "%"
		args = append(args, pattern, pattern)
	}
	query.WriteString(` ORDER BY date DESC, created_at DESC`)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET category = ?, title = ?, description = ?, amount = ?, date = ?, auto_categorized = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		string(e.Category), e.Title, e.Description, e.Amount.String(),
		e.Date.String(), e.AutoCategorized, time.Now().UTC(), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense soft deletes so analytics history stays auditable.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount, period, start_date, end_date, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, string(b.Category), b.Amount.String(), string(b.Period),
		b.StartDate.String(), b.EndDate.String(), b.Active, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount, period, start_date, end_date, active, created_at
		 FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, activeOnly bool) ([]core.Budget, error) {
	query := `SELECT id, user_id, category, amount, period, start_date, end_date, active, created_at
		 FROM budgets WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category = ?, amount = ?, period = ?, start_date = ?, end_date = ?, active = ?
		 WHERE id = ? AND user_id = ?`,
		string(b.Category), b.Amount.String(), string(b.Period),
		b.StartDate.String(), b.EndDate.String(), b.Active, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		category  string
		amountStr string
		dateStr   string
	)
	if err := row.Scan(&e.ID, &e.UserID, &category, &e.Title, &e.Description,
		&amountStr, &dateStr, &e.AutoCategorized, &e.CreatedAt); err != nil {
		return core.Expense{}, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored amount %q: %w", amountStr, err)
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}

	e.Category = core.Category(category)
	e.Amount = amount
	e.Date = date
	return e, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b         core.Budget
		category  string
		amountStr string
		period    string
		startStr  string
		endStr    string
	)
	if err := row.Scan(&b.ID, &b.UserID, &category, &amountStr, &period,
		&startStr, &endStr, &b.Active, &b.CreatedAt); err != nil {
		return core.Budget{}, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse stored amount %q: %w", amountStr, err)
	}
	start, err := core.ParseDate(startStr)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse stored start date %q: %w", startStr, err)
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse stored end date %q: %w", endStr, err)
	}

	b.Category = core.Category(category)
	b.Amount = amount
	b.Period = core.Period(period)
	b.StartDate = start
	b.EndDate = end
	return b, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
