package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testExpense(userID int64) core.Expense {
	return core.Expense{
		UserID:   userID,
		Category: core.CategoryFoodDining,
		Title:    "Lunch",
		Amount:   decimal.NewFromFloat(250.50),
		Date:     core.NewDate(2024, 3, 15),
	}
}

func TestEnsureUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.EnsureUser(ctx, 1)
	if err != nil {
		t.Fatalf("EnsureUser() error: %v", err)
	}
	if u.ID != 1 {
		t.Errorf("ID = %d, want 1", u.ID)
	}
	if u.JoinedAt.IsZero() {
		t.Error("JoinedAt is zero")
	}

	// Idempotent, keeps the original join date.
	again, err := repo.EnsureUser(ctx, 1)
	if err != nil {
		t.Fatalf("second EnsureUser() error: %v", err)
	}
	if !again.JoinedAt.Equal(u.JoinedAt) {
		t.Errorf("JoinedAt changed from %v to %v", u.JoinedAt, again.JoinedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetUser(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.EnsureUser(ctx, 1); err != nil {
		t.Fatal(err)
	}

	id, err := repo.CreateExpense(ctx, testExpense(1))
	if err != nil {
		t.Fatalf("CreateExpense() error: %v", err)
	}

	got, err := repo.GetExpense(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetExpense() error: %v", err)
	}
	if got.Title != "Lunch" {
		t.Errorf("Title = %q, want Lunch", got.Title)
	}
	if got.Amount.StringFixed(2) != "250.50" {
		t.Errorf("Amount = %s, want 250.50", got.Amount.StringFixed(2))
	}
	if got.Date.String() != "2024-03-15" {
		t.Errorf("Date = %s, want 2024-03-15", got.Date)
	}
	if got.Category != core.CategoryFoodDining {
		t.Errorf("Category = %q", got.Category)
	}

	// Another user cannot see it.
	if _, err := repo.GetExpense(ctx, 2, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user GetExpense() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	id, err := repo.CreateExpense(ctx, testExpense(1))
	if err != nil {
		t.Fatal(err)
	}

	updated := testExpense(1)
	updated.ID = id
	updated.Title = "Team dinner"
	updated.Amount = decimal.NewFromInt(900)
	if err := repo.UpdateExpense(ctx, updated); err != nil {
		t.Fatalf("UpdateExpense() error: %v", err)
	}

	got, err := repo.GetExpense(ctx, 1, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Team dinner" || got.Amount.String() != "900" {
		t.Errorf("after update: %q %s", got.Title, got.Amount)
	}

	missing := testExpense(1)
	missing.ID = 9999
	if err := repo.UpdateExpense(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateExpense(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpense_SoftDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	id, err := repo.CreateExpense(ctx, testExpense(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteExpense(ctx, 1, id); err != nil {
		t.Fatalf("DeleteExpense() error: %v", err)
	}
	if _, err := repo.GetExpense(ctx, 1, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted expense still readable: %v", err)
	}
	if err := repo.DeleteExpense(ctx, 1, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	expenses, err := repo.ListExpenses(ctx, 1, ExpenseFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 0 {
		t.Errorf("ListExpenses after delete = %d entries, want 0", len(expenses))
	}
}

func TestListExpenses_Filters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	seed := []core.Expense{
		{UserID: 1, Category: core.CategoryFoodDining, Title: "Lunch at cafe", Amount: decimal.NewFromInt(200), Date: core.NewDate(2024, 3, 1)},
		{UserID: 1, Category: core.CategoryTravel, Title: "Hotel night", Amount: decimal.NewFromInt(4000), Date: core.NewDate(2024, 3, 10)},
		{UserID: 1, Category: core.CategoryFoodDining, Title: "Dinner", Amount: decimal.NewFromInt(600), Date: core.NewDate(2024, 4, 2)},
	}
	for _, e := range seed {
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("no filter returns newest first", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].Title != "Dinner" {
			t.Errorf("first = %q, want Dinner", got[0].Title)
		}
	})

	t.Run("date range", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{
			From: core.NewDate(2024, 3, 1),
			To:   core.NewDate(2024, 3, 31),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("category", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{Category: core.CategoryTravel})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Title != "Hotel night" {
			t.Errorf("got %d entries", len(got))
		}
	})

	t.Run("search matches title substring", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{Search: "cafe"})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Title != "Lunch at cafe" {
			t.Errorf("got %d entries", len(got))
		}
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 2, ExpenseFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func testBudget(userID int64) core.Budget {
	return core.Budget{
		UserID:    userID,
		Category:  core.CategoryFoodDining,
		Amount:    decimal.NewFromInt(5000),
		Period:    core.Monthly,
		StartDate: core.NewDate(2024, 3, 1),
		EndDate:   core.NewDate(2024, 3, 31),
		Active:    true,
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	id, err := repo.CreateBudget(ctx, testBudget(1))
	if err != nil {
		t.Fatalf("CreateBudget() error: %v", err)
	}

	got, err := repo.GetBudget(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetBudget() error: %v", err)
	}
	if got.Amount.String() != "5000" || got.Period != core.Monthly {
		t.Errorf("got %+v", got)
	}
	if got.StartDate.String() != "2024-03-01" || got.EndDate.String() != "2024-03-31" {
		t.Errorf("dates = %s..%s", got.StartDate, got.EndDate)
	}
}

func TestCreateBudget_ActiveUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	if _, err := repo.CreateBudget(ctx, testBudget(1)); err != nil {
		t.Fatal(err)
	}

	_, err := repo.CreateBudget(ctx, testBudget(1))
	if !IsConflict(err) {
		t.Errorf("duplicate active budget error = %v, want unique-constraint conflict", err)
	}

	// An inactive duplicate is allowed.
	inactive := testBudget(1)
	inactive.Active = false
	if _, err := repo.CreateBudget(ctx, inactive); err != nil {
		t.Errorf("inactive duplicate error = %v, want nil", err)
	}

	// A different period is allowed.
	weekly := testBudget(1)
	weekly.Period = core.Weekly
	if _, err := repo.CreateBudget(ctx, weekly); err != nil {
		t.Errorf("different period error = %v, want nil", err)
	}
}

func TestListBudgets_ActiveOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	active := testBudget(1)
	inactive := testBudget(1)
	inactive.Category = core.CategoryTravel
	inactive.Active = false

	if _, err := repo.CreateBudget(ctx, active); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateBudget(ctx, inactive); err != nil {
		t.Fatal(err)
	}

	all, err := repo.ListBudgets(ctx, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all budgets = %d, want 2", len(all))
	}

	activeOnly, err := repo.ListBudgets(ctx, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Category != core.CategoryFoodDining {
		t.Errorf("active budgets = %d", len(activeOnly))
	}
}

func TestDeleteBudget(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.EnsureUser(ctx, 1)

	id, err := repo.CreateBudget(ctx, testBudget(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteBudget(ctx, 1, id); err != nil {
		t.Fatalf("DeleteBudget() error: %v", err)
	}
	if _, err := repo.GetBudget(ctx, 1, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted budget still readable: %v", err)
	}
	if err := repo.DeleteBudget(ctx, 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteBudget(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListUserIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		if _, err := repo.EnsureUser(ctx, id); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs() error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
}
