package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	expense, err := req.toExpense(uid)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense", err.Error())
		return
	}

	created, err := s.expenses.CreateExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, "invalid expense", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save expense", err.Error())
		return
	}

	s.invalidateUserCaches(uid)
	respondJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	filter, err := expenseFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	expenses, err := s.storage.ListExpenses(r.Context(), uid, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list expenses", err.Error())
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	respondJSON(w, http.StatusOK, map[string][]expenseResponse{"expenses": out})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	expense, err := s.storage.GetExpense(r.Context(), uid, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "expense not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load expense", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	expense, err := req.toExpense(uid)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense", err.Error())
		return
	}
	expense.ID = id
	// An explicit category on update clears the auto flag.
	if expense.Category == "" {
		respondError(w, http.StatusBadRequest, "invalid expense", core.ErrInvalidCategory.Error())
		return
	}

	if err := s.expenses.UpdateExpense(r.Context(), expense); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondError(w, http.StatusNotFound, "expense not found", "")
		case isValidationError(err):
			respondError(w, http.StatusBadRequest, "invalid expense", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update expense", err.Error())
		}
		return
	}

	s.invalidateUserCaches(uid)
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id", err.Error())
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), uid, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "expense not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete expense", err.Error())
		return
	}

	s.invalidateUserCaches(uid)
	w.WriteHeader(http.StatusNoContent)
}

func expenseFilterFromQuery(r *http.Request) (storage.ExpenseFilter, error) {
	var f storage.ExpenseFilter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return f, err
		}
		f.From = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return f, err
		}
		f.To = d
	}
	if raw := q.Get("category"); raw != "" {
		c := core.Category(raw)
		if !c.Valid() {
			return f, core.ErrInvalidCategory
		}
		f.Category = c
	}
	f.Search = q.Get("search")
	return f, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidPeriod) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrTitleTooLong) ||
		errors.Is(err, core.ErrInvalidRange)
}
