package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"spendwise/internal/storage"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	budget, err := req.toBudget(uid)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget", err.Error())
		return
	}
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget", err.Error())
		return
	}

	if _, err := s.storage.EnsureUser(r.Context(), uid); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save budget", err.Error())
		return
	}
	id, err := s.storage.CreateBudget(r.Context(), budget)
	if err != nil {
		if storage.IsConflict(err) {
			respondError(w, http.StatusConflict,
				"an active budget already exists for this category and period", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save budget", err.Error())
		return
	}
	budget.ID = id

	status, err := s.analytics.BudgetStatus(r.Context(), budget)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load budget", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(status))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	statuses, err := s.analytics.BudgetStatuses(r.Context(), uid, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list budgets", err.Error())
		return
	}

	out := make([]budgetResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toBudgetResponse(st))
	}
	respondJSON(w, http.StatusOK, map[string][]budgetResponse{"budgets": out})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget id", err.Error())
		return
	}

	statuses, err := s.analytics.BudgetStatuses(r.Context(), uid, false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load budget", err.Error())
		return
	}
	for _, st := range statuses {
		if st.ID == id {
			respondJSON(w, http.StatusOK, toBudgetResponse(st))
			return
		}
	}
	respondError(w, http.StatusNotFound, "budget not found", "")
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget id", err.Error())
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	budget, err := req.toBudget(uid)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget", err.Error())
		return
	}
	budget.ID = id
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget", err.Error())
		return
	}

	if err := s.storage.UpdateBudget(r.Context(), budget); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondError(w, http.StatusNotFound, "budget not found", "")
		case storage.IsConflict(err):
			respondError(w, http.StatusConflict,
				"an active budget already exists for this category and period", "")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update budget", err.Error())
		}
		return
	}

	status, err := s.analytics.BudgetStatus(r.Context(), budget)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load budget", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(status))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user", err.Error())
		return
	}
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid budget id", err.Error())
		return
	}

	if err := s.storage.DeleteBudget(r.Context(), uid, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "budget not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete budget", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
