// Package http is the JSON API boundary: routing, request decoding and the
// fail-soft analytics endpoints.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"spendwise/internal/core"
)

const userIDHeader = "X-User-ID"

var errMissingUserID = errors.New("missing " + userIDHeader + " header")

// userID reads the caller identity from the X-User-ID header. The upstream
// gateway owns authentication; this service only needs the resolved ID.
func userID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return 0, errMissingUserID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s header %q", userIDHeader, raw)
	}
	return id, nil
}

// pathID parses a positive numeric path parameter.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// clientIP strips the port from RemoteAddr for rate limiting.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

type categorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type expenseRequest struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// toExpense converts a request body into a domain expense. An empty
// category is left empty so the service can auto-categorize it.
func (req expenseRequest) toExpense(userID int64) (core.Expense, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		UserID:      userID,
		Category:    core.Category(req.Category),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Date:        date,
	}, nil
}

type budgetRequest struct {
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    *bool  `json:"active"`
}

func (req budgetRequest) toBudget(userID int64) (core.Budget, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := core.ParseDate(req.EndDate)
	if err != nil {
		return core.Budget{}, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return core.Budget{
		UserID:    userID,
		Category:  core.Category(req.Category),
		Amount:    amount,
		Period:    core.Period(req.Period),
		StartDate: start,
		EndDate:   end,
		Active:    active,
	}, nil
}
