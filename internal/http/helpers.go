package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ownerHeader carries the acting user. Authentication sits in front of this
// service; the header is trusted as-is.
const ownerHeader = "X-User-ID"

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondStoreError maps storage and validation errors to status codes.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrBudgetExists):
		respondError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate, core.ErrInvalidAmount, core.ErrInvalidKind,
		core.ErrInvalidPeriod, core.ErrInvalidPriority,
		core.ErrEmptyCategory, core.ErrEmptyTitle, core.ErrEmptyOwner,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return strings.Contains(err.Error(), "validate")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// ownerID extracts the acting user, empty when the header is absent.
func ownerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ownerHeader))
}

// parseAmountCents converts a JSON amount to cents using the strict decimal
// parser, so "45.5", "45.50" and "45,50" all land on 4550.
func parseAmountCents(n json.Number) (int64, error) {
	return core.ParseDecimalToCents(n.String())
}

// parseDateParam parses an optional YYYY-MM-DD query value.
func parseDateParam(r *http.Request, key string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return core.Date{Time: t}, nil
}

func parseDateField(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

// parseMonthParam parses an optional YYYY-MM query value into the date range
// covering that calendar month.
func parseMonthParam(r *http.Request) (core.Date, core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return core.Date{}, core.Date{}, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("invalid month: %w", err)
	}
	return core.Date{Time: t}, core.Date{Time: t.AddDate(0, 1, -1)}, nil
}

func parseIntParam(r *http.Request, key string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return fallback
}

func parseFloatParam(r *http.Request, key string, fallback float64) float64 {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return fallback
}
