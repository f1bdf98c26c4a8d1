package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Category    string      `json:"category"`
	Limit       json.Number `json:"limit"`
	Period      string      `json:"period"`
	WindowStart string      `json:"windowStart"`
	WindowEnd   string      `json:"windowEnd"`
	Active      *bool       `json:"active"`
}

func (req budgetRequest) toCore(owner, id string) (core.Budget, error) {
	cents, err := parseAmountCents(req.Limit)
	if err != nil {
		return core.Budget{}, err
	}
	windowStart, err := parseDateField(req.WindowStart)
	if err != nil {
		return core.Budget{}, err
	}
	windowEnd, err := parseDateField(req.WindowEnd)
	if err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{
		ID:          id,
		OwnerID:     owner,
		Category:    req.Category,
		Limit:       core.Money{Cents: cents},
		Period:      core.Period(req.Period),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Active:      true,
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	return b, nil
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := req.toCore(ownerID(r), "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.budgets.CreateBudget(r.Context(), b, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetJSON(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	budgets, err := s.budgets.ListBudgets(r.Context(), ownerID(r), activeOnly)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetList(budgets))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.budgets.GetBudget(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetJSON(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := req.toCore(ownerID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.budgets.UpdateBudget(r.Context(), b)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetJSON(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeactivateBudget(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.budgets.Snapshot(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBudgetSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.budgets.Snapshots(r.Context(), ownerID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snaps)
}
