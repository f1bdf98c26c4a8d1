package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type goalRequest struct {
	Title      string      `json:"title"`
	Target     json.Number `json:"target"`
	Current    json.Number `json:"current"`
	TargetDate string      `json:"targetDate"`
	Category   string      `json:"category"`
	Priority   string      `json:"priority"`
	Completed  bool        `json:"completed"`
}

func (req goalRequest) toCore(owner, id string) (core.Goal, error) {
	target, err := parseAmountCents(req.Target)
	if err != nil {
		return core.Goal{}, err
	}
	var current int64
	if req.Current != "" && req.Current != "0" {
		if current, err = parseAmountCents(req.Current); err != nil {
			return core.Goal{}, err
		}
	}
	targetDate, err := parseDateField(req.TargetDate)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		ID:         id,
		OwnerID:    owner,
		Title:      req.Title,
		Target:     core.Money{Cents: target},
		Current:    core.Money{Cents: current},
		TargetDate: targetDate,
		Category:   req.Category,
		Priority:   core.Priority(req.Priority),
		Completed:  req.Completed,
	}, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := req.toCore(ownerID(r), "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.goals.CreateGoal(r.Context(), g)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalJSON(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.ListGoals(r.Context(), ownerID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalList(goals))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.GetGoal(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := req.toCore(ownerID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.goals.UpdateGoal(r.Context(), g)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.DeleteGoal(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.goals.Progress(r.Context(), ownerID(r), r.PathValue("id"), time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleGoalProgressAll(w http.ResponseWriter, r *http.Request) {
	progress, err := s.goals.ProgressAll(r.Context(), ownerID(r), time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
