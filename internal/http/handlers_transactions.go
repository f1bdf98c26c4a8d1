package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	Kind       string      `json:"kind"`
	Amount     json.Number `json:"amount"`
	Category   string      `json:"category"`
	OccurredOn string      `json:"occurredOn"`
	Note       string      `json:"note"`
}

func (req transactionRequest) toCore(owner, id string) (core.Transaction, error) {
	cents, err := parseAmountCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	occurredOn, err := parseDateField(req.OccurredOn)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:         id,
		OwnerID:    owner,
		Kind:       core.Kind(req.Kind),
		Amount:     core.Money{Cents: cents},
		Category:   req.Category,
		OccurredOn: occurredOn,
		Note:       req.Note,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toCore(ownerID(r), "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from.IsEmpty() && to.IsEmpty() {
		if from, to, err = parseMonthParam(r); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	filter := storage.TransactionFilter{
		Category: r.URL.Query().Get("category"),
		Kind:     core.Kind(r.URL.Query().Get("kind")),
		From:     from,
		To:       to,
		Limit:    parseIntParam(r, "limit", 0),
	}

	txs, err := s.ledger.ListTransactions(r.Context(), ownerID(r), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionList(txs))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toCore(ownerID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), tx)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categorizeRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Description == "" {
		respondError(w, http.StatusUnprocessableEntity, "description is required")
		return
	}
	var cents int64
	if req.Amount != "" {
		var err error
		if cents, err = parseAmountCents(req.Amount); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	result, err := s.ledger.SuggestCategory(r.Context(), ownerID(r), req.Description, cents)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "categorization failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
