package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
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

	report, err := s.reports.Summary(r.Context(), ownerID(r), from, to)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months := parseIntParam(r, "months", 0)
	series, err := s.reports.Monthly(r.Context(), ownerID(r), months, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if core.NormalizeCategory(category) == "" {
		respondError(w, http.StatusBadRequest, "category parameter is required")
		return
	}

	report, err := s.reports.Trend(r.Context(), ownerID(r), category, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSmartBudget(w http.ResponseWriter, r *http.Request) {
	income := parseFloatParam(r, "monthlyIncome", 0)
	if income <= 0 {
		respondError(w, http.StatusBadRequest, "monthlyIncome parameter must be positive")
		return
	}
	targetRate := parseFloatParam(r, "targetSavingsRate", 0.2)
	if targetRate < 0 || targetRate >= 1 {
		respondError(w, http.StatusBadRequest, "targetSavingsRate must be in [0, 1)")
		return
	}
	months := parseIntParam(r, "months", 0)

	plan, err := s.reports.SmartBudget(r.Context(), ownerID(r),
		int64(income*100+0.5), targetRate, months, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	profile := insights.Profile{
		MonthlyBudgetTarget:  parseFloatParam(r, "monthlyBudgetTarget", 0),
		EmergencyFundBalance: parseFloatParam(r, "emergencyFundBalance", 0),
	}

	report, err := s.reports.Health(r.Context(), ownerID(r), profile)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	alerts, err := s.alerts.ListAlerts(r.Context(), ownerID(r), limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAlertList(alerts))
}
