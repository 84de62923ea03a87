package http

import (
	"net/http"
	"strings"

	"accountable/internal/analytics"
)

// parseWindow extracts the window query parameter, defaulting to month.
func parseWindow(r *http.Request) (analytics.Window, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("window"))
	if v == "" {
		return analytics.Month, true
	}
	w := analytics.Window(v)
	return w, w.Valid()
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals := analytics.ComputeTotals(s.store.Transactions(), s.store.Budgets(), s.now())
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window, must be one of week, month, year, all")
		return
	}

	breakdown := analytics.CategoryBreakdown(s.store.Transactions(), s.store.Categories(), window, s.now())
	if breakdown == nil {
		breakdown = []analytics.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window, must be one of week, month, year, all")
		return
	}

	series := analytics.MonthlySeries(s.store.Transactions(), window, s.now())
	if series == nil {
		series = []analytics.MonthPoint{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window, must be one of week, month, year, all")
		return
	}

	stats := analytics.ComputeWindowStats(s.store.Transactions(), s.store.Categories(), window, s.now())
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights := analytics.ComputeInsights(s.store.Transactions(), s.store.Categories(), s.now())
	if insights == nil {
		insights = []analytics.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}
