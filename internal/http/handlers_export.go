package http

import (
	"net/http"

	"accountable/internal/export"
	"accountable/internal/log"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="accountable-export.json"`)

	if err := export.WriteJSON(w, s.store.Transactions(), s.store.Categories(), s.now()); err != nil {
		s.logger.Error("JSON export failed", log.FieldError, err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="accountable-export.csv"`)

	if err := export.WriteCSV(w, s.store.Transactions(), s.store.Categories()); err != nil {
		s.logger.Error("CSV export failed", log.FieldError, err)
	}
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap := s.store.Snapshot()
	if err := export.WriteReport(w, snap.Transactions, snap.Categories, snap.Budgets, s.now()); err != nil {
		s.logger.Error("Report export failed", log.FieldError, err)
	}
}
