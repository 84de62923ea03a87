package http

import (
	"net/http"

	"accountable/internal/core"
)

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Transactions())
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var draft core.Transaction
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.store.AddTransaction(r.Context(), draft)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx.ID = r.PathValue("id")

	if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTransaction(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft core.Category
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := s.store.AddCategory(r.Context(), draft)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if core.IsSeedCategory(id) {
		writeError(w, http.StatusUnprocessableEntity, "starter categories cannot be deleted")
		return
	}
	s.store.DeleteCategory(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Budgets())
}

// budgetUpdate carries a partial budget change; absent fields keep their value.
type budgetUpdate struct {
	Monthly *float64 `json:"monthly"`
	Yearly  *float64 `json:"yearly"`
}

func (s *Server) handleUpdateBudgets(w http.ResponseWriter, r *http.Request) {
	var upd budgetUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Monthly != nil && *upd.Monthly < 0 || upd.Yearly != nil && *upd.Yearly < 0 {
		writeError(w, http.StatusUnprocessableEntity, "budgets cannot be negative")
		return
	}

	s.store.UpdateBudget(r.Context(), upd.Monthly, upd.Yearly)
	writeJSON(w, http.StatusOK, s.store.Budgets())
}

type themePayload struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themePayload{Theme: s.store.Theme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var p themePayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Theme != "dark" && p.Theme != "light" {
		writeError(w, http.StatusUnprocessableEntity, "theme must be 'dark' or 'light'")
		return
	}

	s.store.SetTheme(r.Context(), p.Theme)
	writeJSON(w, http.StatusOK, p)
}
