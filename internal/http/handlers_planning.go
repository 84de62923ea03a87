package http

import (
	"net/http"

	"accountable/internal/core"
	"accountable/internal/services"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Goals())
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var draft core.Goal
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := s.store.AddGoal(r.Context(), draft)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal.ID = r.PathValue("id")

	if err := s.store.UpdateGoal(r.Context(), goal); err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteGoal(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	progress := services.EvaluateGoals(s.store.Goals(), s.now())
	if progress == nil {
		progress = []services.GoalProgress{}
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Recurring())
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var draft core.RecurringTransaction
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.store.AddRecurring(r.Context(), draft)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var rec core.RecurringTransaction
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec.ID = r.PathValue("id")

	if err := s.store.UpdateRecurring(r.Context(), rec); err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteRecurring(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
