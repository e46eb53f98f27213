package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/utils"
)

type habitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type toggleRequest struct {
	Date string `json:"date"`
}

func (s *Server) habitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, habits.ErrNotFound):
		http.Error(w, "Habit not found", http.StatusNotFound)
	case errors.Is(err, habits.ErrNameRequired):
		http.Error(w, "Name is required", http.StatusBadRequest)
	case errors.Is(err, habits.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("habit request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// listHabits returns every habit with its streak recomputed for today.
func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	list, err := s.habitsFor(userIDFrom(r.Context())).Refresh()
	if err != nil {
		s.habitError(w, err)
		return
	}
	if list == nil {
		list = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.habitsFor(userIDFrom(r.Context())).Get(chi.URLParam(r, "id"))
	if err != nil {
		s.habitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h, err := s.habitsFor(userIDFrom(r.Context())).Add(req.Name, req.Description)
	if err != nil {
		s.habitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h, err := s.habitsFor(userIDFrom(r.Context())).Update(models.Habit{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.habitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.habitsFor(userIDFrom(r.Context())).Delete(chi.URLParam(r, "id")); err != nil {
		s.habitError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggleHabit flips one day. The body is optional; without a date the
// toggle applies to today.
func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	svc := s.habitsFor(userIDFrom(r.Context()))
	day := svc.Today()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := utils.ParseDay(req.Date, s.cfg.Location)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		day = parsed
	}

	h, err := svc.Toggle(chi.URLParam(r, "id"), day)
	if err != nil {
		s.habitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) habitsForDay(w http.ResponseWriter, r *http.Request) {
	day, err := utils.ParseDay(chi.URLParam(r, "date"), s.cfg.Location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := s.habitsFor(userIDFrom(r.Context())).ForDay(day)
	if err != nil {
		s.habitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
