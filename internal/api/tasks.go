package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/tasks"
)

func (s *Server) taskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, tasks.ErrInvalidDate), errors.Is(err, tasks.ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("task request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// listTasks serves ?date=YYYY-MM-DD as a list, ?month=YYYY-MM as a
// calendar, and the full calendar otherwise.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	svc := s.tasksFor(userIDFrom(r.Context()))
	q := r.URL.Query()

	switch {
	case q.Get("date") != "":
		list, err := svc.ForDay(q.Get("date"))
		if err != nil {
			s.taskError(w, err)
			return
		}
		if list == nil {
			list = []models.Task{}
		}
		writeJSON(w, http.StatusOK, list)
	case q.Get("month") != "":
		cal, err := svc.ForMonth(q.Get("month"))
		if err != nil {
			s.taskError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cal)
	default:
		cal, err := svc.All()
		if err != nil {
			s.taskError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cal)
	}
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasksFor(userIDFrom(r.Context())).Get(chi.URLParam(r, "id"))
	if err != nil {
		s.taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.tasksFor(userIDFrom(r.Context())).Add(t)
	if err != nil {
		s.taskError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = chi.URLParam(r, "id")

	updated, err := s.tasksFor(userIDFrom(r.Context())).Update(t)
	if err != nil {
		s.taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasksFor(userIDFrom(r.Context())).Delete(chi.URLParam(r, "id")); err != nil {
		s.taskError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasksFor(userIDFrom(r.Context())).Toggle(chi.URLParam(r, "id"))
	if err != nil {
		s.taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
