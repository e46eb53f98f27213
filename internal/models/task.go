package models

import (
	"time"

	"github.com/julianstephens/streaks/internal/constants"
)

// Task is a calendar entry pinned to one day
type Task struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Type        constants.TaskType       `json:"type"`
	Completed   bool                     `json:"completed"`
	AllDay      bool                     `json:"all_day"`
	Date        string                   `json:"date"`           // YYYY-MM-DD format
	Time        *string                  `json:"time,omitempty"` // HH:MM format, nil when all-day
	Priority    constants.TaskPriority   `json:"priority"`
	Category    string                   `json:"category"`
	Recurrence  constants.TaskRecurrence `json:"recurrence"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// Calendar maps a day (YYYY-MM-DD) to the tasks scheduled on it
type Calendar map[string][]Task
