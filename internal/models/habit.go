package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	CompletedDates []Completion `json:"completed_dates"`
	Streak         int          `json:"streak"`
	LastCompleted  string       `json:"last_completed,omitempty"` // YYYY-MM-DD format
}

// Completion records whether a habit was done on one calendar day
type Completion struct {
	Date      string `json:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed"`
}

// HabitDay is a habit as seen from a single calendar day
type HabitDay struct {
	Habit
	Day       string `json:"day"`
	Completed bool   `json:"completed"`
}
