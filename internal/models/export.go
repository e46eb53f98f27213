package models

import "time"

// Export is the portable document written by export and read by import
type Export struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Habits     []Habit   `json:"habits"`
	Tasks      Calendar  `json:"tasks,omitempty"`
}
