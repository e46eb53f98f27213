package tasks

import (
	"strings"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/utils"
)

var (
	validTypes = map[constants.TaskType]bool{
		constants.TaskTypeTask:     true,
		constants.TaskTypeMeeting:  true,
		constants.TaskTypeReminder: true,
		constants.TaskTypeEvent:    true,
	}
	validPriorities = map[constants.TaskPriority]bool{
		constants.PriorityLow:    true,
		constants.PriorityMedium: true,
		constants.PriorityHigh:   true,
	}
	validRecurrences = map[constants.TaskRecurrence]bool{
		constants.RecurrenceNone:     true,
		constants.RecurrenceDaily:    true,
		constants.RecurrenceWeekdays: true,
		constants.RecurrenceWeekly:   true,
		constants.RecurrenceMonthly:  true,
	}
)

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Sanitize returns t stored under day with every field coerced into range:
// missing or overlong text is defaulted or truncated, unknown enum values
// fall back to their defaults, and all-day tasks lose their time. now
// stamps UpdatedAt, and CreatedAt when unset.
func Sanitize(t models.Task, day string, now time.Time) models.Task {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = constants.DefaultTaskTitle
	}
	t.Title = truncate(t.Title, constants.MaxTaskTitleLen)
	t.Description = truncate(strings.TrimSpace(t.Description), constants.MaxTaskDescriptionLen)

	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = constants.DefaultTaskCategory
	}
	t.Category = truncate(t.Category, constants.MaxTaskCategoryLen)

	if !validTypes[t.Type] {
		t.Type = constants.TaskTypeTask
	}
	if !validPriorities[t.Priority] {
		t.Priority = constants.PriorityMedium
	}
	if !validRecurrences[t.Recurrence] {
		t.Recurrence = constants.RecurrenceNone
	}

	t.Date = day
	if t.AllDay {
		t.Time = nil
	} else if t.Time == nil || !utils.ValidateTimeFormat(*t.Time) {
		hhmm := now.Format(constants.TimeFormat)
		t.Time = &hhmm
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = now.UTC()
	}
	t.UpdatedAt = now.UTC()
	return t
}
