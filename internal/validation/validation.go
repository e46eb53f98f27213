package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/streak"
	"github.com/julianstephens/streaks/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName      ConflictType = "duplicate_habit_name"
	ConflictDuplicateCompletionDate ConflictType = "duplicate_completion_date"
	ConflictInvalidDate             ConflictType = "invalid_date"
	ConflictStaleStreak             ConflictType = "stale_streak"
	ConflictMissingID               ConflictType = "missing_id"
	ConflictDuplicateTaskID         ConflictType = "duplicate_task_id"
	ConflictTaskDateMismatch        ConflictType = "task_date_mismatch"
	ConflictInvalidTime             ConflictType = "invalid_time"
	ConflictInvalidEnum             ConflictType = "invalid_enum"
)

// Conflict represents a problem found in stored habits or tasks
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit/task names involved
	IDs         []string // IDs of records involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Fixable reports whether any conflict can be repaired by FixHabits.
func (vr *ValidationResult) Fixable() bool {
	for _, c := range vr.Conflicts {
		switch c.Type {
		case ConflictDuplicateCompletionDate, ConflictInvalidDate, ConflictStaleStreak:
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks stored habits and tasks for inconsistencies
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports duplicate names, repeated or malformed completion
// dates, and streak counters that no longer match their history as of today.
func (v *Validator) ValidateHabits(habits []models.Habit, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byName := make(map[string][]string)
	var names []string
	for _, h := range habits {
		if h.ID == "" {
			result.add(Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("Habit %q has no ID", h.Name),
				Items:       []string{h.Name},
			})
		}
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if key == "" {
			continue
		}
		if _, ok := byName[key]; !ok {
			names = append(names, key)
		}
		byName[key] = append(byName[key], h.ID)
	}
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}

	for _, h := range habits {
		seen := make(map[string]int)
		for _, c := range h.CompletedDates {
			if !utils.ValidateDateFormat(c.Date) {
				result.add(Conflict{
					Type:        ConflictInvalidDate,
					Description: fmt.Sprintf("Habit %q has an invalid completion date: %q", h.Name, c.Date),
					Date:        c.Date,
					Items:       []string{h.Name},
					IDs:         []string{h.ID},
				})
				continue
			}
			seen[c.Date]++
		}

		var dupes []string
		for d, n := range seen {
			if n > 1 {
				dupes = append(dupes, d)
			}
		}
		sort.Strings(dupes)
		for _, d := range dupes {
			result.add(Conflict{
				Type:        ConflictDuplicateCompletionDate,
				Description: fmt.Sprintf("Habit %q has %d entries for %s", h.Name, seen[d], d),
				Date:        d,
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}

		if want := streak.Current(h.CompletedDates, today); want != h.Streak {
			result.add(Conflict{
				Type:        ConflictStaleStreak,
				Description: fmt.Sprintf("Habit %q has streak %d but its history gives %d", h.Name, h.Streak, want),
				Date:        today,
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}
	}

	return result
}

// ValidateTasks reports tasks filed under the wrong or a malformed day,
// duplicate IDs, bad times, and unknown enum values.
func (v *Validator) ValidateTasks(cal models.Calendar) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	days := make([]string, 0, len(cal))
	for d := range cal {
		days = append(days, d)
	}
	sort.Strings(days)

	seenIDs := make(map[string][]string)
	var ids []string
	for _, day := range days {
		if !utils.ValidateDateFormat(day) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Calendar has an invalid day key: %q", day),
				Date:        day,
			})
		}

		for _, t := range cal[day] {
			if t.ID == "" {
				result.add(Conflict{
					Type:        ConflictMissingID,
					Description: fmt.Sprintf("Task %q on %s has no ID", t.Title, day),
					Date:        day,
					Items:       []string{t.Title},
				})
			} else {
				if _, ok := seenIDs[t.ID]; !ok {
					ids = append(ids, t.ID)
				}
				seenIDs[t.ID] = append(seenIDs[t.ID], day)
			}

			if t.Date != day {
				result.add(Conflict{
					Type:        ConflictTaskDateMismatch,
					Description: fmt.Sprintf("Task %q is filed under %s but dated %q", t.Title, day, t.Date),
					Date:        day,
					Items:       []string{t.Title},
					IDs:         []string{t.ID},
				})
			}

			if t.Time != nil && (t.AllDay || !utils.ValidateTimeFormat(*t.Time)) {
				result.add(Conflict{
					Type:        ConflictInvalidTime,
					Description: fmt.Sprintf("Task %q on %s has an invalid time: %q", t.Title, day, *t.Time),
					Date:        day,
					Items:       []string{t.Title},
					IDs:         []string{t.ID},
				})
			}

			for _, bad := range invalidEnums(t) {
				result.add(Conflict{
					Type:        ConflictInvalidEnum,
					Description: fmt.Sprintf("Task %q on %s has %s", t.Title, day, bad),
					Date:        day,
					Items:       []string{t.Title},
					IDs:         []string{t.ID},
				})
			}
		}
	}

	for _, id := range ids {
		if where := seenIDs[id]; len(where) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateTaskID,
				Description: fmt.Sprintf("Task ID %s appears %d times (%s)", id, len(where), strings.Join(where, ", ")),
				IDs:         []string{id},
			})
		}
	}

	return result
}

func invalidEnums(t models.Task) []string {
	var out []string
	switch t.Type {
	case constants.TaskTypeTask, constants.TaskTypeMeeting, constants.TaskTypeReminder, constants.TaskTypeEvent:
	default:
		out = append(out, fmt.Sprintf("unknown type %q", t.Type))
	}
	switch t.Priority {
	case constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh:
	default:
		out = append(out, fmt.Sprintf("unknown priority %q", t.Priority))
	}
	switch t.Recurrence {
	case constants.RecurrenceNone, constants.RecurrenceDaily, constants.RecurrenceWeekdays,
		constants.RecurrenceWeekly, constants.RecurrenceMonthly:
	default:
		out = append(out, fmt.Sprintf("unknown recurrence %q", t.Recurrence))
	}
	return out
}

// FixHabits repairs the fixable habit conflicts: it drops malformed
// completion dates, keeps the last entry for a repeated date, and recomputes
// streaks. Duplicate names are left for the user to resolve.
func (v *Validator) FixHabits(habits []models.Habit, today string) ([]models.Habit, []FixAction) {
	result := v.ValidateHabits(habits, today)
	flagged := make(map[string][]Conflict)
	for _, c := range result.Conflicts {
		switch c.Type {
		case ConflictDuplicateCompletionDate, ConflictInvalidDate, ConflictStaleStreak:
			for _, id := range c.IDs {
				flagged[id] = append(flagged[id], c)
			}
		}
	}

	fixed := make([]models.Habit, len(habits))
	var actions []FixAction
	for i, h := range habits {
		conflicts, ok := flagged[h.ID]
		if !ok {
			fixed[i] = h
			continue
		}

		last := make(map[string]int)
		for j, c := range h.CompletedDates {
			if utils.ValidateDateFormat(c.Date) {
				last[c.Date] = j
			}
		}
		cleaned := make([]models.Completion, 0, len(last))
		for j, c := range h.CompletedDates {
			if k, ok := last[c.Date]; ok && k == j {
				cleaned = append(cleaned, c)
			}
		}
		h.CompletedDates = cleaned
		h.Streak = streak.Current(cleaned, today)
		fixed[i] = h

		for _, c := range conflicts {
			actions = append(actions, FixAction{
				Action:         describeFix(c, h),
				SourceConflict: c,
			})
		}
	}
	return fixed, actions
}

func describeFix(c Conflict, h models.Habit) string {
	switch c.Type {
	case ConflictInvalidDate:
		return fmt.Sprintf("Removed invalid date %q from %q", c.Date, h.Name)
	case ConflictDuplicateCompletionDate:
		return fmt.Sprintf("Collapsed repeated entries for %s on %q", c.Date, h.Name)
	default:
		return fmt.Sprintf("Recomputed streak for %q: %d", h.Name, h.Streak)
	}
}
