package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/utils"
)

type HabitFormModel struct {
	Name        string
	Description string
}

type TaskFormModel struct {
	Title       string
	Description string
	Date        string
	AllDay      bool
	Time        string
	Type        constants.TaskType
	Priority    constants.TaskPriority
	Category    string
	Recurrence  constants.TaskRecurrence
}

// Task converts the form into a task ready for the tasks service.
func (fm *TaskFormModel) Task() models.Task {
	t := models.Task{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Date:        strings.TrimSpace(fm.Date),
		AllDay:      fm.AllDay,
		Type:        fm.Type,
		Priority:    fm.Priority,
		Category:    strings.TrimSpace(fm.Category),
		Recurrence:  fm.Recurrence,
	}
	if tm := strings.TrimSpace(fm.Time); tm != "" && !fm.AllDay {
		t.Time = &tm
	}
	return t
}

// NewHabitForm creates a form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewTaskForm creates a form for adding calendar tasks
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(func(s string) error {
					if !utils.ValidateDateFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("All day").
				Value(&fm.AllDay),
			huh.NewInput().
				Title("Time").
				Description("HH:MM, ignored for all-day tasks").
				Value(&fm.Time).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return nil
					}
					return fmt.Errorf("time must be HH:MM")
				}),
		),
		huh.NewGroup(
			huh.NewSelect[constants.TaskType]().
				Title("Type").
				Options(
					huh.NewOption("Task", constants.TaskTypeTask),
					huh.NewOption("Meeting", constants.TaskTypeMeeting),
					huh.NewOption("Reminder", constants.TaskTypeReminder),
					huh.NewOption("Event", constants.TaskTypeEvent),
				).
				Value(&fm.Type),
			huh.NewSelect[constants.TaskPriority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", constants.PriorityLow),
					huh.NewOption("Medium", constants.PriorityMedium),
					huh.NewOption("High", constants.PriorityHigh),
				).
				Value(&fm.Priority),
			huh.NewInput().
				Title("Category").
				Value(&fm.Category),
			huh.NewSelect[constants.TaskRecurrence]().
				Title("Recurrence").
				Options(
					huh.NewOption("None", constants.RecurrenceNone),
					huh.NewOption("Daily", constants.RecurrenceDaily),
					huh.NewOption("Weekdays", constants.RecurrenceWeekdays),
					huh.NewOption("Weekly", constants.RecurrenceWeekly),
					huh.NewOption("Monthly", constants.RecurrenceMonthly),
				).
				Value(&fm.Recurrence),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmForm asks a yes/no question; the answer lands in confirmed.
func NewConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
