package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/tasks"
	"github.com/julianstephens/streaks/internal/tui"
	"github.com/julianstephens/streaks/internal/utils"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a calendar task."`
	List   TaskListCmd   `cmd:"" help:"List calendar tasks."`
	Edit   TaskEditCmd   `cmd:"" help:"Edit a calendar task."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a calendar task."`
	Toggle TaskToggleCmd `cmd:"" help:"Mark a task done or not done."`
}

type TaskAddCmd struct {
	Title       string `arg:"" optional:"" help:"Task title."`
	Date        string `help:"Day of the task (YYYY-MM-DD, default: today)."`
	Time        string `short:"t" help:"Start time (HH:MM, default: now)."`
	AllDay      bool   `help:"Task spans the whole day."`
	Type        string `help:"task|meeting|reminder|event." default:"task" enum:"task,meeting,reminder,event"`
	Priority    string `short:"p" help:"low|medium|high." default:"medium" enum:"low,medium,high"`
	Category    string `short:"c" help:"Free-form category." default:"general"`
	Recurrence  string `short:"r" help:"none|daily|weekdays|weekly|monthly." default:"none" enum:"none,daily,weekdays,weekly,monthly"`
	Description string `short:"d" help:"Longer description."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Time != "" && !utils.ValidateTimeFormat(c.Time) {
		return fmt.Errorf("invalid time %q (expected HH:MM)", c.Time)
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	day, err := ctx.resolveDay(c.Date)
	if err != nil {
		return err
	}

	fm := &tui.TaskFormModel{
		Title:       c.Title,
		Description: c.Description,
		Date:        day,
		AllDay:      c.AllDay,
		Time:        c.Time,
		Type:        constants.TaskType(c.Type),
		Priority:    constants.TaskPriority(c.Priority),
		Category:    c.Category,
		Recurrence:  constants.TaskRecurrence(c.Recurrence),
	}
	if strings.TrimSpace(c.Title) == "" {
		if !ctx.Interactive {
			return fmt.Errorf("task title is required")
		}
		if err := tui.NewTaskForm(fm).Run(); err != nil {
			return err
		}
	}

	t, err := ctx.Tasks().Add(fm.Task())
	if err != nil {
		return err
	}
	ctx.printf("Added task: %s on %s (ID: %s)\n", t.Title, t.Date, t.ID)
	return nil
}

type TaskListCmd struct {
	Date  string `help:"Only this day (YYYY-MM-DD, 'today' or 'yesterday')."`
	Month string `help:"Only this month (YYYY-MM)."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	var cal models.Calendar
	switch {
	case c.Date != "" && c.Month != "":
		return fmt.Errorf("--date and --month are mutually exclusive")
	case c.Date != "":
		day, err := ctx.resolveDay(c.Date)
		if err != nil {
			return err
		}
		list, err := ctx.Tasks().ForDay(day)
		if err != nil {
			return err
		}
		cal = models.Calendar{day: list}
	case c.Month != "":
		var err error
		if cal, err = ctx.Tasks().ForMonth(c.Month); err != nil {
			return err
		}
	default:
		var err error
		if cal, err = ctx.Tasks().All(); err != nil {
			return err
		}
	}

	printed := false
	for _, day := range tasks.Days(cal) {
		if len(cal[day]) == 0 {
			continue
		}
		if printed {
			ctx.println()
		}
		printed = true
		ctx.printf("%s\n", day)
		for _, t := range cal[day] {
			ctx.println("  " + formatTask(t))
		}
	}
	if !printed {
		ctx.println("No tasks found.")
	}
	return nil
}

func formatTask(t models.Task) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	when := "all day"
	if !t.AllDay && t.Time != nil {
		when = *t.Time
	}
	line := fmt.Sprintf("%s %-7s %s (%s, %s, %s)", check, when, t.Title, t.Type, t.Priority, t.Category)
	if t.Recurrence != "" && t.Recurrence != constants.RecurrenceNone {
		line += " ↻ " + string(t.Recurrence)
	}
	return line + "  " + t.ID
}

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID."`
	Title       *string `help:"New title."`
	Date        *string `help:"Move to this day (YYYY-MM-DD)."`
	Time        *string `short:"t" help:"New start time (HH:MM)."`
	AllDay      bool    `help:"Make the task span the whole day."`
	Type        *string `help:"task|meeting|reminder|event."`
	Priority    *string `short:"p" help:"low|medium|high."`
	Category    *string `short:"c" help:"Free-form category."`
	Recurrence  *string `short:"r" help:"none|daily|weekdays|weekly|monthly."`
	Description *string `short:"d" help:"Longer description."`
}

func (c *TaskEditCmd) Validate() error {
	if c.AllDay && c.Time != nil {
		return fmt.Errorf("--all-day and --time are mutually exclusive")
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	t, err := ctx.Tasks().Get(c.ID)
	if err != nil {
		return fmt.Errorf("task %q: %w", c.ID, err)
	}

	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Date != nil {
		day, err := ctx.resolveDay(*c.Date)
		if err != nil {
			return err
		}
		t.Date = day
	}
	if c.Time != nil {
		if !utils.ValidateTimeFormat(*c.Time) {
			return fmt.Errorf("invalid time %q (expected HH:MM)", *c.Time)
		}
		tm := *c.Time
		t.Time = &tm
		t.AllDay = false
	}
	if c.AllDay {
		t.AllDay = true
		t.Time = nil
	}
	if c.Type != nil {
		t.Type = constants.TaskType(*c.Type)
	}
	if c.Priority != nil {
		t.Priority = constants.TaskPriority(*c.Priority)
	}
	if c.Category != nil {
		t.Category = *c.Category
	}
	if c.Recurrence != nil {
		t.Recurrence = constants.TaskRecurrence(*c.Recurrence)
	}
	if c.Description != nil {
		t.Description = *c.Description
	}

	t, err = ctx.Tasks().Update(t)
	if err != nil {
		return err
	}
	ctx.printf("Updated task: %s\n", formatTask(t))
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Tasks().Delete(c.ID); err != nil {
		return fmt.Errorf("task %q: %w", c.ID, err)
	}
	ctx.printf("Deleted task: %s\n", c.ID)
	return nil
}

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskToggleCmd) Run(ctx *Context) error {
	t, err := ctx.Tasks().Toggle(c.ID)
	if err != nil {
		return fmt.Errorf("task %q: %w", c.ID, err)
	}
	state := "not done"
	if t.Completed {
		state = "done"
	}
	ctx.printf("Task %q is %s\n", t.Title, state)
	return nil
}
