package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/streak"
	"github.com/julianstephens/streaks/internal/tui"
	"github.com/julianstephens/streaks/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with their current streaks."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's habit status."`
	Log    HabitLogCmd    `cmd:"" help:"Show habit log (ASCII history)."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show streak statistics."`
	Edit   HabitEditCmd   `cmd:"" help:"Rename a habit or change its description."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Description string `short:"d" help:"Optional description."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	name, desc := c.Name, c.Description
	if strings.TrimSpace(name) == "" {
		if !ctx.Interactive {
			return fmt.Errorf("habit name is required")
		}
		fm := &tui.HabitFormModel{Name: name, Description: desc}
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return err
		}
		name, desc = fm.Name, fm.Description
	}

	h, err := ctx.Habits().Add(name, desc)
	if err != nil {
		return err
	}
	ctx.printf("Added habit: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Habits().Refresh()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	for _, h := range habits {
		last := "never"
		if h.LastCompleted != "" {
			last = h.LastCompleted
		}
		ctx.printf("%-24s streak %-4d last %s  %s\n", h.Name, h.Streak, last, h.ID)
	}
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Day to toggle: YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	day, err := ctx.resolveDay(c.Date)
	if err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	h, err = ctx.Habits().Toggle(h.ID, day)
	if err != nil {
		return err
	}

	verb := "Unmarked"
	if streak.IsCompleted(h, day) {
		verb = "Marked"
	}
	ctx.printf("%s %q for %s (streak: %d)\n", verb, h.Name, day, h.Streak)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	if _, err := ctx.Habits().Refresh(); err != nil {
		return err
	}
	today := ctx.Today()
	days, err := ctx.Habits().ForDay(today)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	ctx.printf("Habits for %s:\n\n", today)
	done := 0
	for _, d := range days {
		status := "[ ]"
		if d.Completed {
			status = "[x]"
			done++
		}
		ctx.printf("%s %-24s streak %d\n", status, d.Name, d.Streak)
	}
	ctx.printf("\nCompleted: %d/%d\n", done, len(days))
	return nil
}

const logNameWidth = 20

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show (0 fits the terminal width)." default:"0"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	habits, err := ctx.Habits().List()
	if err != nil {
		return err
	}
	if c.Habit != "" {
		h, err := ctx.resolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	days := c.Days
	if days <= 0 {
		days = (terminalWidth(80) - logNameWidth) / 6
	}
	if days < 1 {
		days = 1
	}

	today := ctx.Today()
	start, err := utils.AddDays(today, -(days - 1))
	if err != nil {
		return err
	}

	ctx.printf("Habit log (last %d days):\n\n", days)
	ctx.printf("%-*s", logNameWidth, "Habit")
	for i := 0; i < days; i++ {
		day, _ := utils.AddDays(start, i)
		ctx.printf(" %5s", day[5:7]+"/"+day[8:10])
	}
	ctx.println()
	ctx.println(strings.Repeat("-", logNameWidth+days*6))

	for _, h := range habits {
		ctx.printf("%-*s", logNameWidth, truncate(h.Name, logNameWidth))
		for i := 0; i < days; i++ {
			day, _ := utils.AddDays(start, i)
			if streak.IsCompleted(h, day) {
				ctx.printf("  x   ")
			} else {
				ctx.printf("  .   ")
			}
		}
		ctx.println()
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 5 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

type HabitStatsCmd struct {
	Habit  string `arg:"" optional:"" help:"Habit name or ID (default: all)."`
	Period int    `help:"Days in the completion-rate window." default:"30"`
}

func (c *HabitStatsCmd) Run(ctx *Context) error {
	if c.Period < 1 {
		return fmt.Errorf("period must be at least 1 day")
	}
	habits, err := ctx.Habits().Refresh()
	if err != nil {
		return err
	}
	if c.Habit != "" {
		h, err := ctx.resolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for i, h := range habits {
		if i > 0 {
			ctx.println()
		}
		total := 0
		for _, entry := range h.CompletedDates {
			if entry.Completed {
				total++
			}
		}
		ctx.printf("%s\n", h.Name)
		ctx.printf("  Current streak:  %d\n", h.Streak)
		ctx.printf("  Longest streak:  %d\n", streak.Longest(h.CompletedDates))
		ctx.printf("  Completions:     %d\n", total)
		ctx.printf("  Last %d days:    %.0f%%\n", c.Period, streak.CompletionRate(h.CompletedDates, today, c.Period)*100)
	}
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit name or ID."`
	Name        string  `help:"New name."`
	Description *string `help:"New description."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if c.Name == "" && c.Description == nil {
		return fmt.Errorf("nothing to change: pass --name or --description")
	}
	if c.Name != "" {
		h.Name = c.Name
	}
	if c.Description != nil {
		h.Description = *c.Description
	}

	h, err = ctx.Habits().Update(h)
	if err != nil {
		return err
	}
	ctx.printf("Updated habit: %s\n", h.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits().Delete(h.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}
