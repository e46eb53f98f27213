package cli

import (
	"fmt"

	"github.com/julianstephens/streaks/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair fixable habit problems (repeated or malformed dates, stale streaks)."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	habits, err := ctx.Habits().List()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	cal, err := ctx.Tasks().All()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	validator := validation.New()
	today := ctx.Today()

	ctx.println("Validating habits...")
	habitResult := validator.ValidateHabits(habits, today)
	ctx.println("Validating tasks...")
	taskResult := validator.ValidateTasks(cal)

	combined := validation.ValidationResult{
		Conflicts: append(habitResult.Conflicts, taskResult.Conflicts...),
	}
	ctx.println()
	ctx.println(combined.FormatReport())

	if !cmd.Fix || !habitResult.Fixable() {
		return nil
	}

	ctx.PerformAutomaticBackup()
	fixed, actions := validator.FixHabits(habits, today)
	if err := ctx.Habits().Replace(fixed); err != nil {
		return fmt.Errorf("failed to save fixes: %w", err)
	}
	ctx.println("Applied fixes:")
	for _, a := range actions {
		ctx.printf("- %s\n", a.Action)
	}
	return nil
}
