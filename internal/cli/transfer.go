package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/tui"
	"github.com/julianstephens/streaks/internal/validation"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	habits, err := ctx.Habits().Refresh()
	if err != nil {
		return err
	}
	cal, err := ctx.Tasks().All()
	if err != nil {
		return err
	}

	doc := models.Export{
		Version:    constants.ExportVersion,
		ExportedAt: ctx.clock().UTC(),
		Habits:     habits,
		Tasks:      cal,
	}
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	data = append(data, '\n')

	if c.Output == "" {
		_, err := ctx.out().Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, constants.ExportFileMode); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("Exported %d habit(s) and %d task day(s) to %s\n", len(doc.Habits), len(doc.Tasks), c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Export file to import ('-' for stdin)."`
	Yes    bool   `short:"y" help:"Replace existing data without asking."`
	DryRun bool   `help:"Validate the file and report what would change."`
}

func (c *ImportCmd) read() ([]byte, error) {
	if c.File == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(c.File)
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := c.read()
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}
	if err := validation.ValidateExport(data); err != nil {
		return err
	}

	var doc models.Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode import: %w", err)
	}

	result := validation.New().ValidateHabits(doc.Habits, ctx.Today())
	for _, conflict := range result.Conflicts {
		if conflict.Type == validation.ConflictDuplicateHabitName {
			return fmt.Errorf("import rejected: %s", conflict.Description)
		}
	}

	ctx.printf("Import contains %d habit(s) and %d task day(s).\n", len(doc.Habits), len(doc.Tasks))
	if c.DryRun {
		if result.HasConflicts() {
			ctx.println(result.FormatReport())
			ctx.println("Repeated dates are collapsed, duplicate IDs reassigned and streaks recomputed on import.")
		}
		return nil
	}

	if !c.Yes {
		if !ctx.Interactive {
			return fmt.Errorf("import replaces all habits and tasks; pass --yes to confirm")
		}
		confirmed := false
		if err := tui.NewConfirmForm("Replace all habits and tasks with this import?", &confirmed).Run(); err != nil {
			return err
		}
		if !confirmed {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Habits().Replace(doc.Habits); err != nil {
		return fmt.Errorf("failed to import habits: %w", err)
	}
	if err := ctx.Tasks().Replace(doc.Tasks); err != nil {
		return fmt.Errorf("failed to import tasks: %w", err)
	}

	logger.Info("Import complete", "habits", len(doc.Habits), "task_days", len(doc.Tasks))
	ctx.println("✓ Import complete")
	return nil
}
