package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
)

const today = "2024-06-15"

func done(dates ...string) []models.Completion {
	var out []models.Completion
	for _, d := range dates {
		out = append(out, models.Completion{Date: d, Completed: true})
	}
	return out
}

func countType(r ValidationResult, ct ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == ct {
			n++
		}
	}
	return n
}

func TestValidateHabits(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   map[ConflictType]int
	}{
		{
			name: "clean",
			habits: []models.Habit{
				{ID: "h1", Name: "Read", CompletedDates: done("2024-06-14", "2024-06-15"), Streak: 2},
			},
			want: map[ConflictType]int{},
		},
		{
			name: "duplicate names ignore case",
			habits: []models.Habit{
				{ID: "h1", Name: "Read"},
				{ID: "h2", Name: " read "},
			},
			want: map[ConflictType]int{ConflictDuplicateHabitName: 1},
		},
		{
			name: "repeated completion date",
			habits: []models.Habit{
				{ID: "h1", Name: "Read", CompletedDates: done("2024-06-15", "2024-06-15"), Streak: 1},
			},
			want: map[ConflictType]int{ConflictDuplicateCompletionDate: 1},
		},
		{
			name: "malformed completion date",
			habits: []models.Habit{
				{ID: "h1", Name: "Read", CompletedDates: done("June 15", "2024-06-15"), Streak: 1},
			},
			want: map[ConflictType]int{ConflictInvalidDate: 1},
		},
		{
			name: "stale streak",
			habits: []models.Habit{
				{ID: "h1", Name: "Read", CompletedDates: done("2024-06-01"), Streak: 5},
			},
			want: map[ConflictType]int{ConflictStaleStreak: 1},
		},
		{
			name:   "missing id",
			habits: []models.Habit{{Name: "Read"}},
			want:   map[ConflictType]int{ConflictMissingID: 1},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateHabits(tt.habits, today)
			total := 0
			for ct, n := range tt.want {
				total += n
				if got := countType(result, ct); got != n {
					t.Errorf("expected %d %s conflicts, got %d\n%s", n, ct, got, result.FormatReport())
				}
			}
			if len(result.Conflicts) != total {
				t.Errorf("expected %d conflicts in total, got %d\n%s", total, len(result.Conflicts), result.FormatReport())
			}
		})
	}
}

func TestFixHabits(t *testing.T) {
	habits := []models.Habit{
		{
			ID:   "h1",
			Name: "Read",
			CompletedDates: []models.Completion{
				{Date: "2024-06-14", Completed: true},
				{Date: "bogus", Completed: true},
				{Date: "2024-06-15", Completed: false},
				{Date: "2024-06-15", Completed: true},
			},
			Streak: 9,
		},
		{ID: "h2", Name: "Walk", CompletedDates: done("2024-06-15"), Streak: 1},
	}

	v := New()
	fixed, actions := v.FixHabits(habits, today)

	if len(actions) != 3 {
		t.Errorf("expected 3 fix actions, got %d: %+v", len(actions), actions)
	}
	read := fixed[0]
	if len(read.CompletedDates) != 2 {
		t.Fatalf("expected 2 completion entries after fix, got %+v", read.CompletedDates)
	}
	if read.CompletedDates[1] != (models.Completion{Date: "2024-06-15", Completed: true}) {
		t.Errorf("expected the last entry for a repeated date to win, got %+v", read.CompletedDates[1])
	}
	if read.Streak != 2 {
		t.Errorf("expected streak 2 after fix, got %d", read.Streak)
	}
	if len(habits[0].CompletedDates) != 4 {
		t.Error("FixHabits mutated its input")
	}
	if fixed[1].Streak != 1 || len(fixed[1].CompletedDates) != 1 {
		t.Errorf("clean habit should be untouched, got %+v", fixed[1])
	}

	after := v.ValidateHabits(fixed, today)
	if after.HasConflicts() {
		t.Errorf("expected no conflicts after fix:\n%s", after.FormatReport())
	}
}

func TestValidateTasks(t *testing.T) {
	good := "09:30"
	bad := "9.30"
	valid := models.Task{
		ID:         "task-1",
		Title:      "Standup",
		Type:       constants.TaskTypeMeeting,
		Date:       "2024-06-15",
		Time:       &good,
		Priority:   constants.PriorityMedium,
		Recurrence: constants.RecurrenceNone,
	}

	misfiled := valid
	misfiled.ID = "task-2"
	misfiled.Date = "2024-06-16"

	badTime := valid
	badTime.ID = "task-3"
	badTime.Time = &bad

	badEnum := valid
	badEnum.ID = "task-4"
	badEnum.Type = "party"
	badEnum.Priority = "urgent"

	cal := models.Calendar{
		"2024-06-15": {valid, misfiled, badTime, badEnum},
		"2024-13-01": {},
		"2024-06-17": {func() models.Task { d := valid; d.Date = "2024-06-17"; return d }()},
	}

	result := New().ValidateTasks(cal)

	want := map[ConflictType]int{
		ConflictInvalidDate:      1,
		ConflictTaskDateMismatch: 1,
		ConflictInvalidTime:      1,
		ConflictInvalidEnum:      2,
		ConflictDuplicateTaskID:  1,
	}
	for ct, n := range want {
		if got := countType(result, ct); got != n {
			t.Errorf("expected %d %s conflicts, got %d\n%s", n, ct, got, result.FormatReport())
		}
	}
}

func TestFormatReport(t *testing.T) {
	empty := ValidationResult{}
	if got := empty.FormatReport(); got != "No conflicts detected." {
		t.Errorf("unexpected empty report %q", got)
	}

	r := ValidationResult{Conflicts: []Conflict{{Description: "one"}, {Description: "two"}}}
	report := r.FormatReport()
	if !strings.Contains(report, "- one\n") || !strings.Contains(report, "- two\n") {
		t.Errorf("report missing entries: %q", report)
	}
}

func TestValidateExport(t *testing.T) {
	doc := models.Export{
		Version:    constants.ExportVersion,
		ExportedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Habits: []models.Habit{
			{ID: "h1", Name: "Read", CompletedDates: done("2024-06-15"), Streak: 1, LastCompleted: "2024-06-15"},
			{ID: "h2", Name: "Walk"},
		},
		Tasks: models.Calendar{
			"2024-06-15": {{ID: "task-1", Title: "Standup", Date: "2024-06-15", AllDay: true}},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := ValidateExport(data); err != nil {
		t.Errorf("expected a marshalled export to validate, got %v", err)
	}

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "not json", input: "{", wantErr: "invalid JSON"},
		{name: "missing habits", input: `{"version": 1}`, wantErr: "invalid export document"},
		{name: "wrong version", input: `{"version": 2, "habits": []}`, wantErr: "invalid export document"},
		{name: "bad completion date", input: `{"version": 1, "habits": [{"name": "Read", "completed_dates": [{"date": "yesterday", "completed": true}]}]}`, wantErr: "/habits/0/completed_dates/0/date"},
		{name: "empty habit name", input: `{"version": 1, "habits": [{"name": ""}]}`, wantErr: "/habits/0/name"},
		{name: "bad calendar day", input: `{"version": 1, "habits": [], "tasks": {"someday": []}}`, wantErr: "invalid export document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExport([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	var se *SchemaError
	if err := ValidateExport([]byte(`{"version": 1}`)); !errors.As(err, &se) || len(se.Problems) == 0 {
		t.Errorf("expected a SchemaError with problems, got %v", err)
	}
}
