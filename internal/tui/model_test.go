package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/tasks"
	"github.com/julianstephens/streaks/internal/tui/components/habitlist"
)

func setupModel(t *testing.T) (Model, *habits.Service) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "streaks.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	hs := habits.NewService(store, constants.LocalUserID, habits.WithClock(clock), habits.WithLocation(time.UTC))
	ts := tasks.NewService(store, constants.LocalUserID, tasks.WithClock(clock), tasks.WithLocation(time.UTC))

	if _, err := hs.Add("Read", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Add(models.Task{Title: "Dentist", Date: "2024-06-15", AllDay: true}); err != nil {
		t.Fatal(err)
	}
	return NewModel(hs, ts), hs
}

// send feeds msg to the model and then any message its command produces.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if follow := cmd(); follow != nil {
			switch follow.(type) {
			case habitlist.ToggleHabitMsg, habitlist.AddHabitMsg, habitlist.DeleteHabitMsg:
				next, _ = m.Update(follow)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestToggleFromDashboard(t *testing.T) {
	m, hs := setupModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	h, err := hs.FindByName("Read")
	if err != nil {
		t.Fatal(err)
	}
	if h.Streak != 1 {
		t.Errorf("expected streak 1 after toggle, got %d", h.Streak)
	}
	if !strings.Contains(m.View(), "✓ Read") {
		t.Errorf("expected the habit to render as completed:\n%s", m.View())
	}
}

func TestDayNavigation(t *testing.T) {
	m, hs := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Day() != "2024-06-14" {
		t.Fatalf("expected 2024-06-14 after moving back, got %s", m.Day())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	h, _ := hs.FindByName("Read")
	if len(h.CompletedDates) != 1 || h.CompletedDates[0].Date != "2024-06-14" {
		t.Errorf("expected the toggle to land on the selected day, got %+v", h.CompletedDates)
	}
	if h.Streak != 1 {
		t.Errorf("a completion yesterday keeps the streak alive, got %d", h.Streak)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.Day() != "2024-06-15" {
		t.Errorf("expected 't' to jump back to today, got %s", m.Day())
	}
}

func TestAgendaTab(t *testing.T) {
	m, _ := setupModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateAgenda {
		t.Fatalf("expected agenda state, got %v", m.state)
	}
	if !strings.Contains(m.View(), "Dentist") {
		t.Errorf("expected the day's task in the agenda:\n%s", m.View())
	}
}

func TestAddHabitOpensForm(t *testing.T) {
	m, _ := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if m.state != StateAddHabit {
		t.Fatalf("expected add-habit state, got %v", m.state)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits {
		t.Errorf("expected esc to return to habits, got %v", m.state)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if next.(Model).View() != "" {
		t.Error("expected an empty view after quitting")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, hs := setupModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if m.state != StateConfirmDelete {
		t.Fatalf("expected confirm-delete state, got %v", m.state)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits {
		t.Errorf("expected esc to cancel the delete, got %v", m.state)
	}
	if _, err := hs.FindByName("Read"); err != nil {
		t.Errorf("cancelled delete removed the habit: %v", err)
	}
}
