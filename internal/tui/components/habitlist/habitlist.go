package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Day models.HabitDay
}

func (i Item) Title() string {
	mark := "○"
	if i.Day.Completed {
		mark = "✓"
	}
	return mark + " " + i.Day.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("streak %d", i.Day.Streak)
	if i.Day.LastCompleted != "" {
		desc += " | last " + i.Day.LastCompleted
	}
	if i.Day.Habit.Description != "" {
		desc += " | " + i.Day.Habit.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Day.Name }

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(days []models.HabitDay, width, height int) Model {
	l := list.New(toItems(days), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model
	l.SetFilteringEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func toItems(days []models.HabitDay) []list.Item {
	items := make([]list.Item, len(days))
	for i, d := range days {
		items[i] = Item{Day: d}
	}
	return items
}

// SetHabits replaces the items, keeping the cursor in range.
func (m *Model) SetHabits(days []models.HabitDay) {
	idx := m.list.Index()
	m.list.SetItems(toItems(days))
	if idx >= len(days) {
		idx = len(days) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (models.HabitDay, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Day, ok
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if d, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: d.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if d, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: d.ID, Name: d.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
