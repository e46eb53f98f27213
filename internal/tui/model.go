package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/tasks"
	"github.com/julianstephens/streaks/internal/tui/components/agenda"
	"github.com/julianstephens/streaks/internal/tui/components/habitlist"
	"github.com/julianstephens/streaks/internal/utils"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAgenda
	StateAddHabit
	StateConfirmDelete
)

type Model struct {
	habits *habits.Service
	tasks  *tasks.Service

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	agenda        agenda.Model
	form          *huh.Form
	habitForm     *HabitFormModel

	day           string
	deleteID      string
	deleteName    string
	deleteConfirm bool
	status        string
	err           error

	quitting bool
	width    int
	height   int
}

// NewModel builds the dashboard for today. Streaks are refreshed once so
// habits that lapsed since the last run show their decayed value.
func NewModel(hs *habits.Service, ts *tasks.Service) Model {
	m := Model{
		habits:    hs,
		tasks:     ts,
		state:     StateHabits,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, 0, 0),
		agenda:    agenda.New(0, 0),
		day:       hs.Today(),
	}
	if _, err := hs.Refresh(); err != nil {
		logger.Warn("Failed to refresh streaks", "error", err)
		m.err = err
	}
	m.reload()
	return m
}

// Day returns the day the dashboard is showing.
func (m Model) Day() string {
	return m.day
}

func (m *Model) reload() {
	days, err := m.habits.ForDay(m.day)
	if err != nil {
		m.err = err
		return
	}
	m.habitList.SetHabits(days)

	if m.tasks != nil {
		list, err := m.tasks.ForDay(m.day)
		if err != nil {
			m.err = err
			return
		}
		m.agenda.SetTasks(m.day, list)
	}
}

func (m *Model) shiftDay(n int) {
	day, err := utils.AddDays(m.day, n)
	if err != nil {
		m.err = err
		return
	}
	m.day = day
	m.reload()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Today, m.keys.Tab}
	if m.state == StateHabits {
		keys = append(keys, m.keys.Toggle, m.keys.Add, m.keys.Delete)
	}
	return append(keys, m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}
