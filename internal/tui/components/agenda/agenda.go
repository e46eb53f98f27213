package agenda

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaks/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(9)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows the calendar tasks of one day.
type Model struct {
	viewport viewport.Model
	Day      string
	Tasks    []models.Task
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetTasks replaces the day being shown. tasks are expected in display order.
func (m *Model) SetTasks(day string, tasks []models.Task) {
	m.Day = day
	m.Tasks = tasks
	m.Render()
}

func (m *Model) Render() {
	if len(m.Tasks) == 0 {
		m.viewport.SetContent(fmt.Sprintf("Nothing scheduled for %s.\nAdd tasks with 'streaks task add'.", m.Day))
		return
	}

	var b strings.Builder
	for _, t := range m.Tasks {
		when := "all day"
		if !t.AllDay && t.Time != nil {
			when = *t.Time
		}

		title := taskStyle.Render(t.Title)
		if t.Completed {
			title = doneStyle.Render("✓ " + t.Title)
		}

		fmt.Fprintf(&b, "%s %s %s\n",
			timeStyle.Render(when),
			title,
			metaStyle.Render(fmt.Sprintf("%s · %s · %s", t.Type, t.Priority, t.Category)),
		)
	}
	m.viewport.SetContent(b.String())
}
