package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaks/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit, StateConfirmDelete:
		content = docStyle.Render(m.form.View())
	case StateAgenda:
		content = docStyle.Render(m.agenda.View())
	default:
		content = docStyle.Render(m.habitList.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.viewTabs(), m.viewDay()),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Agenda"} {
		if m.state == SessionState(i) || (m.state > StateAgenda && m.previousState == SessionState(i)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	label := m.day
	if t, err := time.Parse(constants.DateFormat, m.day); err == nil {
		label = t.Format("Mon Jan 2, 2006")
	}
	if m.day == m.habits.Today() {
		label += " (today)"
	}
	return dayStyle.Render(label)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}
