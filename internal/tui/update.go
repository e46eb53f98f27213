package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/tui/components/habitlist"
)

const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.agenda.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.ToggleHabitMsg:
		h, err := m.habits.Toggle(msg.ID, m.day)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s: streak %d", h.Name, h.Streak)
		m.reload()
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.deleteID = msg.ID
		m.deleteName = msg.Name
		m.deleteConfirm = false
		m.form = NewConfirmForm(fmt.Sprintf("Delete %q and its history?", msg.Name), &m.deleteConfirm)
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, m.form.Init()
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateHabits {
				m.state = StateAgenda
			} else {
				m.state = StateHabits
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDay(-1)
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.shiftDay(1)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.day = m.habits.Today()
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateAgenda:
		m.agenda, cmd = m.agenda.Update(msg)
	}
	return m, cmd
}

// updateForm forwards msg to the active form. Esc aborts it.
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.form.State = huh.StateAborted
		return nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		h, err := m.habits.Add(m.habitForm.Name, m.habitForm.Description)
		if err != nil {
			// Stay in the form so the name can be corrected
			m.err = err
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.err = nil
		m.status = fmt.Sprintf("Added %s", h.Name)
		m.state = m.previousState
		m.reload()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		if m.deleteConfirm {
			if err := m.habits.Delete(m.deleteID); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = fmt.Sprintf("Deleted %s", m.deleteName)
				m.reload()
			}
		}
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}
