package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoapp/internal/core/model/response"
	"todoapp/internal/optimistic"
)

const refreshInterval = 5 * time.Second

type storeEventMsg optimistic.Event

type refreshTickMsg struct{}

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeEdit
)

// Model drives the interactive list. All state lives in the store; the
// model only holds the cursor, the input widget and the last error line.
type Model struct {
	store  *optimistic.Store
	cursor int
	mode   inputMode
	editID string
	input  textinput.Model
	errMsg string
	width  int
	height int
}

func NewModel(store *optimistic.Store) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "New todo..."
	input.CharLimit = 500

	return Model{
		store: store,
		input: input,
	}
}

// Run starts the program and blocks until the user quits.
func Run(store *optimistic.Store) error {
	p := tea.NewProgram(NewModel(store), tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), refreshTick())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.store.Events()

		if !ok {
			return nil
		}

		return storeEventMsg(event)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeEventMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}

		m.clampCursor()

		return m, m.waitForEvent()

	case refreshTickMsg:
		ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)

		go func() {
			defer cancel()
			_ = m.store.Refresh(ctx)
		}()

		return m, refreshTick()

	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInput(msg)
		}

		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.store.Visible()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}

	case " ":
		if todo, ok := m.selected(visible); ok {
			m.store.Toggle(todo.ID)
		}

	case "d":
		if todo, ok := m.selected(visible); ok {
			m.store.Delete(todo.ID)
			m.clampCursor()
		}

	case "a":
		m.mode = modeAdd
		m.errMsg = ""
		m.input.SetValue("")
		m.input.Placeholder = "New todo..."
		m.input.Focus()

	case "e":
		if todo, ok := m.selected(visible); ok {
			m.mode = modeEdit
			m.errMsg = ""
			m.editID = todo.ID
			m.input.SetValue(todo.Text)
			m.input.CursorEnd()
			m.input.Placeholder = "Edit todo..."
			m.input.Focus()
		}

	case "r":
		ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)

		go func() {
			defer cancel()
			_ = m.store.Refresh(ctx)
		}()
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())

		switch m.mode {
		case modeAdd:
			if _, err := m.store.Add(text); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}

		case modeEdit:
			if _, err := m.store.SetText(m.editID, text); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
		}

		m.leaveInput()

		return m, nil

	case "esc":
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// selected returns the todo under the cursor. Rows still waiting on their
// create cannot be edited yet; selecting one reports not-ok and explains
// itself on the error line.
func (m *Model) selected(visible []response.TodoResponse) (response.TodoResponse, bool) {
	if m.cursor >= len(visible) {
		return response.TodoResponse{}, false
	}

	todo := visible[m.cursor]

	if optimistic.IsTempID(todo.ID) {
		m.errMsg = "still saving, hang on..."
		return response.TodoResponse{}, false
	}

	return todo, true
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) clampCursor() {
	if n := len(m.store.Visible()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	visible := m.store.Visible()
	stats := m.store.Stats()

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), stats.Completed,
		pendingStyle.Render("•"), stats.Remaining,
		accentStyle.Render("Total"), stats.Total,
	))

	if pending := m.store.Pending(); pending > 0 {
		b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("syncing %d...", pending)))
	}

	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("Nothing to do. Press a to add.") + "\n")
	}

	for i, todo := range visible {
		box := mutedStyle.Render(boxUnchecked)
		text := todo.Text

		if todo.Completed {
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}

		if optimistic.IsTempID(todo.ID) {
			text += " " + mutedStyle.Render("(saving...)")
		}

		prefix := "  "

		if i == m.cursor && m.mode == modeList {
			prefix = selectedStyle.Render("> ")
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, box, text))
	}

	if m.mode != modeList {
		label := "Add todo"

		if m.mode == modeEdit {
			label = "Edit todo"
		}

		b.WriteString("\n" + label + "\n" + m.input.View() + "\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("a add • e edit • space toggle • d delete • r refresh • q quit"))

	return panelStyle.Render(b.String())
}
