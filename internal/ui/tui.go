// Package ui provides the interactive terminal view of the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	editStyle   = lipgloss.NewStyle().Underline(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Run starts the TUI on the terminal until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *view.Controller) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("ui requires a TTY")
	}
	program := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// outcomeMsg delivers a finished store request back to Update.
type outcomeMsg view.Outcome

// Model is the bubbletea model wrapping a view.Controller. Requests run as
// commands off the update goroutine; their outcomes are applied in the
// order they arrive.
type Model struct {
	ctx     context.Context
	ctrl    *view.Controller
	cursor  int
	adding  bool
	pending int
	status  string
}

// New creates the model. The first Init loads the list.
func New(ctx context.Context, ctrl *view.Controller) *Model {
	return &Model{ctx: ctx, ctrl: ctrl}
}

func (m *Model) Init() tea.Cmd {
	return m.run(m.ctrl.PrepareLoad())
}

// run wraps a request as a command.
func (m *Model) run(req view.Request) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg(req(ctx))
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		m.pending--
		if err := m.ctrl.Apply(view.Outcome(msg)); err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.Op, err)
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.ctrl.EditingID() != "":
			return m.updateEditing(msg)
		case m.adding:
			return m.updateAdding(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ctrl.Tasks())-1 {
			m.cursor++
		}
	case "a":
		m.adding = true
		m.status = ""
	case "r":
		return m, m.run(m.ctrl.PrepareLoad())
	case " ", "x":
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		req, err := m.ctrl.PrepareToggle(id)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.run(req)
	case "e":
		if id, ok := m.selectedID(); ok {
			_ = m.ctrl.BeginEdit(id)
			m.status = ""
		}
	case "d":
		if id, ok := m.selectedID(); ok {
			return m, m.run(m.ctrl.PrepareDelete(id))
		}
	}
	return m, nil
}

func (m *Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
	case tea.KeyEnter:
		req, err := m.ctrl.PrepareAdd()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.run(req)
	default:
		m.ctrl.SetInput(editText(m.ctrl.Input(), msg))
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.CancelEdit()
	case tea.KeyEnter:
		req, err := m.ctrl.PrepareSaveEdit()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.run(req)
	default:
		m.ctrl.SetEditBuffer(editText(m.ctrl.EditBuffer(), msg))
	}
	return m, nil
}

// editText applies a typing key to s.
func editText(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return s + string(msg.Runes)
	case tea.KeySpace:
		return s + " "
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(r[:len(r)-1])
	case tea.KeyCtrlU:
		return ""
	}
	return s
}

func (m *Model) selectedID() (string, bool) {
	tasks := m.ctrl.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return "", false
	}
	return tasks[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	if m.pending > 0 {
		b.WriteString(helpStyle.Render(" (working...)"))
	}
	b.WriteString("\n\n")

	tasks := m.ctrl.Tasks()
	if len(tasks) == 0 {
		b.WriteString(helpStyle.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		marker := "  "
		if i == m.cursor && !m.adding {
			marker = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}

		var text string
		switch {
		case t.ID == m.ctrl.EditingID():
			text = editStyle.Render(m.ctrl.EditBuffer() + "_")
		case t.Completed:
			text = doneStyle.Render(t.Text)
		default:
			text = t.Text
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, box, text)
	}

	b.WriteString("\n")
	if m.adding {
		fmt.Fprintf(&b, "add: %s_\n", m.ctrl.Input())
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) helpLine() string {
	switch {
	case m.ctrl.EditingID() != "":
		return "enter save • esc cancel"
	case m.adding:
		return "enter add • esc done"
	default:
		return "↑/↓ move • space toggle • e edit • d delete • a add • r reload • q quit"
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
