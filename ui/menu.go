package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flood-reports/services"
)

// Action runs one menu entry and returns the text to print.
type Action func(ctx context.Context) (string, error)

// Actions are the two menu entries.
type Actions struct {
	Load     Action
	Generate Action
}

type mode int

const (
	modeChoose mode = iota
	modeBusy
	modeConfirm
)

const (
	choosePrompt  = "Enter choice: "
	confirmPrompt = "Back to Report Selection (Y/N): "
	invalidChoice = "Invalid choice. Please enter 1 or 2."
	noDataMessage = "No data loaded. Please load the file first."
)

type actionDoneMsg struct {
	text    string
	err     error
	confirm bool
}

// Menu is the interactive load/generate loop.
type Menu struct {
	ctx      context.Context
	actions  Actions
	input    textinput.Model
	mode     mode
	quitting bool
	err      error
}

// NewMenu builds a menu ready for choices.
func NewMenu(ctx context.Context, actions Actions) Menu {
	ti := textinput.New()
	ti.Prompt = choosePrompt
	ti.CharLimit = 8
	ti.Focus()
	return Menu{ctx: ctx, actions: actions, input: ti}
}

// Err is the fatal error that ended the menu, if any.
func (m Menu) Err() error {
	return m.err
}

func (m Menu) Init() tea.Cmd {
	return textinput.Blink
}

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case actionDoneMsg:
		return m.finish(msg)
	}

	if m.mode == modeBusy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Menu) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	switch m.mode {
	case modeChoose:
		switch value {
		case "1":
			m.mode = modeBusy
			return m, m.run(m.actions.Load, false)
		case "2":
			m.mode = modeBusy
			return m, m.run(m.actions.Generate, true)
		default:
			return m, tea.Sequence(tea.Println(invalidChoice), tea.Println(""))
		}
	case modeConfirm:
		if strings.EqualFold(value, "Y") {
			m.setMode(modeChoose)
			return m, nil
		}
		m.quitting = true
		return m, tea.Sequence(tea.Println("Goodbye!"), tea.Quit)
	}
	return m, nil
}

func (m Menu) run(action Action, confirm bool) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		text, err := action(ctx)
		return actionDoneMsg{text: text, err: err, confirm: confirm}
	}
}

// errorLine is the text shown for a failed action.
func errorLine(err error) string {
	if errors.Is(err, services.ErrNoData) {
		return "Error: " + noDataMessage
	}
	return "Error: " + err.Error()
}

func (m Menu) finish(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, services.ErrSourceNotFound) {
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	var lines []tea.Cmd
	if msg.text != "" {
		lines = append(lines, tea.Println(msg.text))
	}
	if msg.err != nil {
		lines = append(lines, tea.Println(errorLine(msg.err)), tea.Println(""))
	}

	if msg.confirm {
		m.setMode(modeConfirm)
	} else {
		m.setMode(modeChoose)
	}
	return m, tea.Sequence(lines...)
}

func (m *Menu) setMode(next mode) {
	m.mode = next
	if next == modeConfirm {
		m.input.Prompt = confirmPrompt
	} else {
		m.input.Prompt = choosePrompt
	}
}

func (m Menu) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeBusy:
		return "Working...\n"
	case modeConfirm:
		return m.input.View() + "\n"
	default:
		var b strings.Builder
		b.WriteString("Select an action:\n")
		b.WriteString("[1] Load the file\n")
		b.WriteString("[2] Generate Reports\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		return b.String()
	}
}

// RunMenu drives the menu on the terminal until the user leaves it.
func RunMenu(ctx context.Context, actions Actions, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	result, err := tea.NewProgram(NewMenu(ctx, actions), opts...).Run()
	if err != nil {
		return err
	}
	if final, ok := result.(Menu); ok {
		return final.Err()
	}
	return nil
}
