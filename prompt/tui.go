package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

type (
	// TUI asks for the project name with an interactive text input.
	TUI struct {
		In    io.Reader
		Out   io.Writer
		Label string
		// Hint is shown under the input, e.g. the packages that will be installed.
		Hint string
		// Every message received by the model is dumped to Dump when it is non-nil.
		Dump io.Writer
	}

	nameModel struct {
		dump      io.Writer
		help      help.Model
		label     string
		hint      string
		textInput textinput.Model
		submitted bool
		aborted   bool
	}

	nameKeyMap struct{}
)

var (
	keys = struct {
		submit key.Binding
		quit   key.Binding
	}{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}

	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	hintStyle = lipgloss.NewStyle().Faint(true)
)

func (nameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.submit, keys.quit}
}

func (nameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{keys.submit, keys.quit}}
}

func newNameModel(label, hint string, dump io.Writer) nameModel {
	ti := textinput.New()
	ti.Placeholder = "my-app"
	ti.CharLimit = 214
	ti.Width = 40
	ti.Focus()

	if label == "" {
		label = DefaultLabel
	}

	return nameModel{
		dump:      dump,
		help:      help.New(),
		label:     strings.TrimSpace(label),
		hint:      hint,
		textInput: ti,
	}
}

func (m nameModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m nameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dump != nil {
		spew.Fdump(m.dump, msg)
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.aborted = true

			return m, tea.Quit
		case key.Matches(msg, keys.submit):
			m.submitted = true

			if m.dump != nil {
				spew.Fdump(m.dump, "==> ", m.textInput.Value())
			}

			return m, tea.Quit
		default:
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)

	return m, cmd
}

func (m nameModel) View() string {
	if m.submitted || m.aborted {
		return ""
	}

	var b strings.Builder

	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(nameKeyMap{}))
	b.WriteRune('\n')

	return b.String()
}

func (m nameModel) value() string {
	return strings.TrimSpace(m.textInput.Value())
}

func (p TUI) ProjectName(ctx context.Context) (name string, err error) {
	opts := make([]tea.ProgramOption, 0, 3)
	opts = append(opts, tea.WithContext(ctx))

	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}

	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(newNameModel(p.Label, p.Hint, p.Dump), opts...).Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %w", ErrAborted, ctxErr)
	} else if err != nil {
		return "", fmt.Errorf("failed to run the project name prompt: %w", err)
	}

	m, ok := final.(nameModel)
	if !ok || !m.submitted {
		return "", ErrAborted
	}

	return m.value(), nil
}
