package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickCancelled is returned when the user leaves the picker without
// choosing.
var ErrPickCancelled = errors.New("selection cancelled")

// Choice is one row of the picker.
type Choice struct {
	Label  string
	Detail string
	Active bool
}

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Quit   key.Binding
}

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// PickerModel is a bubbletea model that lets the user choose one installed
// version.
type PickerModel struct {
	title    string
	choices  []Choice
	cursor   int
	chosen   int
	quitting bool
	keys     pickerKeys
	styler   Styler
}

// NewPickerModel starts with the cursor on the active choice, if any.
func NewPickerModel(title string, choices []Choice, color bool) PickerModel {
	m := PickerModel{
		title:   title,
		choices: choices,
		chosen:  -1,
		keys:    defaultPickerKeys,
		styler:  Styler{Color: color},
	}
	for i, c := range choices {
		if c.Active {
			m.cursor = i
			break
		}
	}
	return m
}

// Init satisfies the tea.Model interface.
func (m PickerModel) Init() tea.Cmd { return nil }

// Update satisfies the tea.Model interface.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Choose):
		if len(m.choices) > 0 {
			m.chosen = m.cursor
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styler.Render(HeaderStyle, m.title))
	b.WriteString("\n\n")
	for i, c := range m.choices {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		label := c.Label
		if c.Active {
			label = m.styler.Render(ActiveStyle, label+" *")
		}
		line := marker + label
		if c.Detail != "" {
			line += "  " + m.styler.Render(DimStyle, c.Detail)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n%s\n", m.styler.Render(DimStyle, m.help()))
	return b.String()
}

func (m PickerModel) help() string {
	var parts []string
	for _, k := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Choose, m.keys.Quit} {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Chosen returns the index picked by the user, or -1.
func (m PickerModel) Chosen() int { return m.chosen }

// Pick runs the picker on in/out and returns the chosen index.
func Pick(in io.Reader, out io.Writer, title string, choices []Choice, color bool) (int, error) {
	if len(choices) == 0 {
		return -1, errors.New("nothing to choose from")
	}
	p := tea.NewProgram(NewPickerModel(title, choices, color), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return -1, err
	}
	m, ok := final.(PickerModel)
	if !ok || m.Chosen() < 0 {
		return -1, ErrPickCancelled
	}
	return m.Chosen(), nil
}
