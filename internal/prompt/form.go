package prompt

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"berkotech.co/plotgrid/internal/grid"
)

var (
	colorCyan = lipgloss.Color("36")
	colorRed  = lipgloss.Color("167")
	colorDim  = lipgloss.Color("240")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleQuestion = lipgloss.NewStyle().Bold(true)
	styleAnswer   = lipgloss.NewStyle().Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
)

// Form asks the questions in a bubbletea program.
type Form struct {
	in  io.Reader
	out io.Writer
}

// Ask runs the form until every question is answered or the user cancels.
func (f *Form) Ask(ctx context.Context) (Request, error) {
	p := tea.NewProgram(newFormModel(),
		tea.WithContext(ctx),
		tea.WithInput(f.in),
		tea.WithOutput(f.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return Request{}, ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return Request{}, ErrCanceled
		}
		return Request{}, err
	}

	m := final.(formModel)
	if m.canceled {
		return Request{}, ErrCanceled
	}
	return m.request(), nil
}

type step int

const (
	stepPath step = iota
	stepName
	stepPaired
	stepStyle
	stepDone
)

type formModel struct {
	step     step
	input    []rune
	cursor   int
	answers  [stepDone]string
	choices  [stepDone]int
	err      string
	canceled bool
}

func newFormModel() formModel { return formModel{} }

func (m formModel) Init() tea.Cmd { return nil }

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit
	}

	if opts := m.options(); opts != nil {
		return m.updateChoice(key, opts)
	}
	return m.updateText(key)
}

func (m formModel) updateText(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		v := strings.TrimSpace(string(m.input))
		if v == "" {
			m.err = "a value is required"
			return m, nil
		}
		m.answers[m.step] = v
		return m.next()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
	m.err = ""
	return m, nil
}

func (m formModel) updateChoice(key tea.KeyMsg, opts []string) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "left", "k", "shift+tab":
		m.cursor = (m.cursor + len(opts) - 1) % len(opts)
	case "down", "right", "j", "tab":
		m.cursor = (m.cursor + 1) % len(opts)
	case "enter":
		m.choices[m.step] = m.cursor
		m.answers[m.step] = opts[m.cursor]
		return m.next()
	}
	return m, nil
}

func (m formModel) next() (tea.Model, tea.Cmd) {
	m.step++
	m.input = nil
	m.cursor = 0
	m.err = ""
	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m formModel) options() []string {
	switch m.step {
	case stepPaired:
		return pairedChoices
	case stepStyle:
		return styleChoices
	}
	return nil
}

func (m formModel) request() Request {
	return Request{
		Path:   m.answers[stepPath],
		Name:   m.answers[stepName],
		Paired: m.choices[stepPaired] == 0,
		Style:  grid.Style(m.choices[stepStyle]),
	}
}

var questions = [stepDone]string{askPath, askName, askPaired, askStyle}

func (m formModel) View() string {
	if m.step == stepDone || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Add plot"))
	b.WriteString("\n\n")

	for s := stepPath; s < m.step; s++ {
		b.WriteString(styleDim.Render(questions[s]+": ") + styleAnswer.Render(m.answers[s]) + "\n")
	}

	b.WriteString(styleQuestion.Render(questions[m.step]) + "\n")
	if opts := m.options(); opts != nil {
		for i, o := range opts {
			if i == m.cursor {
				b.WriteString(styleSelected.Render("▸ "+o) + "\n")
			} else {
				b.WriteString("  " + o + "\n")
			}
		}
	} else {
		b.WriteString("> " + string(m.input) + "█\n")
	}

	if m.err != "" {
		b.WriteString(styleError.Render(m.err) + "\n")
	}
	b.WriteString("\n" + styleDim.Render("⏎ confirm  esc cancel"))
	return b.String()
}
