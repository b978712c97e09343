package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berkotech.co/plotgrid/internal/grid"
)

func TestLine_Ask(t *testing.T) {
	in := strings.NewReader("data/temp.csv\n\nTemperature\nno\nscatter\n")
	var out bytes.Buffer

	req, err := NewLine(in, &out).Ask(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Request{
		Path:   "data/temp.csv",
		Name:   "Temperature",
		Paired: false,
		Style:  grid.Scatter,
	}, req)

	assert.Equal(t, 2, strings.Count(out.String(), askName), "empty title is asked again")
	assert.Contains(t, out.String(), askPaired+" [Yes/No]")
}

func TestLine_Defaults(t *testing.T) {
	in := strings.NewReader("a.csv\nA\n\n\n")
	req, err := NewLine(in, &bytes.Buffer{}).Ask(context.Background())
	require.NoError(t, err)
	assert.True(t, req.Paired)
	assert.Equal(t, grid.Line, req.Style)
}

func TestLine_InvalidChoiceReasked(t *testing.T) {
	in := strings.NewReader("a.csv\nA\nmaybe\n2\nbar\ns\n1\n")
	var out bytes.Buffer
	req, err := NewLine(in, &out).Ask(context.Background())
	require.NoError(t, err)
	assert.False(t, req.Paired)
	assert.Equal(t, grid.Line, req.Style, "ambiguous 's' is re-asked, then 1 picks Straight Line")
	assert.Equal(t, 3, strings.Count(out.String(), "please answer"))
}

func TestLine_EOFCancels(t *testing.T) {
	_, err := NewLine(strings.NewReader("a.csv\n"), &bytes.Buffer{}).Ask(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)

	_, err = NewLine(strings.NewReader(""), &bytes.Buffer{}).Ask(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestLine_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLine(strings.NewReader("a.csv\n"), &bytes.Buffer{}).Ask(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchChoice(t *testing.T) {
	tests := []struct {
		in   string
		opts []string
		want int
		ok   bool
	}{
		{"", pairedChoices, 0, true},
		{"y", pairedChoices, 0, true},
		{"NO", pairedChoices, 1, true},
		{"2", styleChoices, 1, true},
		{"line", styleChoices, 0, true},
		{"straight line", styleChoices, 0, true},
		{"Scatter", styleChoices, 1, true},
		{"s", styleChoices, 0, false},
		{"3", styleChoices, 0, false},
	}
	for _, tt := range tests {
		got, ok := matchChoice(tt.in, tt.opts)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestNew_NonTerminal(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	assert.IsType(t, &Line{}, p)
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		if r == ' ' {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m tea.Model, k tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func TestFormModel(t *testing.T) {
	var m tea.Model = newFormModel()

	m = typeText(m, "b.csvx")
	m, _ = press(m, tea.KeyBackspace)
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, stepName, m.(formModel).step)

	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, "a value is required", m.(formModel).err)
	assert.Contains(t, m.View(), "a value is required")

	m = typeText(m, "Wind speed")
	m, _ = press(m, tea.KeyEnter)
	assert.Contains(t, m.View(), askPaired)

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyEnter)

	m, _ = press(m, tea.KeyDown)
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	fm := m.(formModel)
	assert.Equal(t, stepDone, fm.step)
	assert.False(t, fm.canceled)
	assert.Equal(t, Request{Path: "b.csv", Name: "Wind speed", Paired: false, Style: grid.Scatter}, fm.request())
	assert.Empty(t, m.View())
}

func TestFormModel_ChoiceWraps(t *testing.T) {
	var m tea.Model = formModel{step: stepStyle}
	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, 1, m.(formModel).cursor)
	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, 0, m.(formModel).cursor)
}

func TestFormModel_Cancel(t *testing.T) {
	var m tea.Model = newFormModel()
	m = typeText(m, "a.csv")
	m, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.True(t, m.(formModel).canceled)
}
