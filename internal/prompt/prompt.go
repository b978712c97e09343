// Package prompt asks the user which CSV file to plot and how.
//
// Terminals get a small bubbletea form; anything else (pipes, files) is read
// line by line.
package prompt

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"berkotech.co/plotgrid/internal/grid"
)

// ErrCanceled is returned when the user backs out of a prompt.
var ErrCanceled = errors.New("prompt canceled")

// Request is one answered prompt.
type Request struct {
	Path   string
	Name   string
	Paired bool
	Style  grid.Style
}

// Prompter collects a Request.
type Prompter interface {
	Ask(ctx context.Context) (Request, error)
}

// Questions, in the order they are asked.
const (
	askPath   = "Select CSV file"
	askName   = "Enter a title for the plot"
	askPaired = "Is this paired data?"
	askStyle  = "Choose plot type"
)

var (
	pairedChoices = []string{"Yes", "No"}
	styleChoices  = []string{"Straight Line", "Scatter"}
)

// New returns a form prompter when in and out are terminals, and a line
// prompter otherwise.
func New(in io.Reader, out io.Writer) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return &Form{in: in, out: out}
	}
	return NewLine(in, out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
