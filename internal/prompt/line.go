package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"berkotech.co/plotgrid/internal/grid"
)

// Line reads answers one line at a time.
type Line struct {
	r   *bufio.Reader
	out io.Writer
}

// NewLine returns a line prompter reading from in and writing questions to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{r: bufio.NewReader(in), out: out}
}

// Ask asks for the file, the title, the pairing and the style. Empty answers
// to the choice questions take the first option. End of input cancels.
func (l *Line) Ask(ctx context.Context) (Request, error) {
	var req Request
	var err error

	if req.Path, err = l.text(ctx, askPath); err != nil {
		return Request{}, err
	}
	if req.Name, err = l.text(ctx, askName); err != nil {
		return Request{}, err
	}

	paired, err := l.choice(ctx, askPaired, pairedChoices)
	if err != nil {
		return Request{}, err
	}
	req.Paired = paired == 0

	style, err := l.choice(ctx, askStyle, styleChoices)
	if err != nil {
		return Request{}, err
	}
	req.Style = grid.Style(style)
	return req, nil
}

// text asks until a non-empty answer is given.
func (l *Line) text(ctx context.Context, question string) (string, error) {
	for {
		fmt.Fprintf(l.out, "%s: ", question)
		s, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}
}

// choice asks until the answer matches an option by number, name or first
// letter, and returns the option's index.
func (l *Line) choice(ctx context.Context, question string, options []string) (int, error) {
	for {
		fmt.Fprintf(l.out, "%s [%s]: ", question, strings.Join(options, "/"))
		s, err := l.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if i, ok := matchChoice(s, options); ok {
			return i, nil
		}
		fmt.Fprintf(l.out, "please answer one of %s\n", strings.Join(options, ", "))
	}
}

func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := l.r.ReadString('\n')
	if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrCanceled
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func matchChoice(s string, options []string) (int, bool) {
	if s == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(options) {
		return n - 1, true
	}
	match, n := 0, 0
	for i, o := range options {
		fields := strings.Fields(o)
		if strings.EqualFold(s, o) || strings.EqualFold(s, fields[len(fields)-1]) {
			return i, true
		}
		if strings.EqualFold(s, o[:1]) {
			match, n = i, n+1
		}
	}
	// A first letter only counts when it is unambiguous.
	return match, n == 1
}
