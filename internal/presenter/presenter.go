package presenter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// DefaultAction is the single action offered when none are given.
const DefaultAction = "OK"

// Presenter shows a modal alert and returns the index of the chosen action.
type Presenter interface {
	Alert(ctx context.Context, message string, actions ...string) (int, error)
}

// errInvalidChoice is returned when the input is not one of the offered actions.
var errInvalidChoice = errors.New("invalid choice")

// Console presents alerts on a text stream.
type Console struct {
	out io.Writer
	in  *bufio.Reader
	mu  sync.Mutex
}

var _ Presenter = (*Console)(nil)

// NewConsole creates a Console writing to out and reading choices from in.
func NewConsole(out io.Writer, in io.Reader) *Console {
	return &Console{
		out: out,
		in:  bufio.NewReader(in),
	}
}

// Alert prints message and the actions. With a single action it returns 0
// without waiting for input; otherwise it reads a 1-based choice.
func (c *Console) Alert(ctx context.Context, message string, actions ...string) (int, error) {
	if len(actions) == 0 {
		actions = []string{DefaultAction}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.out, message); err != nil {
		return 0, err
	}

	if len(actions) == 1 {
		return 0, nil
	}

	for i, action := range actions {
		if _, err := fmt.Fprintf(c.out, "  %d) %s\n", i+1, action); err != nil {
			return 0, err
		}
	}

	if _, err := fmt.Fprint(c.out, "> "); err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return 0, fmt.Errorf("read choice: %w", err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > len(actions) {
		return 0, fmt.Errorf("%q: %w", strings.TrimSpace(line), errInvalidChoice)
	}

	return choice - 1, nil
}
