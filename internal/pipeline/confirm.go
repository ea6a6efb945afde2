package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

var (
	AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	NeverConfirm  = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
)

type readerConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReaderConfirmer asks on out and accepts "y" or "yes" read from in.
// Anything else, including EOF, declines.
func NewReaderConfirmer(in io.Reader, out io.Writer) Confirmer {
	return &readerConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *readerConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(c.out, "%s (y/N): ", prompt); err != nil {
		return false, fmt.Errorf("%w: %v", ErrConfirmation, err)
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %v", ErrConfirmation, ctx.Err())
	case a := <-ch:
		if a.err != nil && a.err != io.EOF {
			return false, fmt.Errorf("%w: %v", ErrConfirmation, a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// NewTerminalConfirmer prompts on stdin/stdout when stdin is a terminal and
// declines otherwise, so unattended runs never block.
func NewTerminalConfirmer() Confirmer {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NeverConfirm
	}
	return NewReaderConfirmer(os.Stdin, os.Stdout)
}
