// Package prompt reads answers to interactive questions, one line each.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxAttempts bounds how often Ask re-prompts after invalid input.
const DefaultMaxAttempts = 5

// ErrTooManyAttempts is returned when every attempt was rejected.
var ErrTooManyAttempts = errors.New("too many invalid answers")

// Prompter writes questions to Out and reads answers from In. Once its
// context is done every call fails with the context's error.
type Prompter struct {
	ctx         context.Context
	in          *bufio.Reader
	out         io.Writer
	MaxAttempts int
}

// New returns a Prompter reading from in and writing to out. Reads are
// abandoned when ctx is done.
func New(ctx context.Context, in io.Reader, out io.Writer) *Prompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Prompter{ctx: ctx, in: br, out: out, MaxAttempts: DefaultMaxAttempts}
}

type readResult struct {
	line string
	err  error
}

// Line prints label and returns the next input line with surrounding space
// trimmed. Input that ends before any answer is io.ErrUnexpectedEOF.
func (p *Prompter) Line(label string) (string, error) {
	if err := p.ctx.Err(); err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	fmt.Fprint(p.out, label)

	// The read cannot be interrupted, so it runs on its own goroutine and is
	// left behind if ctx ends first.
	ch := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	var r readResult
	select {
	case <-p.ctx.Done():
		fmt.Fprintln(p.out)
		return "", fmt.Errorf("reading answer to %q: %w", strings.TrimSpace(label), p.ctx.Err())
	case r = <-ch:
	}

	line, err := r.line, r.err
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				fmt.Fprintln(p.out)
				return "", fmt.Errorf("reading answer to %q: %w", strings.TrimSpace(label), io.ErrUnexpectedEOF)
			}
		} else {
			return "", fmt.Errorf("reading answer: %w", err)
		}
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts until parse accepts the answer. Each rejection is reported on
// Out before asking again.
func Ask[T any](p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		answer, err := p.Line(label)
		if err != nil {
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}
	return zero, fmt.Errorf("%s: %w", strings.TrimSpace(label), ErrTooManyAttempts)
}

// Required asks until the answer is non-empty.
func (p *Prompter) Required(label string) (string, error) {
	return Ask(p, label, func(s string) (string, error) {
		if s == "" {
			return "", errors.New("a value is required")
		}
		return s, nil
	})
}

// Optional asks once and returns nil for a blank answer.
func (p *Prompter) Optional(label string) (*string, error) {
	answer, err := p.Line(label)
	if err != nil || answer == "" {
		return nil, err
	}
	return &answer, nil
}
