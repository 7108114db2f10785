package actions

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of one confirmation answer
type Decision int

const (
	Skip Decision = iota
	Proceed
	Abort
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Abort:
		return "abort"
	}
	return "skip"
}

// DecideBatch applies the whole-batch rule: only an exact "yes", in any case,
// proceeds. Everything else aborts, including "y".
func DecideBatch(line string) Decision {
	if strings.EqualFold(strings.TrimSpace(line), "yes") {
		return Proceed
	}
	return Abort
}

// Decide interprets a per-item answer: y/yes proceeds, a/abort/q/quit aborts
// the rest of the batch, anything else skips this item.
func Decide(line string) Decision {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return Proceed
	case "a", "abort", "q", "quit":
		return Abort
	}
	return Skip
}

// ConfirmationError is a failure to read the operator's answer.
type ConfirmationError struct {
	Err error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("read confirmation: %v", e.Err)
}

func (e *ConfirmationError) Unwrap() error { return e.Err }

// Prompter writes questions to Out and reads one answer line per question from In.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask returns the trimmed answer. EOF after a partial line is accepted; EOF with
// no input reads as an empty answer.
func (p *Prompter) Ask(question string) (string, error) {
	if question != "" {
		if _, err := fmt.Fprint(p.out, question); err != nil {
			return "", &ConfirmationError{Err: err}
		}
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", &ConfirmationError{Err: err}
	}
	return strings.TrimSpace(line), nil
}
