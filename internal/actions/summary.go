package actions

import (
	"fmt"
	"io"
)

// ActionError is one item's failed mutation. It is recorded, never returned.
type ActionError struct {
	Action string
	ID     string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.ID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Summary accounts for one batch
type Summary struct {
	Action    string
	Targeted  int
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []*ActionError
}

func (s *Summary) fail(id string, err error) {
	s.Failed++
	s.Failures = append(s.Failures, &ActionError{Action: s.Action, ID: id, Err: err})
}

func (s Summary) String() string {
	out := fmt.Sprintf("%s: %d succeeded / %d failed", s.Action, s.Succeeded, s.Failed)
	if s.Skipped > 0 {
		out += fmt.Sprintf(" / %d skipped", s.Skipped)
	}
	return out
}

// Print writes the end-of-batch report.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\n--- %s summary ---\n", s.Action)
	fmt.Fprintf(w, "  Targeted:  %d\n", s.Targeted)
	fmt.Fprintf(w, "  Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(w, "  Failed:    %d\n", s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped:   %d\n", s.Skipped)
	}
}
