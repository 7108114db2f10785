package actions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/qepting91/bydit/internal/domain"
)

// DeleteOptions control confirmation. Without SkipConfirmation one question
// covers the whole batch; ConfirmEach asks per item instead.
type DeleteOptions struct {
	SkipConfirmation bool
	ConfirmEach      bool
	In               io.Reader
	Out              io.Writer
	Logger           *slog.Logger
}

// Delete removes the items one at a time and returns how many were deleted.
// Only a failure to read the confirmation is returned as an error; per-item
// failures land in the Summary.
func Delete(ctx context.Context, sess domain.Session, items []domain.UnifiedItem, opts DeleteOptions) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	sum := Summary{Action: "delete", Targeted: len(items)}
	if len(items) == 0 {
		log.Debug("No items to delete")
		return sum, nil
	}

	var prompt *Prompter
	if !opts.SkipConfirmation {
		in := opts.In
		if in == nil {
			in = strings.NewReader("")
		}
		prompt = NewPrompter(in, out)
	}

	fmt.Fprintf(out, "Preparing to delete %d items.\n", len(items))
	if prompt != nil && !opts.ConfirmEach {
		answer, err := prompt.Ask(fmt.Sprintf("Are you sure you want to delete these %d items? (yes/No): ", len(items)))
		if err != nil {
			return sum, err
		}
		d := DecideBatch(answer)
		log.Debug("Batch confirmation", "answer", answer, "decision", d.String())
		if d != Proceed {
			fmt.Fprintln(out, "Deletion aborted by user.")
			sum.Skipped = len(items)
			return sum, nil
		}
	}

	for i, it := range items {
		if prompt != nil && opts.ConfirmEach {
			answer, err := prompt.Ask(fmt.Sprintf("Delete %s %s in r/%s %q? [y]es/[n]o/[a]bort: ",
				it.Type, it.ID, it.Subreddit, preview(it)))
			if err != nil {
				return sum, err
			}
			d := Decide(answer)
			log.Debug("Item confirmation", "id", it.ID, "decision", d.String())
			switch d {
			case Skip:
				sum.Skipped++
				continue
			case Abort:
				sum.Skipped += len(items) - i
				fmt.Fprintln(out, "Deletion aborted by user.")
				return sum, nil
			}
		}

		log.Debug("Deleting item", "id", it.ID, "n", i+1, "of", len(items))
		if err := sess.Delete(ctx, it.ID); err != nil {
			sum.fail(it.ID, err)
			log.Error("Delete failed", "id", it.ID, "type", it.Type, "err", err)
			continue
		}
		sum.Succeeded++
		log.Debug("Deleted item", "id", it.ID)
	}
	return sum, nil
}

func preview(it domain.UnifiedItem) string {
	s := it.Content
	if it.Type == domain.ItemPost {
		s = it.Title
	}
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:59]) + "…"
	}
	return s
}
