package actions

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/bydit/internal/collector"
	"github.com/qepting91/bydit/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoItems() []domain.UnifiedItem {
	return []domain.UnifiedItem{
		{ID: "t3_a", Type: domain.ItemPost, Title: "A", Content: "original a"},
		{ID: "t1_b", Type: domain.ItemComment, Title: "B", Content: "original b"},
	}
}

func TestDecideBatch(t *testing.T) {
	for in, want := range map[string]Decision{
		"yes":    Proceed,
		"YES":    Proceed,
		" Yes\n": Proceed,
		"y":      Abort,
		"no":     Abort,
		"":       Abort,
		"yes!":   Abort,
	} {
		assert.Equal(t, want, DecideBatch(in), "input %q", in)
	}
}

func TestDecide(t *testing.T) {
	for in, want := range map[string]Decision{
		"y":     Proceed,
		"Yes":   Proceed,
		"n":     Skip,
		"":      Skip,
		"maybe": Skip,
		"a":     Abort,
		"QUIT":  Abort,
	} {
		assert.Equal(t, want, Decide(in), "input %q", in)
	}
}

func TestOverwritePartialFailure(t *testing.T) {
	mc := &collector.MockClient{EditErrors: map[string]error{"t1_b": errors.New("403 forbidden")}}
	items := twoItems()

	sum := Overwrite(context.Background(), mc, items, "[removed]", quietLogger())

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, "[removed]", items[0].Content)
	assert.Equal(t, "original b", items[1].Content)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "t1_b", sum.Failures[0].ID)
	assert.Equal(t, "overwrite t1_b: 403 forbidden", sum.Failures[0].Error())
	assert.Equal(t, []collector.EditCall{{ID: "t3_a", Text: "[removed]"}, {ID: "t1_b", Text: "[removed]"}}, mc.Edits)
	assert.Equal(t, "overwrite: 1 succeeded / 1 failed", sum.String())
}

func TestDeleteEmptyInputDoesNotPrompt(t *testing.T) {
	var out bytes.Buffer
	sum, err := Delete(context.Background(), &collector.MockClient{}, nil, DeleteOptions{
		In:     strings.NewReader("yes\n"),
		Out:    &out,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Zero(t, sum.Succeeded)
	assert.Empty(t, out.String())
}

func TestDeleteDeclined(t *testing.T) {
	mc := &collector.MockClient{}
	var out bytes.Buffer
	sum, err := Delete(context.Background(), mc, twoItems(), DeleteOptions{
		In:     strings.NewReader("no\n"),
		Out:    &out,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Zero(t, sum.Succeeded)
	assert.Empty(t, mc.Deletes)
	assert.Contains(t, out.String(), "Are you sure you want to delete these 2 items?")
	assert.Contains(t, out.String(), "Deletion aborted by user.")
}

func TestDeleteConfirmedContinuesPastFailures(t *testing.T) {
	mc := &collector.MockClient{DeleteErrors: map[string]error{"t3_a": errors.New("500 internal")}}
	sum, err := Delete(context.Background(), mc, twoItems(), DeleteOptions{
		In:     strings.NewReader("YES"),
		Out:    io.Discard,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3_a", "t1_b"}, mc.Deletes)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
}

func TestDeleteSkipConfirmation(t *testing.T) {
	mc := &collector.MockClient{}
	sum, err := Delete(context.Background(), mc, twoItems(), DeleteOptions{SkipConfirmation: true, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Len(t, mc.Deletes, 2)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestDeleteConfirmationReadError(t *testing.T) {
	mc := &collector.MockClient{}
	_, err := Delete(context.Background(), mc, twoItems(), DeleteOptions{In: failingReader{}, Logger: quietLogger()})
	var cerr *ConfirmationError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, err.Error(), "tty closed")
	assert.Empty(t, mc.Deletes)
}

func TestDeleteConfirmEach(t *testing.T) {
	items := append(twoItems(),
		domain.UnifiedItem{ID: "t1_c", Type: domain.ItemComment},
		domain.UnifiedItem{ID: "t1_d", Type: domain.ItemComment},
	)
	mc := &collector.MockClient{}
	var out bytes.Buffer
	sum, err := Delete(context.Background(), mc, items, DeleteOptions{
		ConfirmEach: true,
		In:          strings.NewReader("y\nn\na\n"),
		Out:         &out,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3_a"}, mc.Deletes)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 3, sum.Skipped)
	assert.Equal(t, 3, strings.Count(out.String(), "[y]es/[n]o/[a]bort"))
}

func TestPrompterAcceptsPartialLineAtEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("  yes"), io.Discard)
	got, err := p.Ask("? ")
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestSummaryPrint(t *testing.T) {
	var buf bytes.Buffer
	Summary{Action: "delete", Targeted: 3, Succeeded: 2, Failed: 1}.Print(&buf)
	assert.Contains(t, buf.String(), "--- delete summary ---")
	assert.Contains(t, buf.String(), "Succeeded: 2")
	assert.NotContains(t, buf.String(), "Skipped")
}

func TestDeleteLogsConfirmationDecisions(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mc := &collector.MockClient{}

	_, err := Delete(context.Background(), mc, twoItems(), DeleteOptions{
		ConfirmEach: true,
		In:          strings.NewReader("n\nq\n"),
		Out:         io.Discard,
		Logger:      log,
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "id=t3_a decision=skip")
	assert.Contains(t, logs.String(), "id=t1_b decision=abort")

	logs.Reset()
	_, err = Delete(context.Background(), mc, twoItems(), DeleteOptions{In: strings.NewReader("yes\n"), Out: io.Discard, Logger: log})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "decision=proceed")
}
