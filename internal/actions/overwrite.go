package actions

import (
	"context"
	"log/slog"

	"github.com/qepting91/bydit/internal/domain"
)

// Overwrite replaces the text of every item, best effort. A successful edit is
// mirrored into items[i].Content; failures are logged and counted and never stop
// the loop. There is no rollback.
func Overwrite(ctx context.Context, sess domain.Session, items []domain.UnifiedItem, text string, log *slog.Logger) Summary {
	if log == nil {
		log = slog.Default()
	}
	sum := Summary{Action: "overwrite", Targeted: len(items)}

	for i := range items {
		it := &items[i]
		log.Debug("Overwriting item", "id", it.ID, "type", it.Type, "n", i+1, "of", len(items))

		if err := sess.Edit(ctx, it.ID, text); err != nil {
			sum.fail(it.ID, err)
			log.Error("Overwrite failed", "id", it.ID, "type", it.Type, "err", err)
			continue
		}
		it.Content = text
		sum.Succeeded++
		log.Info("Overwrote item", "id", it.ID, "type", it.Type)
	}
	return sum
}
