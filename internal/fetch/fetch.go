package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/qepting91/bydit/internal/domain"
	"github.com/qepting91/bydit/internal/filter"
)

// PageSize is the listing limit requested per page.
const PageSize = 100

// RetrievalError aborts one source's collection.
type RetrievalError struct {
	Source string
	Page   int
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("fetch %s page %d: %v", e.Source, e.Page, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Options tune a retrieval run. The zero value fetches both sources without a page cap.
type Options struct {
	Selection domain.Selection
	Criteria  filter.Criteria
	// MaxPages stops a source after this many pages; 0 means unbounded.
	MaxPages int
	Logger   *slog.Logger
}

// Items collects, normalizes and filters the account's posts and comments and
// returns them newest first.
//
// Posts are collected before comments. When comments fail, the returned slice
// still holds the filtered posts alongside the *RetrievalError.
func Items(ctx context.Context, sess domain.Session, opts Options) ([]domain.UnifiedItem, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var items []domain.UnifiedItem

	if opts.Selection.Posts() {
		log.Debug("Fetching posts", "user", sess.Username())
		raw, err := paginate(ctx, "posts", opts.MaxPages, log, func(ctx context.Context, after string) ([]domain.RawPost, string, error) {
			page, err := sess.SubmittedPosts(ctx, domain.PageOptions{Limit: PageSize, After: after})
			return page.Items, page.After, err
		})
		if err != nil {
			return nil, err
		}
		normalized := make([]domain.UnifiedItem, 0, len(raw))
		for _, p := range raw {
			normalized = append(normalized, normalizePost(p))
		}
		matched := opts.Criteria.Apply(normalized)
		items = append(items, matched...)
		log.Debug("Collected posts", "fetched", len(raw), "matched", len(matched))
	}

	if opts.Selection.Comments() {
		log.Debug("Fetching comments", "user", sess.Username())
		raw, err := paginate(ctx, "comments", opts.MaxPages, log, func(ctx context.Context, after string) ([]domain.RawComment, string, error) {
			page, err := sess.Comments(ctx, domain.PageOptions{Limit: PageSize, After: after})
			return page.Items, page.After, err
		})
		if err != nil {
			SortNewestFirst(items)
			return items, err
		}
		normalized := make([]domain.UnifiedItem, 0, len(raw))
		for _, c := range raw {
			normalized = append(normalized, normalizeComment(c))
		}
		matched := opts.Criteria.Apply(normalized)
		items = append(items, matched...)
		log.Debug("Collected comments", "fetched", len(raw), "matched", len(matched))
	}

	SortNewestFirst(items)
	return items, nil
}

// SortNewestFirst orders by CreatedUTC descending, keeping retrieval order on ties.
func SortNewestFirst(items []domain.UnifiedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedUTC > items[j].CreatedUTC
	})
}

type pageFunc[T any] func(ctx context.Context, after string) ([]T, string, error)

// paginate follows the after cursor until it comes back empty or a page past the
// first yields nothing. An empty first page does not end the loop on its own.
func paginate[T any](ctx context.Context, source string, maxPages int, log *slog.Logger, next pageFunc[T]) ([]T, error) {
	var (
		all   []T
		after string
	)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &RetrievalError{Source: source, Page: page, Err: err}
		}
		log.Debug("Fetching page", "source", source, "page", page, "after", after)

		items, cursor, err := next(ctx, after)
		if err != nil {
			return nil, &RetrievalError{Source: source, Page: page, Err: err}
		}
		log.Debug("Fetched page", "source", source, "page", page, "count", len(items))

		all = append(all, items...)
		after = cursor

		if after == "" {
			log.Debug("No more pages", "source", source, "reason", "cursor exhausted")
			break
		}
		if len(items) == 0 && page > 1 {
			log.Debug("No more pages", "source", source, "reason", "empty page", "page", page)
			break
		}
		if maxPages > 0 && page >= maxPages {
			log.Warn("Stopped at page cap", "source", source, "max_pages", maxPages)
			break
		}
	}
	return all, nil
}
