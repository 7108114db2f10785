package fetch

import "github.com/qepting91/bydit/internal/domain"

func normalizePost(p domain.RawPost) domain.UnifiedItem {
	return domain.UnifiedItem{
		ID:          p.FullID,
		Type:        domain.ItemPost,
		Subreddit:   p.Subreddit,
		Title:       p.Title,
		Content:     p.Selftext,
		Upvotes:     p.Score,
		NumComments: p.NumComments,
		Permalink:   p.Permalink,
		CreatedUTC:  p.CreatedUTC,
	}
}

// Comments carry no comment count and may omit their score.
func normalizeComment(c domain.RawComment) domain.UnifiedItem {
	score := 0
	if c.Score != nil {
		score = *c.Score
	}
	return domain.UnifiedItem{
		ID:          c.FullID,
		Type:        domain.ItemComment,
		Subreddit:   c.Subreddit,
		Title:       c.LinkTitle,
		Content:     c.Body,
		Upvotes:     score,
		NumComments: 0,
		Permalink:   c.Permalink,
		CreatedUTC:  c.CreatedUTC,
	}
}
