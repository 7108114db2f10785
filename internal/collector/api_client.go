package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"github.com/qepting91/bydit/internal/domain"
)

// APIClient is a domain.Session backed by go-reddit's script-app password grant.
type APIClient struct {
	client   *reddit.Client
	limiter  *rate.Limiter
	username string
}

var _ domain.Session = (*APIClient)(nil)

type APIOptions struct {
	ID, Secret, Username, Password string
	UserAgent                      string
	RequestsPerMinute              int
	BaseURL, TokenURL              string
}

func NewAPIClient(o APIOptions) (*APIClient, error) {
	creds := reddit.Credentials{ID: o.ID, Secret: o.Secret, Username: o.Username, Password: o.Password}

	opts := []reddit.Opt{reddit.WithUserAgent(o.UserAgent)}
	if o.BaseURL != "" {
		opts = append(opts, reddit.WithBaseURL(o.BaseURL))
	}
	if o.TokenURL != "" {
		opts = append(opts, reddit.WithTokenURL(o.TokenURL))
	}
	client, err := reddit.NewClient(creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}

	return &APIClient{client: client, limiter: newLimiter(o.RequestsPerMinute), username: o.Username}, nil
}

func (ac *APIClient) Username() string { return ac.username }

func (ac *APIClient) SubmittedPosts(ctx context.Context, opts domain.PageOptions) (domain.PostPage, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.PostPage{}, err
	}

	posts, resp, err := ac.client.User.Posts(ctx, listOptions(opts))
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("authenticated api error: %w", err)
	}

	page := domain.PostPage{Items: make([]domain.RawPost, 0, len(posts))}
	for _, p := range posts {
		page.Items = append(page.Items, domain.RawPost{
			FullID:      p.FullID,
			Subreddit:   p.SubredditName,
			Title:       p.Title,
			Selftext:    p.Body,
			Score:       p.Score,
			NumComments: p.NumberOfComments,
			Permalink:   relativePermalink(p.Permalink),
			CreatedUTC:  timestamp(p.Created),
		})
	}
	if resp != nil {
		page.After = resp.After
	}
	return page, nil
}

func (ac *APIClient) Comments(ctx context.Context, opts domain.PageOptions) (domain.CommentPage, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.CommentPage{}, err
	}

	comments, resp, err := ac.client.User.Comments(ctx, listOptions(opts))
	if err != nil {
		return domain.CommentPage{}, fmt.Errorf("authenticated api error: %w", err)
	}

	page := domain.CommentPage{Items: make([]domain.RawComment, 0, len(comments))}
	for _, c := range comments {
		score := c.Score
		page.Items = append(page.Items, domain.RawComment{
			FullID:     c.FullID,
			Subreddit:  c.SubredditName,
			LinkTitle:  c.PostTitle,
			Body:       c.Body,
			Score:      &score,
			Permalink:  relativePermalink(c.Permalink),
			CreatedUTC: timestamp(c.Created),
		})
	}
	if resp != nil {
		page.After = resp.After
	}
	return page, nil
}

// Edit routes by fullname prefix; both kinds share the same endpoint remotely.
func (ac *APIClient) Edit(ctx context.Context, id, text string) error {
	if err := ac.limiter.Wait(ctx); err != nil {
		return err
	}
	var err error
	if strings.HasPrefix(id, commentPrefix) {
		_, _, err = ac.client.Comment.Edit(ctx, id, text)
	} else {
		_, _, err = ac.client.Post.Edit(ctx, id, text)
	}
	return err
}

func (ac *APIClient) Delete(ctx context.Context, id string) error {
	if err := ac.limiter.Wait(ctx); err != nil {
		return err
	}
	var err error
	if strings.HasPrefix(id, commentPrefix) {
		_, err = ac.client.Comment.Delete(ctx, id)
	} else {
		_, err = ac.client.Post.Delete(ctx, id)
	}
	return err
}

func listOptions(opts domain.PageOptions) *reddit.ListUserOverviewOptions {
	return &reddit.ListUserOverviewOptions{
		ListOptions: reddit.ListOptions{Limit: opts.Limit, After: opts.After},
		Sort:        "new",
	}
}

func timestamp(ts *reddit.Timestamp) float64 {
	if ts == nil {
		return 0
	}
	return float64(ts.Time.Unix())
}
