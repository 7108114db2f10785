package collector

import (
	"context"
	"fmt"

	"github.com/qepting91/bydit/internal/domain"
)

// EditCall records one Edit request seen by MockClient
type EditCall struct {
	ID   string
	Text string
}

// MockClient implements domain.Session over scripted pages.
//
// Page i is served for the cursor returned by page i-1 (the first page for an
// empty cursor). PageErrors keys look like "comments:2" and fail the second
// comments request.
type MockClient struct {
	User         string
	PostPages    []domain.PostPage
	CommentPages []domain.CommentPage
	PageErrors   map[string]error
	EditErrors   map[string]error
	DeleteErrors map[string]error

	PostRequests    []domain.PageOptions
	CommentRequests []domain.PageOptions
	Edits           []EditCall
	Deletes         []string
}

var _ domain.Session = (*MockClient)(nil)

// NewMockClient returns a deterministic fixture account with a handful of posts
// and two pages of comments, for dry runs without network access.
func NewMockClient(user string) *MockClient {
	if user == "" {
		user = "mock_user"
	}
	const base = 1700000000.0
	subs := []string{"golang", "rust", "AskReddit", "programming"}

	var posts []domain.RawPost
	for i := 0; i < 4; i++ {
		posts = append(posts, domain.RawPost{
			FullID:      fmt.Sprintf("t3_mock%d", i),
			Subreddit:   subs[i%len(subs)],
			Title:       fmt.Sprintf("Simulated post #%d", i),
			Selftext:    fmt.Sprintf("Body of simulated post #%d", i),
			Score:       i * 7,
			NumComments: i * 3,
			Permalink:   fmt.Sprintf("/r/%s/comments/mock%d/simulated_post_%d/", subs[i%len(subs)], i, i),
			CreatedUTC:  base - float64(i)*86400*30,
		})
	}

	var comments []domain.RawComment
	for i := 0; i < 130; i++ {
		score := i%25 - 5
		sub := subs[i%len(subs)]
		comments = append(comments, domain.RawComment{
			FullID:     fmt.Sprintf("t1_mock%d", i),
			Subreddit:  sub,
			LinkTitle:  fmt.Sprintf("Simulated post #%d", i%4),
			Body:       fmt.Sprintf("Simulated comment #%d", i),
			Score:      &score,
			Permalink:  fmt.Sprintf("/r/%s/comments/mock%d/simulated_post/c%d/", sub, i%4, i),
			CreatedUTC: base - float64(i)*3600*11,
		})
	}

	return &MockClient{
		User:         user,
		PostPages:    []domain.PostPage{{Items: posts}},
		CommentPages: pageComments(comments, 100),
	}
}

func pageComments(all []domain.RawComment, size int) []domain.CommentPage {
	var pages []domain.CommentPage
	for start := 0; start < len(all); start += size {
		end := min(start+size, len(all))
		page := domain.CommentPage{Items: all[start:end]}
		if end < len(all) {
			page.After = all[end-1].FullID
		}
		pages = append(pages, page)
	}
	return pages
}

func (mc *MockClient) Username() string { return mc.User }

func (mc *MockClient) SubmittedPosts(ctx context.Context, opts domain.PageOptions) (domain.PostPage, error) {
	mc.PostRequests = append(mc.PostRequests, opts)
	i, err := mc.pageIndex("posts", len(mc.PostRequests), opts.After, func(j int) string { return mc.PostPages[j].After }, len(mc.PostPages))
	if err != nil || i < 0 {
		return domain.PostPage{}, err
	}
	return mc.PostPages[i], nil
}

func (mc *MockClient) Comments(ctx context.Context, opts domain.PageOptions) (domain.CommentPage, error) {
	mc.CommentRequests = append(mc.CommentRequests, opts)
	i, err := mc.pageIndex("comments", len(mc.CommentRequests), opts.After, func(j int) string { return mc.CommentPages[j].After }, len(mc.CommentPages))
	if err != nil || i < 0 {
		return domain.CommentPage{}, err
	}
	return mc.CommentPages[i], nil
}

// pageIndex returns -1 with no error when there are no scripted pages.
func (mc *MockClient) pageIndex(source string, call int, after string, cursorOf func(int) string, n int) (int, error) {
	if err := mc.PageErrors[fmt.Sprintf("%s:%d", source, call)]; err != nil {
		return 0, err
	}
	if n == 0 {
		return -1, nil
	}
	if after == "" {
		return 0, nil
	}
	for j := 0; j < n-1; j++ {
		if cursorOf(j) == after {
			return j + 1, nil
		}
	}
	return 0, fmt.Errorf("mock %s: unknown cursor %q", source, after)
}

func (mc *MockClient) Edit(ctx context.Context, id, text string) error {
	mc.Edits = append(mc.Edits, EditCall{ID: id, Text: text})
	return mc.EditErrors[id]
}

func (mc *MockClient) Delete(ctx context.Context, id string) error {
	mc.Deletes = append(mc.Deletes, id)
	return mc.DeleteErrors[id]
}
