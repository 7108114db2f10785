package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/bydit/internal/collector"
	"github.com/qepting91/bydit/internal/domain"
	"github.com/qepting91/bydit/internal/filter"
)

func intp(v int) *int { return &v }

func comments(ids ...string) []domain.RawComment {
	var out []domain.RawComment
	for i, id := range ids {
		out = append(out, domain.RawComment{FullID: id, CreatedUTC: float64(1000 - i)})
	}
	return out
}

func ids(items []domain.UnifiedItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPaginationStopsOnMissingCursor(t *testing.T) {
	mc := &collector.MockClient{CommentPages: []domain.CommentPage{
		{Items: comments("t1_a", "t1_b"), After: "t1_b"},
		{Items: comments("t1_c")},
		{Items: comments("t1_never")},
	}}
	items, err := Items(context.Background(), mc, Options{Selection: domain.SelectComments})
	require.NoError(t, err)
	assert.Len(t, mc.CommentRequests, 2)
	assert.ElementsMatch(t, []string{"t1_a", "t1_b", "t1_c"}, ids(items))
	assert.Equal(t, "", mc.CommentRequests[0].After)
	assert.Equal(t, "t1_b", mc.CommentRequests[1].After)
	assert.Equal(t, PageSize, mc.CommentRequests[1].Limit)
}

func TestPaginationStopsOnEmptyLaterPage(t *testing.T) {
	mc := &collector.MockClient{CommentPages: []domain.CommentPage{
		{Items: comments("t1_a"), After: "c1"},
		{Items: nil, After: "c2"},
		{Items: comments("t1_never")},
	}}
	items, err := Items(context.Background(), mc, Options{Selection: domain.SelectComments})
	require.NoError(t, err)
	assert.Len(t, mc.CommentRequests, 2)
	assert.Equal(t, []string{"t1_a"}, ids(items))
}

func TestPaginationToleratesEmptyFirstPage(t *testing.T) {
	mc := &collector.MockClient{CommentPages: []domain.CommentPage{
		{Items: nil, After: "c1"},
		{Items: comments("t1_a", "t1_b")},
	}}
	items, err := Items(context.Background(), mc, Options{Selection: domain.SelectComments})
	require.NoError(t, err)
	assert.Len(t, mc.CommentRequests, 2)
	assert.Equal(t, []string{"t1_a", "t1_b"}, ids(items))
}

func TestPaginationHonoursMaxPages(t *testing.T) {
	mc := &collector.MockClient{CommentPages: []domain.CommentPage{
		{Items: comments("t1_a"), After: "c1"},
		{Items: comments("t1_b"), After: "c2"},
		{Items: comments("t1_c")},
	}}
	items, err := Items(context.Background(), mc, Options{Selection: domain.SelectComments, MaxPages: 2})
	require.NoError(t, err)
	assert.Len(t, mc.CommentRequests, 2)
	assert.Len(t, items, 2)
}

func TestCommentFailureKeepsPosts(t *testing.T) {
	boom := errors.New("502 bad gateway")
	mc := &collector.MockClient{
		PostPages: []domain.PostPage{{Items: []domain.RawPost{{FullID: "t3_p", CreatedUTC: 5}}}},
		CommentPages: []domain.CommentPage{
			{Items: comments("t1_a"), After: "c1"},
			{Items: comments("t1_b")},
		},
		PageErrors: map[string]error{"comments:2": boom},
	}
	items, err := Items(context.Background(), mc, Options{})

	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "comments", rerr.Source)
	assert.Equal(t, 2, rerr.Page)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"t3_p"}, ids(items))
}

func TestPostFailureAbortsBeforeComments(t *testing.T) {
	mc := &collector.MockClient{
		PageErrors:   map[string]error{"posts:1": errors.New("unauthorized")},
		CommentPages: []domain.CommentPage{{Items: comments("t1_a")}},
	}
	items, err := Items(context.Background(), mc, Options{})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Empty(t, mc.CommentRequests)
	assert.Contains(t, err.Error(), "fetch posts page 1")
}

func TestCancelledContextIsRetrievalError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Items(ctx, &collector.MockClient{}, Options{})
	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreFilterSortsNewestFirst(t *testing.T) {
	mc := &collector.MockClient{PostPages: []domain.PostPage{{Items: []domain.RawPost{
		{FullID: "t3_five", Score: 5, CreatedUTC: 300},
		{FullID: "t3_twelve", Score: 12, CreatedUTC: 100},
		{FullID: "t3_twenty", Score: 20, CreatedUTC: 200},
	}}}}
	items, err := Items(context.Background(), mc, Options{
		Selection: domain.SelectPosts,
		Criteria:  filter.Criteria{MinScore: intp(10)},
	})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"t3_twenty", "t3_twelve"}, ids(items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizationAndMergedOrder(t *testing.T) {
	score := 4
	mc := &collector.MockClient{
		PostPages: []domain.PostPage{{Items: []domain.RawPost{{
			FullID: "t3_p", Subreddit: "golang", Title: "T", Selftext: "body",
			Score: 9, NumComments: 3, Permalink: "/r/golang/p", CreatedUTC: 150,
		}}}},
		CommentPages: []domain.CommentPage{{Items: []domain.RawComment{
			{FullID: "t1_scored", Subreddit: "golang", LinkTitle: "T", Body: "hi", Score: &score, Permalink: "/r/golang/c1", CreatedUTC: 200},
			{FullID: "t1_unscored", Body: "no score", CreatedUTC: 100},
		}}},
	}
	items, err := Items(context.Background(), mc, Options{})
	require.NoError(t, err)

	want := []domain.UnifiedItem{
		{ID: "t1_scored", Type: domain.ItemComment, Subreddit: "golang", Title: "T", Content: "hi", Upvotes: 4, Permalink: "/r/golang/c1", CreatedUTC: 200},
		{ID: "t3_p", Type: domain.ItemPost, Subreddit: "golang", Title: "T", Content: "body", Upvotes: 9, NumComments: 3, Permalink: "/r/golang/p", CreatedUTC: 150},
		{ID: "t1_unscored", Type: domain.ItemComment, Content: "no score", CreatedUTC: 100},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNewestFirstIsStable(t *testing.T) {
	items := []domain.UnifiedItem{
		{ID: "a", CreatedUTC: 1},
		{ID: "b", CreatedUTC: 2},
		{ID: "c", CreatedUTC: 1},
		{ID: "d", CreatedUTC: 2},
	}
	SortNewestFirst(items)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(items))
}

func TestFixtureClientPagesComments(t *testing.T) {
	mc := collector.NewMockClient("")
	items, err := Items(context.Background(), mc, Options{Selection: domain.SelectComments})
	require.NoError(t, err)
	assert.Len(t, items, 130)
	assert.Len(t, mc.CommentRequests, 2)
}

func TestCriteriaAppliedPerSource(t *testing.T) {
	mc := &collector.MockClient{
		PostPages: []domain.PostPage{{Items: []domain.RawPost{
			{FullID: "t3_other", Title: "Unrelated", CreatedUTC: 50},
		}}},
		CommentPages: []domain.CommentPage{{Items: []domain.RawComment{
			{FullID: "t1_hit", LinkTitle: "Go Generics", CreatedUTC: 40},
			{FullID: "t1_miss", LinkTitle: "Rust traits", CreatedUTC: 30},
		}}},
	}
	items, err := Items(context.Background(), mc, Options{Criteria: filter.Criteria{PostTitle: "generics"}})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"t3_other", "t1_hit"}, ids(items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}
