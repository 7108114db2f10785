package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/qepting91/bydit/internal/domain"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestParseList(t *testing.T) {
	got := ParseList(" golang, ,rust,,  Python ")
	if diff := cmp.Diff([]string{"golang", "rust", "Python"}, got); diff != "" {
		t.Errorf("ParseList mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ParseList(""))
	assert.Empty(t, ParseList(" , ,"))
}

func TestSetIsCaseInsensitive(t *testing.T) {
	s := NewSet("GoLang", " rust ")
	assert.True(t, s.Contains("golang"))
	assert.True(t, s.Contains("RUST"))
	assert.False(t, s.Contains("go"))
	assert.Nil(t, NewSet())
}

func TestEmptyCriteriaMatchesEverything(t *testing.T) {
	var c Criteria
	assert.True(t, c.Empty())
	assert.Equal(t, "none", c.String())
	for _, it := range []domain.UnifiedItem{
		{},
		{Type: domain.ItemComment, Subreddit: "x", Upvotes: -40, CreatedUTC: 1},
		{Type: domain.ItemPost, Upvotes: 1 << 20, CreatedUTC: 2e9},
	} {
		assert.True(t, c.Match(it))
	}
}

func TestPredicates(t *testing.T) {
	post := domain.UnifiedItem{Type: domain.ItemPost, Subreddit: "GoLang", Title: "Generics", Upvotes: 10, CreatedUTC: 1000}
	comment := domain.UnifiedItem{Type: domain.ItemComment, Subreddit: "rust", Title: "Borrow Checker Tips", Upvotes: 3, CreatedUTC: 2000}

	tests := []struct {
		name    string
		c       Criteria
		post    bool
		comment bool
	}{
		{"include", Criteria{Include: NewSet("golang")}, true, false},
		{"include several", Criteria{Include: NewSet("golang", "RUST")}, true, true},
		{"exclude", Criteria{Exclude: NewSet("golang")}, false, true},
		{"min score inclusive", Criteria{MinScore: intp(10)}, true, false},
		{"max score exclusive", Criteria{MaxScore: intp(10)}, false, true},
		{"min age inclusive", Criteria{MinAge: floatp(1000)}, true, false},
		{"max age inclusive", Criteria{MaxAge: floatp(2000)}, false, true},
		{"age window", Criteria{MinAge: floatp(1500), MaxAge: floatp(500)}, true, false},
		{"post title comments only", Criteria{PostTitle: "checker"}, true, true},
		{"post title miss", Criteria{PostTitle: "lifetimes"}, true, false},
		{"and composition", Criteria{Include: NewSet("rust"), MinScore: intp(4)}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.post, tt.c.Match(post), "post")
			assert.Equal(t, tt.comment, tt.c.Match(comment), "comment")
		})
	}
}

func TestAgeBoundaryEquality(t *testing.T) {
	it := domain.UnifiedItem{CreatedUTC: 1700000000}
	assert.True(t, MatchMinAge(it, floatp(1700000000)))
	assert.True(t, MatchMaxAge(it, floatp(1700000000)))
	assert.False(t, MatchMinAge(it, floatp(1699999999)))
	assert.False(t, MatchMaxAge(it, floatp(1700000001)))
}

func TestEmptySubredditNeverMatchesInclude(t *testing.T) {
	it := domain.UnifiedItem{Type: domain.ItemComment}
	assert.False(t, MatchInclude(it, NewSet("golang")))
	assert.True(t, MatchExclude(it, NewSet("golang")))
}

func TestApplyKeepsOrder(t *testing.T) {
	items := []domain.UnifiedItem{
		{ID: "t3_a", Upvotes: 5},
		{ID: "t3_b", Upvotes: 12},
		{ID: "t3_c", Upvotes: 20},
	}
	got := Criteria{MinScore: intp(10)}.Apply(items)
	if diff := cmp.Diff(items[1:], got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestCriteriaString(t *testing.T) {
	c := Criteria{Include: NewSet("b", "a"), MinScore: intp(1), MaxScore: intp(9), PostTitle: "x"}
	assert.Equal(t, `subreddit=a,b score>=1 score<9 post_title~"x"`, c.String())
}
