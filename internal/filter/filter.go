package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qepting91/bydit/internal/domain"
)

// Set is a case-folded set of subreddit names
type Set map[string]struct{}

func NewSet(names ...string) Set {
	if len(names) == 0 {
		return nil
	}
	s := make(Set, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

func (s Set) Contains(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

func (s Set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseList splits a comma-separated flag value, trimming entries and dropping empties.
func ParseList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Criteria holds every configured predicate; a nil or empty field always matches.
//
// MinAge and MaxAge are epoch-second boundaries from package age. MinAge keeps
// items created at or before the boundary (older), MaxAge keeps items created at
// or after it (newer).
type Criteria struct {
	Include   Set
	Exclude   Set
	MinScore  *int
	MaxScore  *int // exclusive
	MinAge    *float64
	MaxAge    *float64
	PostTitle string // comments only
}

func MatchInclude(it domain.UnifiedItem, include Set) bool {
	return len(include) == 0 || include.Contains(it.Subreddit)
}

func MatchExclude(it domain.UnifiedItem, exclude Set) bool {
	return len(exclude) == 0 || !exclude.Contains(it.Subreddit)
}

func MatchMinScore(it domain.UnifiedItem, min *int) bool {
	return min == nil || it.Upvotes >= *min
}

// MatchMaxScore treats max as an exclusive upper bound.
func MatchMaxScore(it domain.UnifiedItem, max *int) bool {
	return max == nil || it.Upvotes < *max
}

// MatchMinAge keeps items at least as old as the boundary.
func MatchMinAge(it domain.UnifiedItem, bound *float64) bool {
	return bound == nil || it.CreatedUTC <= *bound
}

// MatchMaxAge keeps items no older than the boundary.
func MatchMaxAge(it domain.UnifiedItem, bound *float64) bool {
	return bound == nil || it.CreatedUTC >= *bound
}

// MatchPostTitle checks a comment's parent post title; posts always pass.
func MatchPostTitle(it domain.UnifiedItem, substr string) bool {
	if substr == "" || it.Type != domain.ItemComment {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), strings.ToLower(substr))
}

// Match is the logical AND of every predicate.
func (c Criteria) Match(it domain.UnifiedItem) bool {
	return MatchInclude(it, c.Include) &&
		MatchExclude(it, c.Exclude) &&
		MatchMinScore(it, c.MinScore) &&
		MatchMaxScore(it, c.MaxScore) &&
		MatchMinAge(it, c.MinAge) &&
		MatchMaxAge(it, c.MaxAge) &&
		MatchPostTitle(it, c.PostTitle)
}

// Apply returns the matching items in their original order.
func (c Criteria) Apply(items []domain.UnifiedItem) []domain.UnifiedItem {
	out := make([]domain.UnifiedItem, 0, len(items))
	for _, it := range items {
		if c.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

func (c Criteria) Empty() bool {
	return len(c.Include) == 0 && len(c.Exclude) == 0 &&
		c.MinScore == nil && c.MaxScore == nil &&
		c.MinAge == nil && c.MaxAge == nil && c.PostTitle == ""
}

func (c Criteria) String() string {
	if c.Empty() {
		return "none"
	}
	var parts []string
	if len(c.Include) > 0 {
		parts = append(parts, "subreddit="+strings.Join(c.Include.sorted(), ","))
	}
	if len(c.Exclude) > 0 {
		parts = append(parts, "exclude="+strings.Join(c.Exclude.sorted(), ","))
	}
	if c.MinScore != nil {
		parts = append(parts, fmt.Sprintf("score>=%d", *c.MinScore))
	}
	if c.MaxScore != nil {
		parts = append(parts, fmt.Sprintf("score<%d", *c.MaxScore))
	}
	if c.MinAge != nil {
		parts = append(parts, fmt.Sprintf("created<=%.0f", *c.MinAge))
	}
	if c.MaxAge != nil {
		parts = append(parts, fmt.Sprintf("created>=%.0f", *c.MaxAge))
	}
	if c.PostTitle != "" {
		parts = append(parts, fmt.Sprintf("post_title~%q", c.PostTitle))
	}
	return strings.Join(parts, " ")
}
