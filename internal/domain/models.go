package domain

import (
	"context"
	"fmt"
	"strings"
)

// ItemType tags a UnifiedItem with the source it was normalized from
type ItemType int

const (
	ItemPost ItemType = iota
	ItemComment
)

func (t ItemType) String() string {
	switch t {
	case ItemPost:
		return "Post"
	case ItemComment:
		return "Comment"
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnifiedItem is the shared record for posts and comments.
// Only the overwrite action mutates it, and only Content.
type UnifiedItem struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Subreddit   string   `json:"subreddit"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Upvotes     int      `json:"upvotes"`
	NumComments int      `json:"num_comments"`
	Permalink   string   `json:"permalink"`
	CreatedUTC  float64  `json:"created_utc"`
}

// Selection says which sources a run fetches
type Selection int

const (
	SelectBoth Selection = iota
	SelectPosts
	SelectComments
)

// ParseSelection resolves the --item-type value once at the CLI boundary.
// An empty string means both.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return SelectBoth, nil
	case "post", "posts":
		return SelectPosts, nil
	case "comment", "comments":
		return SelectComments, nil
	}
	return SelectBoth, fmt.Errorf("unknown item type %q (use post, comment or both)", s)
}

func (s Selection) Posts() bool    { return s == SelectBoth || s == SelectPosts }
func (s Selection) Comments() bool { return s == SelectBoth || s == SelectComments }

func (s Selection) String() string {
	switch s {
	case SelectPosts:
		return "post"
	case SelectComments:
		return "comment"
	}
	return "both"
}

// RawPost is a submitted post as the remote listing reports it
type RawPost struct {
	FullID      string
	Subreddit   string
	Title       string
	Selftext    string
	Score       int
	NumComments int
	Permalink   string
	CreatedUTC  float64
}

// RawComment is a comment as the remote listing reports it. Score is nil when
// the listing omitted it.
type RawComment struct {
	FullID     string
	Subreddit  string
	LinkTitle  string
	Body       string
	Score      *int
	Permalink  string
	CreatedUTC float64
}

// PageOptions selects one listing page. An empty After requests the first page.
type PageOptions struct {
	Limit int
	After string
}

// PostPage is one page of submitted posts. An empty After means no further pages.
type PostPage struct {
	Items []RawPost
	After string
}

// CommentPage is one page of comments. An empty After means no further pages.
type CommentPage struct {
	Items []RawComment
	After string
}

// Session is the authenticated account every retrieval and action call runs against
type Session interface {
	Username() string
	SubmittedPosts(ctx context.Context, opts PageOptions) (PostPage, error)
	Comments(ctx context.Context, opts PageOptions) (CommentPage, error)
	Edit(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
}
