package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/qepting91/bydit/internal/domain"
)

// OAuthClient is a domain.Session speaking the Reddit HTTP API directly with a
// bearer token from the password-credentials grant.
type OAuthClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	username   string
}

var _ domain.Session = (*OAuthClient)(nil)

type OAuthOptions struct {
	ID, Secret, Username, Password string
	UserAgent                      string
	RequestsPerMinute              int
	BaseURL, TokenURL              string
	Timeout                        time.Duration
}

type listingResponse[T any] struct {
	Data struct {
		After    *string `json:"after"`
		Children []struct {
			Kind string `json:"kind"`
			Data T      `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postJSON struct {
	Name        string  `json:"name"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
}

type commentJSON struct {
	Name       string  `json:"name"`
	Subreddit  *string `json:"subreddit"`
	LinkTitle  *string `json:"link_title"`
	Body       *string `json:"body"`
	Score      *int    `json:"score"`
	Permalink  *string `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

type apiErrors struct {
	JSON struct {
		Errors [][]any `json:"errors"`
	} `json:"json"`
}

// NewOAuthClient logs in immediately; the returned client is authenticated.
func NewOAuthClient(ctx context.Context, o OAuthOptions) (*OAuthClient, error) {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.TokenURL == "" {
		o.TokenURL = DefaultTokenURL
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}

	base := &http.Client{
		Timeout:   o.Timeout,
		Transport: &userAgentTransport{next: http.DefaultTransport, userAgent: o.UserAgent},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	conf := &oauth2.Config{
		ClientID:     o.ID,
		ClientSecret: o.Secret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  o.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	tok, err := conf.PasswordCredentialsToken(ctx, o.Username, o.Password)
	if err != nil {
		return nil, fmt.Errorf("reddit login as %s: %w", o.Username, err)
	}

	httpClient := conf.Client(ctx, tok)
	httpClient.Timeout = o.Timeout

	return &OAuthClient{
		httpClient: httpClient,
		limiter:    newLimiter(o.RequestsPerMinute),
		baseURL:    strings.TrimRight(o.BaseURL, "/"),
		userAgent:  o.UserAgent,
		username:   o.Username,
	}, nil
}

func (oc *OAuthClient) Username() string { return oc.username }

func (oc *OAuthClient) SubmittedPosts(ctx context.Context, opts domain.PageOptions) (domain.PostPage, error) {
	var listing listingResponse[postJSON]
	if err := oc.getJSON(ctx, oc.userPath("submitted"), pageQuery(opts), &listing); err != nil {
		return domain.PostPage{}, err
	}

	page := domain.PostPage{After: deref(listing.Data.After)}
	for _, child := range listing.Data.Children {
		d := child.Data
		page.Items = append(page.Items, domain.RawPost{
			FullID:      d.Name,
			Subreddit:   d.Subreddit,
			Title:       d.Title,
			Selftext:    d.Selftext,
			Score:       d.Score,
			NumComments: d.NumComments,
			Permalink:   relativePermalink(d.Permalink),
			CreatedUTC:  d.CreatedUTC,
		})
	}
	return page, nil
}

func (oc *OAuthClient) Comments(ctx context.Context, opts domain.PageOptions) (domain.CommentPage, error) {
	var listing listingResponse[commentJSON]
	if err := oc.getJSON(ctx, oc.userPath("comments"), pageQuery(opts), &listing); err != nil {
		return domain.CommentPage{}, err
	}

	page := domain.CommentPage{After: deref(listing.Data.After)}
	for _, child := range listing.Data.Children {
		d := child.Data
		page.Items = append(page.Items, domain.RawComment{
			FullID:     d.Name,
			Subreddit:  deref(d.Subreddit),
			LinkTitle:  deref(d.LinkTitle),
			Body:       deref(d.Body),
			Score:      d.Score,
			Permalink:  relativePermalink(deref(d.Permalink)),
			CreatedUTC: d.CreatedUTC,
		})
	}
	return page, nil
}

// Edit replaces the text of a post or comment. Reddit reports validation
// failures inside a 200 answer, so the body is checked too.
func (oc *OAuthClient) Edit(ctx context.Context, id, text string) error {
	form := url.Values{"thing_id": {id}, "text": {text}, "api_type": {"json"}}
	body, err := oc.PostForm(ctx, "/api/editusertext", form)
	if err != nil {
		return err
	}
	var ae apiErrors
	if err := json.Unmarshal(body, &ae); err == nil && len(ae.JSON.Errors) > 0 {
		return fmt.Errorf("edit %s rejected: %v", id, ae.JSON.Errors[0])
	}
	return nil
}

func (oc *OAuthClient) Delete(ctx context.Context, id string) error {
	_, err := oc.PostForm(ctx, "/api/del", url.Values{"id": {id}})
	return err
}

// Get issues an authenticated GET and returns the body of a 2xx answer.
func (oc *OAuthClient) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := oc.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return oc.do(req)
}

// PostForm issues an authenticated form POST and returns the body of a 2xx answer.
func (oc *OAuthClient) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oc.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return oc.do(req)
}

func (oc *OAuthClient) do(req *http.Request) ([]byte, error) {
	if err := oc.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", oc.userAgent)

	resp, err := oc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: req.Method, URL: req.URL.Path, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (oc *OAuthClient) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := oc.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (oc *OAuthClient) userPath(listing string) string {
	return "/user/" + url.PathEscape(oc.username) + "/" + listing
}

func pageQuery(opts domain.PageOptions) url.Values {
	q := url.Values{"raw_json": {"1"}, "sort": {"new"}}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.After != "" {
		q.Set("after", opts.After)
	}
	return q
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// userAgentTransport stamps the token request, which oauth2 builds itself.
type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(req)
}
