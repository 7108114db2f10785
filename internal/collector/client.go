package collector

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	commentPrefix = "t1_"
)

// newLimiter paces requests to rpm per minute. Zero or less disables pacing:
// requests then go out back to back, one at a time.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// StatusError is a non-2xx answer from the remote API.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + truncate(body, 200)
	}
	return msg
}

// relativePermalink strips a site origin so every permalink is a path.
func relativePermalink(p string) string {
	for _, origin := range []string{"https://www.reddit.com", "https://reddit.com", "https://old.reddit.com"} {
		if strings.HasPrefix(p, origin) {
			return strings.TrimPrefix(p, origin)
		}
	}
	return p
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
