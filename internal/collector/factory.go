package collector

import (
	"context"
	"fmt"

	"github.com/qepting91/bydit/internal/config"
	"github.com/qepting91/bydit/internal/domain"
)

// New selects the session implementation for cfg.Mode
func New(ctx context.Context, cfg *config.Config) (domain.Session, error) {
	switch cfg.Mode {
	case config.ModeAPI, "":
		return NewAPIClient(APIOptions{
			ID:                cfg.ClientID,
			Secret:            cfg.ClientSecret,
			Username:          cfg.Username,
			Password:          cfg.Password,
			UserAgent:         cfg.UserAgent,
			RequestsPerMinute: cfg.RequestsPerMinute,
			BaseURL:           cfg.BaseURL,
			TokenURL:          cfg.TokenURL,
		})
	case config.ModeOAuth:
		return NewOAuthClient(ctx, OAuthOptions{
			ID:                cfg.ClientID,
			Secret:            cfg.ClientSecret,
			Username:          cfg.Username,
			Password:          cfg.Password,
			UserAgent:         cfg.UserAgent,
			RequestsPerMinute: cfg.RequestsPerMinute,
			BaseURL:           cfg.BaseURL,
			TokenURL:          cfg.TokenURL,
		})
	case config.ModeMock:
		return NewMockClient(cfg.Username), nil
	default:
		return nil, fmt.Errorf("unknown mode: %s (use '%s', '%s', or '%s')", cfg.Mode, config.ModeAPI, config.ModeOAuth, config.ModeMock)
	}
}
