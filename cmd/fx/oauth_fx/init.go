package oauth_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/oauth"
)

var Module = fx.Provide(provideGoogleOAuth)

func provideGoogleOAuth(cfg *config.Config) *oauth.GoogleOAuth {
	return oauth.NewGoogleOAuth(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)
}
