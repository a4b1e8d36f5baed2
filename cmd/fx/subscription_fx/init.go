package subscription_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/internal/services"
	mem "github.com/John17712/theralink-app/pkg/memcache"
)

var Module = fx.Provide(provideSubscriptionService)

func provideSubscriptionService(
	accountRepo repositories.AccountRepository,
	billingAPI billing.API,
	mailService services.IMailService,
	tokens mem.TokenStore,
	cfg *config.Config,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(accountRepo, billingAPI, mailService, tokens, cfg)
}
