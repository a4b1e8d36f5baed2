package billing_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
)

var Module = fx.Provide(provideBillingAPI)

func provideBillingAPI(cfg *config.Config) billing.API {
	return billing.NewClient(cfg.Stripe.SecretKey)
}
