package account_fx

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/internal/services"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideTokenMaker)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenMaker(cfg *config.Config) *utils.TokenMaker {
	return utils.NewTokenMaker(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireMinutes)*time.Minute)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	billingAPI billing.API,
	mailService services.IMailService,
	tokens mem.TokenStore,
	tokenMaker *utils.TokenMaker,
	cfg *config.Config,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, billingAPI, mailService, tokens, tokenMaker, cfg)
}
