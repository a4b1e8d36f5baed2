package trial_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/services"
	mem "github.com/John17712/theralink-app/pkg/memcache"
)

var Module = fx.Provide(provideTrialService)

func provideTrialService(
	trials mem.TrialStore,
	chatService services.ChatServiceInterface,
	cfg *config.Config,
) services.TrialServiceInterface {
	return services.NewTrialService(trials, chatService, cfg)
}
