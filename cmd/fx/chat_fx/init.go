package chat_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/services"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

var Module = fx.Provide(
	provideChatService, provideCompletionClient)

func provideCompletionClient(cfg *config.Config) utils.CompletionClientInterface {
	return utils.NewCompletionClient(utils.CompletionConfig{
		APIKey:  cfg.Model.APIKey,
		BaseURL: cfg.Model.BaseURL,
		Model:   cfg.Model.Name,
	})
}

func provideChatService(
	conversations mem.ConversationStore,
	completion utils.CompletionClientInterface,
	cfg *config.Config,
) services.ChatServiceInterface {
	return services.NewChatService(conversations, completion, cfg)
}
