package memcache_fx

import (
	"time"

	"go.uber.org/fx"

	mem "github.com/John17712/theralink-app/pkg/memcache"
)

var Module = fx.Provide(
	provideTokenStore, provideConversationStore, provideTrialStore)

func provideTokenStore() mem.TokenStore {
	return mem.NewTokens()
}

func provideConversationStore() mem.ConversationStore {
	return mem.NewConversations()
}

func provideTrialStore() mem.TrialStore {
	// Trial counters live as long as the trial cookie plausibly does.
	return mem.NewTrials(7 * 24 * time.Hour)
}
