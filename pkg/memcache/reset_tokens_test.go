package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

func messageOf(role, content string) db_models.Message {
	return db_models.Message{Role: role, Content: content}
}

func TestTokens_ConsumeIsSingleUse(t *testing.T) {
	store := NewTokens()
	store.Set("tok", PurposeReset, "a@example.com", time.Minute)

	assert.Equal(t, "a@example.com", store.Consume("tok", PurposeReset))
	assert.Empty(t, store.Consume("tok", PurposeReset))
}

func TestTokens_PurposeMustMatch(t *testing.T) {
	store := NewTokens()
	store.Set("tok", PurposeSetup, "a@example.com", time.Minute)

	assert.Empty(t, store.Consume("tok", PurposeReset))
	// A failed purpose check must not burn the token.
	assert.Equal(t, "a@example.com", store.Consume("tok", PurposeSetup))
}

func TestTokens_Expiry(t *testing.T) {
	store := NewTokens()
	store.Set("tok", PurposeReset, "a@example.com", -time.Second)

	assert.Empty(t, store.Consume("tok", PurposeReset))
}

func TestConversations_RecentAssistantNewestFirst(t *testing.T) {
	store := NewConversations()
	store.Append("u", "s", messageOf("user", "q1"))
	store.Append("u", "s", messageOf("assistant", "a1"))
	store.Append("u", "s", messageOf("assistant", "a2"))

	recent := store.RecentAssistant("u", "s", 2)
	assert.Equal(t, []string{"a2", "a1"}, recent)
}

func TestConversations_HistoryIsACopy(t *testing.T) {
	store := NewConversations()
	store.Append("u", "s", messageOf("user", "q1"))

	history := store.History("u", "s")
	history[0].Content = "mutated"

	assert.Equal(t, "q1", store.History("u", "s")[0].Content)
}
