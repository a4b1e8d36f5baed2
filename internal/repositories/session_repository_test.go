package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/testutil"
)

func TestSessionRepository_UpsertCreatesThenOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)
	ctx := context.Background()

	name := "Evening Check-in"
	first := []db_models.Message{{Role: "user", Content: "hello"}}
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, &name, first))

	session, err := repo.Find(ctx, account.ID, "s1", db_models.KindChat)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Evening Check-in", session.Name)

	// Second write replaces messages wholesale, no merging.
	second := []db_models.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, nil, second))

	session, err = repo.Find(ctx, account.ID, "s1", db_models.KindChat)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Evening Check-in", session.Name)

	messages := session.DecodeMessages()
	assert.Len(t, messages, 2)
	assert.Equal(t, "hi there", messages[1].Content)
}

func TestSessionRepository_UpsertKeepsNameWhenNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)
	ctx := context.Background()

	name := "Named"
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindCall, &name, nil))
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindCall, nil, nil))

	session, err := repo.Find(ctx, account.ID, "s1", db_models.KindCall)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Named", session.Name)
}

func TestSessionRepository_SameSessionIDDifferentKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, nil, nil))
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindCall, nil, nil))

	sessions, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestSessionRepository_DeleteAllKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, nil, nil))
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindCall, nil, nil))
	require.NoError(t, repo.Upsert(ctx, account.ID, "s2", db_models.KindChat, nil, nil))

	rows, err := repo.DeleteAllKinds(ctx, account.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	sessions, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].SessionID)
}

func TestSessionRepository_DeleteAllKinds_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)

	rows, err := repo.DeleteAllKinds(context.Background(), account.ID, "missing")
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestSessionRepository_DeleteThenRecreateSameTriple(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, nil, nil))

	rows, err := repo.DeleteAllKinds(ctx, account.ID, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// The unique index must not hold onto the deleted row.
	name := "Reborn"
	require.NoError(t, repo.Upsert(ctx, account.ID, "s1", db_models.KindChat, &name, nil))

	session, err := repo.Find(ctx, account.ID, "s1", db_models.KindChat)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Reborn", session.Name)
}

func TestSessionRepository_FindNotFoundIsNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSessionRepository(db)
	account := testutil.TestAccount(t, db)

	session, err := repo.Find(context.Background(), account.ID, "nope", db_models.KindChat)
	require.NoError(t, err)
	assert.Nil(t, session)
}
