package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/gearbox/internal/db"
	"github.com/erazemk/gearbox/internal/model"
)

func sharedNames(items []model.GearItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestShareAllItemsCoversLaterItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	friend := createTestUser(t, database, "friend@example.com")

	createTestGear(t, database, owner.ID, "Strat", nil)

	share, err := CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.AccessView, share.AccessLevel)
	assert.Nil(t, share.GearItemID)

	// Created after the grant, still covered.
	createTestGear(t, database, owner.ID, "Tele", nil)

	items, err := ListSharedWithMe(ctx, database, friend.ID, time.Now())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Strat", "Tele"}, sharedNames(items))
	for _, item := range items {
		require.NotNil(t, item.SharedBy)
		assert.Equal(t, owner.ID, item.SharedBy.ID)
		assert.Equal(t, "Test User", item.SharedBy.Name)
		assert.Equal(t, "owner@example.com", item.SharedBy.Email)
		assert.NotNil(t, item.Images)
	}

	// The owner sees nothing shared with them.
	items, err = ListSharedWithMe(ctx, database, owner.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShareSingleItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	friend := createTestUser(t, database, "friend@example.com")

	strat := createTestGear(t, database, owner.ID, "Strat", nil)
	createTestGear(t, database, owner.ID, "Tele", nil)

	_, err := CreateShare(ctx, database, owner.ID, ShareRequest{
		RecipientEmail: "friend@example.com",
		GearItemID:     &strat.ID,
		AccessLevel:    model.AccessEdit,
	})
	require.NoError(t, err)

	items, err := ListSharedWithMe(ctx, database, friend.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"Strat"}, sharedNames(items))
}

func TestSharedWithMeDeduplicates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	friend := createTestUser(t, database, "friend@example.com")

	strat := createTestGear(t, database, owner.ID, "Strat", nil)
	createTestGear(t, database, owner.ID, "Tele", nil)

	_, err := CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com", GearItemID: &strat.ID})
	require.NoError(t, err)
	_, err = CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com", GearItemID: &strat.ID})
	require.NoError(t, err)
	_, err = CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com"})
	require.NoError(t, err)

	items, err := ListSharedWithMe(ctx, database, friend.ID, time.Now())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Strat", "Tele"}, sharedNames(items))
}

func TestSharedWithMeSkipsExpiredGrants(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	other := createTestUser(t, database, "other@example.com")
	friend := createTestUser(t, database, "friend@example.com")

	createTestGear(t, database, owner.ID, "Strat", nil)
	createTestGear(t, database, other.ID, "Precision", nil)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	_, err := CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com", ExpirationDate: &past})
	require.NoError(t, err)
	_, err = CreateShare(ctx, database, other.ID, ShareRequest{RecipientEmail: "friend@example.com", ExpirationDate: &future})
	require.NoError(t, err)

	items, err := ListSharedWithMe(ctx, database, friend.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"Precision"}, sharedNames(items))

	// Once the second grant lapses nothing is left.
	items, err = ListSharedWithMe(ctx, database, friend.ID, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateShareErrors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	stranger := createTestUser(t, database, "stranger@example.com")
	createTestUser(t, database, "friend@example.com")

	foreign := createTestGear(t, database, stranger.ID, "Not Mine", nil)

	_, err := CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "nobody@example.com"})
	assert.True(t, errors.Is(err, ErrUserNotFound), "got %v", err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com", GearItemID: &foreign.ID})
	assert.True(t, errors.Is(err, ErrGearNotFound), "got %v", err)

	_, err = CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com", AccessLevel: "admin"})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "owner@example.com"})
	assert.True(t, errors.As(err, &verr), "got %v", err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM shared_access`).Scan(&n))
	assert.Zero(t, n)
}

func TestListAndDeleteShares(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner@example.com")
	friend := createTestUser(t, database, "friend@example.com")
	createTestGear(t, database, owner.ID, "Strat", nil)

	share, err := CreateShare(ctx, database, owner.ID, ShareRequest{RecipientEmail: "friend@example.com"})
	require.NoError(t, err)

	shares, err := ListShares(ctx, database, owner.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, friend.ID, shares[0].SharedWithID)

	// Only the issuing owner can revoke.
	err = DeleteShare(ctx, database, friend.ID, share.ID)
	assert.True(t, errors.Is(err, ErrShareNotFound), "got %v", err)

	require.NoError(t, DeleteShare(ctx, database, owner.ID, share.ID))

	items, err := ListSharedWithMe(ctx, database, friend.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, items)
}
