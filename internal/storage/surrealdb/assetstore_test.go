package surrealdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/networth/internal/models"
)

func TestAssetStore_SaveGetFind(t *testing.T) {
	store := testManager(t).AssetStore()
	ctx := context.Background()

	asset := &models.Asset{
		Ticker:    "RELIANCE",
		Name:      "Reliance Industries",
		AssetType: models.AssetStock,
		Market:    models.MarketIN,
		Provider:  models.ProviderYahoo,
	}
	require.NoError(t, store.SaveAsset(ctx, asset))
	require.NotEmpty(t, asset.ID)
	assert.False(t, asset.CreatedAt.IsZero())

	got, err := store.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, got.ID)
	assert.Equal(t, "Reliance Industries", got.Name)
	assert.Equal(t, models.MarketIN, got.Market)

	found, err := store.FindAsset(ctx, "RELIANCE", models.MarketIN)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, found.ID)

	_, err = store.FindAsset(ctx, "RELIANCE", models.MarketUS)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAssetStore_GetMissing(t *testing.T) {
	store := testManager(t).AssetStore()

	_, err := store.GetAsset(context.Background(), "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAssetStore_ListAndDelete(t *testing.T) {
	store := testManager(t).AssetStore()
	ctx := context.Background()

	for _, ticker := range []string{"TCS", "AAPL", "BTC-USD"} {
		require.NoError(t, store.SaveAsset(ctx, &models.Asset{
			Ticker:    ticker,
			AssetType: models.AssetStock,
			Market:    models.MarketUS,
			Provider:  models.ProviderYahoo,
		}))
	}

	assets, err := store.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "AAPL", assets[0].Ticker)

	require.NoError(t, store.DeleteAsset(ctx, assets[0].ID))
	assets, err = store.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}
