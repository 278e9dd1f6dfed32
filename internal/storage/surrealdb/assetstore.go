package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// assetRecord is the stored shape; the record id mirrors asset_id.
type assetRecord struct {
	AssetID   string    `json:"asset_id"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	AssetType string    `json:"asset_type"`
	Market    string    `json:"market"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func (r assetRecord) toModel() *models.Asset {
	return &models.Asset{
		ID:        r.AssetID,
		Ticker:    r.Ticker,
		Name:      r.Name,
		AssetType: models.AssetType(r.AssetType),
		Market:    models.Market(r.Market),
		Provider:  models.Provider(r.Provider),
		CreatedAt: r.CreatedAt,
	}
}

// AssetStore implements interfaces.AssetStore using SurrealDB.
type AssetStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewAssetStore creates a new AssetStore.
func NewAssetStore(db *surrealdb.DB, logger *common.Logger) *AssetStore {
	return &AssetStore{db: db, logger: logger}
}

func (s *AssetStore) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	record, err := surrealdb.Select[assetRecord](ctx, s.db, surrealmodels.NewRecordID(tableAsset, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select asset: %w", err)
	}
	if record == nil || record.AssetID == "" {
		return nil, fmt.Errorf("asset %s: %w", id, models.ErrNotFound)
	}
	return record.toModel(), nil
}

// FindAsset looks an asset up by ticker and market.
func (s *AssetStore) FindAsset(ctx context.Context, ticker string, market models.Market) (*models.Asset, error) {
	sql := "SELECT * FROM asset WHERE ticker = $ticker AND market = $market LIMIT 1"
	vars := map[string]any{"ticker": ticker, "market": string(market)}

	results, err := surrealdb.Query[[]assetRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find asset: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("asset %s/%s: %w", ticker, market, models.ErrNotFound)
	}
	return (*results)[0].Result[0].toModel(), nil
}

// SaveAsset upserts an asset, assigning an ID and creation time when missing.
func (s *AssetStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	record := assetRecord{
		AssetID:   asset.ID,
		Ticker:    asset.Ticker,
		Name:      asset.Name,
		AssetType: string(asset.AssetType),
		Market:    string(asset.Market),
		Provider:  string(asset.Provider),
		CreatedAt: asset.CreatedAt,
	}
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(tableAsset, asset.ID), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]assetRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save asset after retries: %w", lastErr)
}

func (s *AssetStore) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	results, err := surrealdb.Query[[]assetRecord](ctx, s.db, "SELECT * FROM asset ORDER BY ticker ASC", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var assets []*models.Asset
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			assets = append(assets, r.toModel())
		}
	}
	return assets, nil
}

func (s *AssetStore) DeleteAsset(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[assetRecord](ctx, s.db, surrealmodels.NewRecordID(tableAsset, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.AssetStore = (*AssetStore)(nil)
