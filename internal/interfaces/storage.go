// Package interfaces defines the contracts between networth components
package interfaces

import (
	"context"

	"github.com/bobmcallan/networth/internal/models"
)

// AssetStore persists asset definitions.
type AssetStore interface {
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	FindAsset(ctx context.Context, ticker string, market models.Market) (*models.Asset, error)
	SaveAsset(ctx context.Context, asset *models.Asset) error
	ListAssets(ctx context.Context) ([]*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

// TransactionStore persists ledger entries.
type TransactionStore interface {
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	// ListTransactions returns entries newest first; an empty assetID lists all.
	ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// StorageManager owns the storage connection and its stores.
type StorageManager interface {
	AssetStore() AssetStore
	TransactionStore() TransactionStore
	Close() error
}
