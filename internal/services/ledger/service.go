// Package ledger records trades and manages the asset catalogue
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// Service implements LedgerService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new ledger service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// RecordTransaction validates the request, finds or creates its asset and
// appends the trade to the ledger.
func (s *Service) RecordTransaction(ctx context.Context, req models.NewTransaction) (*models.Transaction, *models.Asset, error) {
	tx, err := req.Transaction()
	if err != nil {
		return nil, nil, err
	}

	wanted := req.Asset()
	if err := wanted.Validate(); err != nil {
		return nil, nil, err
	}

	asset, err := s.findOrCreateAsset(ctx, &wanted)
	if err != nil {
		return nil, nil, err
	}

	tx.ID = uuid.New().String()
	tx.AssetID = asset.ID
	if err := s.storage.TransactionStore().SaveTransaction(ctx, &tx); err != nil {
		return nil, nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info().
		Str("id", tx.ID).
		Str("ticker", asset.Ticker).
		Str("type", string(tx.Type)).
		Float64("quantity", tx.Quantity).
		Float64("price", tx.Price).
		Msg("Transaction recorded")

	return &tx, asset, nil
}

func (s *Service) findOrCreateAsset(ctx context.Context, wanted *models.Asset) (*models.Asset, error) {
	store := s.storage.AssetStore()

	existing, err := store.FindAsset(ctx, wanted.Ticker, wanted.Market)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up asset: %w", err)
	}

	wanted.ID = uuid.New().String()
	if err := store.SaveAsset(ctx, wanted); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	s.logger.Info().Str("ticker", wanted.Ticker).Str("market", string(wanted.Market)).Msg("Asset created")
	return wanted, nil
}

// ListTransactions returns trades newest first, optionally for one asset.
func (s *Service) ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error) {
	return s.storage.TransactionStore().ListTransactions(ctx, assetID)
}

func (s *Service) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	return s.storage.AssetStore().ListAssets(ctx)
}

// DeleteTransaction removes a trade; a missing ID reports ErrNotFound.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	store := s.storage.TransactionStore()
	if _, err := store.GetTransaction(ctx, id); err != nil {
		return err
	}
	if err := store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Transaction deleted")
	return nil
}

// Ensure Service implements LedgerService
var _ interfaces.LedgerService = (*Service)(nil)
