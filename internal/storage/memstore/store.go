// Package memstore is an in-process StorageManager for local runs and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// Manager holds assets and trades in maps guarded by a single mutex.
type Manager struct {
	mu     sync.RWMutex
	assets map[string]models.Asset
	trades map[string]models.Transaction
}

// New creates an empty in-memory storage manager.
func New() *Manager {
	return &Manager{
		assets: make(map[string]models.Asset),
		trades: make(map[string]models.Transaction),
	}
}

func (m *Manager) AssetStore() interfaces.AssetStore             { return (*assetStore)(m) }
func (m *Manager) TransactionStore() interfaces.TransactionStore { return (*tradeStore)(m) }
func (m *Manager) Close() error                                  { return nil }

type assetStore Manager

func (s *assetStore) GetAsset(_ context.Context, id string) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, models.ErrNotFound)
	}
	return &a, nil
}

func (s *assetStore) FindAsset(_ context.Context, ticker string, market models.Market) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assets {
		if a.Ticker == ticker && a.Market == market {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("asset %s/%s: %w", ticker, market, models.ErrNotFound)
}

func (s *assetStore) SaveAsset(_ context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.assets[asset.ID] = *asset
	s.mu.Unlock()
	return nil
}

func (s *assetStore) ListAssets(_ context.Context) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (s *assetStore) DeleteAsset(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.assets, id)
	s.mu.Unlock()
	return nil
}

type tradeStore Manager

func (s *tradeStore) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.AssetID == "" {
		return fmt.Errorf("%w: asset id is required", models.ErrInvalidInput)
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.trades[tx.ID] = *tx
	s.mu.Unlock()
	return nil
}

func (s *tradeStore) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.trades[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return &tx, nil
}

func (s *tradeStore) ListTransactions(_ context.Context, assetID string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transaction, 0)
	for _, tx := range s.trades {
		if assetID != "" && tx.AssetID != assetID {
			continue
		}
		tx := tx
		out = append(out, &tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *tradeStore) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.trades, id)
	s.mu.Unlock()
	return nil
}

var _ interfaces.StorageManager = (*Manager)(nil)
