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

// tradeRecord is the stored shape of a ledger entry.
type tradeRecord struct {
	TradeID   string    `json:"trade_id"`
	AssetID   string    `json:"asset_id"`
	Type      string    `json:"type"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Date      time.Time `json:"date"`
	FXRate    float64   `json:"fx_rate"`
	Currency  string    `json:"currency"`
	IsSIP     bool      `json:"is_sip"`
	CreatedAt time.Time `json:"created_at"`
}

func (r tradeRecord) toModel() *models.Transaction {
	return &models.Transaction{
		ID:        r.TradeID,
		AssetID:   r.AssetID,
		Type:      models.TransactionType(r.Type),
		Quantity:  r.Quantity,
		Price:     r.Price,
		Date:      r.Date,
		FXRate:    r.FXRate,
		Currency:  r.Currency,
		IsSIP:     r.IsSIP,
		CreatedAt: r.CreatedAt,
	}
}

// TransactionStore implements interfaces.TransactionStore using SurrealDB.
type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{db: db, logger: logger}
}

// SaveTransaction validates and upserts a ledger entry.
func (s *TransactionStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
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

	record := tradeRecord{
		TradeID:   tx.ID,
		AssetID:   tx.AssetID,
		Type:      string(tx.Type),
		Quantity:  tx.Quantity,
		Price:     tx.Price,
		Date:      tx.Date,
		FXRate:    tx.FXRate,
		Currency:  tx.Currency,
		IsSIP:     tx.IsSIP,
		CreatedAt: tx.CreatedAt,
	}
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(tableTrade, tx.ID), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]tradeRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save transaction after retries: %w", lastErr)
}

func (s *TransactionStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	record, err := surrealdb.Select[tradeRecord](ctx, s.db, surrealmodels.NewRecordID(tableTrade, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select transaction: %w", err)
	}
	if record == nil || record.TradeID == "" {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return record.toModel(), nil
}

func (s *TransactionStore) ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error) {
	sql := "SELECT * FROM trade ORDER BY date DESC"
	vars := map[string]any{}
	if assetID != "" {
		sql = "SELECT * FROM trade WHERE asset_id = $asset_id ORDER BY date DESC"
		vars["asset_id"] = assetID
	}

	results, err := surrealdb.Query[[]tradeRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []*models.Transaction
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			txs = append(txs, r.toModel())
		}
	}
	return txs, nil
}

func (s *TransactionStore) DeleteTransaction(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[tradeRecord](ctx, s.db, surrealmodels.NewRecordID(tableTrade, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.TransactionStore = (*TransactionStore)(nil)
