package repository

import (
	"context"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockEntryRepository persists the append-only purchase ledger.
type StockEntryRepository interface {
	CreateTx(tx *gorm.DB, e *model.StockEntry) error
	List(ctx context.Context, limit int) ([]model.StockEntry, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockEntry, error)
}

type stockEntryRepo struct{ db *gorm.DB }

func NewStockEntryRepository(db *gorm.DB) StockEntryRepository { return &stockEntryRepo{db: db} }

func (r *stockEntryRepo) CreateTx(tx *gorm.DB, e *model.StockEntry) error {
	return tx.Create(e).Error
}

func (r *stockEntryRepo) List(ctx context.Context, limit int) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).Preload("Product").Preload("Supplier").
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *stockEntryRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at DESC").Find(&entries).Error
	return entries, err
}
