package repository

import (
	"context"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the data access contract for orders.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListByMotoboy(ctx context.Context, motoboyID uuid.UUID) ([]model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	UpdateTx(tx *gorm.DB, o *model.Order) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("User").Preload("Motoboy").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	return r.list(ctx, filter, nil)
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	return r.list(ctx, filter, &userID)
}

func (r *orderRepo) list(ctx context.Context, filter dto.OrderFilter, userID *uuid.UUID) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("User").Preload("Motoboy").
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListByMotoboy(ctx context.Context, motoboyID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("User").
		Where("motoboy_id = ? AND status = ?", motoboyID, model.OrderOutForDelivery).
		Order("created_at ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) Update(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Save(o).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
