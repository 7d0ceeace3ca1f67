package repository

import (
	"context"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromotionRepository manages time-windowed price overrides.
type PromotionRepository interface {
	Create(ctx context.Context, p *model.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	List(ctx context.Context) ([]model.Promotion, error)
	ListActive(ctx context.Context, at time.Time) ([]model.Promotion, error)
	FindActiveForProduct(ctx context.Context, productID uuid.UUID, at time.Time) (*model.Promotion, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type promotionRepo struct{ db *gorm.DB }

func NewPromotionRepository(db *gorm.DB) PromotionRepository { return &promotionRepo{db: db} }

func (r *promotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promotionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	var p model.Promotion
	err := r.db.WithContext(ctx).Preload("Product").First(&p, id).Error
	return &p, err
}

func (r *promotionRepo) List(ctx context.Context) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.WithContext(ctx).Preload("Product").Order("starts_at DESC").Find(&promos).Error
	return promos, err
}

func (r *promotionRepo) ListActive(ctx context.Context, at time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.WithContext(ctx).Preload("Product").
		Where("active = true AND starts_at <= ? AND ends_at > ?", at, at).
		Order("starts_at ASC").Find(&promos).Error
	return promos, err
}

func (r *promotionRepo) FindActiveForProduct(ctx context.Context, productID uuid.UUID, at time.Time) (*model.Promotion, error) {
	var p model.Promotion
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = true AND starts_at <= ? AND ends_at > ?", productID, at, at).
		Order("starts_at DESC").First(&p).Error
	return &p, err
}

func (r *promotionRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Promotion{}).Where("id = ?", id).Update("active", false).Error
}
