package repository

import (
	"context"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComboRepository manages combos and their items.
type ComboRepository interface {
	Create(ctx context.Context, c *model.Combo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error)
	List(ctx context.Context, activeOnly bool) ([]model.Combo, error)
	Update(ctx context.Context, c *model.Combo) error
	ReplaceItems(ctx context.Context, comboID uuid.UUID, items []model.ComboItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type comboRepo struct{ db *gorm.DB }

func NewComboRepository(db *gorm.DB) ComboRepository { return &comboRepo{db: db} }

func (r *comboRepo) Create(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error) {
	var c model.Combo
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&c, id).Error
	return &c, err
}

func (r *comboRepo) List(ctx context.Context, activeOnly bool) ([]model.Combo, error) {
	var combos []model.Combo
	q := r.db.WithContext(ctx).Preload("Items.Product")
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&combos).Error
	return combos, err
}

func (r *comboRepo) Update(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *comboRepo) ReplaceItems(ctx context.Context, comboID uuid.UUID, items []model.ComboItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_id = ?", comboID).Delete(&model.ComboItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ComboID = comboID
		}
		return tx.Create(&items).Error
	})
}

func (r *comboRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Combo{}).Where("id = ?", id).Update("active", false).Error
}
