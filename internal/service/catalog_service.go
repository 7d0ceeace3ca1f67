package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrComboNotFound     = errors.New("combo nao encontrado")
	ErrPromotionNotFound = errors.New("promocao nao encontrada")
)

// CatalogService manages combos and promotions, the two merchandising
// surfaces layered on top of the product list.
type CatalogService interface {
	CreateCombo(ctx context.Context, req dto.CreateComboRequest) (*dto.ComboResponse, error)
	GetCombo(ctx context.Context, id uuid.UUID) (*dto.ComboResponse, error)
	ListCombos(ctx context.Context, activeOnly bool) ([]dto.ComboResponse, error)
	UpdateCombo(ctx context.Context, id uuid.UUID, req dto.UpdateComboRequest) (*dto.ComboResponse, error)
	DeactivateCombo(ctx context.Context, id uuid.UUID) error

	CreatePromotion(ctx context.Context, req dto.CreatePromotionRequest) (*dto.PromotionResponse, error)
	ListPromotions(ctx context.Context) ([]dto.PromotionResponse, error)
	ListActivePromotions(ctx context.Context) ([]dto.PromotionResponse, error)
	DeactivatePromotion(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	combos     repository.ComboRepository
	promotions repository.PromotionRepository
	products   repository.ProductRepository
}

func NewCatalogService(combos repository.ComboRepository, promotions repository.PromotionRepository, products repository.ProductRepository) CatalogService {
	return &catalogService{combos: combos, promotions: promotions, products: products}
}

// ─── Combos ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCombo(ctx context.Context, req dto.CreateComboRequest) (*dto.ComboResponse, error) {
	items, err := s.comboItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if !req.Price.IsPositive() {
		return nil, errors.New("preco deve ser positivo")
	}

	c := &model.Combo{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		Items:       items,
	}
	if err := s.combos.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCombo(ctx, c.ID)
}

func (s *catalogService) GetCombo(ctx context.Context, id uuid.UUID) (*dto.ComboResponse, error) {
	c, err := s.combos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrComboNotFound
	}
	return comboToResponse(c), nil
}

func (s *catalogService) ListCombos(ctx context.Context, activeOnly bool) ([]dto.ComboResponse, error) {
	combos, err := s.combos.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ComboResponse, 0, len(combos))
	for i := range combos {
		resp = append(resp, *comboToResponse(&combos[i]))
	}
	return resp, nil
}

func (s *catalogService) UpdateCombo(ctx context.Context, id uuid.UUID, req dto.UpdateComboRequest) (*dto.ComboResponse, error) {
	c, err := s.combos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrComboNotFound
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, errors.New("preco deve ser positivo")
		}
		c.Price = *req.Price
	}
	if err := s.combos.Update(ctx, c); err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items, err := s.comboItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		if err := s.combos.ReplaceItems(ctx, id, items); err != nil {
			return nil, err
		}
	}
	return s.GetCombo(ctx, id)
}

func (s *catalogService) DeactivateCombo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.combos.FindByID(ctx, id); err != nil {
		return ErrComboNotFound
	}
	return s.combos.SoftDelete(ctx, id)
}

func (s *catalogService) comboItems(ctx context.Context, reqs []dto.ComboItemRequest) ([]model.ComboItem, error) {
	items := make([]model.ComboItem, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, r := range reqs {
		productID, err := uuid.Parse(r.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalido: %w", err)
		}
		if seen[productID] {
			return nil, errors.New("produto repetido no combo")
		}
		seen[productID] = true
		if _, err := s.products.FindByID(ctx, productID); err != nil {
			return nil, errors.New("produto nao encontrado")
		}
		items = append(items, model.ComboItem{ProductID: productID, Quantity: r.Quantity})
	}
	return items, nil
}

// ─── Promotions ──────────────────────────────────────────────────────────────

func (s *catalogService) CreatePromotion(ctx context.Context, req dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id invalido: %w", err)
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if !req.Price.IsPositive() {
		return nil, errors.New("preco deve ser positivo")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("starts_at invalido: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("ends_at invalido: %w", err)
	}
	if !endsAt.After(startsAt) {
		return nil, errors.New("ends_at deve ser posterior a starts_at")
	}

	p := &model.Promotion{
		ProductID: productID,
		Price:     req.Price,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Active:    true,
	}
	if err := s.promotions.Create(ctx, p); err != nil {
		return nil, err
	}
	return promotionToResponse(p), nil
}

func (s *catalogService) ListPromotions(ctx context.Context) ([]dto.PromotionResponse, error) {
	promos, err := s.promotions.List(ctx)
	if err != nil {
		return nil, err
	}
	return promotionsToResponse(promos), nil
}

func (s *catalogService) ListActivePromotions(ctx context.Context) ([]dto.PromotionResponse, error) {
	promos, err := s.promotions.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return promotionsToResponse(promos), nil
}

func (s *catalogService) DeactivatePromotion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.promotions.FindByID(ctx, id); err != nil {
		return ErrPromotionNotFound
	}
	return s.promotions.Deactivate(ctx, id)
}

func comboToResponse(c *model.Combo) *dto.ComboResponse {
	items := make([]dto.ComboItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		r := dto.ComboItemResponse{ProductID: item.ProductID.String(), Quantity: item.Quantity}
		if item.Product != nil {
			r.Name = item.Product.Name
		}
		items = append(items, r)
	}
	return &dto.ComboResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImagePath,
		Active:      c.Active,
		Items:       items,
	}
}

func promotionsToResponse(promos []model.Promotion) []dto.PromotionResponse {
	resp := make([]dto.PromotionResponse, 0, len(promos))
	for i := range promos {
		resp = append(resp, *promotionToResponse(&promos[i]))
	}
	return resp
}

func promotionToResponse(p *model.Promotion) *dto.PromotionResponse {
	resp := &dto.PromotionResponse{
		ID:        p.ID.String(),
		ProductID: p.ProductID.String(),
		Price:     p.Price,
		StartsAt:  p.StartsAt.Format(time.RFC3339),
		EndsAt:    p.EndsAt.Format(time.RFC3339),
		Active:    p.Active,
	}
	if p.Product != nil {
		resp.ProductName = p.Product.Name
	}
	return resp
}
