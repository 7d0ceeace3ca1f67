package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	// ListStorefront returns the public view: no cost/margin, promotional
	// price resolved, image paths expanded to absolute URLs.
	ListStorefront(ctx context.Context, filter dto.ProductFilter) (*dto.StorefrontListResponse, error)
	GetStorefront(ctx context.Context, id uuid.UUID) (*dto.StorefrontProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, id uuid.UUID, path string) error
}

type productService struct {
	repo       repository.ProductRepository
	promotions repository.PromotionRepository
	baseURL    string
}

func NewProductService(repo repository.ProductRepository, promotions repository.PromotionRepository, baseURL string) ProductService {
	return &productService{repo: repo, promotions: promotions, baseURL: baseURL}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.CostPrice.IsNegative() || req.Price.IsNegative() {
		return nil, errors.New("precos nao podem ser negativos")
	}
	if req.IsFractioned && req.ServingVolume == nil {
		return nil, errors.New("produto fracionado exige serving_volume")
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier_id invalido: %w", err)
		}
		supplierID = &sid
	}

	p := &model.Product{
		Barcode:       req.Barcode,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		CostPrice:     req.CostPrice,
		Price:         req.Price,
		MarginPct:     marginPct(req.CostPrice, req.Price),
		Stock:         req.Stock,
		IsFractioned:  req.IsFractioned,
		TotalVolume:   req.TotalVolume,
		ServingVolume: req.ServingVolume,
		SupplierID:    supplierID,
		Active:        true,
	}
	p.StockStatus = p.CurrentStockStatus()

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, s.imageURL(p.ImagePath)), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	return productToResponse(p, s.imageURL(p.ImagePath)), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	normalizeFilter(&filter)
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		data = append(data, *productToResponse(p, s.imageURL(p.ImagePath)))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) ListStorefront(ctx context.Context, filter dto.ProductFilter) (*dto.StorefrontListResponse, error) {
	normalizeFilter(&filter)
	filter.Active = "" // storefront never sees inactive products
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	data := make([]dto.StorefrontProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *s.toStorefront(ctx, &products[i], now))
	}
	return &dto.StorefrontListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) GetStorefront(ctx context.Context, id uuid.UUID) (*dto.StorefrontProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil || !p.Active {
		return nil, errors.New("produto nao encontrado")
	}
	return s.toStorefront(ctx, p, time.Now()), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}

	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.IsFractioned != nil {
		p.IsFractioned = *req.IsFractioned
	}
	if req.TotalVolume != nil {
		p.TotalVolume = req.TotalVolume
	}
	if req.ServingVolume != nil {
		p.ServingVolume = req.ServingVolume
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier_id invalido: %w", err)
		}
		p.SupplierID = &sid
	}

	p.MarginPct = marginPct(p.CostPrice, p.Price)
	p.StockStatus = p.CurrentStockStatus()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, s.imageURL(p.ImagePath)), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *productService) AttachImage(ctx context.Context, id uuid.UUID, path string) error {
	return s.repo.UpdateImagePath(ctx, id, path)
}

func (s *productService) toStorefront(ctx context.Context, p *model.Product, now time.Time) *dto.StorefrontProductResponse {
	resp := &dto.StorefrontProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		StockStatus: string(p.StockStatus),
		ImageURL:    s.imageURL(p.ImagePath),
	}
	if promo, err := s.promotions.FindActiveForProduct(ctx, p.ID, now); err == nil {
		resp.PromoPrice = &promo.Price
	}
	return resp
}

// imageURL resolves a stored image path against the public base URL,
// leaving already-absolute URLs untouched.
func (s *productService) imageURL(path *string) *string {
	if path == nil {
		return nil
	}
	if strings.HasPrefix(*path, "http://") || strings.HasPrefix(*path, "https://") {
		return path
	}
	u := strings.TrimSuffix(s.baseURL, "/") + "/" + strings.TrimPrefix(*path, "/")
	return &u
}

func normalizeFilter(filter *dto.ProductFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
}

// marginPct computes (price - cost) / cost * 100, or zero when cost is zero.
func marginPct(cost, price decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func productToResponse(p *model.Product, imageURL *string) *dto.ProductResponse {
	var supplierID *string
	if p.SupplierID != nil {
		s := p.SupplierID.String()
		supplierID = &s
	}
	return &dto.ProductResponse{
		ID:            p.ID.String(),
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		CostPrice:     p.CostPrice,
		Price:         p.Price,
		MarginPct:     p.MarginPct,
		Stock:         p.Stock,
		IsFractioned:  p.IsFractioned,
		TotalVolume:   p.TotalVolume,
		ServingVolume: p.ServingVolume,
		StockStatus:   string(p.StockStatus),
		ImageURL:      imageURL,
		SupplierID:    supplierID,
		Active:        p.Active,
	}
}
