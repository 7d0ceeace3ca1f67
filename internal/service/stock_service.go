package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService owns every mutation of Product.Stock / Product.TotalVolume and
// the stock_status column derived from them. Status recomputation always runs
// in the same transaction as the stock mutation that triggered it, so the two
// can never be observed out of sync; ReconcileAll remains as a backstop for
// writes that bypass this service.
type StockService interface {
	// RecomputeStatus re-derives one product's status, persisting only when
	// it differs from the stored value. Returns the derived status.
	RecomputeStatus(ctx context.Context, productID uuid.UUID) (model.StockStatus, error)

	// ReconcileAll re-derives every product's status. Per-row failures are
	// collected in the report and never abort the pass.
	ReconcileAll(ctx context.Context) (*dto.ReconcileReport, error)

	// CreateEntry appends a purchase to the stock ledger and credits the
	// product's stock (and volume, for fractioned products) atomically.
	CreateEntry(ctx context.Context, req dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error)

	ListEntries(ctx context.Context, limit int) ([]dto.StockEntryResponse, error)

	// AdjustStock applies a manual delta to a product's stock count.
	AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
}

type stockService struct {
	products repository.ProductRepository
	entries  repository.StockEntryRepository
}

func NewStockService(products repository.ProductRepository, entries repository.StockEntryRepository) StockService {
	return &stockService{products: products, entries: entries}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *stockService) RecomputeStatus(ctx context.Context, productID uuid.UUID) (model.StockStatus, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("produto nao encontrado: %w", err)
	}
	derived := p.CurrentStockStatus()
	if derived == p.StockStatus {
		return derived, nil // write skipped
	}
	if err := s.products.UpdateStockStatus(ctx, productID, derived); err != nil {
		return "", err
	}
	return derived, nil
}

func (s *stockService) ReconcileAll(ctx context.Context) (*dto.ReconcileReport, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ReconcileReport{Scanned: len(products)}
	for i := range products {
		p := &products[i]
		derived := p.CurrentStockStatus()
		if derived == p.StockStatus {
			report.Unchanged++
			continue
		}
		if err := s.products.UpdateStockStatus(ctx, p.ID, derived); err != nil {
			report.Failed = append(report.Failed, dto.ReconcileItemFailure{
				ProductID: p.ID.String(),
				Reason:    err.Error(),
			})
			log.Error().Err(err).Str("product_id", p.ID.String()).Msg("reconcile: status update failed")
			continue
		}
		report.Updated++
	}
	return report, nil
}

func (s *stockService) CreateEntry(ctx context.Context, req dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id invalido: %w", err)
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if p.IsFractioned && req.VolumeAdded != nil && req.VolumeAdded.IsNegative() {
		return nil, errors.New("volume_added nao pode ser negativo")
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier_id invalido: %w", err)
		}
		supplierID = &sid
	}

	entry := model.StockEntry{
		ProductID:   productID,
		SupplierID:  supplierID,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		TotalCost:   req.UnitCost.Mul(decimalFromInt(req.Quantity)),
		VolumeAdded: req.VolumeAdded,
		InvoiceRef:  req.InvoiceRef,
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.entries.CreateTx(tx, &entry); err != nil {
			return err
		}
		if err := s.products.AdjustStockTx(tx, productID, req.Quantity); err != nil {
			return err
		}
		if p.IsFractioned && req.VolumeAdded != nil {
			if err := s.products.AdjustVolumeTx(tx, productID, *req.VolumeAdded); err != nil {
				return err
			}
		}
		return recomputeStatusTx(tx, s.products, productID)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := entryToResponse(&entry)
	resp.ProductName = p.Name
	return resp, nil
}

func (s *stockService) ListEntries(ctx context.Context, limit int) ([]dto.StockEntryResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	entries, err := s.entries.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockEntryResponse, 0, len(entries))
	for i := range entries {
		r := entryToResponse(&entries[i])
		if entries[i].Product != nil {
			r.ProductName = entries[i].Product.Name
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

func (s *stockService) AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, errors.New("produto nao encontrado")
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.AdjustStockTx(tx, productID, req.Delta); err != nil {
			return err
		}
		return recomputeStatusTx(tx, s.products, productID)
	})
	if txErr != nil {
		return nil, txErr
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, nil), nil
}

// recomputeStatusTx re-derives a product's status inside the caller's
// transaction, skipping the write when nothing changed.
func recomputeStatusTx(tx *gorm.DB, products repository.ProductRepository, productID uuid.UUID) error {
	p, err := products.FindByIDTx(tx, productID)
	if err != nil {
		return err
	}
	derived := p.CurrentStockStatus()
	if derived == p.StockStatus {
		return nil
	}
	return products.UpdateStockStatusTx(tx, productID, derived)
}

func entryToResponse(e *model.StockEntry) *dto.StockEntryResponse {
	var supplierID *string
	if e.SupplierID != nil {
		s := e.SupplierID.String()
		supplierID = &s
	}
	return &dto.StockEntryResponse{
		ID:          e.ID.String(),
		ProductID:   e.ProductID.String(),
		SupplierID:  supplierID,
		Quantity:    e.Quantity,
		UnitCost:    e.UnitCost,
		TotalCost:   e.TotalCost,
		VolumeAdded: e.VolumeAdded,
		InvoiceRef:  e.InvoiceRef,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
