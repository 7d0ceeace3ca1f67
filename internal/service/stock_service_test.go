package service

import (
	"context"
	"errors"
	"testing"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestRecomputeStatusPersistsDerivedValue(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add(&model.Product{
		Name:        "Cerveja Lata 350ml",
		Stock:       3,
		StockStatus: model.StatusInStock, // stale
		Active:      true,
	})
	svc := NewStockService(repo, &stubEntryRepo{})

	status, err := svc.RecomputeStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLowStock, status)
	assert.Equal(t, model.StatusLowStock, repo.products[p.ID].StockStatus)
	assert.Equal(t, 1, repo.statusWrites)
}

func TestRecomputeStatusSkipsWriteWhenUnchanged(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add(&model.Product{
		Name:        "Vodka",
		Stock:       50,
		StockStatus: model.StatusInStock,
		Active:      true,
	})
	svc := NewStockService(repo, &stubEntryRepo{})

	status, err := svc.RecomputeStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInStock, status)
	assert.Zero(t, repo.statusWrites)
}

func TestReconcileAllIsIdempotent(t *testing.T) {
	repo := newStubProductRepo()
	repo.add(&model.Product{Name: "A", Stock: 0, StockStatus: model.StatusInStock, Active: true})
	repo.add(&model.Product{Name: "B", Stock: 2, StockStatus: model.StatusOutOfStock, Active: true})
	repo.add(&model.Product{Name: "C", Stock: 100, StockStatus: model.StatusInStock, Active: true})
	svc := NewStockService(repo, &stubEntryRepo{})

	first, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Scanned)
	assert.Equal(t, 2, first.Updated)
	assert.Equal(t, 1, first.Unchanged)
	assert.Empty(t, first.Failed)

	second, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Scanned)
	assert.Zero(t, second.Updated, "second pass must find nothing to change")
	assert.Equal(t, 3, second.Unchanged)
}

func TestReconcileAllCollectsPerRowFailures(t *testing.T) {
	repo := newStubProductRepo()
	bad := repo.add(&model.Product{Name: "Broken", Stock: 0, StockStatus: model.StatusInStock, Active: true})
	good := repo.add(&model.Product{Name: "Fine", Stock: 0, StockStatus: model.StatusInStock, Active: true})
	repo.failStatus[bad.ID] = errors.New("deadlock detected")
	svc := NewStockService(repo, &stubEntryRepo{})

	report, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err, "row failure must not abort the pass")
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, bad.ID.String(), report.Failed[0].ProductID)
	assert.Contains(t, report.Failed[0].Reason, "deadlock")
	assert.Equal(t, model.StatusOutOfStock, repo.products[good.ID].StockStatus)
}

func TestCreateEntryCreditsStockAndRecomputesStatus(t *testing.T) {
	repo := newStubProductRepo()
	entries := &stubEntryRepo{}
	p := repo.add(&model.Product{
		Name:        "Whisky",
		Stock:       0,
		StockStatus: model.StatusOutOfStock,
		Active:      true,
	})
	svc := NewStockService(repo, entries)

	resp, err := svc.CreateEntry(context.Background(), dto.CreateStockEntryRequest{
		ProductID: p.ID.String(),
		Quantity:  24,
		UnitCost:  dec("89.90"),
	})
	require.NoError(t, err)
	assert.Equal(t, 24, repo.products[p.ID].Stock)
	assert.Equal(t, model.StatusInStock, repo.products[p.ID].StockStatus)
	assert.True(t, resp.TotalCost.Equal(dec("2157.60")))
	require.Len(t, entries.entries, 1)
	assert.Equal(t, p.ID, entries.entries[0].ProductID)
}

func TestCreateEntryCreditsVolumeForFractioned(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add(&model.Product{
		Name:          "Whisky Dose",
		Stock:         1,
		IsFractioned:  true,
		TotalVolume:   decPtr("100"),
		ServingVolume: decPtr("50"),
		StockStatus:   model.StatusLowStock,
		Active:        true,
	})
	svc := NewStockService(repo, &stubEntryRepo{})

	_, err := svc.CreateEntry(context.Background(), dto.CreateStockEntryRequest{
		ProductID:   p.ID.String(),
		Quantity:    1,
		UnitCost:    dec("120.00"),
		VolumeAdded: decPtr("1000"),
	})
	require.NoError(t, err)
	assert.True(t, repo.products[p.ID].TotalVolume.Equal(dec("1100")))
}

func TestCreateEntryRejectsUnknownProduct(t *testing.T) {
	svc := NewStockService(newStubProductRepo(), &stubEntryRepo{})

	_, err := svc.CreateEntry(context.Background(), dto.CreateStockEntryRequest{
		ProductID: "91b9747e-15bd-4aa9-a8a4-9b0a0ef1e5f0",
		Quantity:  1,
		UnitCost:  dec("10"),
	})
	assert.Error(t, err)
}

func TestAdjustStockRecomputesStatus(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add(&model.Product{
		Name:        "Gin",
		Stock:       10,
		StockStatus: model.StatusInStock,
		Active:      true,
	})
	svc := NewStockService(repo, &stubEntryRepo{})

	resp, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  -10,
		Reason: "quebra de garrafas",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.products[p.ID].Stock)
	assert.Equal(t, string(model.StatusOutOfStock), resp.StockStatus)
}
