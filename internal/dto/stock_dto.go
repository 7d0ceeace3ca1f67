package dto

import "github.com/shopspring/decimal"

type CreateStockEntryRequest struct {
	ProductID   string           `json:"product_id"   validate:"required,uuid"`
	SupplierID  *string          `json:"supplier_id"  validate:"omitempty,uuid"`
	Quantity    int              `json:"quantity"     validate:"required,min=1"`
	UnitCost    decimal.Decimal  `json:"unit_cost"    validate:"required"`
	VolumeAdded *decimal.Decimal `json:"volume_added"`
	InvoiceRef  *string          `json:"invoice_ref"`
}

type StockEntryResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	SupplierID  *string          `json:"supplier_id"`
	Quantity    int              `json:"quantity"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
	TotalCost   decimal.Decimal  `json:"total_cost"`
	VolumeAdded *decimal.Decimal `json:"volume_added"`
	InvoiceRef  *string          `json:"invoice_ref"`
	CreatedAt   string           `json:"created_at"`
}

// ReconcileItemFailure identifies one product the reconcile pass could not
// update, with the reason it failed.
type ReconcileItemFailure struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// ReconcileReport is the typed summary of a full stock-status reconcile pass.
type ReconcileReport struct {
	Scanned   int                    `json:"scanned"`
	Updated   int                    `json:"updated"`
	Unchanged int                    `json:"unchanged"`
	Failed    []ReconcileItemFailure `json:"failed"`
}
