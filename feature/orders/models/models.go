package models

import (
	"time"

	"materials-manager/feature/receiving/reconcile"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is one purchase order sent to a supplier.
type PurchaseOrder struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Number    string    `gorm:"size:64;uniqueIndex" json:"number"`
	Supplier  string    `gorm:"size:255" json:"supplier"`
	CreatedAt time.Time `json:"created_at"`

	LineItems []PurchaseOrderLineItem `gorm:"foreignKey:OrderID" json:"line_items,omitempty"`
}

// TableName overrides the GORM default.
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Ref returns the order reference used by receiving requests.
func (o PurchaseOrder) Ref() reconcile.OrderRef {
	return reconcile.OrderRef{ID: o.ID, Number: o.Number}
}

// PurchaseOrderLineItem is one ordered product within a purchase order.
// Immutable once created except ReceivedQuantity, which only the receiving
// workflow increments.
type PurchaseOrderLineItem struct {
	ID               string          `gorm:"primaryKey;size:64" json:"id"`
	OrderID          string          `gorm:"size:64;index" json:"order_id"`
	Name             string          `gorm:"size:255" json:"name"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4)" json:"quantity"`
	Unit             string          `gorm:"size:32" json:"unit"`
	InventoryItemID  string          `gorm:"size:64" json:"inventory_item_id"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4)" json:"unit_price"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4)" json:"received_quantity"`
}

// TableName overrides the GORM default.
func (PurchaseOrderLineItem) TableName() string {
	return "purchase_order_line_items"
}

// ToLineItem converts the row into the reconciliation core's line item.
func (i PurchaseOrderLineItem) ToLineItem() reconcile.LineItem {
	return reconcile.LineItem{
		ID:               i.ID,
		Name:             i.Name,
		Quantity:         i.Quantity,
		Unit:             i.Unit,
		InventoryItemID:  i.InventoryItemID,
		UnitPrice:        i.UnitPrice,
		ReceivedQuantity: i.ReceivedQuantity,
	}
}

// PostedBatch is one batch already recorded in inventory for a line item.
// Rows are written by the external receiving workflow; this application only
// reads them when reconciling.
type PostedBatch struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	LineItemID string          `gorm:"size:64;index" json:"line_item_id"`
	LotNumber  string          `gorm:"size:128" json:"lot_number"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4)" json:"quantity"`
	PostedAt   time.Time       `json:"posted_at"`
}

// TableName overrides the GORM default.
func (PostedBatch) TableName() string {
	return "posted_batches"
}

// ToPostedBatch converts the row into the reconciliation core's shape.
func (b PostedBatch) ToPostedBatch() reconcile.PostedBatch {
	return reconcile.PostedBatch{LotNumber: b.LotNumber, Quantity: b.Quantity}
}
