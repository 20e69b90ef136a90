package reconcile

import (
	"encoding/json"
	"time"

	"materials-manager/core/utils"

	"github.com/shopspring/decimal"
)

// LineItem is one ordered product within a purchase order. Immutable from
// this package's perspective; only the external receiving workflow increments
// ReceivedQuantity.
type LineItem struct {
	// ID is the unique identifier of the line item.
	ID string `json:"id"`

	// Name is the product name as it appears on the order.
	Name string `json:"name"`

	// Quantity is the ordered quantity.
	Quantity decimal.Decimal `json:"quantity"`

	// Unit is the unit of measure (e.g. "kg", "pcs").
	Unit string `json:"unit"`

	// InventoryItemID links the line to the inventory catalog.
	InventoryItemID string `json:"inventory_item_id"`

	// UnitPrice is the agreed purchase price per unit.
	UnitPrice decimal.Decimal `json:"unit_price"`

	// ReceivedQuantity is the quantity already posted to inventory.
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// OrderRef identifies the purchase order a receiving request belongs to.
type OrderRef struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// Report is one unloading report: a warehouse-submitted document recording
// what was physically delivered for an order. Reports are created once per
// delivery event and never mutated here.
type Report struct {
	// ID is the document id of the report.
	ID string `json:"id"`

	// OrderNumbers holds the textual order-number variants the warehouse
	// entered. Historical data is inconsistently formatted, so a report may
	// carry the number both with and without the order prefix.
	OrderNumbers []string `json:"order_numbers"`

	// FilledAt is when the warehouse filled in the report.
	FilledAt time.Time `json:"filled_at"`

	// Items are the order lines the warehouse selected on the report form.
	Items []ItemEntry `json:"selected_items"`
}

// ItemEntry is one selected line on an unloading report. Two historical
// document schemas coexist across installations:
//
//   - current: Batches carries one entry per delivered lot
//   - legacy: a single UnloadedQuantity plus ExpiryDate/NoExpiryDate on the
//     entry itself
//
// IsLegacy distinguishes the two; normalization into the uniform BatchEntry
// sequence happens in Aggregate.
type ItemEntry struct {
	// POItemID is the purchase-order line the warehouse picked for this
	// entry. Absent when staff typed a free-text product instead.
	POItemID string `json:"po_item_id"`

	// ProductName is the product name as entered on the report.
	ProductName string `json:"product_name"`

	// Batches is the per-lot breakdown (current schema).
	Batches []RawBatch `json:"batches,omitempty"`

	// UnloadedQuantity is the delivered quantity (legacy schema).
	UnloadedQuantity FlexString `json:"unloaded_quantity,omitempty"`

	// ExpiryDate is the raw expiry value (legacy schema). Dates arrive as
	// ISO strings, {seconds} timestamps, or junk; see ParseDateValue.
	ExpiryDate json.RawMessage `json:"expiry_date,omitempty"`

	// NoExpiryDate marks the product as explicitly having no expiry.
	NoExpiryDate bool `json:"no_expiry_date,omitempty"`
}

// IsLegacy reports whether the entry uses the single-value schema.
func (e ItemEntry) IsLegacy() bool {
	return len(e.Batches) == 0
}

// RawBatch is one delivered lot as recorded on a report (current schema).
type RawBatch struct {
	// BatchNumber is the lot number printed on the delivery. May be empty
	// when the supplier ships unlotted goods.
	BatchNumber string `json:"batch_number"`

	// UnloadedQuantity is the delivered quantity for this lot.
	UnloadedQuantity FlexString `json:"unloaded_quantity"`

	// ExpiryDate is the raw expiry value; see ParseDateValue.
	ExpiryDate json.RawMessage `json:"expiry_date,omitempty"`

	// NoExpiryDate marks the lot as explicitly having no expiry.
	NoExpiryDate bool `json:"no_expiry_date,omitempty"`
}

// BatchEntry is the normalized form of one delivered lot, annotated with the
// report it came from. This is the uniform shape both document schemas are
// reduced to.
type BatchEntry struct {
	BatchNumber      string    `json:"batch_number"`
	UnloadedQuantity string    `json:"unloaded_quantity"`
	Expiry           DateValue `json:"expiry"`
	SourceReportID   string    `json:"source_report_id"`
	SourceReportDate time.Time `json:"source_report_date"`
}

// PostedBatch is a batch already recorded in inventory for a line item.
// Produced by the external receiving workflow; read-only here.
type PostedBatch struct {
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// MatchedEntry pairs a report with the entry that matched a line item.
type MatchedEntry struct {
	Report Report
	Entry  ItemEntry
}

// Result is the reconciliation output for one line item. It is computed
// fresh on every call and never persisted.
type Result struct {
	// Matched mirrors whether MatchEntries found at least one exact-ID
	// entry; carried through for convenience.
	Matched bool `json:"matched"`

	// Batches are the retained (not yet posted) lots, in report order then
	// batch order within a report.
	Batches []BatchEntry `json:"batches"`

	// AggregateQuantity is the sum of retained quantities, falling back to
	// the ordered quantity when the sum is zero.
	AggregateQuantity decimal.Decimal `json:"aggregate_quantity"`

	// RepresentativeExpiry is the first valid date found in processing
	// order. This is deliberately not the earliest calendar date.
	RepresentativeExpiry DateValue `json:"representative_expiry"`

	// HasNoExpiryDate is true only when no valid date was found anywhere
	// and at least one retained batch explicitly declared "not applicable".
	HasNoExpiryDate bool `json:"has_no_expiry_date"`

	// ReportsCount is the number of distinct reports that contributed at
	// least one retained batch.
	ReportsCount int `json:"reports_count"`
}

// NothingToReceive reports the valid terminal state where the line was
// matched but every delivered lot has already been posted. The UI shows
// "nothing left to receive" for it, not an error.
func (r Result) NothingToReceive() bool {
	return r.Matched && len(r.Batches) == 0
}

// FlexString is a string that tolerates JSON numbers. Warehouse forms have
// historically serialized quantities both as "40" and as 40.
type FlexString string

// UnmarshalJSON decodes strings, numbers, and null into a plain string.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*f = ""
		return nil
	}
	*f = FlexString(utils.ToString(v))
	return nil
}

// MarshalJSON always emits the string form.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}
