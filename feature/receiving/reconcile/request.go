package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// NotReportedError blocks receiving-request construction when no exact-id
// match exists across any report. It carries the diagnostic classification so
// the operator learns whether the item was never mentioned or mentioned under
// a different identifier, instead of a generic "not found".
type NotReportedError struct {
	LineItemID   string
	LineItemName string
	Class        Classification
}

func (e *NotReportedError) Error() string {
	return fmt.Sprintf("line item %s not reported for receiving (match: %s)", e.LineItemID, e.Class.Type)
}

// ReceivingRequest is the flat parameter set consumed by the inventory
// receiving workflow. Either BatchesJSON is populated, or the single-value
// ExpiryDate/NoExpiryDate fields are, preserving the older shape consumers
// still expect for pure legacy data.
type ReceivingRequest struct {
	OrderNumber   string          `json:"order_number"`
	OrderID       string          `json:"order_id"`
	LineItemID    string          `json:"line_item_id"`
	LineItemName  string          `json:"line_item_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`

	// BatchesJSON is the JSON-encoded batch array:
	// [{"batch_number","quantity","expiry_date"|"no_expiry_date"}].
	BatchesJSON string `json:"batches_json,omitempty"`

	// ExpiryDate / NoExpiryDate are the single-value legacy fields.
	ExpiryDate   string `json:"expiry_date,omitempty"`
	NoExpiryDate bool   `json:"no_expiry_date,omitempty"`
}

// requestBatch is the wire shape of one batch inside BatchesJSON.
type requestBatch struct {
	BatchNumber  string `json:"batch_number,omitempty"`
	Quantity     string `json:"quantity"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	NoExpiryDate bool   `json:"no_expiry_date,omitempty"`
}

// BuildRequest converts a reconciliation result into the receiving workflow
// parameters. It fails only when the result is unmatched; every other state,
// including "all batches already posted", builds a request (callers decide
// whether to offer it, see Result.NothingToReceive).
//
// The unit price comes from the purchase-order line, never from the report:
// warehouse staff do not negotiate prices.
func BuildRequest(order OrderRef, line LineItem, res Result, diag Classification) (*ReceivingRequest, error) {
	if !res.Matched {
		return nil, &NotReportedError{LineItemID: line.ID, LineItemName: line.Name, Class: diag}
	}

	req := &ReceivingRequest{
		OrderNumber:   order.Number,
		OrderID:       order.ID,
		LineItemID:    line.ID,
		LineItemName:  line.Name,
		UnitPrice:     line.UnitPrice,
		TotalQuantity: res.AggregateQuantity,
	}

	if len(res.Batches) > 0 {
		batches := make([]requestBatch, 0, len(res.Batches))
		for _, b := range res.Batches {
			rb := requestBatch{
				BatchNumber: b.BatchNumber,
				Quantity:    b.UnloadedQuantity,
			}
			switch {
			case b.Expiry.Known():
				rb.ExpiryDate = b.Expiry.Time.Format("2006-01-02")
			case b.Expiry.NotApplicable():
				rb.NoExpiryDate = true
			}
			batches = append(batches, rb)
		}
		encoded, err := json.Marshal(batches)
		if err != nil {
			// Only reachable with values json.Marshal cannot encode,
			// which requestBatch does not contain.
			return nil, fmt.Errorf("failed to encode batch list: %w", err)
		}
		req.BatchesJSON = string(encoded)
		return req, nil
	}

	// Older consumers expect the single-value fields when no batch list
	// exists but a quantity and representative expiry do.
	if res.AggregateQuantity.IsPositive() {
		switch {
		case res.RepresentativeExpiry.Known():
			req.ExpiryDate = res.RepresentativeExpiry.Time.Format("2006-01-02")
			return req, nil
		case res.HasNoExpiryDate:
			req.NoExpiryDate = true
			return req, nil
		}
	}

	req.BatchesJSON = "[]"
	return req, nil
}
