package receiving

import (
	"context"

	"materials-manager/feature/receiving/reconcile"
)

// GoodsReceiptStore retrieves unloading reports by order-number variants.
// The store performs simple equality lookups per variant and unions the
// results; generating the variants is the caller's job (OrderNumberVariants).
type GoodsReceiptStore interface {
	QueryByOrderNumber(ctx context.Context, variants []string) ([]reconcile.Report, error)
}

// ReceivedBatchLedger lists the batches already posted to inventory for a
// line item. Rows are written by the external receiving workflow.
type ReceivedBatchLedger interface {
	ListPostedBatches(ctx context.Context, lineItemID string) ([]reconcile.PostedBatch, error)
}
