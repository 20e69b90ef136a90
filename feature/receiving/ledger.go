package receiving

import (
	"context"
	"fmt"

	"materials-manager/feature/orders/models"
	"materials-manager/feature/receiving/reconcile"

	"gorm.io/gorm"
)

// LedgerStore is the database-backed ReceivedBatchLedger. It reads the
// posted_batches table maintained by the external receiving workflow.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a ledger store over the given database.
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// ListPostedBatches returns every batch posted to inventory for the line
// item, oldest first.
func (s *LedgerStore) ListPostedBatches(ctx context.Context, lineItemID string) ([]reconcile.PostedBatch, error) {
	var rows []models.PostedBatch
	err := s.db.WithContext(ctx).
		Where("line_item_id = ?", lineItemID).
		Order("posted_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posted batches for line item %s: %w", lineItemID, err)
	}

	batches := make([]reconcile.PostedBatch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, row.ToPostedBatch())
	}
	return batches, nil
}
