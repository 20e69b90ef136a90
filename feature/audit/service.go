package audit

import (
	"context"
	"fmt"

	"materials-manager/feature/orders/models"
	"materials-manager/feature/receiving/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportLister provides the full unloading-report index.
type ReportLister interface {
	ListReports(ctx context.Context) ([]reconcile.Report, error)
}

// Service runs the consistency checks.
type Service struct {
	db      *gorm.DB
	reports ReportLister
	logger  *zap.Logger
}

// NewService creates a new audit service.
func NewService(db *gorm.DB, reports ReportLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, reports: reports, logger: logger}
}

// OrphanPostedBatch is a ledger row whose line item no longer exists.
type OrphanPostedBatch struct {
	LineItemID string `json:"line_item_id"`
	LotNumber  string `json:"lot_number"`
}

// UnknownLineItemRef is a report entry pointing at a line item id that no
// purchase order carries.
type UnknownLineItemRef struct {
	ReportID    string `json:"report_id"`
	POItemID    string `json:"po_item_id"`
	ProductName string `json:"product_name"`
}

// Report is the outcome of one audit run.
type Report struct {
	CheckedReports      int                  `json:"checked_reports"`
	CheckedPostedRows   int                  `json:"checked_posted_rows"`
	OrphanPostedBatches []OrphanPostedBatch  `json:"orphan_posted_batches"`
	UnknownLineItemRefs []UnknownLineItemRef `json:"unknown_line_item_refs"`

	// ReportsWithoutOrderNumbers lists documents no order query can ever
	// find. They silently drop deliveries from reconciliation.
	ReportsWithoutOrderNumbers []string `json:"reports_without_order_numbers"`

	Healthy bool `json:"healthy"`
}

// Run executes all checks and returns the combined findings.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	var lineItemIDs []string
	if err := s.db.WithContext(ctx).Model(&models.PurchaseOrderLineItem{}).Pluck("id", &lineItemIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list line item ids: %w", err)
	}
	known := make(map[string]struct{}, len(lineItemIDs))
	for _, id := range lineItemIDs {
		known[id] = struct{}{}
	}

	var postedRows []models.PostedBatch
	if err := s.db.WithContext(ctx).Find(&postedRows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posted batches: %w", err)
	}

	reports, err := s.reports.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	result := &Report{
		CheckedReports:    len(reports),
		CheckedPostedRows: len(postedRows),
	}

	for _, row := range postedRows {
		if _, ok := known[row.LineItemID]; !ok {
			result.OrphanPostedBatches = append(result.OrphanPostedBatches, OrphanPostedBatch{
				LineItemID: row.LineItemID,
				LotNumber:  row.LotNumber,
			})
		}
	}

	for _, report := range reports {
		if len(report.OrderNumbers) == 0 {
			result.ReportsWithoutOrderNumbers = append(result.ReportsWithoutOrderNumbers, report.ID)
		}
		for _, entry := range report.Items {
			if entry.POItemID == "" {
				// Free-text entries carry no reference to verify.
				continue
			}
			if _, ok := known[entry.POItemID]; !ok {
				result.UnknownLineItemRefs = append(result.UnknownLineItemRefs, UnknownLineItemRef{
					ReportID:    report.ID,
					POItemID:    entry.POItemID,
					ProductName: entry.ProductName,
				})
			}
		}
	}

	result.Healthy = len(result.OrphanPostedBatches) == 0 &&
		len(result.UnknownLineItemRefs) == 0 &&
		len(result.ReportsWithoutOrderNumbers) == 0

	s.logger.Info("Audit run finished",
		zap.Int("reports", result.CheckedReports),
		zap.Int("posted_rows", result.CheckedPostedRows),
		zap.Bool("healthy", result.Healthy))
	return result, nil
}
