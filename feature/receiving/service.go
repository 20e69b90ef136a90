package receiving

import (
	"context"
	"fmt"
	"sync"
	"time"

	"materials-manager/feature/orders"
	"materials-manager/feature/receiving/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service reconciles purchase-order line items against unloading reports and
// the posted-batch ledger, and builds receiving requests from the result.
type Service struct {
	orders   *orders.Service
	reports  GoodsReceiptStore
	ledger   ReceivedBatchLedger
	ingest   ReportIngestor
	prefix   string
	logger   *zap.Logger
	validate *validator.Validate
}

// ReportIngestor persists newly submitted unloading reports. Satisfied by
// ReportStore; separate from GoodsReceiptStore because reconciliation never
// writes.
type ReportIngestor interface {
	SaveReport(ctx context.Context, report reconcile.Report) error
}

// NewService creates a receiving service. orderNumberPrefix is the fixed
// prefix used to generate order-number lookup variants.
func NewService(ordersService *orders.Service, reports GoodsReceiptStore, ledger ReceivedBatchLedger, ingest ReportIngestor, orderNumberPrefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:   ordersService,
		reports:  reports,
		ledger:   ledger,
		ingest:   ingest,
		prefix:   orderNumberPrefix,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Reconciliation is the operator-facing reconciliation view for one line item.
type Reconciliation struct {
	OrderID      string `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	LineItemID   string `json:"line_item_id"`
	LineItemName string `json:"line_item_name"`

	Result         reconcile.Result         `json:"result"`
	Classification reconcile.Classification `json:"classification"`

	// Message explains the classification in operator terms.
	Message string `json:"message"`

	// NothingToReceive marks the valid terminal state where everything
	// delivered has already been posted.
	NothingToReceive bool `json:"nothing_to_receive"`
}

// snapshot holds the two inputs of a reconciliation, fetched concurrently.
type snapshot struct {
	reports []reconcile.Report
	posted  []reconcile.PostedBatch
}

// fetchSnapshot loads the unloading reports and the posted-batch ledger in
// parallel. Both stores are independent backends, so the calls overlap.
func (s *Service) fetchSnapshot(ctx context.Context, variants []string, lineItemID string) (*snapshot, error) {
	var (
		wg         sync.WaitGroup
		snap       snapshot
		reportsErr error
		ledgerErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap.reports, reportsErr = s.reports.QueryByOrderNumber(ctx, variants)
	}()
	go func() {
		defer wg.Done()
		snap.posted, ledgerErr = s.ledger.ListPostedBatches(ctx, lineItemID)
	}()
	wg.Wait()

	if reportsErr != nil {
		return nil, fmt.Errorf("failed to load unloading reports: %w", reportsErr)
	}
	if ledgerErr != nil {
		return nil, fmt.Errorf("failed to load posted batches: %w", ledgerErr)
	}
	return &snap, nil
}

// Reconcile computes the outstanding delivery state for one order line. The
// result is computed fresh on every call; nothing is cached or persisted.
func (s *Service) Reconcile(ctx context.Context, orderID, itemID string) (*Reconciliation, error) {
	order, item, err := s.orders.GetLineItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	variants, err := OrderNumberVariants(order.Number, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	snap, err := s.fetchSnapshot(ctx, variants, itemID)
	if err != nil {
		return nil, err
	}

	line := item.ToLineItem()
	matched := reconcile.MatchEntries(line, snap.reports)
	diag := reconcile.Classify(line, snap.reports)
	result := reconcile.Aggregate(line, matched, snap.posted, s.logger)

	s.logger.Debug("Reconciled line item",
		zap.String("order_id", orderID),
		zap.String("line_item_id", itemID),
		zap.String("match", diag.Type.String()),
		zap.Int("reports", result.ReportsCount),
		zap.Int("outstanding_batches", len(result.Batches)))

	return &Reconciliation{
		OrderID:          order.ID,
		OrderNumber:      order.Number,
		LineItemID:       line.ID,
		LineItemName:     line.Name,
		Result:           result,
		Classification:   diag,
		Message:          diag.Message(line),
		NothingToReceive: result.NothingToReceive(),
	}, nil
}

// BuildReceivingRequest reconciles the line and converts the result into the
// parameter set the inventory receiving workflow consumes. Returns a
// *reconcile.NotReportedError when no report mentions the line by id.
func (s *Service) BuildReceivingRequest(ctx context.Context, orderID, itemID string) (*reconcile.ReceivingRequest, error) {
	order, item, err := s.orders.GetLineItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	variants, err := OrderNumberVariants(order.Number, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	snap, err := s.fetchSnapshot(ctx, variants, itemID)
	if err != nil {
		return nil, err
	}

	line := item.ToLineItem()
	matched := reconcile.MatchEntries(line, snap.reports)
	diag := reconcile.Classify(line, snap.reports)
	result := reconcile.Aggregate(line, matched, snap.posted, s.logger)

	return reconcile.BuildRequest(order.Ref(), line, result, diag)
}

// ReportSubmission is a new unloading report as submitted by the warehouse
// frontend. The document id and fill timestamp are assigned server-side when
// absent.
type ReportSubmission struct {
	OrderNumbers []string              `json:"order_numbers" validate:"required,min=1,dive,required"`
	FilledAt     time.Time             `json:"filled_at"`
	Items        []reconcile.ItemEntry `json:"selected_items" validate:"required,min=1"`
}

// SubmitReport validates and persists a new unloading report, returning the
// assigned document id.
func (s *Service) SubmitReport(ctx context.Context, submission ReportSubmission) (string, error) {
	if err := s.validate.Struct(submission); err != nil {
		return "", fmt.Errorf("invalid report: %w", err)
	}

	report := reconcile.Report{
		ID:           uuid.NewString(),
		OrderNumbers: submission.OrderNumbers,
		FilledAt:     submission.FilledAt,
		Items:        submission.Items,
	}
	if report.FilledAt.IsZero() {
		report.FilledAt = time.Now().UTC()
	}

	if err := s.ingest.SaveReport(ctx, report); err != nil {
		return "", err
	}

	s.logger.Info("Unloading report stored",
		zap.String("report_id", report.ID),
		zap.Strings("order_numbers", report.OrderNumbers),
		zap.Int("items", len(report.Items)))
	return report.ID, nil
}
