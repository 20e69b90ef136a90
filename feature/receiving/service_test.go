package receiving

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"materials-manager/feature/orders"
	"materials-manager/feature/receiving/reconcile"
)

type stubReports struct {
	reports     []reconcile.Report
	err         error
	gotVariants []string
}

func (s *stubReports) QueryByOrderNumber(_ context.Context, variants []string) ([]reconcile.Report, error) {
	s.gotVariants = variants
	return s.reports, s.err
}

type stubLedger struct {
	posted []reconcile.PostedBatch
	err    error
}

func (s *stubLedger) ListPostedBatches(context.Context, string) ([]reconcile.PostedBatch, error) {
	return s.posted, s.err
}

type stubIngestor struct {
	saved []reconcile.Report
	err   error
}

func (s *stubIngestor) SaveReport(_ context.Context, report reconcile.Report) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, report)
	return nil
}

// expectLineItemLookup arms the mock for the order + line item queries that
// back every reconciliation.
func expectLineItemLookup(mock sqlmock.Sqlmock, orderNumber string) {
	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}).
			AddRow("PO-77", orderNumber, "ACME Foods", time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `purchase_order_line_items` WHERE id = \\? AND order_id = \\?").
		WithArgs("IT1", "PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name", "quantity", "unit", "inventory_item_id", "unit_price", "received_quantity"}).
			AddRow("IT1", "PO-77", "Tomato Paste", "100", "kg", "INV-9", "12.50", "40"))
}

func deliveredReport() reconcile.Report {
	return reconcile.Report{
		ID:           "r-1",
		OrderNumbers: []string{"2024-0117"},
		FilledAt:     time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		Items: []reconcile.ItemEntry{{
			POItemID:    "IT1",
			ProductName: "Tomato Paste",
			Batches: []reconcile.RawBatch{
				{BatchNumber: "L1", UnloadedQuantity: "40", ExpiryDate: json.RawMessage(`"2025-02-01"`)},
				{BatchNumber: "L2", UnloadedQuantity: "60", ExpiryDate: json.RawMessage(`"2025-04-01"`)},
			},
		}},
	}
}

func TestService_Reconcile(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	expectLineItemLookup(mock, "2024-0117")

	reports := &stubReports{reports: []reconcile.Report{deliveredReport()}}
	ledger := &stubLedger{posted: []reconcile.PostedBatch{
		{LotNumber: " l1 ", Quantity: decimal.NewFromInt(40)},
	}}

	svc := NewService(orders.NewService(db, zap.NewNop()), reports, ledger, &stubIngestor{}, "PO-", nil)
	view, err := svc.Reconcile(context.Background(), "PO-77", "IT1")
	require.NoError(t, err)

	// Both spellings of the order number are queried.
	assert.Equal(t, []string{"2024-0117", "PO-2024-0117"}, reports.gotVariants)

	assert.Equal(t, "2024-0117", view.OrderNumber)
	assert.Equal(t, "Tomato Paste", view.LineItemName)
	assert.True(t, view.Result.Matched)
	assert.False(t, view.NothingToReceive)
	assert.Equal(t, reconcile.MatchBoth, view.Classification.Type)

	// L1 is already posted (matched case-insensitively with trimming), so
	// only L2 remains outstanding.
	require.Len(t, view.Result.Batches, 1)
	assert.Equal(t, "L2", view.Result.Batches[0].BatchNumber)
	assert.True(t, view.Result.AggregateQuantity.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 1, view.Result.ReportsCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reconcile_MissingOrderNumber(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	expectLineItemLookup(mock, "   ")

	svc := NewService(orders.NewService(db, zap.NewNop()), &stubReports{}, &stubLedger{}, &stubIngestor{}, "PO-", nil)
	_, err := svc.Reconcile(context.Background(), "PO-77", "IT1")
	assert.ErrorIs(t, err, ErrMissingOrderNumber)
}

func TestService_Reconcile_UnknownOrder(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}))

	svc := NewService(orders.NewService(db, zap.NewNop()), &stubReports{}, &stubLedger{}, &stubIngestor{}, "PO-", nil)
	_, err := svc.Reconcile(context.Background(), "PO-77", "IT1")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestService_Reconcile_StoreFailure(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	expectLineItemLookup(mock, "2024-0117")

	reports := &stubReports{err: errors.New("bucket unreachable")}
	svc := NewService(orders.NewService(db, zap.NewNop()), reports, &stubLedger{}, &stubIngestor{}, "PO-", nil)
	_, err := svc.Reconcile(context.Background(), "PO-77", "IT1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load unloading reports")
}

func TestService_BuildReceivingRequest(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	expectLineItemLookup(mock, "2024-0117")

	reports := &stubReports{reports: []reconcile.Report{deliveredReport()}}
	svc := NewService(orders.NewService(db, zap.NewNop()), reports, &stubLedger{}, &stubIngestor{}, "PO-", nil)

	req, err := svc.BuildReceivingRequest(context.Background(), "PO-77", "IT1")
	require.NoError(t, err)

	assert.Equal(t, "2024-0117", req.OrderNumber)
	assert.Equal(t, "IT1", req.LineItemID)
	assert.True(t, req.TotalQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, req.UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.Contains(t, req.BatchesJSON, `"batch_number":"L1"`)
	assert.Contains(t, req.BatchesJSON, `"batch_number":"L2"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_BuildReceivingRequest_NotReported(t *testing.T) {
	db, mock := newLedgerTestDB(t)
	expectLineItemLookup(mock, "2024-0117")

	// The report mentions the product name but under a different line id.
	report := deliveredReport()
	report.Items[0].POItemID = "IT-OTHER"
	reports := &stubReports{reports: []reconcile.Report{report}}

	svc := NewService(orders.NewService(db, zap.NewNop()), reports, &stubLedger{}, &stubIngestor{}, "PO-", nil)
	_, err := svc.BuildReceivingRequest(context.Background(), "PO-77", "IT1")

	var notReported *reconcile.NotReportedError
	require.ErrorAs(t, err, &notReported)
	assert.Equal(t, "IT1", notReported.LineItemID)
	assert.Equal(t, reconcile.MatchByNameOnly, notReported.Class.Type)
	assert.Equal(t, 1, notReported.Class.NameConflicts)
}

func TestService_SubmitReport(t *testing.T) {
	db, _ := newLedgerTestDB(t)
	ingest := &stubIngestor{}
	svc := NewService(orders.NewService(db, zap.NewNop()), &stubReports{}, &stubLedger{}, ingest, "PO-", nil)

	id, err := svc.SubmitReport(context.Background(), ReportSubmission{
		OrderNumbers: []string{"2024-0117"},
		Items: []reconcile.ItemEntry{{
			POItemID:    "IT1",
			ProductName: "Tomato Paste",
			Batches:     []reconcile.RawBatch{{BatchNumber: "L9", UnloadedQuantity: "5"}},
		}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, ingest.saved, 1)
	assert.Equal(t, id, ingest.saved[0].ID)
	assert.False(t, ingest.saved[0].FilledAt.IsZero())
}

func TestService_SubmitReport_Invalid(t *testing.T) {
	db, _ := newLedgerTestDB(t)
	ingest := &stubIngestor{}
	svc := NewService(orders.NewService(db, zap.NewNop()), &stubReports{}, &stubLedger{}, ingest, "PO-", nil)

	_, err := svc.SubmitReport(context.Background(), ReportSubmission{
		Items: []reconcile.ItemEntry{{ProductName: "Tomato Paste"}},
	})
	require.Error(t, err)
	assert.Empty(t, ingest.saved)
}
