package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrder = OrderRef{ID: "PO-77", Number: "2024-0117"}

func testPricedLine() LineItem {
	return LineItem{
		ID:        "IT1",
		Name:      "Widget A",
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.RequireFromString("12.50"),
	}
}

// TestBuildRequest_NotReported verifies the only blocking error: an
// unmatched result fails with the diagnostic classification attached so the
// UI can surface the precise reason.
func TestBuildRequest_NotReported(t *testing.T) {
	line := testPricedLine()
	diag := Classification{Type: MatchByNameOnly, NameConflicts: 1}

	req, err := BuildRequest(testOrder, line, Result{Matched: false}, diag)
	assert.Nil(t, req)

	var notReported *NotReportedError
	require.ErrorAs(t, err, &notReported)
	assert.Equal(t, "IT1", notReported.LineItemID)
	assert.Equal(t, MatchByNameOnly, notReported.Class.Type)
	assert.Contains(t, notReported.Error(), "by_name_only")
}

// TestBuildRequest_BatchList verifies the serialized batch array and that
// the unit price comes from the PO line.
func TestBuildRequest_BatchList(t *testing.T) {
	line := testPricedLine()

	res := Result{
		Matched:           true,
		AggregateQuantity: decimal.NewFromInt(60),
		Batches: []BatchEntry{
			{
				BatchNumber:      "L2",
				UnloadedQuantity: "60",
				Expiry:           DateValue{Kind: DateKnown, Time: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
			{
				UnloadedQuantity: "5",
				Expiry:           DateValue{Kind: DateNotApplicable},
			},
		},
	}

	req, err := BuildRequest(testOrder, line, res, Classification{Type: MatchByID})
	require.NoError(t, err)

	assert.Equal(t, "2024-0117", req.OrderNumber)
	assert.Equal(t, "PO-77", req.OrderID)
	assert.Equal(t, "IT1", req.LineItemID)
	assert.Equal(t, "Widget A", req.LineItemName)
	assert.True(t, req.UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, req.TotalQuantity.Equal(decimal.NewFromInt(60)))
	assert.Empty(t, req.ExpiryDate)
	assert.False(t, req.NoExpiryDate)

	var batches []map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.BatchesJSON), &batches))
	require.Len(t, batches, 2)
	assert.Equal(t, "L2", batches[0]["batch_number"])
	assert.Equal(t, "60", batches[0]["quantity"])
	assert.Equal(t, "2025-02-01", batches[0]["expiry_date"])
	assert.Nil(t, batches[1]["batch_number"])
	assert.Equal(t, true, batches[1]["no_expiry_date"])
}

// TestBuildRequest_LegacySingleValue verifies the backward-compatible shape:
// an empty batch list with quantity and representative expiry emits the
// single-value fields instead of a batch array.
func TestBuildRequest_LegacySingleValue(t *testing.T) {
	line := testPricedLine()

	t.Run("known expiry", func(t *testing.T) {
		res := Result{
			Matched:              true,
			AggregateQuantity:    decimal.NewFromInt(25),
			RepresentativeExpiry: DateValue{Kind: DateKnown, Time: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		}
		req, err := BuildRequest(testOrder, line, res, Classification{Type: MatchByID})
		require.NoError(t, err)
		assert.Empty(t, req.BatchesJSON)
		assert.Equal(t, "2025-06-30", req.ExpiryDate)
		assert.False(t, req.NoExpiryDate)
	})

	t.Run("no expiry declared", func(t *testing.T) {
		res := Result{
			Matched:           true,
			AggregateQuantity: decimal.NewFromInt(25),
			HasNoExpiryDate:   true,
		}
		req, err := BuildRequest(testOrder, line, res, Classification{Type: MatchByID})
		require.NoError(t, err)
		assert.Empty(t, req.BatchesJSON)
		assert.Empty(t, req.ExpiryDate)
		assert.True(t, req.NoExpiryDate)
	})
}

// TestBuildRequest_AllPosted verifies the "nothing left to receive" state
// still builds a request with an empty batch array rather than failing.
func TestBuildRequest_AllPosted(t *testing.T) {
	line := testPricedLine()

	res := Result{Matched: true}
	req, err := BuildRequest(testOrder, line, res, Classification{Type: MatchByID})
	require.NoError(t, err)
	assert.Equal(t, "[]", req.BatchesJSON)
	assert.Empty(t, req.ExpiryDate)
	assert.False(t, req.NoExpiryDate)
}
