package orders

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestListOrders(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `purchase_orders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}).
			AddRow("PO-78", "2024-0118", "ACME Foods", time.Now()).
			AddRow("PO-77", "2024-0117", "ACME Foods", time.Now().Add(-time.Hour)))

	svc := NewService(db, zap.NewNop())
	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "PO-78", orders[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}).
			AddRow("PO-77", "2024-0117", "ACME Foods", time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `purchase_order_line_items` WHERE `purchase_order_line_items`.`order_id` = \\?").
		WithArgs("PO-77").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name", "quantity", "unit", "inventory_item_id", "unit_price", "received_quantity"}).
			AddRow("IT1", "PO-77", "Tomato Paste", "100", "kg", "INV-9", "12.50", "0"))

	svc := NewService(db, zap.NewNop())
	order, err := svc.GetOrder(context.Background(), "PO-77")
	require.NoError(t, err)

	assert.Equal(t, "2024-0117", order.Number)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "Tomato Paste", order.LineItems[0].Name)
	assert.True(t, order.LineItems[0].Quantity.Equal(decimal.NewFromInt(100)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_NotFound(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}))

	svc := NewService(db, zap.NewNop())
	_, err := svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLineItem(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}).
			AddRow("PO-77", "2024-0117", "ACME Foods", time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `purchase_order_line_items` WHERE id = \\? AND order_id = \\?").
		WithArgs("IT1", "PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name", "quantity", "unit", "inventory_item_id", "unit_price", "received_quantity"}).
			AddRow("IT1", "PO-77", "Tomato Paste", "100", "kg", "INV-9", "12.50", "40"))

	svc := NewService(db, zap.NewNop())
	order, item, err := svc.GetLineItem(context.Background(), "PO-77", "IT1")
	require.NoError(t, err)

	assert.Equal(t, "2024-0117", order.Number)
	assert.Equal(t, "IT1", item.ID)

	line := item.ToLineItem()
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(40)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLineItem_UnknownItem(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `purchase_orders` WHERE id = \\?").
		WithArgs("PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "supplier", "created_at"}).
			AddRow("PO-77", "2024-0117", "ACME Foods", time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `purchase_order_line_items` WHERE id = \\? AND order_id = \\?").
		WithArgs("missing", "PO-77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name", "quantity", "unit", "inventory_item_id", "unit_price", "received_quantity"}))

	svc := NewService(db, zap.NewNop())
	_, _, err := svc.GetLineItem(context.Background(), "PO-77", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
