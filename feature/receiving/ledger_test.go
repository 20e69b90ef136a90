package receiving

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLedgerTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func TestLedgerStore_ListPostedBatches(t *testing.T) {
	db, mock := newLedgerTestDB(t)

	postedAt := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `posted_batches` WHERE line_item_id = \\?").
		WithArgs("IT1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "line_item_id", "lot_number", "quantity", "posted_at"}).
			AddRow(1, "IT1", "L1", "40", postedAt).
			AddRow(2, "IT1", " l2 ", "60", postedAt.Add(time.Hour)))

	store := NewLedgerStore(db)
	got, err := store.ListPostedBatches(context.Background(), "IT1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "L1", got[0].LotNumber)
	assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(40)))
	// Lot numbers are stored as entered; normalization happens during
	// aggregation, not here.
	assert.Equal(t, " l2 ", got[1].LotNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_Empty(t *testing.T) {
	db, mock := newLedgerTestDB(t)

	mock.ExpectQuery("SELECT \\* FROM `posted_batches` WHERE line_item_id = \\?").
		WithArgs("IT9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "line_item_id", "lot_number", "quantity", "posted_at"}))

	store := NewLedgerStore(db)
	got, err := store.ListPostedBatches(context.Background(), "IT9")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
