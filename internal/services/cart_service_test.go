package services

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemRecomputesTotalInSameTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM courses WHERE id = ?")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(1000))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM carts WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cart-1"))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs("cart-1", "course-1", 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// The derived total must be re-derived before the commit.
	mock.ExpectExec("UPDATE carts SET total").
		WithArgs("cart-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, total, updated_at FROM carts WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total", "updated_at"}).
			AddRow("cart-1", "user-1", 2000, time.Now()))
	mock.ExpectQuery("FROM cart_items ci").
		WithArgs("cart-1").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "price", "thumbnail", "quantity", "added_at"}).
			AddRow("course-1", "Go Basics", 1000, nil, 2, time.Now()))

	cart, err := svc.AddItem("user-1", "course-1", 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, cart.Total)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemCreatesCartOnFirstUse(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM courses WHERE id = ?")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(500))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM carts WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO carts").
		WithArgs(sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(sqlmock.AnyArg(), "course-1", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE carts SET total").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, total, updated_at FROM carts WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total", "updated_at"}).
			AddRow("cart-1", "user-1", 500, time.Now()))
	mock.ExpectQuery("FROM cart_items ci").
		WithArgs("cart-1").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "price", "thumbnail", "quantity", "added_at"}).
			AddRow("course-1", "Go Basics", 500, nil, 1, time.Now()))

	cart, err := svc.AddItem("user-1", "course-1", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 500, cart.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemUnknownCourse(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM courses WHERE id = ?")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.AddItem("user-1", "ghost", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewCartService(db)

	_, err := svc.AddItem("user-1", "course-1", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveItemNotInCart(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM carts WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cart-1"))
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("cart-1", "course-9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.RemoveItem("user-1", "course-9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, total, updated_at FROM carts WHERE user_id = ?")).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetCart("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileTotalsReportsCorrectedCarts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCartService(db)

	mock.ExpectExec("UPDATE carts SET total").
		WillReturnResult(sqlmock.NewResult(0, 3))

	corrected, err := svc.ReconcileTotals()
	require.NoError(t, err)
	assert.EqualValues(t, 3, corrected)
}
