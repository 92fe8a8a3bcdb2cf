package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"lodge/infras/otel/mocks"
	"lodge/infras/postgres"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/repository"
	"lodge/shared/timezone"
)

func newMockConnection(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return &postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mock
}

func saveUsage() model.Usage {
	return model.Usage{
		ID:          "usage-1",
		CouponCode:  "SAVE20",
		CustomerID:  "customer-1",
		BookingCode: "BK2603104F7Q",
		Discount:    50000,
		CreatedAt:   timezone.Now(),
	}
}

func TestCouponRepository_RedeemTx(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := repository.New(conn, mocks.NewOtel())

	begin := func(t *testing.T) *sqlx.Tx {
		t.Helper()

		mock.ExpectBegin()

		tx, err := conn.Write.Beginx()
		if err != nil {
			t.Fatalf("error beginning mock transaction: %v", err)
		}

		return tx
	}

	t.Run("SlotAvailable", func(t *testing.T) {
		tx := begin(t)

		mock.ExpectExec("UPDATE coupons SET usage_count = usage_count \\+ 1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO coupon_usages").
			WillReturnResult(sqlmock.NewResult(0, 1))

		redeemed, err := repo.RedeemTx(context.Background(), tx, saveUsage())

		assert.NoError(t, err)
		assert.True(t, redeemed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LastSlotAlreadyTaken", func(t *testing.T) {
		// The guarded increment matches no row once usage_count reached the
		// limit; no ledger entry is written and the caller rolls back.
		tx := begin(t)

		mock.ExpectExec("UPDATE coupons SET usage_count = usage_count \\+ 1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		redeemed, err := repo.RedeemTx(context.Background(), tx, saveUsage())

		assert.NoError(t, err)
		assert.False(t, redeemed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
