package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"lodge/infras/otel/mocks"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/repository"
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

func bookedStay() model.Booking {
	checkIn := time.Date(2099, 3, 10, 0, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            "booking-1",
		Code:          "BK2603104F7Q",
		CustomerID:    "customer-1",
		RoomID:        "room-1",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 2),
		Adults:        2,
		RoomRate:      250000,
		Subtotal:      500000,
		Taxes:         60000,
		TotalAmount:   560000,
		PaymentStatus: model.PaymentPending,
		BookingStatus: model.StatusConfirmed,
	}
}

func TestBookingRepository_CreateWithGuests(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := repository.New(conn, mocks.NewOtel())

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO booking_guests").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithGuests(context.Background(), bookedStay(), []model.Guest{
			{ID: "guest-1", BookingID: "booking-1", Name: "A Guest", Age: 34},
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConflictDetectedBeforeInsert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.CreateWithGuests(context.Background(), bookedStay(), nil)

		assert.ErrorIs(t, err, model.ErrRoomUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExclusionConstraintLosesRace", func(t *testing.T) {
		// Both transactions pass the conflict check; the loser hits the
		// exclusion constraint on insert and surfaces a room conflict.
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_room_no_overlap"})
		mock.ExpectRollback()

		err := repo.CreateWithGuests(context.Background(), bookedStay(), nil)

		assert.ErrorIs(t, err, model.ErrRoomUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CodeCollision", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_code_key"})
		mock.ExpectRollback()

		err := repo.CreateWithGuests(context.Background(), bookedStay(), nil)

		assert.ErrorIs(t, err, repository.ErrCodeTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SerializationFailureOnCommit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().
			WillReturnError(&pq.Error{Code: "40001"})

		err := repo.CreateWithGuests(context.Background(), bookedStay(), nil)

		assert.ErrorIs(t, err, model.ErrRoomUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_HasConflict(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := repository.New(conn, mocks.NewOtel())

	checkIn := time.Date(2099, 3, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("room-1", model.StatusCancelled, checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasConflict(context.Background(), "room-1", checkIn, checkOut)

	assert.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatusIf(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := repository.New(conn, mocks.NewOtel())

	fields := map[string]any{model.FieldBookingStatus: model.StatusCheckedIn}
	fromStatuses := []string{model.StatusConfirmed}

	t.Run("RowStillInExpectedStatus", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET booking_status").
			WithArgs(model.StatusCheckedIn, "BK2603104F7Q", model.StatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.UpdateStatusIf(context.Background(), "BK2603104F7Q", fromStatuses, fields)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RowMovedConcurrently", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET booking_status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.UpdateStatusIf(context.Background(), "BK2603104F7Q", fromStatuses, fields)

		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_MarkPaidTx(t *testing.T) {
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

	t.Run("PendingBookingMarkedPaid", func(t *testing.T) {
		tx := begin(t)

		mock.ExpectExec("UPDATE bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.MarkPaidTx(context.Background(), tx, "BK2603104F7Q", "pay_456", "razorpay")

		assert.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("ReplayedOrCancelledBookingUntouched", func(t *testing.T) {
		tx := begin(t)

		mock.ExpectExec("UPDATE bookings").
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.MarkPaidTx(context.Background(), tx, "BK2603104F7Q", "pay_456", "razorpay")

		assert.NoError(t, err)
		assert.False(t, updated)
	})
}
