package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	constraintBookingCode = "bookings_code_key"
)

// ErrCodeTaken signals a collision on the generated booking code; callers
// regenerate the suffix and retry.
var ErrCodeTaken = errors.New("booking code already taken")

type Booking interface {
	CreateWithGuests(ctx context.Context, booking model.Booking, guests []model.Guest) error
	HasConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetGuests(ctx context.Context, bookingID string) ([]model.Guest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateStatusIf(ctx context.Context, code string, fromStatuses []string, fields map[string]any) (bool, error)
	MarkPaidTx(ctx context.Context, tx *sqlx.Tx, code, paymentRef, method string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	guests gRepo.Repository[model.Guest]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		guests:     gRepo.NewRepository[model.Guest](model.GuestEntityName, model.GuestTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CreateWithGuests runs the conflict check and the insert inside one
// serializable transaction so two overlapping checkouts cannot both commit.
// The exclusion constraint on (room_id, stay) is the database-level backstop.
func (repo *repositoryImpl) CreateWithGuests(ctx context.Context, booking model.Booking, guests []model.Guest) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithGuests")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (booking): %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	conflict, err := hasConflictQuery(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check booking conflict: %w", err)
	}

	if conflict {
		return model.ErrRoomUnavailable // nolint:wrapcheck
	}

	if err = repo.Repository.InsertTx(ctx, tx, booking); err != nil {
		return classifyInsertError(err)
	}

	if len(guests) > 0 {
		if err = repo.guests.InsertBulkTx(ctx, tx, guests); err != nil {
			return fmt.Errorf("failed to insert booking guests: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return classifyInsertError(err)
	}

	return nil
}

func (repo *repositoryImpl) HasConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (conflict bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	conflict, err = hasConflictQuery(ctx, repo.db.Read, roomID, checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return conflict, nil
}

type getter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func hasConflictQuery(ctx context.Context, q getter, roomID string, checkIn, checkOut time.Time) (bool, error) {
	// Half-open [check_in, check_out): a checkout day is free for a new
	// check-in. Cancelled bookings never hold the room.
	query := `
	SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_id = $1
		  AND booking_status != $2
		  AND check_in < $4
		  AND check_out > $3
	)`

	var conflict bool
	if err := q.GetContext(ctx, &conflict, query, roomID, model.StatusCancelled, checkIn, checkOut); err != nil {
		return false, err //nolint:wrapcheck
	}

	return conflict, nil
}

func (repo *repositoryImpl) GetGuests(ctx context.Context, bookingID string) ([]model.Guest, error) {
	return repo.guests.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			gDto.Filter{
				Field:    "booking_id",
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.GuestTableName,
			},
		},
	})
}

// UpdateStatusIf performs a compare-and-swap on booking_status: the update
// applies only while the row is still in one of fromStatuses. A false return
// means the booking moved concurrently and the caller must re-read.
func (repo *repositoryImpl) UpdateStatusIf(ctx context.Context, code string, fromStatuses []string, fields map[string]any) (updated bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusIf")
	defer scope.End()
	defer scope.TraceIfError(err)

	setClauses := make([]string, 0, len(fields))
	args := map[string]any{"code": code}

	for col, val := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
		args[col] = val
	}

	statusPlaceholders := make([]string, len(fromStatuses))
	for i, status := range fromStatuses {
		name := fmt.Sprintf("from_status_%d", i)
		statusPlaceholders[i] = ":" + name
		args[name] = status
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :code AND %s IN (%s)",
		model.TableName,
		strings.Join(setClauses, ", "),
		model.FieldCode,
		model.FieldBookingStatus,
		strings.Join(statusPlaceholders, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// MarkPaidTx flips payment_status to paid only while it is still pending and
// the booking is not cancelled, which keeps replayed payment callbacks and
// racing cancellations from both winning.
func (repo *repositoryImpl) MarkPaidTx(ctx context.Context, tx *sqlx.Tx, code, paymentRef, method string) (updated bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MarkPaidTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
	UPDATE bookings
	SET payment_status = :paid,
		payment_ref = :payment_ref,
		payment_method = :payment_method,
		modified_at = :modified_at
	WHERE code = :code
	  AND payment_status = :pending
	  AND booking_status != :cancelled`

	res, err := tx.NamedExecContext(ctx, query, map[string]any{
		"paid":           model.PaymentPaid,
		"payment_ref":    paymentRef,
		"payment_method": method,
		"modified_at":    timezone.Now(),
		"code":           code,
		"pending":        model.PaymentPending,
		"cancelled":      model.StatusCancelled,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeUniqueViolation:
			if pqErr.Constraint == constraintBookingCode {
				return ErrCodeTaken
			}

			return model.ErrRoomUnavailable // nolint:wrapcheck
		case constant.PqErrorCodeExclusionViolation, constant.PqErrorCodeSerializationFailure:
			return model.ErrRoomUnavailable // nolint:wrapcheck
		}
	}

	return fmt.Errorf("failed to insert data (booking): %w", err)
}
