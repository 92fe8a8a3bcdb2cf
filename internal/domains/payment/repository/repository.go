package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	bookingRepository "lodge/internal/domains/booking/repository"
	couponModel "lodge/internal/domains/coupon/model"
	couponRepository "lodge/internal/domains/coupon/repository"
	"lodge/internal/domains/payment/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"
)

// SettleOutcome reports which step of the settlement transaction refused to
// apply. Anything but Settled rolls the whole transaction back.
type SettleOutcome int

const (
	Settled SettleOutcome = iota
	AlreadyCaptured
	BookingNotPayable
	CouponExhausted
)

type Payment interface {
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrder(ctx context.Context, orderID string) (model.Order, error)
	Settle(ctx context.Context, orderID, paymentID, bookingCode, method string, usage *couponModel.Usage) (SettleOutcome, error)
	InsertOrphaned(ctx context.Context, orphan model.OrphanedPayment) error
	GetOrphaned(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.OrphanedPayment, error)
	CountOrphaned(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ResolveOrphaned(ctx context.Context, id string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Order]
	orphans     gRepo.Repository[model.OrphanedPayment]
	bookingRepo bookingRepository.Booking
	couponRepo  couponRepository.Coupon
	db          *postgres.Connection
	otel        otel.Otel
}

func New(db *postgres.Connection, bookingRepo bookingRepository.Booking, couponRepo couponRepository.Coupon, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository:  gRepo.NewRepository[model.Order](model.EntityName, model.TableName, model.FieldID, db, otel),
		orphans:     gRepo.NewRepository[model.OrphanedPayment](model.OrphanEntityName, model.OrphanTableName, model.FieldID, db, otel),
		bookingRepo: bookingRepo,
		couponRepo:  couponRepo,
		db:          db,
		otel:        otel,
	}
}

func (repo *repositoryImpl) CreateOrder(ctx context.Context, order model.Order) error {
	return repo.Repository.Insert(ctx, order) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	return repo.Repository.Get(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOrderID,
				Operator: gDto.FilterOperatorEq,
				Value:    orderID,
				Table:    model.TableName,
			},
		},
	})
}

// Settle applies the payment in one transaction: capture the order, mark the
// booking paid, redeem the coupon when one was applied. Every step is a
// conditional update; the first zero-row step aborts so a replayed callback or
// a racing cancellation cannot half-apply.
func (repo *repositoryImpl) Settle(ctx context.Context, orderID, paymentID, bookingCode, method string, usage *couponModel.Usage) (outcome SettleOutcome, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.Settle")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to begin transaction (payment): %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	captureQuery := `
	UPDATE payment_orders
	SET status = :captured,
		payment_id = :payment_id,
		modified_at = :modified_at
	WHERE order_id = :order_id
	  AND status = :created`

	res, err := tx.NamedExecContext(ctx, captureQuery, map[string]any{
		"captured":    model.StatusCaptured,
		"payment_id":  paymentID,
		"modified_at": timezone.Now(),
		"order_id":    orderID,
		"created":     model.StatusCreated,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to capture payment order: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return outcome, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows == 0 {
		return AlreadyCaptured, nil
	}

	paid, err := repo.bookingRepo.MarkPaidTx(ctx, tx, bookingCode, paymentID, method)
	if err != nil {
		return outcome, fmt.Errorf("failed to mark booking paid: %w", err)
	}

	if !paid {
		return BookingNotPayable, nil
	}

	if usage != nil {
		redeemed, redeemErr := repo.couponRepo.RedeemTx(ctx, tx, *usage)
		if redeemErr != nil {
			return outcome, fmt.Errorf("failed to redeem coupon: %w", redeemErr)
		}

		if !redeemed {
			return CouponExhausted, nil
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to commit payment settlement: %w", err)
	}

	return Settled, nil
}

func (repo *repositoryImpl) InsertOrphaned(ctx context.Context, orphan model.OrphanedPayment) error {
	return repo.orphans.Insert(ctx, orphan) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetOrphaned(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.OrphanedPayment, error) {
	return repo.orphans.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) CountOrphaned(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return repo.orphans.Count(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) ResolveOrphaned(ctx context.Context, id string) (resolved bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.ResolveOrphaned")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err := repo.db.Write.NamedExecContext(ctx,
		"UPDATE orphaned_payments SET resolved = TRUE WHERE id = :id AND resolved = FALSE",
		map[string]any{"id": id},
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to resolve orphaned payment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}
