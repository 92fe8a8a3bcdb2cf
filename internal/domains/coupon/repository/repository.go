package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/coupon/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Coupon interface {
	Create(ctx context.Context, coupon model.Coupon) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Coupon, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Coupon, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	CountUsageByCustomer(ctx context.Context, code, customerID string) (int, error)
	RedeemTx(ctx context.Context, tx *sqlx.Tx, usage model.Usage) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Coupon]
	usages gRepo.Repository[model.Usage]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Coupon {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Coupon](model.EntityName, model.TableName, model.FieldID, db, otel),
		usages:     gRepo.NewRepository[model.Usage](model.UsageEntityName, model.UsageTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) Create(ctx context.Context, coupon model.Coupon) error {
	return repo.Repository.Insert(ctx, coupon) //nolint:wrapcheck
}

func (repo *repositoryImpl) CountUsageByCustomer(ctx context.Context, code, customerID string) (int, error) {
	return repo.usages.Count(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUsageCouponCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
				Table:    model.UsageTableName,
			},
			gDto.Filter{
				Field:    model.FieldUsageCustomerID,
				Operator: gDto.FilterOperatorEq,
				Value:    customerID,
				Table:    model.UsageTableName,
			},
		},
	})
}

// RedeemTx increments usage_count and appends the ledger entry in the caller's
// transaction. The increment is guarded by usage_count < usage_limit, so the
// last slot goes to exactly one of any concurrent redeemers; a false return
// means the coupon is exhausted (or gone) and the whole transaction must roll
// back.
func (repo *repositoryImpl) RedeemTx(ctx context.Context, tx *sqlx.Tx, usage model.Usage) (redeemed bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.RedeemTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
	UPDATE coupons
	SET usage_count = usage_count + 1,
		modified_at = :modified_at
	WHERE code = :code
	  AND active = TRUE
	  AND usage_count < usage_limit`

	res, err := tx.NamedExecContext(ctx, query, map[string]any{
		"code":        usage.CouponCode,
		"modified_at": timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows == 0 {
		return false, nil
	}

	if err = repo.usages.InsertTx(ctx, tx, usage); err != nil {
		return false, fmt.Errorf("failed to record coupon usage: %w", err)
	}

	return true, nil
}
