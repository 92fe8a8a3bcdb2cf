package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/internal/domains/coupon/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCoupon    = "coupon:get"
	cacheGetAllCoupon = "coupon:gets"
	cacheCountCoupon  = "coupon:count"
)

// ValidateInput carries the booking context a coupon is checked against.
type ValidateInput struct {
	Code         string
	CustomerID   string
	OrderAmount  int64
	RoomCategory string
	RoomID       string
	BookingDate  time.Time
}

type Coupon interface {
	Create(ctx context.Context, req dto.CreateCouponRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCouponsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, code string) (dto.CouponResponse, error)
	Deactivate(ctx context.Context, code string) error
	Extend(ctx context.Context, code string, req dto.ExtendCouponRequest) error
	Validate(ctx context.Context, input ValidateInput) (model.Coupon, error)
}

type serviceImpl struct {
	repo  repository.Coupon
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Coupon, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Coupon {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCouponRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	coupon, err := req.ToModel(user)
	if err != nil {
		return err
	}

	codeTaken, err := s.repo.Exist(ctx, shared.FilterByID(coupon.Code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if coupon code exists")

		return fmt.Errorf("failed to check if coupon code exists: %w", err)
	}

	if codeTaken {
		return failure.Conflict("coupon code already exists") // nolint:wrapcheck
	}

	if err = s.repo.Create(ctx, coupon); err != nil {
		log.Error().Err(err).Msg("failed to create coupon")

		return fmt.Errorf("failed to create coupon: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCoupon)
		shared.InvalidateCaches(c, s.cache, cacheCountCoupon)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCouponsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCoupon, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coupons")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coupons")

		return res, fmt.Errorf("failed to count coupons: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupons")

		return res, fmt.Errorf("failed to get coupons: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupons to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCoupon, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coupon count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coupons")

		return res, fmt.Errorf("failed to count coupons: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupon count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, code string) (res dto.CouponResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCoupon, code)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coupon")

		return res, nil
	}

	coupon, err := s.repo.Get(ctx, shared.FilterByID(code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupon")

		return res, fmt.Errorf("failed to get coupon: %w", err)
	}

	if coupon.ID == constant.Empty {
		return res, failure.NotFound("coupon not found") // nolint:wrapcheck
	}

	res.FromModel(coupon)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupon to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Deactivate(ctx context.Context, code string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(code, model.FieldCode, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if coupon exists")

		return fmt.Errorf("failed to check if coupon exists: %w", err)
	}

	if !exist {
		return failure.NotFound("coupon not found") // nolint:wrapcheck
	}

	// Deactivation stops new redemptions; ledger entries stay untouched.
	if err = s.repo.Update(ctx, map[string]any{
		model.FieldActive: false,
		"modified_at":     timezone.Now(),
		"modified_by":     user,
	}, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate coupon")

		return fmt.Errorf("failed to deactivate coupon: %w", err)
	}

	s.invalidate(ctx, code)

	return nil
}

func (s *serviceImpl) Extend(ctx context.Context, code string, req dto.ExtendCouponRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	validUntil, err := req.ParseValidUntil()
	if err != nil {
		return err
	}

	coupon, err := s.repo.Get(ctx, shared.FilterByID(code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupon")

		return fmt.Errorf("failed to get coupon: %w", err)
	}

	if coupon.ID == constant.Empty {
		return failure.NotFound("coupon not found") // nolint:wrapcheck
	}

	if !validUntil.After(coupon.ValidUntil) {
		return failure.BadRequestFromString("new valid_until must extend the current validity") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, map[string]any{
		model.FieldValidUntil: validUntil,
		"modified_at":         timezone.Now(),
		"modified_by":         user,
	}, shared.FilterByID(code, model.FieldCode, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to extend coupon")

		return fmt.Errorf("failed to extend coupon: %w", err)
	}

	s.invalidate(ctx, code)

	return nil
}

// Validate runs the redemption checks in a fixed order; the first failing
// check decides the reason reported to the customer. It never mutates the
// coupon; redemption happens only after payment is verified.
func (s *serviceImpl) Validate(ctx context.Context, input ValidateInput) (coupon model.Coupon, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".coupon.Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	coupon, err = s.repo.Get(ctx, shared.FilterByID(input.Code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupon")

		return coupon, fmt.Errorf("failed to get coupon: %w", err)
	}

	if coupon.ID == constant.Empty {
		return coupon, model.NewError(model.ReasonNotFound, "coupon does not exist") // nolint:wrapcheck
	}

	now := timezone.Now()

	switch {
	case !coupon.Active:
		return coupon, model.NewError(model.ReasonInactive, "coupon is no longer active") // nolint:wrapcheck
	case now.Before(coupon.ValidFrom):
		return coupon, model.NewError(model.ReasonNotYetValid, "coupon is not valid yet") // nolint:wrapcheck
	case coupon.IsExpiredAt(now):
		return coupon, model.NewError(model.ReasonExpired, "coupon has expired") // nolint:wrapcheck
	case coupon.RemainingUsage() == 0:
		return coupon, model.NewError(model.ReasonLimitReached, "coupon usage limit reached") // nolint:wrapcheck
	case input.OrderAmount < coupon.MinOrderAmount:
		return coupon, model.NewError(model.ReasonMinOrder, "booking amount is below the coupon minimum") // nolint:wrapcheck
	}

	if coupon.UserUsageLimit > 0 {
		used, err := s.repo.CountUsageByCustomer(ctx, coupon.Code, input.CustomerID)
		if err != nil {
			log.Error().Err(err).Msg("failed to count coupon usage")

			return coupon, fmt.Errorf("failed to count coupon usage: %w", err)
		}

		if used >= coupon.UserUsageLimit {
			return coupon, model.NewError(model.ReasonUserLimit, "coupon already used the maximum number of times") // nolint:wrapcheck
		}
	}

	if len(coupon.Categories) > 0 && !contains(coupon.Categories, input.RoomCategory) {
		return coupon, model.NewError(model.ReasonCategory, "coupon is not valid for this room category") // nolint:wrapcheck
	}

	if len(coupon.Rooms) > 0 && !contains(coupon.Rooms, input.RoomID) {
		return coupon, model.NewError(model.ReasonRoom, "coupon is not valid for this room") // nolint:wrapcheck
	}

	if coupon.ExcludesDate(input.BookingDate) {
		return coupon, model.NewError(model.ReasonDateExcluded, "coupon cannot be used on this date") // nolint:wrapcheck
	}

	return coupon, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, code string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCoupon, code)); err != nil {
			log.Error().Err(err).Msg("failed to delete coupon from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCoupon)
		shared.InvalidateCaches(c, s.cache, cacheCountCoupon)
	}()
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}

	return false
}
