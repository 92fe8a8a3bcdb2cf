package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	couponService "lodge/internal/domains/coupon/service"
	roomModel "lodge/internal/domains/room/model"
	roomRepository "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreateOrReuse(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, code string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, code string) error
	CheckOut(ctx context.Context, code string) error
	Cancel(ctx context.Context, code string, req dto.CancelBookingRequest) error
	MarkNoShow(ctx context.Context, code string) error
	UpdatePaymentStatus(ctx context.Context, code string, req dto.UpdatePaymentStatusRequest) error
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepository.Room
	couponSvc couponService.Coupon
	cfg       *config.Config
	cache     cache.RedisCache
	producer  kafka.Client
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	couponSvc couponService.Coupon,
	cfg *config.Config,
	cache cache.RedisCache,
	producer kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		couponSvc: couponSvc,
		cfg:       cfg,
		cache:     cache,
		producer:  producer,
		otel:      otel,
	}
}

// Create prices the stay, reserves the room, and persists a provisional
// booking (Confirmed, payment Pending). A supplied coupon is validated and
// priced in here but not redeemed; redemption happens only once payment is
// verified, so abandoned checkouts never consume coupon usage.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	customerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.StayWindow()
	if err != nil {
		return res, failure.BadRequestFromString("check_in and check_out must use YYYY-MM-DD format") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	if checkIn.Before(timezone.Now().Add(-model.CheckInGrace)) {
		return res, failure.BadRequestFromString("check_in cannot be in the past") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.Active {
		return res, failure.BadRequestFromString("room is not open for booking") // nolint:wrapcheck
	}

	totalGuests := req.Adults + req.Children + req.Infants
	if totalGuests > room.MaxOccupancy {
		return res, failure.BadRequestFromString(fmt.Sprintf("room holds at most %d guests", room.MaxOccupancy)) // nolint:wrapcheck
	}

	conflict, err := s.repo.HasConflict(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return res, fmt.Errorf("failed to check room availability: %w", err)
	}

	if conflict {
		return res, model.ErrRoomUnavailable // nolint:wrapcheck
	}

	nights := model.Nights(checkIn, checkOut)
	subtotal := room.PricePerNight * int64(nights)
	taxes := subtotal * s.cfg.Booking.TaxPercent / 100

	var discount int64

	if req.CouponCode != constant.Empty {
		coupon, err := s.couponSvc.Validate(ctx, couponService.ValidateInput{
			Code:         req.CouponCode,
			CustomerID:   customerID,
			OrderAmount:  subtotal,
			RoomCategory: room.Category,
			RoomID:       room.ID,
			BookingDate:  checkIn,
		})
		if err != nil {
			return res, err
		}

		discount = coupon.CalculateDiscount(subtotal)
	}

	total := subtotal + taxes - discount
	if total < 0 {
		// Discount capping makes this unreachable; fail loudly if it regresses.
		return res, failure.UnprocessableEntity("computed total is negative") // nolint:wrapcheck
	}

	var booking model.Booking
	var guests []model.Guest

	for attempt := 0; attempt < s.cfg.Booking.CodeMaxRetries; attempt++ {
		code, genErr := generateCode(s.cfg.Booking.CodePrefix, timezone.Now())
		if genErr != nil {
			log.Error().Err(genErr).Msg("failed to generate booking code")

			return res, genErr
		}

		booking = dto.NewBookingModel(req, customerID, code, checkIn, checkOut, room.PricePerNight, subtotal, taxes, discount, total)
		guests = req.GuestModels(booking.ID)

		err = s.repo.CreateWithGuests(ctx, booking, guests)
		if err == nil {
			break
		}

		if errors.Is(err, repository.ErrCodeTaken) {
			log.Warn().Str("code", code).Msg("booking code collision, retrying")

			continue
		}

		if errors.Is(err, model.ErrRoomUnavailable) {
			return res, err
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	if err != nil {
		log.Error().Err(err).Msg("exhausted booking code retries")

		return res, failure.InternalError(fmt.Errorf("failed to create booking: %w", err)) // nolint:wrapcheck
	}

	s.publishEvent(ctx, model.EventBookingCreated, booking)
	s.invalidateLists(ctx)

	res.FromModel(booking)
	res.SetGuests(guests)

	return res, nil
}

// CreateOrReuse returns the customer's existing pending booking for the same
// room and stay window instead of creating a duplicate. Payment retries after
// a timeout or a dismissed provider modal land here.
func (s *serviceImpl) CreateOrReuse(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateOrReuse")
	defer scope.End()
	defer scope.TraceIfError(err)

	customerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.StayWindow()
	if err != nil {
		return res, failure.BadRequestFromString("check_in and check_out must use YYYY-MM-DD format") // nolint:wrapcheck
	}

	pending, err := s.repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCustomerID, Operator: gDto.FilterOperatorEq, Value: customerID, Table: model.TableName},
			gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: req.RoomID, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Operator: gDto.FilterOperatorEq, Value: checkIn, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOut, Operator: gDto.FilterOperatorEq, Value: checkOut, Table: model.TableName},
			gDto.Filter{Field: model.FieldBookingStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusConfirmed, Table: model.TableName},
			gDto.Filter{Field: model.FieldPaymentStatus, Operator: gDto.FilterOperatorEq, Value: model.PaymentPending, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to look up pending booking")

		return res, fmt.Errorf("failed to look up pending booking: %w", err)
	}

	if pending.ID != constant.Empty {
		log.Info().Str("code", pending.Code).Msg("reusing pending booking for checkout retry")

		res.FromModel(pending)

		return res, nil
	}

	return s.Create(ctx, req)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, code string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, code)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.loadByCode(ctx, code)
	if err != nil {
		return res, err
	}

	guests, err := s.repo.GetGuests(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking guests")

		return res, fmt.Errorf("failed to get booking guests: %w", err)
	}

	res.FromModel(booking)
	res.SetGuests(guests)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, code string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.transition(ctx, code, ActionCheckIn, constant.Empty,
		[]string{model.StatusConfirmed},
		func(next model.Booking) map[string]any {
			return map[string]any{model.FieldBookingStatus: next.BookingStatus}
		})

	return err
}

func (s *serviceImpl) CheckOut(ctx context.Context, code string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.transition(ctx, code, ActionCheckOut, constant.Empty,
		[]string{model.StatusCheckedIn},
		func(next model.Booking) map[string]any {
			return map[string]any{model.FieldBookingStatus: next.BookingStatus}
		})

	return err
}

// Cancel frees the room for new bookings immediately; the conflict check
// skips cancelled rows.
func (s *serviceImpl) Cancel(ctx context.Context, code string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	cancelled, err := s.transition(ctx, code, ActionCancel, req.Reason,
		[]string{model.StatusConfirmed, model.StatusCheckedIn},
		func(next model.Booking) map[string]any {
			return map[string]any{
				model.FieldBookingStatus: next.BookingStatus,
				model.FieldCancelledAt:   next.CancelledAt,
				model.FieldCancelReason:  next.CancelReason,
			}
		})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, model.EventBookingCancelled, cancelled)

	return nil
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, code string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkNoShow")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.transition(ctx, code, ActionMarkNoShow, constant.Empty,
		[]string{model.StatusConfirmed},
		func(next model.Booking) map[string]any {
			return map[string]any{model.FieldBookingStatus: next.BookingStatus}
		})

	return err
}

func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, code string, req dto.UpdatePaymentStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdatePaymentStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadByCode(ctx, code)
	if err != nil {
		return err
	}

	next, err := UpdatePaymentStatus(booking, req.Status, req.PaymentRef)
	if err != nil {
		return err
	}

	fields := map[string]any{
		model.FieldPaymentStatus: next.PaymentStatus,
		"modified_at":            timezone.Now(),
	}
	if next.PaymentRef != constant.Empty {
		fields[model.FieldPaymentRef] = next.PaymentRef
	}

	updated, err := s.repo.UpdateStatusIf(ctx, code, []string{
		model.StatusConfirmed,
		model.StatusCheckedIn,
		model.StatusCheckedOut,
		model.StatusNoShow,
	}, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to update payment status")

		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if !updated {
		return s.staleStateError(ctx, code, "update payment status")
	}

	s.invalidateBooking(ctx, code)

	return nil
}

// transition loads the booking, runs the pure state machine, and persists the
// outcome with a compare-and-swap keyed on the expected current status. A
// zero-row update means a concurrent actor moved the booking first; the fresh
// status is reported back as a state error. On success it returns the
// post-transition snapshot so callers can publish from it without a re-read.
func (s *serviceImpl) transition(
	ctx context.Context,
	code string,
	action Action,
	reason string,
	fromStatuses []string,
	fields func(next model.Booking) map[string]any,
) (model.Booking, error) {
	booking, err := s.loadByCode(ctx, code)
	if err != nil {
		return model.Booking{}, err
	}

	next, err := Apply(booking, action, timezone.Now(), reason)
	if err != nil {
		return model.Booking{}, err
	}

	updates := fields(next)
	updates["modified_at"] = timezone.Now()

	if user, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && user != constant.Empty {
		updates["modified_by"] = user
	}

	updated, err := s.repo.UpdateStatusIf(ctx, code, fromStatuses, updates)
	if err != nil {
		log.Error().Err(err).Msg("failed to persist booking transition")

		return model.Booking{}, fmt.Errorf("failed to persist booking transition: %w", err)
	}

	if !updated {
		return model.Booking{}, s.staleStateError(ctx, code, string(action))
	}

	s.invalidateBooking(ctx, code)

	return next, nil
}

func (s *serviceImpl) loadByCode(ctx context.Context, code string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) staleStateError(ctx context.Context, code, action string) error {
	current, err := s.loadByCode(ctx, code)
	if err != nil {
		return err
	}

	return &model.StateError{Status: current.BookingStatus, Action: action} // nolint:wrapcheck
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		event := model.Event{
			Type:        eventType,
			BookingCode: booking.Code,
			RoomID:      booking.RoomID,
			CustomerID:  booking.CustomerID,
			Status:      booking.BookingStatus,
			TotalAmount: booking.TotalAmount,
			OccurredAt:  timezone.Now(),
		}

		if err := s.producer.SendMessages(c, s.cfg.Kafka.BookingTopic, kafka.Message{
			Key:   booking.Code,
			Value: event,
		}); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, code string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, code)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// InvalidateFor drops the cached views of one booking. Callers that mutate
// bookings through the repository layer (payment settlement) use this to keep
// reads fresh.
func InvalidateFor(ctx context.Context, redisCache cache.RedisCache, code string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := redisCache.Delete(c, shared.BuildCacheKey(cacheGetBooking, code)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, redisCache, cacheGetAllBooking)
		shared.InvalidateCaches(c, redisCache, cacheCountBooking)
	}()
}
