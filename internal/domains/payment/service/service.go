package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/razorpay"
	"lodge/infras/s3"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepository "lodge/internal/domains/booking/repository"
	bookingService "lodge/internal/domains/booking/service"
	couponModel "lodge/internal/domains/coupon/model"
	"lodge/internal/domains/payment/model"
	"lodge/internal/domains/payment/model/dto"
	"lodge/internal/domains/payment/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	paymentMethod      = "razorpay"
	lockKeyPrefix      = "payment:lock"
	receiptContentType = "application/json"
)

type Payment interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	HandleCompletion(ctx context.Context, req dto.CompletionRequest) (dto.CompletionResponse, error)
	GetOrphaned(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOrphanedPaymentsResponse, error)
	ResolveOrphaned(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Payment
	bookingSvc  bookingService.Booking
	bookingRepo bookingRepository.Booking
	provider    razorpay.Client
	cfg         *config.Config
	cache       cache.RedisCache
	producer    kafka.Client
	storage     s3.S3
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingSvc bookingService.Booking,
	bookingRepo bookingRepository.Booking,
	provider razorpay.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	producer kafka.Client,
	storage s3.S3,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingSvc:  bookingSvc,
		bookingRepo: bookingRepo,
		provider:    provider,
		cfg:         cfg,
		cache:       cache,
		producer:    producer,
		storage:     storage,
		otel:        otel,
	}
}

// Checkout reserves the booking (or picks up the customer's pending one) and
// opens a provider order for its exact computed total. The amount sent to the
// provider always comes from the persisted booking, never from the client.
func (s *serviceImpl) Checkout(ctx context.Context, req dto.CheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	customerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.bookingSvc.CreateOrReuse(ctx, req.CreateBookingRequest)
	if err != nil {
		return res, err
	}

	order, err := s.provider.CreateOrder(ctx, booking.TotalAmount, s.cfg.Booking.Currency, booking.Code)
	if err != nil {
		log.Error().Err(err).Str("code", booking.Code).Msg("failed to create payment order")

		return res, failure.BadGateway("payment provider is unavailable, please retry") // nolint:wrapcheck
	}

	if err = s.repo.CreateOrder(ctx, dto.NewOrderModel(order, booking.Code, customerID)); err != nil {
		log.Error().Err(err).Msg("failed to persist payment order")

		return res, fmt.Errorf("failed to persist payment order: %w", err)
	}

	res.OrderID = order.ID
	res.ProviderKey = s.cfg.Payment.Razorpay.KeyID
	res.Amount = order.Amount
	res.Currency = order.Currency
	res.Booking = booking

	return res, nil
}

// HandleCompletion is the provider callback. It is idempotent keyed on the
// order: replays and double submissions settle nothing twice. A verified
// payment that cannot be settled locally is parked as an orphaned payment and
// reported as pending support, never as plain success or failure.
func (s *serviceImpl) HandleCompletion(ctx context.Context, req dto.CompletionRequest) (res dto.CompletionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.HandleCompletion")
	defer scope.End()
	defer scope.TraceIfError(err)

	lockKey := shared.BuildCacheKey(lockKeyPrefix, req.OrderID)

	acquired, err := s.cache.AcquireLock(ctx, lockKey, s.cfg.Payment.CallbackLockSeconds)
	if err != nil {
		// Proceed unlocked; the conditional capture in Settle is the
		// authoritative guard against double settlement.
		log.Error().Err(err).Str("orderID", req.OrderID).Msg("failed to acquire payment lock, proceeding unlocked")
	} else if !acquired {
		return res, failure.Conflict("payment completion already in progress") // nolint:wrapcheck
	}

	defer func() {
		if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			log.Error().Err(err).Msg("failed to release payment lock")
		}
	}()

	order, err := s.repo.GetOrder(ctx, req.OrderID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment order")

		return res, fmt.Errorf("failed to get payment order: %w", err)
	}

	if order.ID == constant.Empty {
		return res, failure.NotFound("payment order not found") // nolint:wrapcheck
	}

	if !verifySignature(req.OrderID, req.PaymentID, req.Signature, s.cfg.Payment.Razorpay.KeySecret) {
		// Audit trail for tampering attempts. Verification runs before any
		// state is disclosed so a forged callback for a known order learns
		// nothing, not even that the order was already captured.
		log.Warn().
			Str("orderID", req.OrderID).
			Str("paymentID", req.PaymentID).
			Str("bookingCode", order.BookingCode).
			Msg("payment signature mismatch")

		return res, model.ErrSignatureMismatch // nolint:wrapcheck
	}

	res.BookingCode = order.BookingCode
	res.OrderID = order.OrderID
	res.PaymentID = req.PaymentID

	if order.Status == model.StatusCaptured {
		if req.PaymentID != order.PaymentID {
			log.Warn().
				Str("orderID", req.OrderID).
				Str("paymentID", req.PaymentID).
				Str("capturedPaymentID", order.PaymentID).
				Msg("captured order replayed with a different payment id")

			return res, failure.Conflict("order already captured by another payment") // nolint:wrapcheck
		}

		res.Status = dto.CompletionAlreadyProcessed

		return res, nil
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(order.BookingCode, bookingModel.FieldCode, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for settlement")

		return res, s.park(ctx, order, req.PaymentID, fmt.Sprintf("booking lookup failed: %v", err))
	}

	if booking.ID == constant.Empty {
		return res, s.park(ctx, order, req.PaymentID, "booking record missing")
	}

	var usage *couponModel.Usage
	if booking.CouponCode != constant.Empty {
		usage = &couponModel.Usage{
			ID:          uuid.NewString(),
			CouponCode:  booking.CouponCode,
			CustomerID:  booking.CustomerID,
			BookingCode: booking.Code,
			Discount:    booking.Discount,
			CreatedAt:   timezone.Now(),
		}
	}

	outcome, err := s.repo.Settle(ctx, order.OrderID, req.PaymentID, booking.Code, paymentMethod, usage)
	if err != nil {
		log.Error().Err(err).Str("orderID", order.OrderID).Msg("payment settlement failed")

		return res, s.park(ctx, order, req.PaymentID, fmt.Sprintf("settlement failed: %v", err))
	}

	switch outcome {
	case repository.AlreadyCaptured:
		res.Status = dto.CompletionAlreadyProcessed

		return res, nil

	case repository.BookingNotPayable:
		if booking.PaymentStatus == bookingModel.PaymentPaid {
			res.Status = dto.CompletionAlreadyProcessed

			return res, nil
		}

		return res, s.park(ctx, order, req.PaymentID, "booking no longer payable (cancelled?)")

	case repository.CouponExhausted:
		return res, s.park(ctx, order, req.PaymentID, "coupon usage limit reached during settlement")
	}

	bookingService.InvalidateFor(ctx, s.cache, booking.Code)
	s.publishConfirmed(ctx, booking)
	s.archiveReceipt(ctx, order, req.PaymentID)

	res.Status = dto.CompletionConfirmed

	return res, nil
}

func (s *serviceImpl) GetOrphaned(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOrphanedPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetOrphaned")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.CountOrphaned(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count orphaned payments")

		return res, fmt.Errorf("failed to count orphaned payments: %w", err)
	}

	models, err := s.repo.GetOrphaned(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orphaned payments")

		return res, fmt.Errorf("failed to get orphaned payments: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) ResolveOrphaned(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.ResolveOrphaned")
	defer scope.End()
	defer scope.TraceIfError(err)

	resolved, err := s.repo.ResolveOrphaned(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve orphaned payment")

		return fmt.Errorf("failed to resolve orphaned payment: %w", err)
	}

	if !resolved {
		return failure.NotFound("orphaned payment not found or already resolved") // nolint:wrapcheck
	}

	return nil
}

// park records the verified payment for manual reconciliation and returns the
// "pending support" outcome.
func (s *serviceImpl) park(ctx context.Context, order model.Order, paymentID, reason string) error {
	orphan := dto.NewOrphanModel(order, paymentID, reason)

	if err := s.repo.InsertOrphaned(ctx, orphan); err != nil {
		// Last line of defence: the payment details must survive somewhere.
		log.Error().Err(err).
			Str("orderID", order.OrderID).
			Str("paymentID", paymentID).
			Int64("amount", order.Amount).
			Msg("failed to record orphaned payment")
	}

	return &model.ReconciliationError{OrderID: order.OrderID, PaymentID: paymentID} // nolint:wrapcheck
}

func (s *serviceImpl) publishConfirmed(ctx context.Context, booking bookingModel.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := bookingModel.Event{
			Type:        bookingModel.EventBookingConfirmed,
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
			log.Error().Err(err).Msg("failed to publish booking confirmed event")
		}
	}()
}

func (s *serviceImpl) archiveReceipt(ctx context.Context, order model.Order, paymentID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		receipt := model.Receipt{
			BookingCode: order.BookingCode,
			OrderID:     order.OrderID,
			PaymentID:   paymentID,
			Amount:      order.Amount,
			Currency:    order.Currency,
			PaidAt:      timezone.Now(),
		}

		payload, err := json.Marshal(receipt)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal payment receipt")

			return
		}

		fileName := fmt.Sprintf("%s_%s.json", order.BookingCode, order.OrderID)

		if _, err := s.storage.UploadFileBytes(c, s.cfg.External.S3.BucketName, s.cfg.External.S3.ReceiptDir, fileName, receiptContentType, payload); err != nil {
			log.Error().Err(err).Msg("failed to archive payment receipt")
		}
	}()
}
