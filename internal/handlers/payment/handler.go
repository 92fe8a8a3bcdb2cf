package payment

import (
	"errors"
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/payment/model"
	"lodge/internal/domains/payment/model/dto"
	"lodge/internal/domains/payment/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/checkout", handler.Checkout)
		routerGroup.Post("/callback", handler.Callback)
		routerGroup.Get("/orphaned", handler.GetOrphanedPayments)
		routerGroup.Post("/orphaned/{id}/resolve", handler.ResolveOrphanedPayment)
	})
}

// Checkout reserves a booking and opens a payment order for it.
// @Summary Start a checkout
// @Description Create (or reuse) a pending booking and open a provider payment order for its total.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout Request"
// @Success 201 {object} response.Data[dto.CheckoutResponse] "Checkout started"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/checkout [post]
// @Security BearerAuth
func (handler *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	req := dto.CheckoutRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	checkout, err := handler.service.Checkout(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start checkout")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Checkout started for booking " + checkout.Booking.Code)

	response.WithJSON(w, http.StatusCreated, checkout)
}

// Callback settles a completed payment reported by the provider.
// @Summary Complete a payment
// @Description Verify the provider signature and settle the booking. Replays are answered idempotently. A verified payment that cannot be settled is parked for support and answered with 202.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CompletionRequest true "Completion Request"
// @Success 200 {object} response.Data[dto.CompletionResponse] "Payment settled"
// @Success 202 {object} response.Message "Payment received, booking pending support"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/callback [post]
func (handler *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Callback")
	defer scope.End()

	req := dto.CompletionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	completion, err := handler.service.HandleCompletion(ctx, req)
	if err != nil {
		scope.TraceError(err)

		// Payment verified but not settled: this is neither success nor
		// failure, the caller gets a distinct pending-support outcome.
		var reconciliation *model.ReconciliationError
		if errors.As(err, &reconciliation) {
			log.Warn().Err(err).Msg("payment parked for reconciliation")

			response.WithMessage(w, http.StatusAccepted, reconciliation.Error())

			return
		}

		log.Error().Err(err).Msg("failed to complete payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment completion processed for order " + completion.OrderID)

	response.WithJSON(w, http.StatusOK, completion)
}

// GetOrphanedPayments lists payments awaiting manual reconciliation.
// @Summary Get orphaned payments
// @Description Retrieve verified payments whose local settlement failed, for support follow-up.
// @Tags Payment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param resolved query boolean false "Filter by resolved status"
// @Success 200 {object} response.Data[dto.GetOrphanedPaymentsResponse] "List of orphaned payments"
// @Failure 500 {object} response.Error
// @Router /v1/payments/orphaned [get]
// @Security BearerAuth
func (handler *Handler) GetOrphanedPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrphanedPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if resolved := r.URL.Query().Get(model.FieldResolved); resolved != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldResolved,
			Operator: gDto.FilterOperatorEq,
			Value:    resolved == "true",
			Table:    model.OrphanTableName,
		})
	}

	payments, err := handler.service.GetOrphaned(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get orphaned payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Orphaned payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// ResolveOrphanedPayment marks an orphaned payment as manually handled.
// @Summary Resolve an orphaned payment
// @Description Mark an orphaned payment as reconciled by support.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Orphaned payment ID"
// @Success 200 {object} response.Message "Orphaned payment resolved"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/orphaned/{id}/resolve [post]
// @Security BearerAuth
func (handler *Handler) ResolveOrphanedPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveOrphanedPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.ResolveOrphaned(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve orphaned payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Orphaned payment resolved by user " + user)

	response.WithMessage(w, http.StatusOK, "Orphaned payment resolved")
}
