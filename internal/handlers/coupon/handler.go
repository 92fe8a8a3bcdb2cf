package coupon

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/internal/domains/coupon/service"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const paramCode = "code"

type Handler struct {
	service service.Coupon
	otel    otel.Otel
}

func New(service service.Coupon, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/coupons", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCoupon)
		routerGroup.Get("/", handler.GetCoupons)
		routerGroup.Get("/{code}", handler.GetCouponByCode)
		routerGroup.Post("/{code}/deactivate", handler.DeactivateCoupon)
		routerGroup.Patch("/{code}/extend", handler.ExtendCoupon)
	})
}

// CreateCoupon creates a new coupon.
// @Summary Create a coupon
// @Description Create a coupon with discount rules and usage limits.
// @Tags Coupon
// @Accept json
// @Produce json
// @Param request body dto.CreateCouponRequest true "Create Coupon Request"
// @Success 201 {object} response.Message "Coupon created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons [post]
// @Security BearerAuth
func (handler *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCoupon")
	defer scope.End()

	req := dto.CreateCouponRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create coupon")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Coupon created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Coupon created successfully")
}

// GetCoupons retrieves coupons based on query parameters.
// @Summary Get all coupons
// @Description Retrieve coupons with optional filtering and pagination.
// @Tags Coupon
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetCouponsResponse] "List of coupons"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons [get]
// @Security BearerAuth
func (handler *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoupons")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldCode),
				Table:    model.TableName,
			},
		},
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	coupons, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coupons")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Coupons retrieved successfully")

	response.WithJSON(w, http.StatusOK, coupons)
}

// GetCouponByCode retrieves a coupon by its code.
// @Summary Get a coupon by code
// @Description Retrieve a coupon by its code, including remaining usage.
// @Tags Coupon
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} response.Data[dto.CouponResponse] "Coupon details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons/{code} [get]
// @Security BearerAuth
func (handler *Handler) GetCouponByCode(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCouponByCode")
	defer scope.End()

	code := chi.URLParam(r, paramCode)

	coupon, err := handler.service.Get(ctx, code)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coupon by code")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Coupon retrieved successfully")

	response.WithJSON(w, http.StatusOK, coupon)
}

// DeactivateCoupon stops further redemptions of a coupon.
// @Summary Deactivate a coupon
// @Description Deactivate a coupon so it can no longer be applied or redeemed.
// @Tags Coupon
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} response.Message "Coupon deactivated successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons/{code}/deactivate [post]
// @Security BearerAuth
func (handler *Handler) DeactivateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateCoupon")
	defer scope.End()

	code := chi.URLParam(r, paramCode)

	if err := handler.service.Deactivate(ctx, code); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate coupon")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Coupon deactivated by user " + user)

	response.WithMessage(w, http.StatusOK, "Coupon deactivated successfully")
}

// ExtendCoupon extends the validity window of a coupon.
// @Summary Extend a coupon
// @Description Push the valid_until date of a coupon further into the future.
// @Tags Coupon
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Param request body dto.ExtendCouponRequest true "Extend Coupon Request"
// @Success 200 {object} response.Message "Coupon extended successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/coupons/{code}/extend [patch]
// @Security BearerAuth
func (handler *Handler) ExtendCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendCoupon")
	defer scope.End()

	code := chi.URLParam(r, paramCode)

	req := dto.ExtendCouponRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Extend(ctx, code, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend coupon")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Coupon extended by user " + user)

	response.WithMessage(w, http.StatusOK, "Coupon extended successfully")
}
