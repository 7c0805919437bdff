package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	internalMiddleware "github.com/differentroads/dr-checkout/internal/pkg/middleware"
	"github.com/differentroads/dr-checkout/pkg/errors"
	publicMiddleware "github.com/differentroads/dr-checkout/pkg/middleware"
	"github.com/differentroads/dr-checkout/pkg/response"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type HTTPHandler struct {
	Validate        *validator.Validate
	CheckoutUseCase CheckoutUseCase
	BookingUseCase  BookingUseCase
}

func InitHTTPHandler(router *mux.Router, customerSession *internalMiddleware.CustomerSession, validate *validator.Validate, checkoutUseCase CheckoutUseCase, bookingUseCase BookingUseCase) {
	handler := &HTTPHandler{
		Validate:        validate,
		CheckoutUseCase: checkoutUseCase,
		BookingUseCase:  bookingUseCase,
	}

	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions", publicMiddleware.SetRouteChain(handler.StartSession, customerSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}", publicMiddleware.SetRouteChain(handler.GetSession, customerSession.Verify)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/traveler-counts", publicMiddleware.SetRouteChain(handler.SetTravelerCounts, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/travelers/{index}", publicMiddleware.SetRouteChain(handler.SetTravelerData, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/rooms", publicMiddleware.SetRouteChain(handler.SetRooms, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/activities", publicMiddleware.SetRouteChain(handler.SetActivities, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/insurances", publicMiddleware.SetRouteChain(handler.SetInsurances, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/flight", publicMiddleware.SetRouteChain(handler.SetFlight, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/discounts", publicMiddleware.SetRouteChain(handler.SetDiscounts, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/payment-option", publicMiddleware.SetRouteChain(handler.SetPaymentOption, customerSession.Verify)).Methods(http.MethodPut)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/book", publicMiddleware.SetRouteChain(handler.Book, customerSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/payments", publicMiddleware.SetRouteChain(handler.GetManyPayment, customerSession.Verify)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/payments/voucher", publicMiddleware.SetRouteChain(handler.UploadVoucher, customerSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/checkout-sessions/{id}/budget-email", publicMiddleware.SetRouteChain(handler.SendBudgetEmail, customerSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/dr-checkout/v1/checkoutapp/budgets/on-expire", publicMiddleware.SetRouteChain(handler.OnExpireBudget)).Methods(http.MethodPost)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return fmt.Errorf(strings.Join(errMessages, ", "))
}

func (handler HTTPHandler) renderError(w http.ResponseWriter, err error) {
	ae := errors.Destruct(err)
	response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
		Status:  ae.Status,
		Message: ae.Message,
	})
}

func (handler HTTPHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := StartSessionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.CheckoutUseCase.StartSession(ctx, req)
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "checkout session has been successfully started",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.CheckoutUseCase.GetSession(ctx, mux.Vars(r)["id"])
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "checkout session's properties",
		Data:    resp,
	})
}

// selection mutation endpoints share one decode/validate/respond shape.
func decodeAndValidate(handler HTTPHandler, w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return false
	}

	if err := handler.validate(r.Context(), req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return false
	}

	return true
}

func (handler HTTPHandler) renderSession(w http.ResponseWriter, resp SessionResponse, err error) {
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "checkout session has been successfully updated",
		Data:    resp,
	})
}

func (handler HTTPHandler) SetTravelerCounts(w http.ResponseWriter, r *http.Request) {
	req := SetTravelerCountsRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetTravelerCounts(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetTravelerData(w http.ResponseWriter, r *http.Request) {
	req := SetTravelerDataRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: "invalid traveler index",
		})

		return
	}

	resp, err := handler.CheckoutUseCase.SetTravelerData(r.Context(), mux.Vars(r)["id"], index, req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetRooms(w http.ResponseWriter, r *http.Request) {
	req := SetRoomsRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetRooms(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetActivities(w http.ResponseWriter, r *http.Request) {
	req := SetActivitiesRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetActivities(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetInsurances(w http.ResponseWriter, r *http.Request) {
	req := SetInsurancesRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetInsurances(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetFlight(w http.ResponseWriter, r *http.Request) {
	req := SetFlightRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetFlight(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetDiscounts(w http.ResponseWriter, r *http.Request) {
	req := SetDiscountsRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetDiscounts(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) SetPaymentOption(w http.ResponseWriter, r *http.Request) {
	req := SetPaymentOptionRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	resp, err := handler.CheckoutUseCase.SetPaymentOption(r.Context(), mux.Vars(r)["id"], req)
	handler.renderSession(w, resp, err)
}

func (handler HTTPHandler) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.BookingUseCase.ProcessBooking(ctx, mux.Vars(r)["id"])
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "booking has been successfully processed",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetManyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.BookingUseCase.GetManyPayment(ctx, mux.Vars(r)["id"])
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of booking's payments",
		Data:    resp,
	})
}

func (handler HTTPHandler) UploadVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := UploadVoucherRequest{}
	if !decodeAndValidate(handler, w, r, &req) {
		return
	}

	if err := handler.BookingUseCase.UploadVoucher(ctx, mux.Vars(r)["id"], req); err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "payment's voucher has been successfully uploaded",
	})
}

func (handler HTTPHandler) SendBudgetEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.CheckoutUseCase.SendBudgetEmail(ctx, mux.Vars(r)["id"]); err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "budget email has been successfully triggered",
	})
}

func (handler HTTPHandler) OnExpireBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	e := ExpireBudgetEvent{}
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.CheckoutUseCase.OnExpireBudget(ctx, e); err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "budget has been successfully expired",
	})
}
