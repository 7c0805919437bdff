package booking

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
	Validate       *validator.Validate
	BookingUseCase BookingUseCase
}

func InitHTTPHandler(router *mux.Router, adminSession *internalMiddleware.CustomerSession, validate *validator.Validate, bookingUseCase BookingUseCase) {
	handler := &HTTPHandler{
		Validate:       validate,
		BookingUseCase: bookingUseCase,
	}

	router.HandleFunc("/dr-checkout/v1/adminapp/bookings", publicMiddleware.SetRouteChain(handler.GetManyBooking, adminSession.VerifyAdmin)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/adminapp/bookings/{id}", publicMiddleware.SetRouteChain(handler.GetBooking, adminSession.VerifyAdmin)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/adminapp/bookings/{id}/payments", publicMiddleware.SetRouteChain(handler.GetManyPayment, adminSession.VerifyAdmin)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/adminapp/bookings/{id}/document", publicMiddleware.SetRouteChain(handler.GetDocument, adminSession.VerifyAdmin)).Methods(http.MethodGet)
	router.HandleFunc("/dr-checkout/v1/adminapp/bookings/{id}/payments/{paymentID}/review", publicMiddleware.SetRouteChain(handler.ReviewVoucher, adminSession.VerifyAdmin)).Methods(http.MethodPost)
	router.HandleFunc("/dr-checkout/v1/adminapp/bookings/{id}/cancel-notification", publicMiddleware.SetRouteChain(handler.TriggerCancelNotification, adminSession.VerifyAdmin)).Methods(http.MethodPost)
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

func (handler HTTPHandler) GetManyBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	qs := r.URL.Query()

	req := GetManyBookingRequest{}
	req.Page, _ = strconv.ParseInt(qs.Get("page"), 10, 64)
	req.Size, _ = strconv.ParseInt(qs.Get("size"), 10, 64)

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.BookingUseCase.GetManyBooking(ctx, req)
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of bookings",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.BookingUseCase.GetBooking(ctx, mux.Vars(r)["id"])
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "booking's properties",
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

func (handler HTTPHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.BookingUseCase.GetDocument(ctx, mux.Vars(r)["id"])
	if err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "booking's document",
		Data:    resp,
	})
}

func (handler HTTPHandler) ReviewVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := ReviewVoucherRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	vars := mux.Vars(r)
	if err := handler.BookingUseCase.ReviewVoucher(ctx, vars["id"], vars["paymentID"], req); err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "payment's voucher has been successfully reviewed",
	})
}

func (handler HTTPHandler) TriggerCancelNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.BookingUseCase.TriggerCancelNotification(ctx, mux.Vars(r)["id"]); err != nil {
		handler.renderError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "cancellation email has been successfully triggered",
	})
}
