package geocode

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/differentroads/dr-checkout/pkg/errors"
	publicMiddleware "github.com/differentroads/dr-checkout/pkg/middleware"
	"github.com/differentroads/dr-checkout/pkg/response"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type HTTPHandler struct {
	GeocodeUseCase GeocodeUseCase
}

func InitHTTPHandler(router *mux.Router, geocodeUseCase GeocodeUseCase) {
	handler := &HTTPHandler{
		GeocodeUseCase: geocodeUseCase,
	}

	router.HandleFunc("/dr-checkout/v1/checkoutapp/geocode", publicMiddleware.SetRouteChain(handler.ResolveCity)).Methods(http.MethodGet)
}

func (handler HTTPHandler) ResolveCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	city := r.URL.Query().Get("city")
	if city == "" {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: "missing 'city' query parameter",
		})

		return
	}

	coords, err := handler.GeocodeUseCase.ResolveCity(ctx, city)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "city's coordinates",
		Data:    coords,
	})
}
