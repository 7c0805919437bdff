package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/differentroads/dr-checkout/config"
	adminapp_booking "github.com/differentroads/dr-checkout/internal/module/adminapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/checkout"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/flight"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/geocode"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
	"github.com/differentroads/dr-checkout/internal/pkg/jwt"
	internalMiddleware "github.com/differentroads/dr-checkout/internal/pkg/middleware"
	"github.com/differentroads/dr-checkout/internal/pkg/session"
	"github.com/differentroads/dr-checkout/pkg/applogger"
	"github.com/differentroads/dr-checkout/pkg/gctasks"
	"github.com/differentroads/dr-checkout/pkg/kafka"
	"github.com/differentroads/dr-checkout/pkg/middleware"
	"github.com/differentroads/dr-checkout/pkg/monitoring"
	"github.com/differentroads/dr-checkout/pkg/postgresql"
	"github.com/differentroads/dr-checkout/pkg/pubsub"
	"github.com/differentroads/dr-checkout/pkg/redis"
	"github.com/differentroads/dr-checkout/pkg/server"
	"github.com/differentroads/dr-checkout/pkg/validator"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(
		c.Application.Name,
		c.Application.Environment,
		c.GCP.ProjectID,
	)

	mon.Start(ctx)

	validate := validator.Get()

	hc := http.DefaultClient

	jsonWebToken := jwt.NewJSONWebToken(c.JWT.PrivateKey, c.JWT.PublicKey)

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())

	rc := redis.GetClient()
	if err := rc.Ping(context.Background()).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	cloudTask := gctasks.NewGCTasks(logger, c.GCP.ProjectID, c.GCP.ServiceAccount)

	accountSession := session.NewRedisSessionStore(logger, rc)

	customerSessionMiddleware := internalMiddleware.NewCustomerSessionMiddleware(jsonWebToken, accountSession)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	// external collaborators
	pricingRepo := pricing.NewPricingRepository(c.PricingAPI.BaseURL, c.PricingAPI.APIKey, c.PricingAPI.CacheTTL, logger, hc, rc)
	flightRepo := flight.NewFlightRepository(c.FlightAPI.BaseURL, c.FlightAPI.APIKey, logger, hc)
	bookingRepo := booking.NewBookingRepository(c.BookingAPI.BaseURL, c.BookingAPI.APIKey, logger, hc)
	notificationRepo := notification.NewNotificationRepository(c.NotificationAPI.BaseURL, c.NotificationAPI.APIKey, logger, hc)
	geocodeRepo := geocode.NewGeocodeRepository(c.Geocoder.BaseURL, logger, hc)

	// checkout's app
	sessionRepo := checkout.NewSessionRepository(logger, rc, c.Checkout.BudgetExpiration)
	snapshotRepo := checkout.NewOrderSnapshotRepository(logger, psqldb)

	checkoutUseCase := checkout.NewCheckoutUseCase(checkout.CheckoutUseCaseProperty{
		Logger:                 logger,
		Timeout:                c.Application.Timeout,
		BaseURL:                c.Application.BaseURL,
		BudgetExpiration:       c.Checkout.BudgetExpiration,
		FlightMarkup:           c.FlightAPI.MarkupPercentage,
		PricingRepository:      pricingRepo,
		FlightRepository:       flightRepo,
		SessionRepository:      sessionRepo,
		SnapshotRepository:     snapshotRepo,
		NotificationRepository: notificationRepo,
		CloudTask:              cloudTask,
	})

	bookingUseCase := checkout.NewBookingUseCase(checkout.BookingUseCaseProperty{
		Logger:                 logger,
		Timeout:                c.Application.Timeout,
		DefaultPassenger:       c.Checkout.DefaultPassenger,
		BookingRepository:      bookingRepo,
		FlightRepository:       flightRepo,
		SessionRepository:      sessionRepo,
		SnapshotRepository:     snapshotRepo,
		NotificationRepository: notificationRepo,
		Publisher:              publisher,
	})

	geocodeUseCase := geocode.NewGeocodeUseCase(geocode.GeocodeUseCaseProperty{
		Logger:      logger,
		Repository:  geocodeRepo,
		MinInterval: c.Geocoder.MinInterval,
		MaxAttempts: c.Geocoder.MaxAttempts,
	})

	checkout.InitHTTPHandler(router, customerSessionMiddleware, validate, checkoutUseCase, bookingUseCase)
	geocode.InitHTTPHandler(router, geocodeUseCase)

	// admin's app
	adminBookingUseCase := adminapp_booking.NewBookingUseCase(adminapp_booking.BookingUseCaseProperty{
		Logger:                 logger,
		Timeout:                c.Application.Timeout,
		BookingRepository:      bookingRepo,
		NotificationRepository: notificationRepo,
	})
	adminapp_booking.InitHTTPHandler(router, customerSessionMiddleware, validate, adminBookingUseCase)

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", c.Application.Port),
			Handler: handler,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	srv.Shutdown(ctx)
	publisher.Close()
	psqldb.Close()
	rc.Close()
	mon.Stop(ctx)
}
