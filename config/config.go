package config

import (
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Application struct {
		Name        string
		Environment string
		Port        int
		Debug       bool
		Timeout     time.Duration
		BaseURL     string
	}

	CORS struct {
		AllowedOrigins   []string
		AllowedMethods   []string
		AllowedHeaders   []string
		ExposedHeaders   []string
		MaxAge           int
		AllowCredentials bool
	}

	JWT struct {
		PrivateKey []byte
		PublicKey  []byte
	}

	GCP struct {
		ProjectID      string
		ServiceAccount []byte
	}

	Postgres struct {
		DSN string
	}

	Redis struct {
		Address  string
		Password string
		DB       int
	}

	Kafka struct {
		BootstrapServers string
		SASLUsername     string
		SASLPassword     string
	}

	BookingAPI struct {
		BaseURL string
		APIKey  string
	}

	PricingAPI struct {
		BaseURL  string
		APIKey   string
		CacheTTL time.Duration
	}

	FlightAPI struct {
		BaseURL          string
		APIKey           string
		MarkupPercentage float64
	}

	NotificationAPI struct {
		BaseURL string
		APIKey  string
	}

	Geocoder struct {
		BaseURL     string
		MinInterval time.Duration
		MaxAttempts int
	}

	Checkout struct {
		BudgetExpiration time.Duration
		DefaultPassenger DefaultPassenger
	}
}

// DefaultPassenger is the stand-in template applied to optional passenger
// fields missing from traveler data when ticketing flights. It is a known
// placeholder for data the checkout did not collect, never a substitute for
// the required document/name fields.
type DefaultPassenger struct {
	BirthDate    string
	PhoneNumber  string
	Email        string
	DocumentType string
	Nationality  string
}

var (
	c    *Config
	once sync.Once
)

func Get() *Config {
	once.Do(func() {
		godotenv.Load()

		v := viper.New()
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		v.SetDefault("application.name", "dr-checkout")
		v.SetDefault("application.environment", "development")
		v.SetDefault("application.port", 8080)
		v.SetDefault("application.debug", false)
		v.SetDefault("application.timeout", "30s")
		v.SetDefault("pricing_api.cache_ttl", "5m")
		v.SetDefault("flight_api.markup_percentage", 12)
		v.SetDefault("geocoder.min_interval", "1250ms")
		v.SetDefault("geocoder.max_attempts", 3)
		v.SetDefault("checkout.budget_expiration", "72h")
		v.SetDefault("checkout.default_passenger.birth_date", "1990-01-01")
		v.SetDefault("checkout.default_passenger.document_type", "PASSPORT")
		v.SetDefault("checkout.default_passenger.nationality", "ES")

		c = &Config{}
		c.Application.Name = v.GetString("application.name")
		c.Application.Environment = v.GetString("application.environment")
		c.Application.Port = v.GetInt("application.port")
		c.Application.Debug = v.GetBool("application.debug")
		c.Application.Timeout = v.GetDuration("application.timeout")
		c.Application.BaseURL = v.GetString("application.base_url")

		c.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")
		c.CORS.AllowedMethods = v.GetStringSlice("cors.allowed_methods")
		c.CORS.AllowedHeaders = v.GetStringSlice("cors.allowed_headers")
		c.CORS.ExposedHeaders = v.GetStringSlice("cors.exposed_headers")
		c.CORS.MaxAge = v.GetInt("cors.max_age")
		c.CORS.AllowCredentials = v.GetBool("cors.allow_credentials")

		c.JWT.PrivateKey = []byte(v.GetString("jwt.private_key"))
		c.JWT.PublicKey = []byte(v.GetString("jwt.public_key"))

		c.GCP.ProjectID = v.GetString("gcp.project_id")
		c.GCP.ServiceAccount = []byte(v.GetString("gcp.service_account"))

		c.Postgres.DSN = v.GetString("postgres.dsn")

		c.Redis.Address = v.GetString("redis.address")
		c.Redis.Password = v.GetString("redis.password")
		c.Redis.DB = v.GetInt("redis.db")

		c.Kafka.BootstrapServers = v.GetString("kafka.bootstrap_servers")
		c.Kafka.SASLUsername = v.GetString("kafka.sasl_username")
		c.Kafka.SASLPassword = v.GetString("kafka.sasl_password")

		c.BookingAPI.BaseURL = v.GetString("booking_api.base_url")
		c.BookingAPI.APIKey = v.GetString("booking_api.api_key")

		c.PricingAPI.BaseURL = v.GetString("pricing_api.base_url")
		c.PricingAPI.APIKey = v.GetString("pricing_api.api_key")
		c.PricingAPI.CacheTTL = v.GetDuration("pricing_api.cache_ttl")

		c.FlightAPI.BaseURL = v.GetString("flight_api.base_url")
		c.FlightAPI.APIKey = v.GetString("flight_api.api_key")
		c.FlightAPI.MarkupPercentage = v.GetFloat64("flight_api.markup_percentage")

		c.NotificationAPI.BaseURL = v.GetString("notification_api.base_url")
		c.NotificationAPI.APIKey = v.GetString("notification_api.api_key")

		c.Geocoder.BaseURL = v.GetString("geocoder.base_url")
		c.Geocoder.MinInterval = v.GetDuration("geocoder.min_interval")
		c.Geocoder.MaxAttempts = v.GetInt("geocoder.max_attempts")

		c.Checkout.BudgetExpiration = v.GetDuration("checkout.budget_expiration")
		c.Checkout.DefaultPassenger.BirthDate = v.GetString("checkout.default_passenger.birth_date")
		c.Checkout.DefaultPassenger.PhoneNumber = v.GetString("checkout.default_passenger.phone_number")
		c.Checkout.DefaultPassenger.Email = v.GetString("checkout.default_passenger.email")
		c.Checkout.DefaultPassenger.DocumentType = v.GetString("checkout.default_passenger.document_type")
		c.Checkout.DefaultPassenger.Nationality = v.GetString("checkout.default_passenger.nationality")
	})

	return c
}
