package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the build-time/environment configuration of the client.
type Config struct {
	APIBaseURL string
	Timeout    time.Duration
	// StoragePath is where the session (token pair + user) persists
	// between runs.
	StoragePath string
	// DefaultExchangeRate prefills the tipo de cambio on new requests.
	// The rate captured at creation remains authoritative per request.
	DefaultExchangeRate decimal.Decimal
	PageSize            int
}

// Load reads .env and the environment into a Config.
func Load() Config {
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("api.base_url", "PMINSIGHT_API_URL")
	viper.BindEnv("api.timeout_seconds", "PMINSIGHT_API_TIMEOUT_SECONDS")
	viper.BindEnv("session.storage_path", "PMINSIGHT_SESSION_PATH")
	viper.BindEnv("currency.exchange_rate", "PMINSIGHT_EXCHANGE_RATE")
	viper.BindEnv("ui.page_size", "PMINSIGHT_PAGE_SIZE")

	viper.SetDefault("api.base_url", "http://localhost:8000/api")
	viper.SetDefault("api.timeout_seconds", 30)
	viper.SetDefault("session.storage_path", ".pminsight/session.json")
	viper.SetDefault("currency.exchange_rate", "3.75")
	viper.SetDefault("ui.page_size", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	rate, err := decimal.NewFromString(viper.GetString("currency.exchange_rate"))
	if err != nil {
		log.Printf("[CONFIG] Invalid exchange rate %q, using 3.75", viper.GetString("currency.exchange_rate"))
		rate = decimal.RequireFromString("3.75")
	}

	return Config{
		APIBaseURL:          viper.GetString("api.base_url"),
		Timeout:             time.Duration(viper.GetInt("api.timeout_seconds")) * time.Second,
		StoragePath:         viper.GetString("session.storage_path"),
		DefaultExchangeRate: rate,
		PageSize:            viper.GetInt("ui.page_size"),
	}
}
