package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// CatalogConfig points at the remote product/purchase service
type CatalogConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// StoreConfig selects the local receipt store backend.
// Driver is one of bolt, sqlite, postgres, redis or memory.
type StoreConfig struct {
	Driver string
	Path   string
	Key    string
	Bucket string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type            string
	USBPath         string
	Address         string
	Width           int
	StoreName       string
	PrintOnPurchase bool
}

var storeDrivers = map[string]bool{
	"bolt":     true,
	"sqlite":   true,
	"postgres": true,
	"redis":    true,
	"memory":   true,
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Catalog: CatalogConfig{
			BaseURL:           strings.TrimRight(viper.GetString("CATALOG_BASE_URL"), "/"),
			Timeout:           viper.GetDuration("CATALOG_TIMEOUT"),
			RequestsPerSecond: viper.GetFloat64("CATALOG_RPS"),
			Burst:             viper.GetInt("CATALOG_BURST"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(viper.GetString("STORE_DRIVER")),
			Path:   viper.GetString("STORE_PATH"),
			Key:    viper.GetString("RECEIPT_KEY"),
			Bucket: viper.GetString("STORE_BUCKET"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			File:       viper.GetString("LOG_FILE"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:            viper.GetString("PRINTER_TYPE"),
			USBPath:         viper.GetString("PRINTER_USB_PATH"),
			Address:         viper.GetString("PRINTER_ADDRESS"),
			Width:           viper.GetInt("PRINTER_WIDTH"),
			StoreName:       viper.GetString("PRINTER_STORE_NAME"),
			PrintOnPurchase: viper.GetBool("PRINT_ON_PURCHASE"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "scanpay-storefront")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("CATALOG_BASE_URL", "http://localhost:5000")
	viper.SetDefault("CATALOG_TIMEOUT", "10s")
	viper.SetDefault("CATALOG_RPS", 5)
	viper.SetDefault("CATALOG_BURST", 10)
	viper.SetDefault("STORE_DRIVER", "bolt")
	viper.SetDefault("STORE_PATH", "./data/receipts.db")
	viper.SetDefault("RECEIPT_KEY", "payments")
	viper.SetDefault("STORE_BUCKET", "storefront")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "storefront")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_MAX_SIZE_MB", 50)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8081")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("PRINTER_STORE_NAME", "Smart Store")
	viper.SetDefault("PRINT_ON_PURCHASE", false)
}

// Validate rejects settings the process cannot start with
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.Catalog.Timeout)
	}
	if !storeDrivers[c.Store.Driver] {
		return fmt.Errorf("unknown STORE_DRIVER %q (use bolt, sqlite, postgres, redis or memory)", c.Store.Driver)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("RECEIPT_KEY must not be empty")
	}
	if (c.Store.Driver == "bolt" || c.Store.Driver == "sqlite") && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required for the %s driver", c.Store.Driver)
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
