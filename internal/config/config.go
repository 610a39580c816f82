package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NATS         NATSConfig
	Notification NotificationConfig
	Store        StoreConfig
	Import       ImportConfig
	App          AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

// RedisConfig holds the optional cache connection
type RedisConfig struct {
	URL string
}

// NATSConfig holds the optional events connection
type NATSConfig struct {
	URL     string
	Enabled bool
}

// NotificationConfig holds the notification-service location
type NotificationConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig holds storefront business settings
type StoreConfig struct {
	Name              string
	ShippingFee       int64
	PaymentMethod     string
	PaymentStatus     string
	PageSize          int
	PageWindow        int
	HomeProductLimit  int
	HomeCategoryLimit int
	PublicURL         string
}

// ImportConfig holds settings for the catalog import job
type ImportConfig struct {
	APIURL             string
	MediaDir           string
	DownloadsPerSecond int
	MaxRetries         int
	ReportPath         string
	RequestTimeout     time.Duration
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment        string
	LogLevel           string
	GCPProjectID       string
	UseSecretManager   bool
	DBPasswordSecretID string
}

// DefaultImportAPIURL is the catalog source used when IMPORT_API_URL is unset
const DefaultImportAPIURL = "https://dummyjson.com/products?select=title,price,category,description,images,stock&limit=194"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "familyplus_db"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", true),
		},
		Notification: NotificationConfig{
			BaseURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8090"),
			Timeout: time.Duration(getEnvAsInt("NOTIFICATION_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Store: StoreConfig{
			Name:              getEnv("STORE_NAME", "FamilyPlus"),
			ShippingFee:       int64(getEnvAsInt("STORE_SHIPPING_FEE", 40)),
			PaymentMethod:     getEnv("STORE_PAYMENT_METHOD", "Cash On Delivery"),
			PaymentStatus:     getEnv("STORE_PAYMENT_STATUS", "Pending"),
			PageSize:          getEnvAsInt("STORE_PAGE_SIZE", 15),
			PageWindow:        getEnvAsInt("STORE_PAGE_WINDOW", 2),
			HomeProductLimit:  getEnvAsInt("STORE_HOME_PRODUCTS", 12),
			HomeCategoryLimit: getEnvAsInt("STORE_HOME_CATEGORIES", 4),
			PublicURL:         strings.TrimRight(getEnv("STORE_PUBLIC_URL", "http://localhost:3000"), "/"),
		},
		Import: ImportConfig{
			APIURL:             getEnv("IMPORT_API_URL", DefaultImportAPIURL),
			MediaDir:           getEnv("MEDIA_DIR", "media"),
			DownloadsPerSecond: getEnvAsInt("IMPORT_DOWNLOADS_PER_SECOND", 5),
			MaxRetries:         getEnvAsInt("IMPORT_MAX_RETRIES", 3),
			ReportPath:         getEnv("IMPORT_REPORT_PATH", ""),
			RequestTimeout:     time.Duration(getEnvAsInt("IMPORT_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			GCPProjectID:       getEnv("GCP_PROJECT_ID", ""),
			UseSecretManager:   getEnvAsBool("USE_GCP_SECRET_MANAGER", false),
			DBPasswordSecretID: getEnv("DB_PASSWORD_SECRET_ID", "familyplus-db-password"),
		},
	}

	if config.App.UseSecretManager {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		password, err := fetchSecret(ctx, config.App.GCPProjectID, config.App.DBPasswordSecretID)
		if err != nil {
			return nil, fmt.Errorf("failed to load database password: %w", err)
		}
		config.Database.Password = password
		log.Println("✓ Database password loaded from GCP Secret Manager")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the storefront cannot run with
func (c *Config) Validate() error {
	if c.Store.ShippingFee < 0 {
		return fmt.Errorf("STORE_SHIPPING_FEE must not be negative")
	}
	if c.Store.PageSize <= 0 {
		return fmt.Errorf("STORE_PAGE_SIZE must be positive")
	}
	if c.Store.PageWindow < 0 {
		return fmt.Errorf("STORE_PAGE_WINDOW must not be negative")
	}
	if c.Import.DownloadsPerSecond <= 0 {
		return fmt.Errorf("IMPORT_DOWNLOADS_PER_SECOND must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
