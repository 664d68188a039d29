package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Log      LogConfig
	Admin    AdminConfig
	Sheets   SheetsConfig
	Vision   VisionConfig
	Checkin  CheckinConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port int
	Env  string
}

// LogConfig controls slog output and file rotation
type LogConfig struct {
	Level      string
	Console    bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AdminConfig holds the single shared admin password. A bcrypt hash takes
// precedence over the plain password.
type AdminConfig struct {
	Password     string
	PasswordHash string
}

type SheetsConfig struct {
	// Endpoint used until an admin stores one in the settings
	DefaultEndpoint string
	CredentialsFile string
	Timeout         time.Duration
}

type VisionConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type CheckinConfig struct {
	Timezone        string
	ArrivalLateAt   string // HH:MM:SS, arrivals at or after are late
	DepartureOkAt   string // HH:MM:SS, departures before are early
	OutboxInterval  time.Duration
	OutboxBatchSize int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Info("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	dbMaxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "school_checkin"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port: appPort,
		Env:  getEnv("APP_ENV", "development"),
	}

	// Logging
	logMaxSize, err := getEnvInt("LOG_MAX_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	logMaxBackups, err := getEnvInt("LOG_MAX_BACKUPS", 5)
	if err != nil {
		return nil, err
	}
	logMaxAge, err := getEnvInt("LOG_MAX_AGE_DAYS", 30)
	if err != nil {
		return nil, err
	}

	config.Log = LogConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Console:    getEnvBool("LOG_CONSOLE", true),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  logMaxSize,
		MaxBackups: logMaxBackups,
		MaxAgeDays: logMaxAge,
		Compress:   getEnvBool("LOG_COMPRESS", false),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Admin = AdminConfig{
		Password:     getEnv("ADMIN_PASSWORD", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Remote spreadsheet
	sheetsTimeout, err := getEnvDuration("SHEETS_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	config.Sheets = SheetsConfig{
		DefaultEndpoint: getEnv("SHEETS_ENDPOINT", ""),
		CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		Timeout:         sheetsTimeout,
	}

	// Image analysis
	visionTimeout, err := getEnvDuration("GEMINI_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config.Vision = VisionConfig{
		APIKey:  getEnv("GEMINI_API_KEY", ""),
		Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		BaseURL: getEnv("GEMINI_BASE_URL", ""),
		Timeout: visionTimeout,
	}

	// Check-in policy
	outboxInterval, err := getEnvDuration("OUTBOX_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	outboxBatch, err := getEnvInt("OUTBOX_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	config.Checkin = CheckinConfig{
		Timezone:        getEnv("CHECKIN_TIMEZONE", "Asia/Bangkok"),
		ArrivalLateAt:   getEnv("CHECKIN_ARRIVAL_LATE_AT", "08:01:00"),
		DepartureOkAt:   getEnv("CHECKIN_DEPARTURE_OK_AT", "16:00:00"),
		OutboxInterval:  outboxInterval,
		OutboxBatchSize: outboxBatch,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if _, err := time.LoadLocation(c.Checkin.Timezone); err != nil {
		return fmt.Errorf("invalid CHECKIN_TIMEZONE: %w", err)
	}
	if _, err := time.Parse(time.TimeOnly, c.Checkin.ArrivalLateAt); err != nil {
		return fmt.Errorf("invalid CHECKIN_ARRIVAL_LATE_AT: %w", err)
	}
	if _, err := time.Parse(time.TimeOnly, c.Checkin.DepartureOkAt); err != nil {
		return fmt.Errorf("invalid CHECKIN_DEPARTURE_OK_AT: %w", err)
	}
	if c.Checkin.OutboxInterval <= 0 {
		return fmt.Errorf("OUTBOX_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the configured check-in timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Checkin.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
