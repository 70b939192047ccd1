package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers for the per-user record lists.
const (
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Identity providers.
const (
	IdentityMock     = "mock"
	IdentityPassword = "password"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	LogLevel                  string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	StoreDriver               string
	IdentityProvider          string
	Database                  DatabaseConfig
	Redis                     RedisConfig
	Booking                   BookingConfig
	Location                  LocationConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// RedisConfig holds the connection details for session records and KV storage.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BookingConfig holds the consultation booking settings.
type BookingConfig struct {
	ConfirmDelay       time.Duration
	SuccessDisplay     time.Duration
	MeetingBaseURL     string
	EmergencyDoctor    string
	GeneralDoctor      string
	TimeZone           string
	CompletionSchedule string
}

// LocationConfig mirrors the options handed to the device location API.
type LocationConfig struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sehat_sathi"),
	}

	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	confirmDelay, err := getDuration("BOOKING_CONFIRM_DELAY", 2000*time.Millisecond)
	if err != nil {
		return nil, err
	}
	successDisplay, err := getDuration("BOOKING_SUCCESS_DISPLAY", 3000*time.Millisecond)
	if err != nil {
		return nil, err
	}
	locationTimeout, err := getDuration("LOCATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	locationMaxAge, err := getDuration("LOCATION_MAXIMUM_AGE", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	highAccuracy, err := strconv.ParseBool(getEnv("LOCATION_HIGH_ACCURACY", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_HIGH_ACCURACY: %w", err)
	}

	cfg := &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:3000"),
		Environment:               getEnv("APP_ENV", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		StoreDriver:               strings.ToLower(getEnv("STORE_DRIVER", StoreMySQL)),
		IdentityProvider:          strings.ToLower(getEnv("IDENTITY_PROVIDER", IdentityMock)),
		Database:                  dbConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Booking: BookingConfig{
			ConfirmDelay:       confirmDelay,
			SuccessDisplay:     successDisplay,
			MeetingBaseURL:     strings.TrimRight(getEnv("MEETING_BASE_URL", "https://meet.sehat-sathi.com"), "/"),
			EmergencyDoctor:    getEnv("EMERGENCY_DOCTOR", "Dr. Emergency Smith"),
			GeneralDoctor:      getEnv("GENERAL_DOCTOR", "Dr. Available Jones"),
			TimeZone:           getEnv("BOOKING_TIME_ZONE", "Asia/Kolkata"),
			CompletionSchedule: getEnv("COMPLETION_SCHEDULE", "*/15 * * * *"),
		},
		Location: LocationConfig{
			HighAccuracy: highAccuracy,
			Timeout:      locationTimeout,
			MaximumAge:   locationMaxAge,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMySQL, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want mysql, redis or memory", c.StoreDriver)
	}
	switch c.IdentityProvider {
	case IdentityMock, IdentityPassword:
	default:
		return fmt.Errorf("invalid IDENTITY_PROVIDER %q: want mock or password", c.IdentityProvider)
	}
	if _, err := time.LoadLocation(c.Booking.TimeZone); err != nil {
		return fmt.Errorf("invalid BOOKING_TIME_ZONE: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("2s") or plain milliseconds ("2000").
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
