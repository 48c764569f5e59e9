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
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/joho/godotenv"
)

const (
	LedgerPostgres = "postgres"
	LedgerMongo    = "mongo"
)

type Config struct {
	Database   DatabaseConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	App        AppConfig
	Office     OfficeConfig
	Attendance AttendanceConfig
	Period     PeriodConfig
	Ledger     LedgerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string

	AllowedOrigins []string
}

// OfficeConfig is the geofence centre and radius
type OfficeConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// AttendanceConfig holds the check-in/check-out policy and report sizing
type AttendanceConfig struct {
	MorningStart       utils.TimeOfDay
	MorningEnd         utils.TimeOfDay
	AfternoonExact     utils.TimeOfDay
	AfternoonTolerance time.Duration
	CheckoutMin        utils.TimeOfDay
	ReportWindowDays   int
}

// PeriodConfig bounds the monthly attendance period and the daily totals job
type PeriodConfig struct {
	StartDay         int
	EndDay           int
	WorkdayRule      string
	LeaveMarkingHour int
}

type LedgerConfig struct {
	Driver string
}

func Load() (*Config, error) {
	// a missing .env is fine, the process environment is used as is
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnv("MONGODB_URI", ""),
		Database: getEnv("MONGODB_DATABASE", "attendance"),
	}

	config.Ledger = LedgerConfig{
		Driver: strings.ToLower(getEnv("LEDGER_DRIVER", LedgerPostgres)),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Kolkata"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Office geofence
	if config.Office.Latitude, err = getEnvFloat("OFFICE_LATITUDE", 11.1205615); err != nil {
		return nil, err
	}
	if config.Office.Longitude, err = getEnvFloat("OFFICE_LONGITUDE", 77.3396206); err != nil {
		return nil, err
	}
	if config.Office.RadiusMeters, err = getEnvFloat("OFFICE_RADIUS_METERS", 100); err != nil {
		return nil, err
	}

	// Attendance policy
	a := &config.Attendance
	if a.MorningStart, err = getEnvTimeOfDay("CHECKIN_MORNING_START", "09:30:00"); err != nil {
		return nil, err
	}
	if a.MorningEnd, err = getEnvTimeOfDay("CHECKIN_MORNING_END", "19:45:00"); err != nil {
		return nil, err
	}
	if a.AfternoonExact, err = getEnvTimeOfDay("CHECKIN_AFTERNOON_EXACT", "13:30:00"); err != nil {
		return nil, err
	}
	if a.CheckoutMin, err = getEnvTimeOfDay("CHECKOUT_MIN_TIME", "19:15:00"); err != nil {
		return nil, err
	}
	if a.AfternoonTolerance, err = time.ParseDuration(getEnv("CHECKIN_AFTERNOON_TOLERANCE", "0s")); err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_AFTERNOON_TOLERANCE: %w", err)
	}
	if a.ReportWindowDays, err = getEnvInt("REPORT_WINDOW_DAYS", 30); err != nil {
		return nil, err
	}

	// Attendance period
	p := &config.Period
	if p.StartDay, err = getEnvInt("ATTENDANCE_PERIOD_START_DAY", 21); err != nil {
		return nil, err
	}
	if p.EndDay, err = getEnvInt("ATTENDANCE_PERIOD_END_DAY", 20); err != nil {
		return nil, err
	}
	if p.LeaveMarkingHour, err = getEnvInt("LEAVE_MARKING_HOUR", 20); err != nil {
		return nil, err
	}
	p.WorkdayRule = getEnv("WORKDAY_RRULE", "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA")

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Ledger.Driver {
	case LedgerPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case LedgerMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required when LEDGER_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("LEDGER_DRIVER must be %q or %q", LedgerPostgres, LedgerMongo)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if err := utils.ValidateCoordinates(c.Office.Latitude, c.Office.Longitude); err != nil {
		return fmt.Errorf("OFFICE_LATITUDE/OFFICE_LONGITUDE: %w", err)
	}
	if c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}

	if c.Attendance.MorningEnd < c.Attendance.MorningStart {
		return fmt.Errorf("CHECKIN_MORNING_END must not be before CHECKIN_MORNING_START")
	}
	if c.Attendance.AfternoonTolerance < 0 {
		return fmt.Errorf("CHECKIN_AFTERNOON_TOLERANCE must not be negative")
	}
	if c.Attendance.ReportWindowDays < 1 {
		return fmt.Errorf("REPORT_WINDOW_DAYS must be at least 1")
	}

	if c.Period.StartDay < 1 || c.Period.StartDay > 31 {
		return fmt.Errorf("ATTENDANCE_PERIOD_START_DAY must be between 1 and 31")
	}
	if c.Period.EndDay < 1 || c.Period.EndDay > 31 {
		return fmt.Errorf("ATTENDANCE_PERIOD_END_DAY must be between 1 and 31")
	}
	if c.Period.LeaveMarkingHour < 0 || c.Period.LeaveMarkingHour > 23 {
		return fmt.Errorf("LEAVE_MARKING_HOUR must be between 0 and 23")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
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

// Location is the zone calendar days are cut in
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (a AppConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvTimeOfDay(key, fallback string) (utils.TimeOfDay, error) {
	t, err := utils.ParseTimeOfDay(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}
