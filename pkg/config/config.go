package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Reports   ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig names the engine constants so tests can override them.
// The defaults are load-bearing: callers depend on the exact fallback shapes
// and thresholds, so production deployments should leave them alone.
type AnalyticsConfig struct {
	TotalRooms          int
	TrendSlopeThreshold float64
	DefaultRangeDays    int
	ForecastDays        int
	ForecastConfidence  int
	HistoryMonths       int

	VIPSpendThreshold        float64
	RegularSpendThreshold    float64
	OccasionalSpendThreshold float64
}

// ReportsConfig controls report artifact storage and download tokens.
type ReportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	ResultTTL       time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		TotalRooms:               v.GetInt("ANALYTICS_TOTAL_ROOMS"),
		TrendSlopeThreshold:      v.GetFloat64("ANALYTICS_TREND_SLOPE_THRESHOLD"),
		DefaultRangeDays:         v.GetInt("ANALYTICS_DEFAULT_RANGE_DAYS"),
		ForecastDays:             v.GetInt("ANALYTICS_FORECAST_DAYS"),
		ForecastConfidence:       v.GetInt("ANALYTICS_FORECAST_CONFIDENCE"),
		HistoryMonths:            v.GetInt("ANALYTICS_HISTORY_MONTHS"),
		VIPSpendThreshold:        v.GetFloat64("ANALYTICS_VIP_SPEND_THRESHOLD"),
		RegularSpendThreshold:    v.GetFloat64("ANALYTICS_REGULAR_SPEND_THRESHOLD"),
		OccasionalSpendThreshold: v.GetFloat64("ANALYTICS_OCCASIONAL_SPEND_THRESHOLD"),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		ResultTTL:       parseDuration(v.GetString("REPORTS_RESULT_TTL"), 7*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hotel_management")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_TOTAL_ROOMS", 120)
	v.SetDefault("ANALYTICS_TREND_SLOPE_THRESHOLD", 1.0)
	v.SetDefault("ANALYTICS_DEFAULT_RANGE_DAYS", 30)
	v.SetDefault("ANALYTICS_FORECAST_DAYS", 30)
	v.SetDefault("ANALYTICS_FORECAST_CONFIDENCE", 85)
	v.SetDefault("ANALYTICS_HISTORY_MONTHS", 6)
	v.SetDefault("ANALYTICS_VIP_SPEND_THRESHOLD", 2000.0)
	v.SetDefault("ANALYTICS_REGULAR_SPEND_THRESHOLD", 500.0)
	v.SetDefault("ANALYTICS_OCCASIONAL_SPEND_THRESHOLD", 200.0)

	v.SetDefault("REPORTS_STORAGE_DIR", "./reports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_RESULT_TTL", "168h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
