package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meenakshirnair/Calcount/logger"
	"github.com/meenakshirnair/Calcount/models"
)

// Config carries every runtime setting. Load it once in main and pass it
// down; nothing in this package keeps global state.
type Config struct {
	Port    string
	GinMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	// IANA zone name. Day boundaries, date parsing and summary keys all use
	// this single zone, default UTC.
	Timezone string

	LogLevel  string
	LogFormat string

	AllowedOrigins []string

	AWSRegion  string
	S3Bucket   string
	CDNBaseURL string

	LLMBaseURL string
	LLMToken   string
	LLMModel   string

	OpenFoodFactsURL string

	loc *time.Location
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		GinMode:          getenv("GIN_MODE", "debug"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBUser:           getenv("DB_USER", "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenv("DB_NAME", "calcount"),
		DBPort:           getenv("DB_PORT", "5432"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Timezone:         getenv("APP_TIMEZONE", "UTC"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "console"),
		AllowedOrigins:   strings.Split(getenv("CORS_ORIGINS", "*"), ","),
		AWSRegion:        getenv("AWS_REGION", "us-east-1"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		CDNBaseURL:       os.Getenv("CLOUDFRONT_URL"),
		LLMBaseURL:       getenv("HUGGINGFACE_URL", "https://api-inference.huggingface.co"),
		LLMToken:         os.Getenv("HUGGINGFACE_TOKEN"),
		LLMModel:         getenv("HUGGINGFACE_MODEL", "google/flan-t5-large"),
		OpenFoodFactsURL: getenv("OPENFOODFACTS_URL", "https://world.openfoodfacts.org"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	return cfg, nil
}

// Location is the app timezone resolved from Timezone.
func (c *Config) Location() *time.Location { return c.loc }

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// OpenDB connects to Postgres and migrates the schema. The returned handle is
// the only one the process uses; callers hand it to each service.
func OpenDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(log, gormLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.FoodEntry{},
		&models.DailySummary{},
		&models.CustomFood{},
		&models.UserGoals{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
