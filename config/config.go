package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the single validated configuration record for the service.
// It is built once at startup; a missing or malformed value aborts the
// process before any job is leased.
type Config struct {
	Port      string
	AWSRegion string

	// Object store
	UploadsBucket string

	// Metadata store table names
	GamesTable   string
	ClipsTable   string
	PlayersTable string
	DraftsTable  string
	StatsTable   string

	// Trim request queue
	QueueDataDir        string
	VisibilityTimeout   time.Duration
	RetentionPeriod     time.Duration
	MaxDeliveryAttempts int

	// Clip worker
	FFmpegPath     string
	JobTimeout     time.Duration
	ScratchDir     string
	ScratchCeiling int64
	Concurrency    int
	PollInterval   time.Duration
}

// LoadEnv loads variables from a local .env file when one is present.
// The process environment always wins.
func LoadEnv() {
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Load builds the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		UploadsBucket: os.Getenv("AWS_S3_BUCKET_NAME"),
		GamesTable:    getEnv("GAMES_TABLE_NAME", "Games"),
		ClipsTable:    getEnv("CLIPS_TABLE_NAME", "Clips"),
		PlayersTable:  getEnv("PLAYERS_TABLE_NAME", "Players"),
		DraftsTable:   getEnv("DRAFTS_TABLE_NAME", "Drafts"),
		StatsTable:    getEnv("STATS_TABLE_NAME", "Stats"),
		QueueDataDir:  getEnv("QUEUE_DATA_DIR", "./data/trim-queue"),
		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
		ScratchDir:    getEnv("SCRATCH_DIR", os.TempDir()),
	}

	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("environment variable AWS_REGION is required")
	}
	if cfg.UploadsBucket == "" {
		return nil, fmt.Errorf("environment variable AWS_S3_BUCKET_NAME is required")
	}

	var err error
	if cfg.VisibilityTimeout, err = getEnvDuration("QUEUE_VISIBILITY_TIMEOUT", 300*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetentionPeriod, err = getEnvDuration("QUEUE_RETENTION_PERIOD", 96*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MaxDeliveryAttempts, err = getEnvInt("QUEUE_MAX_DELIVERY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.JobTimeout, err = getEnvDuration("JOB_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ScratchCeiling, err = getEnvInt64("SCRATCH_CEILING_BYTES", 6*1024*1024*1024); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = getEnvInt("WORKER_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}

	if cfg.MaxDeliveryAttempts < 1 {
		return nil, fmt.Errorf("QUEUE_MAX_DELIVERY_ATTEMPTS must be at least 1")
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	if cfg.ScratchCeiling <= 0 {
		return nil, fmt.Errorf("SCRATCH_CEILING_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer in %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer in %s: %w", key, err)
	}
	return parsed, nil
}
