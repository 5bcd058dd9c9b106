package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL       string
	MaxPages      int
	FetchTimeoutS int

	FetchConcurrency   int
	GeocodeConcurrency int
	RateLimitMs        int
	GeocodeDelayMs     int

	PositionStackKey string
	GeocodeCountry   string
	GeocodeTimeoutS  int

	GazetteerPath string
	RawCSVPath    string
	CleanCSVPath  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:       getEnv("BASE_URL", "https://locamoi.fr"),
		MaxPages:      getEnvInt("MAX_PAGES", 50),
		FetchTimeoutS: getEnvInt("FETCH_TIMEOUT_S", 15),

		FetchConcurrency:   getEnvInt("FETCH_CONCURRENCY", 4),
		GeocodeConcurrency: getEnvInt("GEOCODE_CONCURRENCY", 16),
		RateLimitMs:        getEnvInt("RATE_LIMIT_MS", 0),
		GeocodeDelayMs:     getEnvInt("GEOCODE_DELAY_MS", 0),

		PositionStackKey: getEnv("POSITIONSTACK_API_KEY", ""),
		GeocodeCountry:   getEnv("GEOCODE_COUNTRY", "FR"),
		GeocodeTimeoutS:  getEnvInt("GEOCODE_TIMEOUT_S", 10),

		GazetteerPath: getEnv("GAZETTEER_PATH", ""),
		RawCSVPath:    getEnv("RAW_CSV_PATH", "./data/locamoi_all_types.csv"),
		CleanCSVPath:  getEnv("CLEAN_CSV_PATH", "./data/locamoi_all_types_clean.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// Validate checks the settings without which no useful work can start.
// It is the only path that aborts a run.
func (c *Config) Validate() error {
	if c.PositionStackKey == "" {
		return errors.New("POSITIONSTACK_API_KEY is not set")
	}
	if c.BaseURL == "" {
		return errors.New("BASE_URL is empty")
	}
	if c.MaxPages < 1 {
		return errors.New("MAX_PAGES must be at least 1")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
