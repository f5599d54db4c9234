package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	BankPath             string
	PausePath            string
	ResultsPath          string
	MediaDir             string
	DefaultQuestionCount int
	SecondsPerQuestion   int
	GracePeriodSeconds   int

	ResultsBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string

	GeminiModel string
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	cfg := &Config{
		BankPath:             getEnv("BANK_PATH", "problems_database.json"),
		PausePath:            getEnv("PAUSE_PATH", "paused_exam.json"),
		ResultsPath:          getEnv("RESULTS_PATH", "exam_stats.json"),
		MediaDir:             getEnv("MEDIA_DIR", "media"),
		DefaultQuestionCount: getEnvInt("DEFAULT_QUESTION_COUNT", 5, 1),
		SecondsPerQuestion:   getEnvInt("SECONDS_PER_QUESTION", 3*60, 1),
		GracePeriodSeconds:   getEnvInt("GRACE_PERIOD_SECONDS", 5, 0),
		ResultsBackend:       strings.ToLower(getEnv("RESULTS_BACKEND", BackendFile)),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "postgres"),
		DBName:               getEnv("DB_NAME", "fe_practice"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	switch cfg.ResultsBackend {
	case BackendFile, BackendPostgres:
	default:
		return nil, fmt.Errorf("unsupported RESULTS_BACKEND %q", cfg.ResultsBackend)
	}

	return cfg, nil
}

// PostgresDSN builds the lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the value is not an integer >= minValue
func getEnvInt(key string, defaultValue, minValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < minValue {
		log.Printf("Invalid value %q for %s, using %d", value, key, defaultValue)
		return defaultValue
	}
	return n
}
