package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // postgres or memory
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// SessionFile is where the signed-in session token is persisted between runs.
	SessionFile string

	// SessionRestoreTimeout bounds session recovery on startup; past it the
	// portal proceeds as signed out.
	SessionRestoreTimeout time.Duration
	// RoleResolveTimeout bounds a single profile/role fetch; past it the user
	// proceeds as a trainee.
	RoleResolveTimeout time.Duration

	// PassThreshold is the quiz pass mark, compared against the highest score.
	PassThreshold int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:              getEnv("DB_DRIVER", "postgres"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "postgres"),
		DBPassword:            getEnv("DB_PASSWORD", "postgres"),
		DBName:                getEnv("DB_NAME", "training_portal"),
		JWTSecret:             getEnv("JWT_SECRET", "secret"),
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		SessionFile:           getEnv("SESSION_FILE", ".portal-session"),
		SessionRestoreTimeout: getEnvDuration("SESSION_RESTORE_TIMEOUT", 8*time.Second),
		RoleResolveTimeout:    getEnvDuration("ROLE_RESOLVE_TIMEOUT", 3*time.Second),
		PassThreshold:         getEnvInt("PASS_THRESHOLD", 75),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
