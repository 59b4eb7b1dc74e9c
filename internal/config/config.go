package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	DBDriver            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSSLMode           string
	SQLitePath          string
	SessionStore        string
	RedisHost           string
	RedisPort           string
	SessionSecret       string
	CSRFKey             string
	GinMode             string
	OpenAIAPIKey        string
	AutoLoginOnRegister bool
	LoginRateLimit      int
	TrustedProxies      []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DBDriver:            getEnv("DB_DRIVER", "mysql"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBUser:              getEnv("DB_USER", "ideauser"),
		DBPassword:          getEnv("DB_PASSWORD", "ideapassword"),
		DBName:              getEnv("DB_NAME", "idea_tracker"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		SQLitePath:          getEnv("SQLITE_PATH", "idea_tracker.db"),
		SessionStore:        getEnv("SESSION_STORE", "redis"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		SessionSecret:       getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		CSRFKey:             getEnv("CSRF_KEY", ""),
		GinMode:             getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		AutoLoginOnRegister: getEnvBool("AUTO_LOGIN_ON_REGISTER", true),
		LoginRateLimit:      getEnvInt("LOGIN_RATE_LIMIT", 10),
		TrustedProxies:      getEnvList("TRUSTED_PROXIES"),
	}
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty entries.
// An unset variable yields nil.
func getEnvList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
