package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	CodeBackend string

	JWTSecret string
	JWTIssuer string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CodeLength     int
	CodeTTL        time.Duration
	ResendCooldown time.Duration

	ResendAPIKey string
	EmailFrom    string
	AppName      string

	AuthRatePerMinute float64
	AuthRateBurst     int
	CodeRatePerMinute float64
	CodeRateBurst     int
	RateLimitIdleTTL  time.Duration

	CookieDomain  string
	SecureCookies bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CodeBackend:     getEnv("CODE_BACKEND", "postgres"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnv("JWT_ISSUER", "ledgerlite"),
		AccessTokenTTL:  getEnvMinutes("JWT_ACCESS_MINUTES", 15),
		RefreshTokenTTL: getEnvMinutes("JWT_REFRESH_MINUTES", 30*24*60),
		CodeLength:      getEnvInt("OTP_CODE_LENGTH", 6),
		CodeTTL:         getEnvMinutes("OTP_TTL_MINUTES", 10),
		ResendCooldown:  getEnvSeconds("OTP_COOLDOWN_SECONDS", 30),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		EmailFrom:       os.Getenv("EMAIL_FROM"),
		AppName:         getEnv("APP_NAME", "Ledgerlite"),

		AuthRatePerMinute: getEnvFloat("RATE_AUTH_PER_MINUTE", 300),
		AuthRateBurst:     getEnvInt("RATE_AUTH_BURST", 10),
		CodeRatePerMinute: getEnvFloat("RATE_CODE_PER_MINUTE", 60),
		CodeRateBurst:     getEnvInt("RATE_CODE_BURST", 3),
		RateLimitIdleTTL:  getEnvMinutes("RATE_IDLE_MINUTES", 10),

		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		SecureCookies: os.Getenv("COOKIE_SECURE") != "false",
	}

	missing := []string{}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.CodeBackend == "redis" && cfg.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvMinutes(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Minute
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
