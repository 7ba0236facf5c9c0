package config

import (
	"os"
	"strconv"
	"time"

	"quiz_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	JWTSecret     string
	AllowedOrigin string

	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Quiz creation service
	CreationServiceURL string
	CreationTimeout    time.Duration
	FlowIdleTTL        time.Duration

	// Rate limits
	APIRateLimit     int
	APIRateWindow    time.Duration
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	creationURL := os.Getenv("CREATION_SERVICE_URL")
	if creationURL == "" {
		creationURL = "http://localhost:3000/api/game"
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   os.Getenv("DATABASE_URL"), // optional: without it roles come from the token only
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		CreationServiceURL: creationURL,
		CreationTimeout:    envSeconds("CREATION_TIMEOUT_SECONDS", 60),
		FlowIdleTTL:        time.Duration(envInt("FLOW_IDLE_TTL_MINUTES", 30)) * time.Minute,

		APIRateLimit:     envInt("API_RATE_LIMIT", 60),
		APIRateWindow:    envSeconds("API_RATE_WINDOW_SECONDS", 60),
		SubmitRateLimit:  envInt("SUBMIT_RATE_LIMIT", 10),
		SubmitRateWindow: envSeconds("SUBMIT_RATE_WINDOW_SECONDS", 60),
	}
}

// envInt reads a non-negative int, falling back to def on absence or garbage
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def int) time.Duration {
	n := envInt(key, def)
	if n == 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}
