package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	HTTPPort  string
	LogLevel  string
	Workers   int
	QueueSize int
	RateRPS   int
}

func Load() Config {
	// a missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	return Config{
		Env:       get("APP_ENV", "dev"),
		HTTPPort:  get("HTTP_PORT", "8080"),
		LogLevel:  get("LOG_LEVEL", "info"),
		Workers:   getInt("WORKERS", 4),
		QueueSize: getInt("QUEUE_SIZE", 1024),
		RateRPS:   getInt("RATE_RPS", 100),
	}
}

func get(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
