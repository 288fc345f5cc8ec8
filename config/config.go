package config

import (
	"log"
	"os"
	"time"

	"github.com/op/go-logging"
)

type Config struct {
	Port      string
	DBDriver  string
	DSN       string
	RedisAddr string
	JWTSecret []byte
	TokenTTL  time.Duration
	CacheTTL  time.Duration
	LogLevel  logging.Level
}

func Load() Config {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3002"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	dsn := os.Getenv("DSN")
	if dsn == "" {
		dsn = "notes.db"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return Config{
		Port:      ":" + port,
		DBDriver:  driver,
		DSN:       dsn,
		RedisAddr: os.Getenv("REDIS_ADDR"),
		JWTSecret: []byte(secret),
		TokenTTL:  durationEnv("TOKEN_TTL", 24*time.Hour),
		CacheTTL:  durationEnv("CACHE_TTL", 10*time.Minute),
		LogLevel:  logLevel(),
	}
}

func durationEnv(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("bad %s: %v", name, err)
	}
	return d
}

func logLevel() logging.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return logging.INFO
	}
	level, err := logging.LogLevel(raw)
	if err != nil {
		log.Fatalf("bad LOG_LEVEL: %v", err)
	}
	return level
}
