package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port                   string
	PostgresDSN            string
	MongoURI               string
	MongoDB                string
	RedisAddr              string
	RedisPassword          string
	JWTSecret              string
	JWTExpiration          time.Duration
	RefreshTokenSecret     string
	RefreshTokenExpiration time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:                   getenv("PORT", "8080"),
		PostgresDSN:            getenv("POSTGRES_DSN", ""),
		MongoURI:               getenv("MONGODB_URI", ""),
		MongoDB:                getenv("MONGO_DB", "quotes_api"),
		RedisAddr:              getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:          getenv("REDIS_PASSWORD", ""),
		JWTSecret:              getenv("JWT_SECRET", ""),
		JWTExpiration:          getdur("JWT_EXPIRATION", 15*time.Minute),
		RefreshTokenSecret:     getenv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiration: getdur("REFRESH_TOKEN_EXPIRATION", 7*24*time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
