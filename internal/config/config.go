package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	JWTTTLMin     int
	BcryptCost    int
	AdminPassword string
}

func LoadConfig() *Config {
	// Only load .env when running locally; deployments rely on real env vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "greenfields"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLMin:     getEnvInt("JWT_TTL_MIN", 60),
		BcryptCost:    getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		AdminPassword: getEnv("ADMIN_PASSWORD", "greenfields-admin"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
