package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port            string
	MongoURI        string
	MongoDBName     string
	GeocoderBaseURL string
	AllowedOrigins  []string
	ConnectRetries  int
}

// Load reads an optional .env file, then the environment. Defaults suit
// local development; production sets everything explicitly.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	return Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		MongoURI:        getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnvWithDefault("MONGO_DB_NAME", "mgnrega"),
		GeocoderBaseURL: getEnvWithDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", defaultOrigins),
		ConnectRetries:  getEnvAsInt("MONGO_CONNECT_RETRIES", 5),
	}
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
