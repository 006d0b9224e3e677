package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	CommerceStoreDomain     string
	CommerceStorefrontToken string
	CommerceAPIVersion      string
	CommerceTimeout         time.Duration

	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	S3KMSKeyID        string
	S3Endpoint        string
	FallbackObjectKey string

	DatabaseURL  string
	RecsQueueURL string

	RecsRatePerSec float64
	RecsRateBurst  int

	DevAuthSecret string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	if env == "production" && strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		log.Printf("GEMINI_API_KEY is not set; recommendations will serve fallback products")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:             env,

		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: getEnvSeconds("GEMINI_TIMEOUT_SECONDS", 30*time.Second),

		CommerceStoreDomain:     getEnv("COMMERCE_STORE_DOMAIN", ""),
		CommerceStorefrontToken: getEnv("COMMERCE_STOREFRONT_TOKEN", ""),
		CommerceAPIVersion:      getEnv("COMMERCE_API_VERSION", "2024-10"),
		CommerceTimeout:         getEnvSeconds("COMMERCE_TIMEOUT_SECONDS", 15*time.Second),

		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		S3KMSKeyID:        getEnv("S3_SSE_KMS_KEY_ID", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		FallbackObjectKey: getEnv("FALLBACK_OBJECT_KEY", "fallback/products.json"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RecsQueueURL: strings.TrimSpace(os.Getenv("RECS_SQS_QUEUE_URL")),

		RecsRatePerSec: getEnvFloat("RECS_RATE_PER_SEC", 1),
		RecsRateBurst:  getEnvInt("RECS_RATE_BURST", 5),

		DevAuthSecret: strings.TrimSpace(os.Getenv("DEV_AUTH_SECRET")),
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Existing environment wins over file values.
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	if secs := getEnvInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// IsDevLike reports whether env enables dev-only routes and in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
