package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/yumpooma/utils"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret     string
	JWTTTL        time.Duration
	AdminUsername string
	AdminPassword string

	RedisAddr     string
	RedisPassword string
	CartTTL       time.Duration

	KafkaBroker string
	KafkaTopic  string

	UploadDir     string
	PublicBaseURL string
	CORSOrigins   []string

	ConflictPolicy     string
	LoginRatePerMinute int
	SecureCookies      bool

	OTLPEndpoint string
	OTLPInsecure bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		utils.ErrorLogger.Println("Warning: JWT_SECRET not set, using development secret")
		secret = "yumpooma-dev-secret"
	}

	return Config{
		Port:     readString("PORT", "8080"),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: readString("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(readString("DB_DRIVER", "sqlite")),
		DBDSN:    readString("DB_DSN", "yumpooma.db"),

		JWTSecret:     secret,
		JWTTTL:        time.Duration(readInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartTTL:       time.Duration(readInt("CART_TTL_HOURS", 12)) * time.Hour,

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  readString("KAFKA_TOPIC", "restaurant-events"),

		UploadDir:     readString("UPLOAD_DIR", "public/uploads"),
		PublicBaseURL: strings.TrimRight(readString("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:   readList("CORS_ORIGINS", []string{"http://127.0.0.1:5500"}),

		ConflictPolicy:     readString("RESERVATION_CONFLICT_POLICY", "overlap"),
		LoginRatePerMinute: readInt("LOGIN_RATE_PER_MINUTE", 5),
		SecureCookies:      readBool("COOKIE_SECURE", false),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

func readString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func readList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
