package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var loadEnv sync.Once

// Config returns a single environment value, loading .env on first use.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Debug().Msg(".env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

type AppConfig struct {
	AppEnv   string
	Port     string
	LogLevel string

	StoreDriver string
	DatabaseURL string
	DataDir     string

	JWTSecret string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsBaseURL string

	SolanaRPCURL string

	CloudinaryURL   string
	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	TutorRatePerMinute int
	ProviderTimeout    time.Duration
}

func Load() *AppConfig {
	cfg := &AppConfig{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: Config("STORE_DRIVER"),
		DatabaseURL: Config("DATABASE_URL"),
		DataDir:     getEnv("DATA_DIR", "data"),

		JWTSecret: Config("JWT_SECRET"),

		GeminiAPIKey:  Config("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		ElevenLabsAPIKey:  Config("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),

		SolanaRPCURL: getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),

		CloudinaryURL:   Config("CLOUDINARY_URL"),
		BrevoAPIKey:     Config("BREVO_API_KEY"),
		EmailSender:     Config("EMAIL_SENDER"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "StudyDAO"),

		TutorRatePerMinute: getEnvInt("TUTOR_RATE_PER_MINUTE", 20),
		ProviderTimeout:    time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "file"
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = "postgres"
		}
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = "studydao-dev-secret"
	}
	return cfg
}

func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := Config(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-numeric config value")
	}
	return fallback
}
