// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"screenerbot-gateway/internal/pkg/jwt"
)

const sessionIssuer = "screenerbot-gateway"

type AppConfig struct {
	// Server
	HTTPAddr    string
	Env         string
	LogLevel    string
	CORSOrigins []string
	// TrustedProxies lists the peers whose X-Forwarded-For is believed.
	// Empty means the socket address is the client address.
	TrustedProxies []string

	// Session credentials
	JWT         jwt.Config
	AdminEmails []string

	// Identity provider
	GoogleClientID string
	GoogleJWKSURL  string

	// Upstream calling platform
	Vapi VapiConfig

	// Assistant defaults
	Assistant AssistantDefaults

	// Recording proxy
	RecordingMaxConcurrent int64
	RecordingMaxBytes      int64

	// Redis (login rate limiting)
	RedisAddr        string
	RedisPass        string
	LoginMaxAttempts int64
	LoginWindow      time.Duration

	// Activity storage
	DatabaseURL string
	SQLitePath  string
}

type VapiConfig struct {
	BaseURL            string
	StorageBaseURL     string
	APIKey             string
	PhoneNumberID      string
	DefaultAssistantID string
	Timeout            time.Duration
}

type AssistantDefaults struct {
	Model            string
	VoiceID          string
	TranscriberModel string
}

// Load loads environment variables into AppConfig.
func Load() (AppConfig, error) {
	ttlHours, err := getEnvInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return AppConfig{}, err
	}
	timeoutSeconds, err := getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 8)
	if err != nil {
		return AppConfig{}, err
	}
	recordingSlots, err := getEnvInt("RECORDING_MAX_CONCURRENT", 8)
	if err != nil {
		return AppConfig{}, err
	}
	recordingMaxMB, err := getEnvInt("RECORDING_MAX_MB", 200)
	if err != nil {
		return AppConfig{}, err
	}
	maxAttempts, err := getEnvInt("LOGIN_MAX_ATTEMPTS", 10)
	if err != nil {
		return AppConfig{}, err
	}
	windowMinutes, err := getEnvInt("LOGIN_WINDOW_MINUTES", 15)
	if err != nil {
		return AppConfig{}, err
	}

	cfg := AppConfig{
		HTTPAddr:    httpAddr(),
		Env:         getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		TrustedProxies: getEnvSlice("TRUSTED_PROXIES", nil),

		JWT: jwt.Config{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: sessionIssuer,
			TTL:    time.Duration(ttlHours) * time.Hour,
		},
		AdminEmails: normalizeEmails(getEnvSlice("ADMIN_EMAILS", nil)),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleJWKSURL:  getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),

		Vapi: VapiConfig{
			BaseURL:            strings.TrimRight(getEnv("VAPI_BASE_URL", "https://api.vapi.ai"), "/"),
			StorageBaseURL:     strings.TrimRight(getEnv("VAPI_STORAGE_BASE_URL", "https://storage.vapi.ai"), "/"),
			APIKey:             os.Getenv("VAPI_API_KEY"),
			PhoneNumberID:      os.Getenv("VAPI_PHONE_NUMBER_ID"),
			DefaultAssistantID: os.Getenv("ASSISTANT_ID"),
			Timeout:            time.Duration(timeoutSeconds) * time.Second,
		},

		Assistant: AssistantDefaults{
			Model:            getEnv("ASSISTANT_MODEL", "gpt-4.1-mini"),
			VoiceID:          getEnv("ASSISTANT_VOICE_ID", "Neha"),
			TranscriberModel: getEnv("ASSISTANT_TRANSCRIBER_MODEL", "nova-2"),
		},

		RecordingMaxConcurrent: int64(recordingSlots),
		RecordingMaxBytes:      int64(recordingMaxMB) << 20,

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPass:        os.Getenv("REDIS_PASS"),
		LoginMaxAttempts: int64(maxAttempts),
		LoginWindow:      time.Duration(windowMinutes) * time.Minute,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
	}

	if cfg.Vapi.Timeout <= 0 {
		return AppConfig{}, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}
	if cfg.RecordingMaxBytes <= 0 {
		return AppConfig{}, fmt.Errorf("RECORDING_MAX_MB must be positive")
	}
	if cfg.RecordingMaxConcurrent <= 0 {
		return AppConfig{}, fmt.Errorf("RECORDING_MAX_CONCURRENT must be positive")
	}
	return cfg, nil
}

// StorageBackend names the activity store selected by the environment.
func (c AppConfig) StorageBackend() string {
	switch {
	case c.DatabaseURL != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	default:
		return "none"
	}
}

// --- Helper functions ---

func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":" + getEnv("PORT", "5000")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		out = append(out, strings.ToLower(e))
	}
	return out
}
