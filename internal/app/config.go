package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/script2sound/script2sound/internal/tts"
)

type Config struct {
	HTTPAddr       string
	AllowedOrigins []string
	DatabaseURL    string
	SentryDSN      string
	LogLevel       string

	// Provider call settings
	ProviderTimeout time.Duration

	// Request defaults applied when clients omit fields
	DefaultVoice        string
	DefaultLanguageCode string
	DefaultSpeakingRate float64
	DefaultPitch        float64

	// Websocket streaming
	StreamChunkChars int

	// Preset catalog (empty uses the embedded defaults)
	PresetsPath string

	// Admin access (both required to enable the history surface)
	AdminAPIKey string
	JWTSecret   string
	JWTExpiry   time.Duration
}

func LoadConfigFromEnv() Config {
	jwtExpiry, err := time.ParseDuration(getenv("JWT_EXPIRY", "24h"))
	if err != nil {
		jwtExpiry = 24 * time.Hour
	}
	providerTimeout, err := time.ParseDuration(getenv("PROVIDER_TIMEOUT", "30s"))
	if err != nil {
		providerTimeout = 30 * time.Second
	}

	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins: parseOrigins(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		SentryDSN:      getenv("SENTRY_DSN", ""),
		LogLevel:       getenv("LOG_LEVEL", "info"),

		ProviderTimeout: providerTimeout,

		DefaultVoice:        getenv("DEFAULT_VOICE", "en-US-Neural2-D"),
		DefaultLanguageCode: getenv("DEFAULT_LANGUAGE_CODE", "en-US"),
		DefaultSpeakingRate: getenvFloatClamped("DEFAULT_SPEAKING_RATE", 1.0, tts.MinSpeakingRate, tts.MaxSpeakingRate),
		DefaultPitch:        getenvFloatClamped("DEFAULT_PITCH", 0.0, tts.MinPitch, tts.MaxPitch),

		StreamChunkChars: getenvIntClamped("STREAM_CHUNK_CHARS", 3000, 500, tts.MaxTextLength),

		PresetsPath: getenv("PRESETS_PATH", ""),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
		JWTSecret:   os.Getenv("JWT_SECRET"), // Required for admin access - no fallback
		JWTExpiry:   jwtExpiry,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntClamped(k string, def, min, max int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func getenvFloatClamped(k string, def, min, max float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
