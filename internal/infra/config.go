package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"holosuite/internal/domain"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey     string
	GeminiBaseURL    string
	ImageModel       string
	EditModel        string
	VideoModel       string
	ImageAspectRatio string
	ImageOutputMIME  string
	VideoResolution  string
	VideoAspectRatio string

	VideoPollInterval    time.Duration
	VideoPollMaxAttempts int
	VideoPollMaxWait     time.Duration

	StudioMessageInterval time.Duration
	StudioSessionTTL      time.Duration
	RedisURL              string
	UploadMaxBytes        int64

	CORSAllowedOrigins []string
	RateLimitPerMin    int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

var allowedAspectRatios = map[string]struct{}{
	"1:1":  {},
	"3:4":  {},
	"4:3":  {},
	"9:16": {},
	"16:9": {},
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A missing provider credential is reported as domain.ErrMissingCredential.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		GeminiAPIKey:          strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:         os.Getenv("GEMINI_BASE_URL"),
		ImageModel:            getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		EditModel:             getEnv("GEMINI_EDIT_MODEL", "gemini-2.5-flash-image"),
		VideoModel:            getEnv("GEMINI_VIDEO_MODEL", "veo-3.1-fast-generate-preview"),
		ImageAspectRatio:      getEnv("IMAGE_ASPECT_RATIO", "16:9"),
		ImageOutputMIME:       getEnv("IMAGE_OUTPUT_MIME", domain.MIMEJPEG),
		VideoResolution:       getEnv("VIDEO_RESOLUTION", "720p"),
		VideoAspectRatio:      getEnv("VIDEO_ASPECT_RATIO", "16:9"),
		VideoPollInterval:     getEnvDuration("VIDEO_POLL_INTERVAL", 10*time.Second),
		VideoPollMaxAttempts:  getEnvInt("VIDEO_POLL_MAX_ATTEMPTS", 60),
		VideoPollMaxWait:      getEnvDuration("VIDEO_POLL_MAX_WAIT", 10*time.Minute),
		StudioMessageInterval: getEnvDuration("STUDIO_MESSAGE_INTERVAL", 4*time.Second),
		StudioSessionTTL:      getEnvDuration("STUDIO_SESSION_TTL", 24*time.Hour),
		RedisURL:              strings.TrimSpace(os.Getenv("REDIS_URL")),
		UploadMaxBytes:        int64(getEnvInt("UPLOAD_MAX_BYTES", 20<<20)),
		CORSAllowedOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 900)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, domain.NewError(domain.ErrMissingCredential, "GEMINI_API_KEY is required")
	}

	if _, ok := allowedAspectRatios[cfg.ImageAspectRatio]; !ok {
		return nil, fmt.Errorf("IMAGE_ASPECT_RATIO must be one of 1:1, 3:4, 4:3, 9:16, 16:9")
	}
	if _, ok := allowedAspectRatios[cfg.VideoAspectRatio]; !ok {
		return nil, fmt.Errorf("VIDEO_ASPECT_RATIO must be one of 1:1, 3:4, 4:3, 9:16, 16:9")
	}

	if cfg.VideoPollInterval <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL must be positive")
	}
	if cfg.VideoPollMaxAttempts <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("10s") and bare integers as seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
