package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

type Config struct {
	Port          string
	UploadDir     string
	PublicBaseURL string
	CORSOrigins   []string

	Rasterizer     string // fitz | poppler
	StorageBackend string // local | s3
	S3             S3

	MaxUploadBytes      int64
	RateLimitPerMinute  int
	ShutdownTimeout     time.Duration
	DefaultLockPassword string
}

// Load читает .env (если есть) и переменные окружения
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          env("PORT", "8000"),
		UploadDir:     env("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		CORSOrigins:   list(env("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		Rasterizer:     env("RASTERIZER", "fitz"),
		StorageBackend: env("STORAGE_BACKEND", "local"),
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Secure:    envBool("S3_SECURE", true),
		},

		MaxUploadBytes:      int64(envInt("MAX_UPLOAD_MB", 50)) << 20,
		RateLimitPerMinute:  envInt("RATE_LIMIT_PER_MIN", 120),
		ShutdownTimeout:     envDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		DefaultLockPassword: env("DEFAULT_LOCK_PASSWORD", "secure123"),
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
