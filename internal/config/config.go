package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage mode values for Config.StorageMode.
const (
	StorageLocal  = "local"
	StorageRemote = "remote"
)

// Metadata backend values for Config.MetadataBackend (local mode only).
const (
	MetadataJSON   = "json"
	MetadataSQLite = "sqlite"
)

type Config struct {
	ListenAddr  string
	BaseURL     string
	StorageMode string

	// Local mode.
	UploadsPath     string
	MetadataBackend string
	MetadataPath    string

	// Remote mode.
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioRootFolder string
	MinioUseSSL     bool

	// Upload ceiling in bytes.
	MaxUploadBytes int64

	// Admin credential. Either a bcrypt hash or a plain password must be
	// set; the hash wins when both are present.
	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string
}

// Load reads configuration from the environment, with a .env file as a
// fallback source. It returns an error naming every required variable
// that is missing; the caller is expected to treat that as fatal.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:  getEnv("GALLERY_LISTEN_ADDR", ":8080"),
		BaseURL:     getEnv("GALLERY_BASE_URL", "http://localhost:8080"),
		StorageMode: getEnv("GALLERY_STORAGE", StorageLocal),

		UploadsPath:     getEnv("GALLERY_UPLOADS_PATH", "uploads"),
		MetadataBackend: getEnv("GALLERY_METADATA", MetadataJSON),
		MetadataPath:    getEnv("GALLERY_METADATA_PATH", "data/db.json"),

		MinioEndpoint:   os.Getenv("GALLERY_MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("GALLERY_MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("GALLERY_MINIO_SECRET_KEY"),
		MinioBucket:     os.Getenv("GALLERY_MINIO_BUCKET"),
		MinioRootFolder: getEnv("GALLERY_MINIO_ROOT", "gallery"),
		MinioUseSSL:     getEnv("GALLERY_MINIO_USE_SSL", "") == "true",

		MaxUploadBytes: getEnvInt64("GALLERY_MAX_UPLOAD_BYTES", 5<<20),

		AdminUser:         getEnv("GALLERY_ADMIN_USER", "admin"),
		AdminPassword:     os.Getenv("GALLERY_ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("GALLERY_ADMIN_PASSWORD_HASH"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string

	if c.StorageMode != StorageLocal && c.StorageMode != StorageRemote {
		return fmt.Errorf("GALLERY_STORAGE must be %q or %q, got %q",
			StorageLocal, StorageRemote, c.StorageMode)
	}
	if c.MetadataBackend != MetadataJSON && c.MetadataBackend != MetadataSQLite {
		return fmt.Errorf("GALLERY_METADATA must be %q or %q, got %q",
			MetadataJSON, MetadataSQLite, c.MetadataBackend)
	}

	if c.StorageMode == StorageRemote {
		if c.MinioEndpoint == "" {
			missing = append(missing, "GALLERY_MINIO_ENDPOINT")
		}
		if c.MinioAccessKey == "" {
			missing = append(missing, "GALLERY_MINIO_ACCESS_KEY")
		}
		if c.MinioSecretKey == "" {
			missing = append(missing, "GALLERY_MINIO_SECRET_KEY")
		}
		if c.MinioBucket == "" {
			missing = append(missing, "GALLERY_MINIO_BUCKET")
		}
	}

	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		missing = append(missing, "GALLERY_ADMIN_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s",
			strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
