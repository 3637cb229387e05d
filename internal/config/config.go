package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/portfolio/projects-api/internal/domain/media"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Media  MediaConfig
	Redis  RedisConfig
	GitHub GitHubConfig
	App    AppConfig
}

type ServerConfig struct {
	Port             string
	UploadRatePerSec float64
	UploadBurst      int
}

type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
}

type MediaConfig struct {
	Driver              string
	Folder              string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3Bucket            string
	S3Region            string
	S3PublicBaseURL     string
}

type RedisConfig struct {
	URL string
}

type GitHubConfig struct {
	Token         string
	ImportEnabled bool
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "5000"),
			UploadRatePerSec: getEnvAsFloat("UPLOAD_RATE_PER_SEC", 1),
			UploadBurst:      getEnvAsInt("UPLOAD_BURST", 5),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
			MongoURI:      getEnv("MONGO_URI", ""),
			MongoDatabase: getEnv("MONGO_DATABASE", "portfolio"),
			DatabaseURL:   getEnv("DATABASE_URL", ""),
		},
		Media: MediaConfig{
			Driver:              strings.ToLower(getEnv("MEDIA_DRIVER", MediaCloudinary)),
			Folder:              getEnv("MEDIA_FOLDER", media.DefaultFolder),
			CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			S3Bucket:            getEnv("S3_BUCKET", ""),
			S3Region:            getEnv("AWS_REGION", ""),
			S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		GitHub: GitHubConfig{
			Token:         getEnv("GITHUB_TOKEN", ""),
			ImportEnabled: getEnvAsBool("GITHUB_IMPORT_ENABLED", true),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.UploadRatePerSec <= 0 || c.Server.UploadBurst < 1 {
		return fmt.Errorf("UPLOAD_RATE_PER_SEC and UPLOAD_BURST must be positive")
	}

	switch c.Store.Driver {
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for STORE_DRIVER=mongo")
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Media.Driver {
	case MediaCloudinary:
		if c.Media.CloudinaryCloudName == "" || c.Media.CloudinaryAPIKey == "" || c.Media.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for MEDIA_DRIVER=cloudinary")
		}
	case MediaS3:
		if c.Media.S3Bucket == "" || c.Media.S3Region == "" {
			return fmt.Errorf("S3_BUCKET and AWS_REGION are required for MEDIA_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", c.Media.Driver)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}
