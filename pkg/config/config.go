package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// placeholderCloudName is the value shipped in the sample .env file.
const placeholderCloudName = "your_cloudinary_cloud_name"

// CloudinarySetupInstructions is surfaced whenever media operations are attempted
// without a media host account configured.
const CloudinarySetupInstructions = "Cloudinary is not configured. Please:\n" +
	"1. Create a Cloudinary account at https://cloudinary.com\n" +
	"2. Get your cloud name from the dashboard\n" +
	"3. Set CLOUDINARY_CLOUD_NAME=your-cloud-name in the environment or .env file\n" +
	"4. Create the upload presets video_posts, social_media_posts and profile_pictures\n" +
	"5. Restart the server"

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	CloudinaryCloudName     string
	NatsURL                 string
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "bookd"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		CloudinaryCloudName:     getEnv("CLOUDINARY_CLOUD_NAME", ""),
		NatsURL:                 getEnv("NATS_URL", ""),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.PostgresConnStr == "" {
		errs = append(errs, fmt.Errorf("POSTGRES_CONN_STR environment variable not set"))
	}
	if c.MongoURI == "" {
		errs = append(errs, fmt.Errorf("MONGO_URI environment variable not set"))
	}
	if c.JWTSecret == "" && c.IsProduction() {
		errs = append(errs, fmt.Errorf("JWT_SECRET environment variable not set"))
	}
	return errors.Join(errs...)
}

// CloudinaryConfigured reports whether a usable media host account id is present.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryCloudName != placeholderCloudName
}

// SigningSecret returns the JWT secret, falling back to a development-only value.
func (c *Config) SigningSecret() string {
	if c.JWTSecret == "" {
		return "bookd-development-secret"
	}
	return c.JWTSecret
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}
