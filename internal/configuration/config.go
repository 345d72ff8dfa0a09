package configuration

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Upload      UploadConfig
	Server      ServerConfig
	NATSURL     string
	KeycloakUrl string
	CLAMAVURL   string
	DDTrace     bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Enabled  bool
}

type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
}

type UploadConfig struct {
	// Backend selects where payloads land: "local" or "minio".
	Backend string
	// Root is the upload root for the local backend; one subdirectory per
	// company is created beneath it.
	Root string
}

type ServerConfig struct {
	Port string
}

func Load() *Config {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "docuser"),
			Password: getEnv("DB_PASSWORD", "docpassword"),
			DBName:   getEnv("DB_NAME", "documents"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Enabled:  getEnv("DB_ENABLED", "true") == "true",
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName: getEnv("MINIO_BUCKET", "documents"),
			UseSSL:     getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Upload: UploadConfig{
			Backend: getEnv("STORAGE_BACKEND", "local"),
			Root:    getEnv("UPLOAD_ROOT", "./uploads"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		CLAMAVURL:   getEnv("CLAMAV_URL", "tcp://localhost:3310"),
		KeycloakUrl: getEnv("KEYCLOAK_URL", "http://localhost:8081/realms/dealdesk"),
		DDTrace:     getEnv("DD_TRACE_ENABLED", "false") == "true",
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
