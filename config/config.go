package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"5001"`

	// TTL für den Dropdown-Options-Cache.
	OptionsCacheTTL time.Duration `envconfig:"OPTIONS_CACHE_TTL" default:"5m"`

	// Zeitplan für den Dataset-Snapshot nach S3.
	SnapshotSchedule string `envconfig:"SNAPSHOT_SCHEDULE" default:"0 3 * * *"`
	SnapshotEnabled  bool   `envconfig:"SNAPSHOT_ENABLED" default:"true"`

	StratoS3Key    string `envconfig:"STRATO_S3_KEY"`
	StratoS3Secret string `envconfig:"STRATO_S3_SECRET"`
	StratoS3URL    string `envconfig:"STRATO_S3_URL"`
	StratoS3Region string `envconfig:"STRATO_S3_REGION"`
	StratoS3Bucket string `envconfig:"STRATO_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// S3Configured meldet, ob alle für Snapshots nötigen S3-Parameter gesetzt sind.
func (c *Config) S3Configured() bool {
	return c.StratoS3Key != "" && c.StratoS3Secret != "" && c.StratoS3URL != "" &&
		c.StratoS3Region != "" && c.StratoS3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
