// Offline-Wartung: löscht eine begrenzte Zahl der ältesten Datensätze in
// Batches und baut danach Indexe und Statistiken neu auf. Darf nicht laufen,
// während der Server Anfragen bedient.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MaintenanceConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	DeleteCount int `envconfig:"DELETE_COUNT" default:"40000"`
	BatchSize   int `envconfig:"BATCH_SIZE" default:"1000"`
}

func main() {
	_ = godotenv.Load()
	var cfg MaintenanceConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var before int64
	if err := db.Table("papers").Count(&before).Error; err != nil {
		log.Fatalf("Failed to count papers: %v", err)
	}
	log.Printf("Current record count: %d", before)
	log.Printf("Deleting up to %d records in batches of %d...", cfg.DeleteCount, cfg.BatchSize)

	deleted := 0
	for deleted < cfg.DeleteCount {
		batch := cfg.BatchSize
		if remaining := cfg.DeleteCount - deleted; remaining < batch {
			batch = remaining
		}

		// Die ältesten Datensätze zuerst, record_id ist monoton.
		res := db.Exec(`
			DELETE FROM papers
			WHERE record_id IN (
				SELECT record_id FROM papers ORDER BY record_id LIMIT ?
			)`, batch)
		if res.Error != nil {
			log.Fatalf("Delete batch failed after %d records: %v", deleted, res.Error)
		}
		if res.RowsAffected == 0 {
			break
		}
		deleted += int(res.RowsAffected)
		log.Printf("Progress: %d/%d records deleted", deleted, cfg.DeleteCount)
	}

	log.Printf("Rebuilding indexes and statistics...")
	if err := db.Exec("REINDEX TABLE papers").Error; err != nil {
		log.Printf("REINDEX failed (non-fatal): %v", err)
	}
	if err := db.Exec("ANALYZE papers").Error; err != nil {
		log.Printf("ANALYZE failed (non-fatal): %v", err)
	}

	var after int64
	if err := db.Table("papers").Count(&after).Error; err != nil {
		log.Fatalf("Failed to count papers: %v", err)
	}
	log.Printf("Maintenance complete: %d deleted, %d records remaining", deleted, after)
}
