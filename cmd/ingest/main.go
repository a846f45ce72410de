// Einmaliger Bulk-Loader: liest das Retraction-Watch-CSV und befüllt die
// papers-Tabelle von Grund auf neu. Läuft nie neben dem Server.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-trail/models"
)

type IngestConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	CSVPath   string `envconfig:"CSV_PATH" required:"true"`
	BatchSize int    `envconfig:"BATCH_SIZE" default:"1000"`
}

func main() {
	_ = godotenv.Load()
	var cfg IngestConfig
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

	log.Printf("Initializing database from: %s", cfg.CSVPath)

	// Frischer Start: Tabelle samt Indexen neu aufbauen.
	if err := db.Migrator().DropTable(&models.Paper{}); err != nil {
		log.Fatalf("Failed to drop papers table: %v", err)
	}
	if err := db.AutoMigrate(&models.Paper{}); err != nil {
		log.Fatalf("Failed to create papers table: %v", err)
	}

	file, err := os.Open(cfg.CSVPath)
	if err != nil {
		log.Fatalf("Failed to open CSV: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	if _, ok := colIndex["Record ID"]; !ok {
		log.Fatal("CSV is missing the 'Record ID' column")
	}

	field := func(row []string, name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var batch []models.Paper
	inserted := 0
	skipped := 0
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := db.CreateInBatches(batch, cfg.BatchSize).Error; err != nil {
			log.Fatalf("Batch insert failed after %d records: %v", inserted, err)
		}
		inserted += len(batch)
		batch = batch[:0]
		log.Printf("Progress: %d records inserted", inserted)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read CSV row: %v", err)
		}

		recordID := field(row, "Record ID")
		if recordID == "" {
			skipped++
			continue
		}

		batch = append(batch, models.Paper{
			RecordID:              recordID,
			Title:                 field(row, "Title"),
			Subject:               field(row, "Subject"),
			Institution:           field(row, "Institution"),
			Journal:               field(row, "Journal"),
			Publisher:             field(row, "Publisher"),
			Country:               field(row, "Country"),
			Author:                field(row, "Author"),
			URLS:                  field(row, "URLS"),
			ArticleType:           field(row, "ArticleType"),
			RetractionDate:        field(row, "RetractionDate"),
			RetractionDOI:         field(row, "RetractionDOI"),
			RetractionPubMedID:    field(row, "RetractionPubMedID"),
			OriginalPaperDate:     field(row, "OriginalPaperDate"),
			OriginalPaperDOI:      field(row, "OriginalPaperDOI"),
			OriginalPaperPubMedID: field(row, "OriginalPaperPubMedID"),
			RetractionNature:      field(row, "RetractionNature"),
			Reason:                field(row, "Reason"),
			Paywalled:             field(row, "Paywalled"),
			Notes:                 field(row, "Notes"),
		})
		if len(batch) >= cfg.BatchSize {
			flush()
		}
	}
	flush()

	// Statistiken für den Query-Planner auffrischen.
	if err := db.Exec("ANALYZE papers").Error; err != nil {
		log.Printf("ANALYZE failed (non-fatal): %v", err)
	}

	log.Printf("Database initialized: %d records inserted, %d skipped", inserted, skipped)
}
