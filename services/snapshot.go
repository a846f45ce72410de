package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/config"
	"paper-trail/models"
	"paper-trail/storage"
)

// csvHeader entspricht den Spaltenköpfen des Quell-CSV, in Ingest-Reihenfolge.
var csvHeader = []string{
	"Record ID", "Title", "Subject", "Institution", "Journal", "Publisher",
	"Country", "Author", "URLS", "ArticleType", "RetractionDate",
	"RetractionDOI", "RetractionPubMedID", "OriginalPaperDate",
	"OriginalPaperDOI", "OriginalPaperPubMedID", "RetractionNature",
	"Reason", "Paywalled", "Notes",
}

// SnapshotService exportiert den kompletten Datensatz als CSV.gz nach S3.
// Läuft per Cron; der Serving-Pfad bleibt davon unberührt, weil nur gelesen wird.
type SnapshotService struct {
	Config   *config.Config
	DB       *gorm.DB
	S3Client *s3.Client
	Logger   *zap.Logger
}

// NewSnapshotService erstellt eine neue Instanz des SnapshotService.
func NewSnapshotService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{Config: cfg, DB: db, S3Client: s3Client, Logger: logger}
}

// Run schreibt alle Paper batchweise in ein gzip-komprimiertes CSV und lädt
// es in den Snapshot-Bucket hoch.
func (s *SnapshotService) Run(ctx context.Context) error {
	start := time.Now()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	w := csv.NewWriter(gz)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	var rows int64
	var batch []models.Paper
	result := s.DB.WithContext(ctx).
		Model(&models.Paper{}).
		Order("record_id").
		FindInBatches(&batch, 1000, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if err := w.Write(paperToCSVRow(&batch[i])); err != nil {
					return fmt.Errorf("write csv row: %w", err)
				}
			}
			rows += tx.RowsAffected
			return nil
		})
	if result.Error != nil {
		return fmt.Errorf("export papers: %w", result.Error)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}

	key := fmt.Sprintf("snapshots/papers-%s.csv.gz", time.Now().UTC().Format("2006-01-02"))
	link, err := storage.Upload(ctx, s.S3Client, s.Config, key, "application/gzip", buf.Bytes())
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	s.Logger.Info("Snapshot uploaded",
		zap.String("link", link),
		zap.Int64("rows", rows),
		zap.Int("bytes", buf.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

func paperToCSVRow(p *models.Paper) []string {
	return []string{
		p.RecordID, p.Title, p.Subject, p.Institution, p.Journal, p.Publisher,
		p.Country, p.Author, p.URLS, p.ArticleType, p.RetractionDate,
		p.RetractionDOI, p.RetractionPubMedID, p.OriginalPaperDate,
		p.OriginalPaperDOI, p.OriginalPaperPubMedID, p.RetractionNature,
		p.Reason, p.Paywalled, p.Notes,
	}
}
