package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

const (
	// MaxPageSize ist die harte Obergrenze pro Antwort, unabhängig vom Aufrufer.
	MaxPageSize = 500
	// DefaultPageSize greift, wenn der Aufrufer kein oder ein unbrauchbares Limit schickt.
	DefaultPageSize = 100
)

// PaperService beantwortet paginierte Listen- und Suchanfragen gegen die
// papers-Tabelle. Der Datensatz ist zur Laufzeit unveränderlich, deshalb
// dürfen Count- und Datenabfrage als zwei unabhängige Queries laufen.
type PaperService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewPaperService erstellt eine neue Instanz des PaperService.
func NewPaperService(db *gorm.DB, logger *zap.Logger) *PaperService {
	return &PaperService{DB: db, Logger: logger}
}

// ListPage liefert eine Seite des Gesamtdatensatzes, sortiert nach record_id.
func (s *PaperService) ListPage(ctx context.Context, page, limit int) (*models.PaperPage, error) {
	return s.queryPage(ctx, "", nil, page, limit)
}

// SearchPage liefert eine Seite des durch das Filterobjekt eingeschränkten
// Datensatzes. Count- und Datenabfrage teilen sich dieselbe Parameterliste.
func (s *PaperService) SearchPage(ctx context.Context, f *models.SearchFilter, page, limit int) (*models.PaperPage, error) {
	where, params := BuildWhereClause(f)
	return s.queryPage(ctx, where, params, page, limit)
}

// CountAll zählt alle geladenen Paper. Dient dem Boot-Check und /api/health.
func (s *PaperService) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Paper{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count papers: %w", err)
	}
	return count, nil
}

func (s *PaperService) queryPage(ctx context.Context, where string, params []any, page, limit int) (*models.PaperPage, error) {
	limit = ClampLimit(limit)
	offset := (page - 1) * limit

	countQuery := s.DB.WithContext(ctx).Model(&models.Paper{})
	dataQuery := s.DB.WithContext(ctx).Model(&models.Paper{})
	if where != "" {
		countQuery = countQuery.Where(where, params...)
		dataQuery = dataQuery.Where(where, params...)
	}

	var count int64
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	// results muss auch bei leerer Seite als [] serialisiert werden, nie als null.
	results := make([]models.Paper, 0, limit)
	if err := dataQuery.Order("record_id").Limit(limit).Offset(offset).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}

	return &models.PaperPage{
		Count:      count,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(count, limit),
		Results:    results,
	}, nil
}

// ClampLimit begrenzt das angefragte Seitenlimit auf [1, MaxPageSize].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// TotalPages rechnet ceil(count/limit); 0 Treffer ergeben 0 Seiten.
func TotalPages(count int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
