package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// OptionsService liefert die Distinct-Werte für die Filter-Dropdowns und
// cached sie prozessweit mit festem TTL. Der Datensatz ist statisch, darum
// reicht Verfall per Ablaufzeit; eine Invalidierung bei Datenänderung gibt
// es bewusst nicht. Die Uhr ist injizierbar, damit Tests die Zeit steuern.
type OptionsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	TTL    time.Duration
	Now    func() time.Time

	mu     sync.Mutex
	cached *models.Options
	expiry time.Time
}

// NewOptionsService erstellt eine neue Instanz des OptionsService.
func NewOptionsService(db *gorm.DB, logger *zap.Logger, ttl time.Duration) *OptionsService {
	return &OptionsService{DB: db, Logger: logger, TTL: ttl, Now: time.Now}
}

// Get gibt die Dropdown-Optionen zurück, aus dem Cache solange er gültig ist.
func (s *OptionsService) Get(ctx context.Context) (*models.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	if s.cached != nil && now.Before(s.expiry) {
		return s.cached, nil
	}

	opts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = opts
	s.expiry = now.Add(s.TTL)
	return opts, nil
}

func (s *OptionsService) load(ctx context.Context) (*models.Options, error) {
	articleTypes, err := s.distinct(ctx, "article_type")
	if err != nil {
		return nil, err
	}
	rawCountries, err := s.distinct(ctx, "country")
	if err != nil {
		return nil, err
	}
	journals, err := s.distinct(ctx, "journal")
	if err != nil {
		return nil, err
	}
	publishers, err := s.distinct(ctx, "publisher")
	if err != nil {
		return nil, err
	}

	return &models.Options{
		ArticleTypes: articleTypes,
		Countries:    splitCountries(rawCountries),
		Journals:     journals,
		Publishers:   publishers,
	}, nil
}

// distinct liest die sortierten, nicht-leeren Distinct-Werte einer Spalte.
// Der Spaltenname kommt aus einer festen Menge, nie vom Aufrufer.
func (s *OptionsService) distinct(ctx context.Context, col string) ([]string, error) {
	values := make([]string, 0)
	err := s.DB.WithContext(ctx).
		Model(&models.Paper{}).
		Distinct().
		Where(col+" IS NOT NULL AND "+col+" <> ''").
		Order(col).
		Pluck(col, &values).Error
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	return values, nil
}

// splitCountries zerlegt die ';'-verketteten Länderwerte, dedupliziert und
// sortiert sie.
func splitCountries(raw []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ";") {
			c := strings.TrimSpace(part)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
