package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"paper-trail/models"
)

// State beschreibt den Ladezustand der Tabellenansicht.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

// Table steuert eine paginierte Tabellenansicht über die Papers-API.
//
// Pro Instanz ist höchstens eine Anfrage unterwegs: jeder Reload bricht die
// noch laufende Anfrage ab, bevor die neue startet. Eine abgebrochene oder
// überholte Antwort darf den Zustand nicht mehr anfassen, sonst überschreibt
// eine verspätete alte Seite die Daten einer neueren. Ein Filterwechsel wird
// nicht als Übergang modelliert, sondern als neue Table-Instanz.
type Table struct {
	api     *Client
	log     *zap.Logger
	filters *models.SearchFilter

	mu         sync.Mutex
	state      State
	page       int
	limit      int
	count      int64
	totalPages int
	rows       []models.Paper
	cancel     context.CancelFunc
	generation uint64
}

// Snapshot ist eine konsistente Momentaufnahme des Tabellenzustands.
type Snapshot struct {
	State      State
	Page       int
	Limit      int
	Count      int64
	TotalPages int
	Rows       []models.Paper
}

// NewTable erstellt einen Tabellen-Controller für einen festen Filtersatz.
func NewTable(api *Client, logger *zap.Logger, filters *models.SearchFilter, pageSize int) *Table {
	if pageSize < 1 {
		pageSize = 100
	}
	return &Table{
		api:     api,
		log:     logger,
		filters: filters,
		state:   StateIdle,
		page:    1,
		limit:   pageSize,
	}
}

// Snapshot gibt den aktuellen Zustand zurück.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make([]models.Paper, len(t.rows))
	copy(rows, t.rows)
	return Snapshot{
		State:      t.state,
		Page:       t.page,
		Limit:      t.limit,
		Count:      t.count,
		TotalPages: t.totalPages,
		Rows:       rows,
	}
}

// SetPageSize ändert die Seitengröße, springt zurück auf Seite 1 und lädt neu.
func (t *Table) SetPageSize(n int) {
	if n < 1 {
		return
	}
	t.mu.Lock()
	t.limit = n
	t.page = 1
	t.mu.Unlock()
	t.Reload()
}

// GoToPage springt auf eine Seite, geklemmt auf [1, totalPages], und lädt neu.
func (t *Table) GoToPage(page int) {
	t.mu.Lock()
	if page < 1 {
		page = 1
	}
	if t.totalPages > 0 && page > t.totalPages {
		page = t.totalPages
	}
	t.page = page
	t.mu.Unlock()
	t.Reload()
}

// NextPage blättert eine Seite vor.
func (t *Table) NextPage() {
	t.mu.Lock()
	page := t.page + 1
	t.mu.Unlock()
	t.GoToPage(page)
}

// PrevPage blättert eine Seite zurück.
func (t *Table) PrevPage() {
	t.mu.Lock()
	page := t.page - 1
	t.mu.Unlock()
	t.GoToPage(page)
}

// FirstPage springt auf die erste Seite.
func (t *Table) FirstPage() {
	t.GoToPage(1)
}

// LastPage springt auf die letzte bekannte Seite.
func (t *Table) LastPage() {
	t.mu.Lock()
	last := t.totalPages
	t.mu.Unlock()
	if last < 1 {
		last = 1
	}
	t.GoToPage(last)
}

// Reload verdrängt eine laufende Anfrage und lädt die aktuelle Seite neu.
func (t *Table) Reload() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.generation++
	gen := t.generation
	page, limit := t.page, t.limit
	filters := t.filters
	t.state = StateLoading
	t.mu.Unlock()

	go t.fetch(ctx, gen, page, limit, filters)
}

func (t *Table) fetch(ctx context.Context, gen uint64, page, limit int, filters *models.SearchFilter) {
	var result *models.PaperPage
	var err error
	if filters.IsEmpty() {
		result, err = t.api.ListPapers(ctx, page, limit)
	} else {
		result, err = t.api.Search(ctx, filters, page, limit)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Überholt oder abgebrochen: Ergebnis kommentarlos verwerfen. Kein
	// Zustands-Update, kein Fehler, loading bleibt Sache der neueren Anfrage.
	if gen != t.generation || ctx.Err() != nil {
		return
	}

	if err != nil {
		t.log.Warn("Table request failed", zap.Int("page", page), zap.Error(err))
		t.rows = []models.Paper{}
		t.count = 0
		t.totalPages = 0
		t.state = StateErrored
		return
	}

	t.rows = result.Results
	t.count = result.Count
	t.totalPages = result.TotalPages
	// Der Server klemmt das Limit; die Ansicht übernimmt den effektiven Wert.
	t.limit = result.Limit
	t.page = result.Page
	t.state = StateLoaded
}
