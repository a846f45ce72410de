package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paper-trail/models"
)

const testPageSize = 25

// pageResponse baut eine Serverantwort, deren Zeilen die Seite eindeutig
// ausweisen, damit Tests erkennen, welche Antwort gerendert wurde.
func pageResponse(page, limit int) models.PaperPage {
	count := int64(100)
	totalPages := int((count + int64(limit) - 1) / int64(limit))
	return models.PaperPage{
		Count:      count,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Results:    []models.Paper{{RecordID: "page-" + strconv.Itoa(page)}},
	}
}

func servePage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 100
	}
	_ = json.NewEncoder(w).Encode(pageResponse(page, limit))
}

func waitLoaded(t *testing.T, table *Table, page int) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		s := table.Snapshot()
		return s.State == StateLoaded && s.Page == page
	}, 2*time.Second, 5*time.Millisecond)
	return table.Snapshot()
}

func TestTableLoadsPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(servePage))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{}, testPageSize)
	table.Reload()

	s := waitLoaded(t, table, 1)
	assert.Equal(t, int64(100), s.Count)
	assert.Equal(t, 4, s.TotalPages)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "page-1", s.Rows[0].RecordID)

	table.NextPage()
	s = waitLoaded(t, table, 2)
	assert.Equal(t, "page-2", s.Rows[0].RecordID)

	table.PrevPage()
	s = waitLoaded(t, table, 1)
	assert.Equal(t, "page-1", s.Rows[0].RecordID)
}

func TestTableSupersedesInFlightRequest(t *testing.T) {
	// Anfrage A (Seite 1) hängt, bis der Test sie freigibt; Anfrage B
	// (Seite 2) antwortet sofort. Gerendert werden darf nur B, egal in
	// welcher Reihenfolge die Antworten eintreffen.
	releaseA := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 1 {
			select {
			case <-releaseA:
			case <-r.Context().Done():
				return
			}
		}
		servePage(w, r)
	}))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{}, testPageSize)
	table.Reload()

	require.Eventually(t, func() bool {
		return table.Snapshot().State == StateLoading
	}, time.Second, 5*time.Millisecond)

	table.GoToPage(2)
	s := waitLoaded(t, table, 2)
	assert.Equal(t, "page-2", s.Rows[0].RecordID)

	// A freigeben; die verspätete Antwort darf nichts mehr überschreiben.
	close(releaseA)
	time.Sleep(100 * time.Millisecond)
	s = table.Snapshot()
	assert.Equal(t, StateLoaded, s.State)
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, "page-2", s.Rows[0].RecordID)
}

func TestTableFailureYieldsEmptyState(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		servePage(w, r)
	}))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{}, testPageSize)
	table.Reload()

	require.Eventually(t, func() bool {
		return table.Snapshot().State == StateErrored
	}, 2*time.Second, 5*time.Millisecond)

	s := table.Snapshot()
	assert.Empty(t, s.Rows)
	assert.Equal(t, int64(0), s.Count)
	assert.Equal(t, 0, s.TotalPages)

	// Kein automatischer Retry: erst ein erneuter Reload versucht es wieder.
	fail.Store(false)
	table.Reload()
	s = waitLoaded(t, table, 1)
	assert.Equal(t, "page-1", s.Rows[0].RecordID)
}

func TestTablePageSizeChangeResetsToFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(servePage))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{}, testPageSize)
	table.Reload()
	waitLoaded(t, table, 1)

	table.GoToPage(3)
	waitLoaded(t, table, 3)

	table.SetPageSize(50)
	s := waitLoaded(t, table, 1)
	assert.Equal(t, 50, s.Limit)
	assert.Equal(t, "page-1", s.Rows[0].RecordID)
}

func TestTableGoToPageClamped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(servePage))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{}, testPageSize)
	table.Reload()
	waitLoaded(t, table, 1) // totalPages == 4 ist jetzt bekannt

	table.GoToPage(99)
	s := waitLoaded(t, table, 4)
	assert.Equal(t, "page-4", s.Rows[0].RecordID)

	table.GoToPage(-3)
	s = waitLoaded(t, table, 1)
	assert.Equal(t, "page-1", s.Rows[0].RecordID)

	table.LastPage()
	waitLoaded(t, table, 4)
	table.FirstPage()
	waitLoaded(t, table, 1)
}

func TestTableUsesSearchWhenFiltered(t *testing.T) {
	var sawSearch atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/search" && r.Method == http.MethodPost {
			var req models.SearchRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "India", req.Country)
			sawSearch.Store(true)
			_ = json.NewEncoder(w).Encode(pageResponse(req.Page, req.Limit))
			return
		}
		servePage(w, r)
	}))
	defer srv.Close()

	table := NewTable(New(srv.URL, zap.NewNop()), zap.NewNop(), &models.SearchFilter{Country: "India"}, testPageSize)
	table.Reload()
	waitLoaded(t, table, 1)
	assert.True(t, sawSearch.Load())
}
