// Package client konsumiert die Papers-API: ein dünner HTTP-Client plus der
// Tabellen-Controller, der die Paginierung der Datenansicht steuert.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paper-trail/models"
)

// ProbeTimeout begrenzt die einmalige Verfügbarkeitsprüfung beim Start.
// Reguläre Anfragen laufen ohne Timeout und werden nur per Context abgebrochen.
const ProbeTimeout = 3 * time.Second

// Health ist die Antwort von GET /api/health.
type Health struct {
	Status       string `json:"status"`
	PapersLoaded int64  `json:"papersLoaded"`
	Timestamp    string `json:"timestamp"`
}

// Client spricht die Papers-API an.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// New erstellt einen neuen API-Client.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{},
		Logger:  logger,
	}
}

// ListPapers holt eine Seite des ungefilterten Datensatzes.
func (c *Client) ListPapers(ctx context.Context, page, limit int) (*models.PaperPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result models.PaperPage
	if err := c.do(ctx, http.MethodGet, "/api/papers?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search holt eine Seite des gefilterten Datensatzes.
func (c *Client) Search(ctx context.Context, f *models.SearchFilter, page, limit int) (*models.PaperPage, error) {
	req := models.SearchRequest{Page: page, Limit: limit}
	if f != nil {
		req.SearchFilter = *f
	}

	var result models.PaperPage
	if err := c.do(ctx, http.MethodPost, "/api/search", &req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Options holt die Distinct-Werte für die Filter-Dropdowns.
func (c *Client) Options(ctx context.Context) (*models.Options, error) {
	var result models.Options
	if err := c.do(ctx, http.MethodGet, "/api/options", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Probe prüft einmalig die Erreichbarkeit des Backends, zeitlich begrenzt.
// Das Ergebnis entscheidet nur über das "backend unavailable"-Banner.
func (c *Client) Probe(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	var result Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
