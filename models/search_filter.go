package models

import "strings"

// SearchFilter ist das dünn besetzte Filterobjekt der Such-API.
// Leere oder nur aus Leerzeichen bestehende Felder gelten als nicht gesetzt.
type SearchFilter struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	ArticleType string `json:"articleType"`
	Country     string `json:"country"`
	Journal     string `json:"journal"`
	Publisher   string `json:"publisher"`
	// Institution hat Vorrang vor Affiliation, wenn beide gesetzt sind.
	Institution string `json:"institution"`
	Affiliation string `json:"affiliation"`

	OriginalPaperFromDate string `json:"originalPaperFromDate"`
	OriginalPaperToDate   string `json:"originalPaperToDate"`
	OriginalPaperPubMedID string `json:"originalPaperPubMedID"`
	OriginalPaperDOI      string `json:"originalPaperDOI"`

	RetractionFromDate string `json:"retractionFromDate"`
	RetractionToDate   string `json:"retractionToDate"`
	RetractionPubMedID string `json:"retractionPubMedID"`
	RetractionDOI      string `json:"retractionDOI"`
}

// IsEmpty meldet, ob kein einziges Filterfeld einen Wert trägt.
func (f *SearchFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	for _, v := range []string{
		f.Author, f.Title, f.ArticleType, f.Country, f.Journal, f.Publisher,
		f.Institution, f.Affiliation,
		f.OriginalPaperFromDate, f.OriginalPaperToDate,
		f.OriginalPaperPubMedID, f.OriginalPaperDOI,
		f.RetractionFromDate, f.RetractionToDate,
		f.RetractionPubMedID, f.RetractionDOI,
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SearchRequest ist der Body von POST /api/search: Filter plus Paginierung.
type SearchRequest struct {
	SearchFilter
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
