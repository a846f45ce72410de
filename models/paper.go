package models

// Paper repräsentiert einen Eintrag aus dem Retraction-Watch-Datensatz.
// Die JSON-Schlüssel entsprechen den Spaltenköpfen des Quell-CSV und sind
// damit das externe API-Format; die gorm-Tags bestimmen das Speicherschema.
type Paper struct {
	RecordID              string `json:"Record ID" gorm:"column:record_id;primaryKey"`
	Title                 string `json:"Title" gorm:"column:title;index"`
	Subject               string `json:"Subject" gorm:"column:subject"`
	Institution           string `json:"Institution" gorm:"column:institution;index"`
	Journal               string `json:"Journal" gorm:"column:journal;index"`
	Publisher             string `json:"Publisher" gorm:"column:publisher;index"`
	Country               string `json:"Country" gorm:"column:country;index"` // Mehrfachwerte, mit ';' getrennt
	Author                string `json:"Author" gorm:"column:author;index"`   // Mehrfachwerte, mit ';' getrennt
	URLS                  string `json:"URLS" gorm:"column:urls"`
	ArticleType           string `json:"ArticleType" gorm:"column:article_type;index"`
	RetractionDate        string `json:"RetractionDate" gorm:"column:retraction_date;index"`
	RetractionDOI         string `json:"RetractionDOI" gorm:"column:retraction_doi;index"`
	RetractionPubMedID    string `json:"RetractionPubMedID" gorm:"column:retraction_pubmed_id;index"`
	OriginalPaperDate     string `json:"OriginalPaperDate" gorm:"column:original_paper_date;index"`
	OriginalPaperDOI      string `json:"OriginalPaperDOI" gorm:"column:original_paper_doi;index"`
	OriginalPaperPubMedID string `json:"OriginalPaperPubMedID" gorm:"column:original_paper_pubmed_id;index"`
	RetractionNature      string `json:"RetractionNature" gorm:"column:retraction_nature"`
	Reason                string `json:"Reason" gorm:"column:reason"`
	Paywalled             string `json:"Paywalled" gorm:"column:paywalled"`
	Notes                 string `json:"Notes" gorm:"column:notes"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Paper) TableName() string {
	return "papers"
}

// PaperPage ist eine Ergebnisseite samt Paginierungs-Metadaten.
type PaperPage struct {
	Count      int64   `json:"count"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
	Results    []Paper `json:"results"`
}

// Options enthält die Distinct-Werte für die Filter-Dropdowns.
type Options struct {
	ArticleTypes []string `json:"articleTypes"`
	Countries    []string `json:"countries"`
	Journals     []string `json:"journals"`
	Publishers   []string `json:"publishers"`
}
