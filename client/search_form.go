package client

import (
	"strings"

	"paper-trail/models"
	"paper-trail/services"
)

// Preset ist ein vorgefertigter Schnellfilter für das Suchformular.
type Preset struct {
	Name   string
	Filter models.SearchFilter
}

// Presets sind die angebotenen Schnellfilter der Suchmaske.
var Presets = []Preset{
	{
		Name:   "Saveetha / SIMATS",
		Filter: models.SearchFilter{Institution: "Saveetha Institute of Medical and Technical Sciences"},
	},
	{
		Name:   "Research articles",
		Filter: models.SearchFilter{ArticleType: "Research Article"},
	},
	{
		Name:   "Retracted since 2024",
		Filter: models.SearchFilter{RetractionFromDate: "2024-01-01"},
	},
}

// BuildFilter bereinigt die Formulareingaben zu einem Filterobjekt: Felder
// werden getrimmt und bekannte Einrichtungs-Schreibweisen auf den kanonischen
// Namen gezogen, bevor die Anfrage abgeschickt wird.
func BuildFilter(input models.SearchFilter) models.SearchFilter {
	out := models.SearchFilter{
		Author:      strings.TrimSpace(input.Author),
		Title:       strings.TrimSpace(input.Title),
		ArticleType: strings.TrimSpace(input.ArticleType),
		Country:     strings.TrimSpace(input.Country),
		Journal:     strings.TrimSpace(input.Journal),
		Publisher:   strings.TrimSpace(input.Publisher),
		Institution: strings.TrimSpace(input.Institution),
		Affiliation: strings.TrimSpace(input.Affiliation),

		OriginalPaperFromDate: strings.TrimSpace(input.OriginalPaperFromDate),
		OriginalPaperToDate:   strings.TrimSpace(input.OriginalPaperToDate),
		OriginalPaperPubMedID: strings.TrimSpace(input.OriginalPaperPubMedID),
		OriginalPaperDOI:      strings.TrimSpace(input.OriginalPaperDOI),

		RetractionFromDate: strings.TrimSpace(input.RetractionFromDate),
		RetractionToDate:   strings.TrimSpace(input.RetractionToDate),
		RetractionPubMedID: strings.TrimSpace(input.RetractionPubMedID),
		RetractionDOI:      strings.TrimSpace(input.RetractionDOI),
	}

	if out.Institution != "" {
		if alias, ok := services.MatchInstitutionAlias(out.Institution); ok {
			out.Institution = alias.Canonical
		}
	} else if out.Affiliation != "" {
		if alias, ok := services.MatchInstitutionAlias(out.Affiliation); ok {
			out.Affiliation = alias.Canonical
		}
	}

	return out
}
