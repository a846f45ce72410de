package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-trail/models"
)

func TestBuildWhereClause_Empty(t *testing.T) {
	where, params := BuildWhereClause(nil)
	assert.Equal(t, "", where)
	assert.Empty(t, params)

	where, params = BuildWhereClause(&models.SearchFilter{})
	assert.Equal(t, "", where)
	assert.Empty(t, params)

	// Nur Leerzeichen zählen nicht als gesetzter Filter.
	where, params = BuildWhereClause(&models.SearchFilter{Author: "   ", Title: "\t"})
	assert.Equal(t, "", where)
	assert.Empty(t, params)
}

func TestBuildWhereClause_FreeText(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{Author: "Jane Doe"})
	assert.Equal(t, "(LOWER(REPLACE(author, ' ', '')) LIKE ? OR LOWER(author) LIKE ?)", where)
	assert.Equal(t, []any{"%janedoe%", "%jane doe%"}, params)

	where, params = BuildWhereClause(&models.SearchFilter{Title: "  Deep Learning "})
	assert.Equal(t, "(LOWER(REPLACE(title, ' ', '')) LIKE ? OR LOWER(title) LIKE ?)", where)
	assert.Equal(t, []any{"%deeplearning%", "%deep learning%"}, params)
}

func TestBuildWhereClause_Categorical(t *testing.T) {
	tests := []struct {
		name   string
		filter models.SearchFilter
		col    string
		value  string
	}{
		{"articleType", models.SearchFilter{ArticleType: "Research Article"}, "article_type", "Research Article"},
		{"journal", models.SearchFilter{Journal: "PLOS ONE"}, "journal", "PLOS ONE"},
		{"publisher", models.SearchFilter{Publisher: "Elsevier"}, "publisher", "Elsevier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, params := BuildWhereClause(&tt.filter)
			assert.Equal(t, "(LOWER(REPLACE("+tt.col+", ' ', '')) = ? OR LOWER("+tt.col+") = LOWER(?))", where)
			assert.Equal(t, []any{normalizeForSearch(tt.value), tt.value}, params)
		})
	}
}

func TestBuildWhereClause_Country(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{Country: "India"})
	assert.Equal(t,
		"(LOWER(REPLACE(country, ' ', '')) LIKE ? OR LOWER(country) LIKE ? OR LOWER(country) LIKE ?)",
		where)
	assert.Equal(t, []any{"%india%", "%india%", "%;india%"}, params)
}

func TestBuildWhereClause_Dates(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{OriginalPaperFromDate: "2020-01-01"})
	assert.Equal(t, "original_paper_date >= ?", where)
	assert.Equal(t, []any{"2020-01-01"}, params)

	where, params = BuildWhereClause(&models.SearchFilter{
		RetractionFromDate: "2021-01-01",
		RetractionToDate:   "2021-12-31",
	})
	assert.Equal(t, "retraction_date >= ? AND retraction_date <= ?", where)
	assert.Equal(t, []any{"2021-01-01", "2021-12-31"}, params)
}

func TestBuildWhereClause_Identifiers(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{OriginalPaperPubMedID: "123 456"})
	assert.Equal(t,
		"(REPLACE(original_paper_pubmed_id, ' ', '') LIKE ? OR original_paper_pubmed_id LIKE ?)",
		where)
	assert.Equal(t, []any{"%123456%", "%123 456%"}, params)

	where, params = BuildWhereClause(&models.SearchFilter{RetractionDOI: "10.1000/XYZ 123"})
	assert.Equal(t,
		"(LOWER(REPLACE(retraction_doi, ' ', '')) LIKE ? OR LOWER(retraction_doi) LIKE ?)",
		where)
	assert.Equal(t, []any{"%10.1000/xyz123%", "%10.1000/xyz 123%"}, params)
}

func TestBuildWhereClause_InstitutionAlias(t *testing.T) {
	// Jede bekannte Schreibweise muss dieselbe Expansion ergeben; die
	// wörtliche Eingabe spielt dann keine Rolle mehr.
	spellings := []string{
		"SIMATS",
		"saveetha",
		"Saveetha Engineering College",
		"simats deemed university",
		"SAVEETHA DENTAL COLLEGE",
	}

	refWhere, refParams := BuildWhereClause(&models.SearchFilter{Institution: spellings[0]})
	require.NotEmpty(t, refWhere)
	assert.Len(t, refParams, 7)
	for _, p := range refParams {
		assert.IsType(t, "", p)
	}

	for _, s := range spellings[1:] {
		where, params := BuildWhereClause(&models.SearchFilter{Institution: s})
		assert.Equal(t, refWhere, where, "spelling %q", s)
		assert.Equal(t, refParams, params, "spelling %q", s)
	}

	// Affiliation löst dieselbe Expansion aus, wenn Institution leer ist.
	where, params := BuildWhereClause(&models.SearchFilter{Affiliation: "simats university"})
	assert.Equal(t, refWhere, where)
	assert.Equal(t, refParams, params)
}

func TestBuildWhereClause_InstitutionRegular(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{Institution: "Harvard University"})
	assert.Equal(t, "(LOWER(REPLACE(institution, ' ', '')) LIKE ? OR LOWER(institution) LIKE ?)", where)
	assert.Equal(t, []any{"%harvarduniversity%", "%harvard university%"}, params)
}

func TestBuildWhereClause_InstitutionBeatsAffiliation(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{
		Institution: "Harvard",
		Affiliation: "Yale",
	})
	assert.Equal(t, "(LOWER(REPLACE(institution, ' ', '')) LIKE ? OR LOWER(institution) LIKE ?)", where)
	assert.Equal(t, []any{"%harvard%", "%harvard%"}, params)
}

func TestBuildWhereClause_JoinsWithAnd(t *testing.T) {
	where, params := BuildWhereClause(&models.SearchFilter{
		Author:             "Doe",
		Country:            "USA",
		RetractionFromDate: "2022-01-01",
	})
	assert.Equal(t,
		"(LOWER(REPLACE(author, ' ', '')) LIKE ? OR LOWER(author) LIKE ?)"+
			" AND (LOWER(REPLACE(country, ' ', '')) LIKE ? OR LOWER(country) LIKE ? OR LOWER(country) LIKE ?)"+
			" AND retraction_date >= ?",
		where)
	assert.Equal(t, []any{"%doe%", "%doe%", "%usa%", "%usa%", "%;usa%", "2022-01-01"}, params)
}

func TestMatchInstitutionAlias(t *testing.T) {
	alias, ok := MatchInstitutionAlias("Saveetha School of Engineering")
	require.True(t, ok)
	assert.Equal(t, "Saveetha Institute of Medical and Technical Sciences", alias.Canonical)

	_, ok = MatchInstitutionAlias("Stanford")
	assert.False(t, ok)

	_, ok = MatchInstitutionAlias("   ")
	assert.False(t, ok)
}
