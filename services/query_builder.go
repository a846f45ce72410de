package services

import (
	"strings"
	"unicode"

	"paper-trail/models"
)

// InstitutionAlias bündelt bekannte Schreibweisen einer Einrichtung.
// Keywords werden normalisiert und in beide Richtungen als Substring geprüft;
// Patterns sind leerzeichenfreie LIKE-Muster gegen die normalisierte Spalte.
type InstitutionAlias struct {
	Canonical string
	Keywords  []string
	Patterns  []string
}

// institutionAliases ist die statische Alias-Tabelle. Neue Einrichtungen
// werden hier eingetragen, ohne dass der Query Builder angefasst werden muss.
var institutionAliases = []InstitutionAlias{
	{
		Canonical: "Saveetha Institute of Medical and Technical Sciences",
		Keywords: []string{
			"saveetha",
			"simats",
			"sse",
			"saveethaengineeringcollege",
			"saveetha engineering college",
			"saveetha school of engineering",
			"saveetha institute of medical and technical sciences",
			"simats university",
			"simats deemed university",
			"saveetha dental college",
			"saveetha medical college",
		},
		Patterns: []string{
			"%saveetha%",
			"%simats%",
			"%saveethaengineeringcollege%",
			"%saveethaschoolofengineering%",
			"%saveethainstituteofmedicalandtechnicalsciences%",
			"%simatsuniversity%",
			"%simatsdeemed%",
		},
	},
}

// MatchInstitutionAlias prüft, ob ein Suchbegriff eine bekannte Einrichtung
// meint. Verglichen wird normalisiert und als Substring in beide Richtungen,
// damit sowohl "SIMATS Uni" als auch "uni" in "simats university" greift.
func MatchInstitutionAlias(term string) (*InstitutionAlias, bool) {
	normalized := normalizeForSearch(term)
	if normalized == "" {
		return nil, false
	}
	for i := range institutionAliases {
		for _, keyword := range institutionAliases[i].Keywords {
			nk := normalizeForSearch(keyword)
			if strings.Contains(normalized, nk) || strings.Contains(nk, normalized) {
				return &institutionAliases[i], true
			}
		}
	}
	return nil, false
}

// normalizeForSearch senkt den Text auf Kleinbuchstaben und entfernt
// sämtliche Leerzeichen. Gegenstück zu LOWER(REPLACE(col, ' ', '')).
func normalizeForSearch(s string) string {
	return stripSpaces(strings.ToLower(s))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// BuildWhereClause übersetzt ein Filterobjekt in eine WHERE-Bedingung samt
// geordneter Parameterliste. Leere Felder erzeugen weder Bedingung noch
// Parameter; ohne aktive Filter ist die Bedingung "". Nutzerwerte laufen
// ausschließlich als gebundene Parameter, nie als SQL-Text.
func BuildWhereClause(f *models.SearchFilter) (string, []any) {
	if f == nil {
		return "", nil
	}

	var conds []string
	var params []any

	// Freitextfelder: zweigleisig, einmal gegen die normalisierte Spalte und
	// einmal roh, weil die Quelldaten uneinheitlich gesetzte Leerzeichen haben.
	freeText := func(col, val string) {
		v := strings.TrimSpace(val)
		if v == "" {
			return
		}
		conds = append(conds, "(LOWER(REPLACE("+col+", ' ', '')) LIKE ? OR LOWER("+col+") LIKE ?)")
		params = append(params, "%"+normalizeForSearch(v)+"%", "%"+strings.ToLower(v)+"%")
	}

	// Kategoriale Felder: exakte Gleichheit, tolerant gegenüber Groß-/
	// Kleinschreibung und Leerzeichen.
	categorical := func(col, val string) {
		v := strings.TrimSpace(val)
		if v == "" {
			return
		}
		conds = append(conds, "(LOWER(REPLACE("+col+", ' ', '')) = ? OR LOWER("+col+") = LOWER(?))")
		params = append(params, normalizeForSearch(v), v)
	}

	// Identifier: Leerzeichen raus, sonst roh; DOIs zusätzlich lowercased.
	identifier := func(col, val string, lower bool) {
		v := strings.TrimSpace(val)
		if v == "" {
			return
		}
		if lower {
			conds = append(conds, "(LOWER(REPLACE("+col+", ' ', '')) LIKE ? OR LOWER("+col+") LIKE ?)")
			params = append(params, "%"+normalizeForSearch(v)+"%", "%"+strings.ToLower(v)+"%")
		} else {
			conds = append(conds, "(REPLACE("+col+", ' ', '') LIKE ? OR "+col+" LIKE ?)")
			params = append(params, "%"+stripSpaces(v)+"%", "%"+v+"%")
		}
	}

	dateBound := func(col, op, val string) {
		v := strings.TrimSpace(val)
		if v == "" {
			return
		}
		conds = append(conds, col+" "+op+" ?")
		params = append(params, v)
	}

	freeText("author", f.Author)
	freeText("title", f.Title)
	categorical("article_type", f.ArticleType)

	// Country speichert mit ';' getrennte Mehrfachwerte. Der dritte Zweig
	// matcht den Wert als ';'-präfigiertes Token, damit z.B. "India" nicht
	// irrtümlich über einen Substring eines anderen Landesnamens greift.
	if v := strings.TrimSpace(f.Country); v != "" {
		conds = append(conds, "(LOWER(REPLACE(country, ' ', '')) LIKE ? OR LOWER(country) LIKE ? OR LOWER(country) LIKE ?)")
		lower := strings.ToLower(v)
		params = append(params, "%"+normalizeForSearch(v)+"%", "%"+lower+"%", "%;"+lower+"%")
	}

	categorical("journal", f.Journal)
	categorical("publisher", f.Publisher)

	// Institution gewinnt gegen Affiliation; beide suchen in derselben Spalte.
	if term := firstNonBlank(f.Institution, f.Affiliation); term != "" {
		if alias, ok := MatchInstitutionAlias(term); ok {
			// Alias-Expansion: der wörtliche Suchbegriff wird durch die
			// Disjunktion aller bekannten Schreibweisen ersetzt.
			var or []string
			for _, pattern := range alias.Patterns {
				or = append(or, "LOWER(REPLACE(institution, ' ', '')) LIKE ?")
				params = append(params, pattern)
			}
			conds = append(conds, "("+strings.Join(or, " OR ")+")")
		} else {
			freeText("institution", term)
		}
	}

	dateBound("original_paper_date", ">=", f.OriginalPaperFromDate)
	dateBound("original_paper_date", "<=", f.OriginalPaperToDate)
	identifier("original_paper_pubmed_id", f.OriginalPaperPubMedID, false)
	identifier("original_paper_doi", f.OriginalPaperDOI, true)

	dateBound("retraction_date", ">=", f.RetractionFromDate)
	dateBound("retraction_date", "<=", f.RetractionToDate)
	identifier("retraction_pubmed_id", f.RetractionPubMedID, false)
	identifier("retraction_doi", f.RetractionDOI, true)

	return strings.Join(conds, " AND "), params
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
