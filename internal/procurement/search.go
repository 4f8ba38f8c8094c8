// internal/procurement/search.go
package procurement

import (
	"strings"

	"procurement-workers/internal/models"
)

// searchableFields lists, in a fixed order, every value that goes into a
// record's haystack. Substring search does not depend on the order.
var searchableFields = []func(p *models.Procedure) string{
	func(p *models.Procedure) string { return p.Descricao },
	func(p *models.Procedure) string { return p.DesignacaoContrato },
	func(p *models.Procedure) string { return p.Entidade },
	func(p *models.Procedure) string { return p.EntidadeAdjudicante },
	func(p *models.Procedure) string { return p.PlataformaEletronica },
	func(p *models.Procedure) string { return p.PrecoBase },
	func(p *models.Procedure) string { return p.PrazoApresentacaoPropostas },
	func(p *models.Procedure) string { return p.NIPC },
	func(p *models.Procedure) string { return p.Distrito },
	func(p *models.Procedure) string { return p.Concelho },
	func(p *models.Procedure) string { return p.Freguesia },
	func(p *models.Procedure) string { return p.Site },
	func(p *models.Procedure) string { return p.Email },
	func(p *models.Procedure) string { return p.NumeroProcedimento },
	func(p *models.Procedure) string { return p.PrazoExecucao },
	func(p *models.Procedure) string { return p.FundosEU },
	func(p *models.Procedure) string { return p.AutorNome },
	func(p *models.Procedure) string { return p.AutorCargo },
	func(p *models.Procedure) string { return ExtractPublicationDate(p.DetalhesCompletos) },
}

// Haystack joins the searchable fields of p with single spaces and lowercases
// the result.
func Haystack(p *models.Procedure) string {
	var b strings.Builder
	for i, field := range searchableFields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(field(p))
	}
	return strings.ToLower(b.String())
}

// NormalizeQuery lowercases and trims free-text input.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// MatchesSearch reports whether query is a case-insensitive substring of the
// record's haystack. An empty query matches every record.
func MatchesSearch(p *models.Procedure, query string) bool {
	q := NormalizeQuery(query)
	if q == "" {
		return true
	}
	return strings.Contains(Haystack(p), q)
}
