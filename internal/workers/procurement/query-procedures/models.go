// internal/workers/procurement/query-procedures/models.go
package queryprocedures

import (
	"encoding/json"

	"procurement-workers/internal/models"
	"procurement-workers/internal/procurement"
)

// Input mirrors the query surface. A missing sortColumn selects the default
// sort; an empty one keeps the dataset order.
type Input struct {
	SearchText     string  `json:"searchText"`
	ActiveSeedCode string  `json:"activeSeedCode"`
	SortColumn     *string `json:"sortColumn"`
	SortDirection  string  `json:"sortDirection"`
	MaxResults     int     `json:"maxResults"`
}

type Output struct {
	RunID         string          `json:"runId"`
	Procedures    []ProcedureView `json:"procedures"`
	Total         int             `json:"total"`
	Returned      int             `json:"returned"`
	Truncated     bool            `json:"truncated"`
	AppliedSeed   *models.Seed    `json:"appliedSeed,omitempty"`
	SortColumn    string          `json:"sortColumn,omitempty"`
	SortDirection string          `json:"sortDirection,omitempty"`
}

// ProcedureView is a record plus the values a process form displays.
type ProcedureView struct {
	models.Procedure
	DataPublicacao  string   `json:"data_publicacao"`
	PrecoFormatado  string   `json:"preco_formatado"`
	PrazoFormatado  string   `json:"prazo_formatado"`
	EntidadeDisplay string   `json:"entidade_display"`
	Links           []string `json:"links"`
}

// UnmarshalJSON decodes the record with its own tolerant decoder and the
// display values alongside it.
func (v *ProcedureView) UnmarshalJSON(data []byte) error {
	var display struct {
		DataPublicacao  string   `json:"data_publicacao"`
		PrecoFormatado  string   `json:"preco_formatado"`
		PrazoFormatado  string   `json:"prazo_formatado"`
		EntidadeDisplay string   `json:"entidade_display"`
		Links           []string `json:"links"`
	}
	if err := json.Unmarshal(data, &display); err != nil {
		return err
	}

	var p models.Procedure
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*v = ProcedureView{
		Procedure:       p,
		DataPublicacao:  display.DataPublicacao,
		PrecoFormatado:  display.PrecoFormatado,
		PrazoFormatado:  display.PrazoFormatado,
		EntidadeDisplay: display.EntidadeDisplay,
		Links:           display.Links,
	}
	return nil
}

func newProcedureView(p models.Procedure) ProcedureView {
	return ProcedureView{
		Procedure:       p,
		DataPublicacao:  procurement.ExtractPublicationDate(p.DetalhesCompletos),
		PrecoFormatado:  procurement.FormatPrice(p.PrecoBase),
		PrazoFormatado:  procurement.FormatDeadline(p.PrazoApresentacaoPropostas),
		EntidadeDisplay: procurement.DisplayValue(p.Entidade),
		Links:           p.Links(),
	}
}
