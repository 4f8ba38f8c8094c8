// internal/models/procurement.go
package models

import "time"

// NotAvailable is shown wherever a record field is missing.
const NotAvailable = "N/A"

// Procedure is one public-procurement notice as published in the dataset.
// Every field is optional; a missing or null field decodes to "".
type Procedure struct {
	NumeroProcedimento         string `json:"numero_procedimento,omitempty"`
	Descricao                  string `json:"descricao,omitempty"`
	DesignacaoContrato         string `json:"designacao_contrato,omitempty"`
	Entidade                   string `json:"entidade,omitempty"`
	EntidadeAdjudicante        string `json:"entidade_adjudicante,omitempty"`
	PlataformaEletronica       string `json:"plataforma_eletronica,omitempty"`
	PrecoBase                  string `json:"preco_base,omitempty"`
	PrazoApresentacaoPropostas string `json:"prazo_apresentacao_propostas,omitempty"`
	NIPC                       string `json:"nipc,omitempty"`
	Distrito                   string `json:"distrito,omitempty"`
	Concelho                   string `json:"concelho,omitempty"`
	Freguesia                  string `json:"freguesia,omitempty"`
	Site                       string `json:"site,omitempty"`
	Email                      string `json:"email,omitempty"`
	PrazoExecucao              string `json:"prazo_execucao,omitempty"`
	FundosEU                   string `json:"fundos_eu,omitempty"`
	AutorNome                  string `json:"autor_nome,omitempty"`
	AutorCargo                 string `json:"autor_cargo,omitempty"`
	DetalhesCompletos          string `json:"detalhes_completos,omitempty"`
	Link                       string `json:"link,omitempty"`
	URLProcedimento            string `json:"url_procedimento,omitempty"`
}

// Links returns the external links of the notice, skipping empty ones.
func (p Procedure) Links() []string {
	links := make([]string, 0, 2)
	if p.Link != "" {
		links = append(links, p.Link)
	}
	if p.URLProcedimento != "" {
		links = append(links, p.URLProcedimento)
	}
	return links
}

// Seed is a saved filter: a set of lowercase tags plus an optional district.
type Seed struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Tags     []string  `json:"tags"`
	District string    `json:"district"`
	Created  time.Time `json:"created"`
}

// HasDistrict reports whether the seed restricts results to one district.
func (s Seed) HasDistrict() bool {
	return s.District != ""
}
