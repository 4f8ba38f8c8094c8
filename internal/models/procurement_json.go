// internal/models/procurement_json.go
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

func (p *Procedure) fields() map[string]*string {
	return map[string]*string{
		"numero_procedimento":          &p.NumeroProcedimento,
		"descricao":                    &p.Descricao,
		"designacao_contrato":          &p.DesignacaoContrato,
		"entidade":                     &p.Entidade,
		"entidade_adjudicante":         &p.EntidadeAdjudicante,
		"plataforma_eletronica":        &p.PlataformaEletronica,
		"preco_base":                   &p.PrecoBase,
		"prazo_apresentacao_propostas": &p.PrazoApresentacaoPropostas,
		"nipc":                         &p.NIPC,
		"distrito":                     &p.Distrito,
		"concelho":                     &p.Concelho,
		"freguesia":                    &p.Freguesia,
		"site":                         &p.Site,
		"email":                        &p.Email,
		"prazo_execucao":               &p.PrazoExecucao,
		"fundos_eu":                    &p.FundosEU,
		"autor_nome":                   &p.AutorNome,
		"autor_cargo":                  &p.AutorCargo,
		"detalhes_completos":           &p.DetalhesCompletos,
		"link":                         &p.Link,
		"url_procedimento":             &p.URLProcedimento,
	}
}

// UnmarshalJSON accepts any JSON value per field. Numbers and booleans keep
// their literal text; null, objects and arrays decode to "". Unknown keys
// are ignored.
func (p *Procedure) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Procedure{}
	for key, dst := range p.fields() {
		if v, ok := raw[key]; ok {
			*dst = scalarText(v)
		}
	}
	return nil
}

func scalarText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return strings.TrimSpace(string(v))
	}
}
