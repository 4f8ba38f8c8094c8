// internal/procurement/search_test.go
package procurement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"procurement-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestProcedure() models.Procedure {
	return models.Procedure{
		NumeroProcedimento:         "4821",
		Descricao:                  "Empreitada de obras de construção do pavilhão municipal",
		Entidade:                   "Município de Lisboa",
		PlataformaEletronica:       "acinGov",
		PrecoBase:                  "1.500,00 EUR",
		PrazoApresentacaoPropostas: "15-10-2025 17:00",
		NIPC:                       "500051070",
		Distrito:                   "Lisboa",
		Concelho:                   "Lisboa",
		Freguesia:                  "Arroios",
		Email:                      "compras@cm-lisboa.pt",
		DetalhesCompletos:          "Data de Envio do Anúncio: 01-10-2025",
	}
}

func TestMatchesSearch(t *testing.T) {
	p := createTestProcedure()

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"empty query", "", true},
		{"whitespace query", "   ", true},
		{"district in lowercase", "lisboa", true},
		{"district in uppercase", "LISBOA", true},
		{"term surrounded by spaces", "  Arroios  ", true},
		{"substring of a word", "pavilh", true},
		{"tax id", "500051070", true},
		{"extracted publication date", "01/10/2025", true},
		{"raw publication date is not indexed", "01-10-2025", false},
		{"accent sensitive", "construcao", false},
		{"unrelated term", "porto", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesSearch(&p, tt.query))
		})
	}
}

func TestMatchesSearch_EmptyRecord(t *testing.T) {
	var p models.Procedure

	assert.True(t, MatchesSearch(&p, ""))
	// A record without details carries the "N/A" publication sentinel.
	assert.True(t, MatchesSearch(&p, "n/a"))
	assert.False(t, MatchesSearch(&p, "lisboa"))
}

func TestHaystack(t *testing.T) {
	p := models.Procedure{Descricao: "Obras", Distrito: "Porto"}

	h := Haystack(&p)

	assert.Contains(t, h, "obras")
	assert.Contains(t, h, "porto")
	assert.Contains(t, h, "n/a")
	assert.NotContains(t, h, "Obras")
}
