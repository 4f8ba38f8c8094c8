// internal/procurement/sort.go
package procurement

import (
	"cmp"
	"sort"
	"strings"

	"procurement-workers/internal/models"
)

// Column names a sortable attribute of a procedure.
type Column string

const (
	ColumnNone        Column = ""
	ColumnDescription Column = "description"
	ColumnEntity      Column = "entity"
	ColumnPlatform    Column = "platform"
	ColumnPublication Column = "publication"
	ColumnDeadline    Column = "deadline"
	ColumnPrice       Column = "price"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// columnAliases maps the dataset's own column names onto Column values.
var columnAliases = map[string]Column{
	"description": ColumnDescription,
	"descricao":   ColumnDescription,
	"entity":      ColumnEntity,
	"entidade":    ColumnEntity,
	"platform":    ColumnPlatform,
	"plataforma":  ColumnPlatform,
	"publication": ColumnPublication,
	"publicacao":  ColumnPublication,
	"deadline":    ColumnDeadline,
	"prazo":       ColumnDeadline,
	"price":       ColumnPrice,
	"preco":       ColumnPrice,
}

type comparator func(a, b *models.Procedure) int

var comparators = map[Column]comparator{
	ColumnDescription: compareDescription,
	ColumnEntity:      compareEntity,
	ColumnPlatform:    comparePlatform,
	ColumnPublication: comparePublication,
	ColumnDeadline:    compareDeadline,
	ColumnPrice:       comparePrice,
}

// ParseColumn resolves a column name or alias. Unknown names are returned
// as-is; sorting by them leaves the order untouched.
func ParseColumn(name string) Column {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := columnAliases[key]; ok {
		return c
	}
	return Column(key)
}

// Known reports whether c has a comparator.
func (c Column) Known() bool {
	_, ok := comparators[c]
	return ok
}

// ParseDirection defaults to ascending for anything but "desc".
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

// Reverse flips the direction.
func (d Direction) Reverse() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortProcedures returns a sorted copy of procedures. The sort is stable in
// both directions, so equal keys keep their input order.
func SortProcedures(procedures []models.Procedure, column Column, direction Direction) []models.Procedure {
	out := make([]models.Procedure, len(procedures))
	copy(out, procedures)

	compare, ok := comparators[column]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(&out[i], &out[j])
		if direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareDescription(a, b *models.Procedure) int {
	return strings.Compare(lowerFirstNonEmpty(a.Descricao, a.DesignacaoContrato),
		lowerFirstNonEmpty(b.Descricao, b.DesignacaoContrato))
}

func compareEntity(a, b *models.Procedure) int {
	return strings.Compare(lowerFirstNonEmpty(a.Entidade, a.EntidadeAdjudicante),
		lowerFirstNonEmpty(b.Entidade, b.EntidadeAdjudicante))
}

func comparePlatform(a, b *models.Procedure) int {
	return strings.Compare(strings.ToLower(a.PlataformaEletronica), strings.ToLower(b.PlataformaEletronica))
}

// comparePublication orders real calendar dates first. "N/A" and dates that
// do not exist on the calendar follow, compared as strings among themselves.
func comparePublication(a, b *models.Procedure) int {
	va := ExtractPublicationDate(a.DetalhesCompletos)
	vb := ExtractPublicationDate(b.DetalhesCompletos)
	return compareDates(va, vb, publicationEpoch)
}

// compareDeadline orders empty deadlines first, then parsed dates, then
// present values that do not parse, which compare as raw strings.
func compareDeadline(a, b *models.Procedure) int {
	va, vb := a.PrazoApresentacaoPropostas, b.PrazoApresentacaoPropostas
	if va == "" || vb == "" {
		return strings.Compare(va, vb)
	}
	return compareDates(va, vb, ParseDeadlineDate)
}

// compareDates ranks values that parse ahead of values that do not, so mixed
// input still has a total order.
func compareDates(va, vb string, parse func(string) (int64, bool)) int {
	ea, okA := parse(va)
	eb, okB := parse(vb)
	switch {
	case okA && okB:
		return cmp.Compare(ea, eb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(va, vb)
	}
}

func comparePrice(a, b *models.Procedure) int {
	return cmp.Compare(ParseCurrency(a.PrecoBase), ParseCurrency(b.PrecoBase))
}

func lowerFirstNonEmpty(primary, fallback string) string {
	if primary != "" {
		return strings.ToLower(primary)
	}
	return strings.ToLower(fallback)
}
