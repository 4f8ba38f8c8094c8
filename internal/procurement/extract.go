// internal/procurement/extract.go
package procurement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"procurement-workers/internal/models"
)

var (
	publicationDatePattern = regexp.MustCompile(`Data de Envio do Anúncio:\s*(\d{1,2}-\d{1,2}-\d{4})`)
	deadlinePattern        = regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})\s+(\d{1,2}):(\d{2})`)
	currencyNoise          = regexp.MustCompile(`[^\d,]`)
	leadingDecimal         = regexp.MustCompile(`^\d*\.?\d*`)
)

// ExtractPublicationDate finds the announcement date inside the free-text
// details block and returns it as D/M/YYYY, or "N/A" when the label is absent.
func ExtractPublicationDate(details string) string {
	if details == "" {
		return models.NotAvailable
	}
	m := publicationDatePattern.FindStringSubmatch(details)
	if m == nil {
		return models.NotAvailable
	}
	return strings.ReplaceAll(m[1], "-", "/")
}

// ParseCurrency keeps only digits and the decimal comma of a price such as
// "1.500,00 EUR" and parses the result. Anything unparseable is 0.
func ParseCurrency(price string) float64 {
	cleaned := currencyNoise.ReplaceAllString(price, "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	// "12,5,0" cleans to "12.5,0"; only the leading number counts.
	cleaned = leadingDecimal.FindString(cleaned)
	if cleaned == "" || cleaned == "." {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDeadlineDate reads the date token of a deadline such as
// "15-10-2025 17:00" and returns it as epoch milliseconds.
func ParseDeadlineDate(deadline string) (int64, bool) {
	token := strings.TrimSpace(deadline)
	if i := strings.IndexAny(token, " \t"); i >= 0 {
		token = token[:i]
	}
	return parseDayMonthYear(token, "-")
}

// publicationEpoch converts the D/M/YYYY form produced by ExtractPublicationDate.
func publicationEpoch(date string) (int64, bool) {
	return parseDayMonthYear(date, "/")
}

func parseDayMonthYear(s, sep string) (int64, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	if len(parts[2]) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).UnixMilli(), true
}

// DisplayValue applies the "N/A" rule for missing fields.
func DisplayValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return s
}

// FormatPrice renders the currency suffix as a symbol.
func FormatPrice(price string) string {
	if price == "" || price == models.NotAvailable {
		return models.NotAvailable
	}
	return strings.NewReplacer("EUR", "€", "eur", "€").Replace(price)
}

// FormatDeadline rewrites "D-M-YYYY HH:MM" as "D/M/YYYY HH:MM"; other
// layouts are returned untouched.
func FormatDeadline(deadline string) string {
	if deadline == "" || deadline == models.NotAvailable {
		return models.NotAvailable
	}
	m := deadlinePattern.FindStringSubmatch(deadline)
	if m == nil {
		return deadline
	}
	return m[1] + "/" + m[2] + "/" + m[3] + " " + m[4] + ":" + m[5]
}
