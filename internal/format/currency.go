package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// Currency renders a numeric string as Brazilian reais, e.g. "1234.5" → "R$ 1.234,50".
// Values that are not plain numbers (already formatted, free text) are returned unchanged.
func Currency(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return value
	}
	if amount < 0 {
		return "-R$ " + brl.Sprintf("%.2f", -amount)
	}
	return "R$ " + brl.Sprintf("%.2f", amount)
}
