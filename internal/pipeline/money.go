package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/bank2ynab/bank2ynab/internal/normalize"
)

func parseMoney(s string, bad *bool) decimal.Decimal {
	d, err := normalize.CleanMoney(s)
	if err != nil {
		*bad = true
		return decimal.Zero
	}
	return d
}

// formatMoney renders a decimal for the export file: blank for zero, two
// places unless the value carries more precision.
func formatMoney(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
