package formats

import (
	"github.com/shopspring/decimal"

	"github.com/bank2ynab/bank2ynab/internal/config"
)

// DefaultCatalog returns the built-in bank formats written by `bank2ynab init`.
func DefaultCatalog() []config.FormatSpec {
	return []config.FormatSpec{
		chaseChecking(),
		{
			Name:            "Nationwide UK",
			FilenamePattern: "Statement Download",
			Encoding:        "windows-1252",
			HeaderRows:      intPtr(5),
			InputColumns:    []string{"Date", "Payee", "Outflow", "Inflow", "skip"},
			DateFormat:      "%d %b %Y",
		},
		{
			Name:            "ING DiBa DE",
			FilenamePattern: "Umsatzanzeige",
			Delimiter:       ";",
			Encoding:        "iso-8859-1",
			HeaderRows:      intPtr(14),
			InputColumns:    []string{"Date", "skip", "Payee", "skip", "Memo", "skip", "skip", "Inflow", "skip"},
			DateFormat:      "%d.%m.%Y",
		},
		{
			Name:            "Handelsbanken SE",
			FilenamePattern: "Allkort",
			Extension:       ".xls",
			Delimiter:       ";",
			HeaderRows:      intPtr(9),
			InputColumns:    []string{"skip", "Date", "Payee", "Inflow", "skip"},
			Preprocessor:    "strip_html",
		},
		{
			Name:            "Nordea FI",
			FilenamePattern: "Tapahtumat",
			UseRegex:        boolPtr(true),
			Extension:       ".txt",
			Delimiter:       `\t`,
			HeaderRows:      intPtr(3),
			InputColumns:    []string{"skip", "Date", "skip", "Inflow", "skip", "Payee", "skip", "skip", "skip", "skip", "Memo", "skip", "skip"},
			DateFormat:      "%d.%m.%Y",
			DateDedupe:      boolPtr(true),
		},
		{
			Name:            "Swedbank SE",
			FilenamePattern: "Transaktioner",
			Extension:       ".xlsx",
			HeaderRows:      intPtr(2),
			InputColumns:    []string{"skip", "skip", "skip", "skip", "skip", "Date", "skip", "Payee", "Memo", "Inflow", "skip"},
			Preprocessor:    "xlsx",
		},
		{
			Name:            "Rabobank NL",
			FilenamePattern: "CSV_A",
			InputColumns:    []string{"skip", "skip", "skip", "skip", "Date", "skip", "Inflow", "skip", "skip", "Payee", "skip", "skip", "skip", "CDFlag", "skip", "skip", "skip", "skip", "Memo"},
			CDFlag:          []string{"CDFlag", "D", "C"},
		},
		{
			Name:            "Mercado Pago AR",
			FilenamePattern: "account_statement",
			HeaderRows:      intPtr(4),
			InputColumns:    []string{"Date", "Payee", "skip", "Inflow", "skip"},
			DateFormat:      "%d-%m-%Y",
			CurrencyDivisor: decimal.NewFromInt(100),
			PayeeToMemo:     boolPtr(true),
		},
	}
}

// chaseChecking mirrors the Chase checking export:
// Details, Posting Date, Description, Amount, Type, Balance, Check or Slip #.
func chaseChecking() config.FormatSpec {
	return config.FormatSpec{
		Name:            "Chase Checking",
		FilenamePattern: "Chase",
		InputColumns:    []string{"skip", "Date", "Payee", "Inflow", "skip", "skip", "skip"},
		DateFormat:      "%m/%d/%Y",
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
