package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the date layout of the export and API schemas.
const ISODate = "2006-01-02"

// Transaction is one row in the canonical schema while it moves through the pipeline.
type Transaction struct {
	Date      time.Time
	DateValid bool // false = unparseable date
	Payee     string
	Category  string
	Memo      string
	Inflow    decimal.Decimal
	Outflow   decimal.Decimal
	BadAmount bool  // monetary text could not be parsed or overflows milliunits
	Amount    int64 // milliunits, 1000 * (Inflow - Outflow)
	Indicator string
	Extra     map[string]string
}

// DateString returns the ISO date, or "" when the date is unparseable.
func (t Transaction) DateString() string {
	if !t.DateValid {
		return ""
	}
	return t.Date.Format(ISODate)
}

// ImportRecord is the API projection of a Transaction.
type ImportRecord struct {
	AccountID  string  `json:"account_id"`
	Date       string  `json:"date"`
	Amount     int64   `json:"amount"`
	PayeeID    *string `json:"payee_id"`
	PayeeName  string  `json:"payee_name"`
	CategoryID *string `json:"category_id"`
	Category   string  `json:"category"`
	Memo       string  `json:"memo"`
	Cleared    string  `json:"cleared"`
	Approved   bool    `json:"approved"`
	FlagColor  *string `json:"flag_color"`
	ImportID   string  `json:"import_id"`
}
