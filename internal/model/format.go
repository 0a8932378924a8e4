package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Canonical export columns. Every FormatConfig must output all of them.
const (
	ColDate     = "Date"
	ColPayee    = "Payee"
	ColCategory = "Category"
	ColMemo     = "Memo"
	ColInflow   = "Inflow"
	ColOutflow  = "Outflow"
)

// ColSkip marks a physical source column that is ignored.
const ColSkip = "skip"

// CanonicalColumns lists the export schema in its default order.
var CanonicalColumns = []string{ColDate, ColPayee, ColCategory, ColMemo, ColOutflow, ColInflow}

// CDFlag describes a side-channel column that carries credit/debit direction.
type CDFlag struct {
	Column        string
	OutflowMarker string
	InflowMarker  string
}

// FormatConfig holds the normalisation rules for one bank export format.
// It is read-only once loaded.
type FormatConfig struct {
	Name            string
	InputColumns    []string
	OutputColumns   []string
	APIColumns      []string
	DateFormat      string // strftime pattern, "" = %Y-%m-%d
	DateDedupe      bool   // forward-fill blank dates from the previous row
	CurrencyDivisor decimal.Decimal
	CDFlag          *CDFlag
	PayeeToMemo     bool
	AccountID       string
}

// Divisor returns the currency divisor, treating zero as one.
func (fc FormatConfig) Divisor() decimal.Decimal {
	if fc.CurrencyDivisor.IsZero() {
		return decimal.NewFromInt(1)
	}
	return fc.CurrencyDivisor
}

// HasInput reports whether name is one of the source columns.
func (fc FormatConfig) HasInput(name string) bool {
	for _, c := range fc.InputColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the format.
func (fc FormatConfig) Validate() error {
	var errs []error
	if len(fc.InputColumns) == 0 {
		errs = append(errs, errors.New("no input columns"))
	}
	for _, col := range CanonicalColumns {
		if !contains(fc.OutputColumns, col) {
			errs = append(errs, fmt.Errorf("output columns missing %q", col))
		}
	}
	if fc.CDFlag != nil {
		if fc.CDFlag.Column == "" || fc.CDFlag.OutflowMarker == "" {
			errs = append(errs, errors.New("cd flag needs a column and an outflow marker"))
		} else if !fc.HasInput(fc.CDFlag.Column) {
			errs = append(errs, fmt.Errorf("cd flag column %q is not an input column", fc.CDFlag.Column))
		}
	}
	if fc.CurrencyDivisor.IsNegative() {
		errs = append(errs, fmt.Errorf("currency divisor %s must be positive", fc.CurrencyDivisor))
	}
	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
