// Package reconcile resolves inflow/outflow sign conventions into two
// non-negative columns and derives the milliunit amount.
package reconcile

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/normalize"
)

var thousand = decimal.NewFromInt(1000)

// ErrAmountOverflow is returned when the milliunit amount does not fit in an int64.
var ErrAmountOverflow = errors.New("amount out of milliunit range")

// ApplyCDFlag negates Inflow when the row's indicator equals the outflow marker.
// It must run before CrossSign.
func ApplyCDFlag(tx *model.Transaction, flag *model.CDFlag) {
	if flag == nil {
		return
	}
	if strings.TrimSpace(tx.Indicator) == flag.OutflowMarker {
		tx.Inflow = tx.Inflow.Neg()
	}
}

// CrossSign rewrites a negative Inflow as a positive Outflow and a negative
// Outflow as a positive Inflow. Afterwards both sides are non-negative and at
// most one is nonzero; when both sides carried money they are netted.
func CrossSign(tx *model.Transaction) {
	if tx.Inflow.IsNegative() {
		tx.Outflow = tx.Inflow.Neg()
		tx.Inflow = decimal.Zero
	}
	if tx.Outflow.IsNegative() {
		tx.Inflow = tx.Outflow.Neg()
		tx.Outflow = decimal.Zero
	}
	if tx.Inflow.IsPositive() && tx.Outflow.IsPositive() {
		net := tx.Inflow.Sub(tx.Outflow)
		tx.Inflow, tx.Outflow = decimal.Zero, decimal.Zero
		switch net.Sign() {
		case 1:
			tx.Inflow = net
		case -1:
			tx.Outflow = net.Neg()
		}
	}
}

// ApplyDivisor scales both sides by the currency divisor.
func ApplyDivisor(tx *model.Transaction, divisor decimal.Decimal) {
	tx.Inflow = normalize.ApplyDivisor(tx.Inflow, divisor)
	tx.Outflow = normalize.ApplyDivisor(tx.Outflow, divisor)
}

// Milliunits returns 1000 * (in - out), truncated toward zero.
func Milliunits(in, out decimal.Decimal) (int64, error) {
	m := in.Sub(out).Mul(thousand).Truncate(0).BigInt()
	if !m.IsInt64() {
		return 0, ErrAmountOverflow
	}
	return m.Int64(), nil
}
