// Package validate decides which normalised rows survive into the export.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

// Reason explains why a row was dropped.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonBadDate         Reason = "unparseable-date"
	ReasonBadAmount       Reason = "malformed-amount"
	ReasonNoMoney         Reason = "no-money"
	ReasonZeroAmount      Reason = "zero-amount"
	ReasonImportIDTooLong Reason = "import-id-too-long"
)

// Verdict is the validator's decision for one row.
type Verdict struct {
	Row    int // 0-based index into the mapped table
	Reason Reason
}

// Valid reports whether the row survives.
func (v Verdict) Valid() bool { return v.Reason == ReasonNone }

func (v Verdict) String() string {
	if v.Valid() {
		return fmt.Sprintf("row %d: valid", v.Row+1)
	}
	return fmt.Sprintf("row %d: dropped (%s)", v.Row+1, v.Reason)
}

// Coarse runs after monetary cleanup and sign reconciliation.
func Coarse(row int, tx model.Transaction) Verdict {
	switch {
	case tx.BadAmount:
		return Verdict{Row: row, Reason: ReasonBadAmount}
	case tx.Inflow.IsZero() && tx.Outflow.IsZero():
		return Verdict{Row: row, Reason: ReasonNoMoney}
	case !tx.DateValid:
		return Verdict{Row: row, Reason: ReasonBadDate}
	}
	return Verdict{Row: row}
}

// Final runs on the derived milliunit amount, which can be zero even when the
// decimal columns were not (sub-milliunit values).
func Final(row int, tx model.Transaction) Verdict {
	if tx.Amount == 0 {
		return Verdict{Row: row, Reason: ReasonZeroAmount}
	}
	return Verdict{Row: row}
}

// Summary counts verdicts for the per-file log line.
type Summary struct {
	Total   int
	Valid   int
	Dropped map[Reason]int
}

// Summarize tallies verdicts.
func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts), Dropped: make(map[Reason]int)}
	for _, v := range verdicts {
		if v.Valid() {
			s.Valid++
			continue
		}
		s.Dropped[v.Reason]++
	}
	return s
}

// DroppedCount returns the number of rows dropped for any reason.
func (s Summary) DroppedCount() int {
	return s.Total - s.Valid
}

func (s Summary) String() string {
	if len(s.Dropped) == 0 {
		return fmt.Sprintf("%d/%d rows valid", s.Valid, s.Total)
	}
	reasons := make([]string, 0, len(s.Dropped))
	for r, n := range s.Dropped {
		reasons = append(reasons, fmt.Sprintf("%s=%d", r, n))
	}
	sort.Strings(reasons)
	return fmt.Sprintf("%d/%d rows valid, dropped %s", s.Valid, s.Total, strings.Join(reasons, " "))
}
