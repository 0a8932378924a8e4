// Package pipeline runs the normalisation stages over one file's table and
// projects the survivors onto the export and API schemas.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bank2ynab/bank2ynab/internal/importid"
	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/normalize"
	"github.com/bank2ynab/bank2ynab/internal/reconcile"
	"github.com/bank2ynab/bank2ynab/internal/schema"
	"github.com/bank2ynab/bank2ynab/internal/validate"
)

// ConfigError is a structural problem with a format. It stops the whole file.
type ConfigError struct {
	Format string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("format %q: %v", e.Format, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Pipeline is stateless between runs; every Run owns its rows and counters.
type Pipeline struct {
	log zerolog.Logger
}

// New returns a Pipeline that logs stage detail at debug level.
func New(log zerolog.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Run normalises rows, whose width must match fc.InputColumns. Row defects drop
// the row; only configuration defects return an error.
func (p *Pipeline) Run(fc model.FormatConfig, rows [][]string) (*Result, error) {
	layout, err := prepare(fc)
	if err != nil {
		return nil, &ConfigError{Format: fc.Name, Err: err}
	}
	for i, row := range rows {
		if len(row) != len(fc.InputColumns) {
			return nil, &ConfigError{
				Format: fc.Name,
				Err:    fmt.Errorf("row %d has %d columns, format expects %d", i+1, len(row), len(fc.InputColumns)),
			}
		}
	}
	log := p.log.With().Str("format", fc.Name).Logger()

	mapped := schema.Map(model.Table{Columns: fc.InputColumns, Rows: rows}, schema.Targets(fc))
	log.Debug().Int("rows", mapped.Len()).Strs("columns", mapped.Columns).Msg("columns mapped")

	txs := toTransactions(fc, layout, mapped)
	if fc.DateDedupe {
		filled := normalize.FillDates(txs)
		log.Debug().Int("filled", filled).Msg("dates forward-filled")
	}

	divisor := fc.Divisor()
	for i := range txs {
		tx := &txs[i]
		reconcile.ApplyCDFlag(tx, fc.CDFlag)
		reconcile.CrossSign(tx)
		reconcile.ApplyDivisor(tx, divisor)
		amount, err := reconcile.Milliunits(tx.Inflow, tx.Outflow)
		if err != nil {
			log.Warn().Err(err).Int("row", i+1).Str("inflow", tx.Inflow.String()).Str("outflow", tx.Outflow.String()).Msg("amount out of range")
			tx.BadAmount = true
		}
		tx.Amount = amount
		autoFill(tx, fc.PayeeToMemo)
	}

	res := &Result{format: fc}
	gen := importid.NewGenerator()
	for i, tx := range txs {
		v := validate.Coarse(i, tx)
		if v.Valid() {
			v = validate.Final(i, tx)
		}
		var id string
		if v.Valid() {
			id, err = gen.Next(tx.Amount, tx.DateString())
			if err != nil {
				log.Warn().Err(err).Int("row", i+1).Msg("dropping row")
				v.Reason = validate.ReasonImportIDTooLong
			}
		}
		res.Verdicts = append(res.Verdicts, v)
		if !v.Valid() {
			log.Debug().Stringer("verdict", v).Msg("row dropped")
			continue
		}
		res.Transactions = append(res.Transactions, tx)
		res.Records = append(res.Records, toRecord(fc, tx, id))
	}

	res.Summary = validate.Summarize(res.Verdicts)
	res.Export = exportTable(fc.OutputColumns, res.Transactions, res.Records)
	log.Debug().Str("summary", res.Summary.String()).Msg("pipeline finished")
	return res, nil
}

func prepare(fc model.FormatConfig) (string, error) {
	if err := fc.Validate(); err != nil {
		return "", err
	}
	if err := schema.Check(fc); err != nil {
		return "", err
	}
	return normalize.Layout(fc.DateFormat)
}

func toTransactions(fc model.FormatConfig, layout string, mapped model.Table) []model.Transaction {
	indicatorCol := -1
	if fc.CDFlag != nil {
		indicatorCol = mapped.Index(fc.CDFlag.Column)
	}

	txs := make([]model.Transaction, len(mapped.Rows))
	for r, row := range mapped.Rows {
		tx := model.Transaction{Extra: make(map[string]string)}
		for c, name := range mapped.Columns {
			val := row[c]
			switch name {
			case model.ColDate:
				tx.Date, tx.DateValid = normalize.ParseDate(layout, val)
			case model.ColPayee:
				tx.Payee = val
			case model.ColCategory:
				tx.Category = val
			case model.ColMemo:
				tx.Memo = val
			case model.ColInflow:
				tx.Inflow = parseMoney(val, &tx.BadAmount)
			case model.ColOutflow:
				tx.Outflow = parseMoney(val, &tx.BadAmount)
			default:
				tx.Extra[name] = val
			}
			if c == indicatorCol {
				tx.Indicator = val
			}
		}
		txs[r] = tx
	}
	return txs
}

func autoFill(tx *model.Transaction, payeeToMemo bool) {
	if payeeToMemo && tx.Memo == "" {
		tx.Memo = tx.Payee
	}
	if tx.Payee == "" {
		tx.Payee = tx.Memo
	}
}
