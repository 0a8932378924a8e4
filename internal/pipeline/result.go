package pipeline

import (
	"strconv"

	"github.com/bank2ynab/bank2ynab/internal/importid"
	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/schema"
	"github.com/bank2ynab/bank2ynab/internal/validate"
)

// Field length limits of the budgeting API.
const (
	MaxPayeeLength = 50
	MaxMemoLength  = 100
)

// Result is the outcome of one Run. An empty result is a success with no rows.
type Result struct {
	Export       model.Table
	Records      []model.ImportRecord
	Transactions []model.Transaction // survivors, parallel to Records
	Verdicts     []validate.Verdict  // one per input row
	Summary      validate.Summary

	format model.FormatConfig
}

// Empty reports whether no row survived.
func (r *Result) Empty() bool { return len(r.Records) == 0 }

// APITable projects the records onto the format's API columns.
func (r *Result) APITable() model.Table {
	cols := r.format.APIColumns
	if len(cols) == 0 {
		cols = schema.DefaultAPIColumns
	}
	t := model.Table{Columns: append([]string(nil), cols...), Rows: make([][]string, len(r.Records))}
	for i, rec := range r.Records {
		row := make([]string, len(cols))
		for c, name := range cols {
			row[c] = recordField(rec, name)
		}
		t.Rows[i] = row
	}
	return t
}

func toRecord(fc model.FormatConfig, tx model.Transaction, id string) model.ImportRecord {
	return model.ImportRecord{
		AccountID: fc.AccountID,
		Date:      tx.DateString(),
		Amount:    tx.Amount,
		PayeeName: importid.Truncate(tx.Payee, MaxPayeeLength),
		Category:  tx.Category,
		Memo:      importid.Truncate(tx.Memo, MaxMemoLength),
		Cleared:   "cleared",
		Approved:  false,
		ImportID:  id,
	}
}

func exportTable(cols []string, txs []model.Transaction, recs []model.ImportRecord) model.Table {
	t := model.Table{Columns: append([]string(nil), cols...), Rows: make([][]string, len(txs))}
	for i, tx := range txs {
		row := make([]string, len(cols))
		for c, name := range cols {
			row[c] = exportField(tx, recs[i], name)
		}
		t.Rows[i] = row
	}
	return t
}

func exportField(tx model.Transaction, rec model.ImportRecord, name string) string {
	switch name {
	case model.ColDate:
		return tx.DateString()
	case model.ColPayee:
		return tx.Payee
	case model.ColCategory:
		return tx.Category
	case model.ColMemo:
		return tx.Memo
	case model.ColInflow:
		return formatMoney(tx.Inflow)
	case model.ColOutflow:
		return formatMoney(tx.Outflow)
	}
	if v := tx.Extra[name]; v != "" {
		return v
	}
	return recordField(rec, name)
}

func recordField(rec model.ImportRecord, name string) string {
	switch name {
	case "account_id":
		return rec.AccountID
	case "date":
		return rec.Date
	case "amount":
		return strconv.FormatInt(rec.Amount, 10)
	case "payee_name":
		return rec.PayeeName
	case "category":
		return rec.Category
	case "memo":
		return rec.Memo
	case "cleared":
		return rec.Cleared
	case "approved":
		return strconv.FormatBool(rec.Approved)
	case "import_id":
		return rec.ImportID
	}
	return ""
}
