// Package export writes pipeline results to disk: the canonical CSV table and
// the JSON payload of API import records.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

// Payload is the JSON document accepted by the budgeting API's bulk endpoint.
type Payload struct {
	Transactions []model.ImportRecord `json:"transactions"`
}

// WriteTable writes a table as CSV with a header row.
func WriteTable(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d: expected %d fields, got %d", i+2, len(t.Columns), len(row))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveTable writes a table to path.
func SaveTable(path string, t model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteTable(f, t); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return f.Close()
}

// WriteRecords writes import records as an indented JSON payload.
func WriteRecords(w io.Writer, records []model.ImportRecord) error {
	if records == nil {
		records = []model.ImportRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Payload{Transactions: records}); err != nil {
		return fmt.Errorf("encoding import records: %w", err)
	}
	return nil
}

// SaveRecords writes import records to path.
func SaveRecords(path string, records []model.ImportRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating payload file: %w", err)
	}
	defer f.Close()

	if err := WriteRecords(f, records); err != nil {
		return err
	}
	return f.Close()
}

// OutputPath returns <dir of source>/<prefix><source stem><ext>, numbering the
// name with _1, _2, ... while a file of that name already exists.
func OutputPath(source, prefix, ext string) string {
	dir := filepath.Dir(source)
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	path := filepath.Join(dir, prefix+stem+ext)
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, prefix+stem+"_"+strconv.Itoa(n)+ext)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
