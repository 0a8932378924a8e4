package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bank2ynab/bank2ynab/internal/config"
)

// XLSX converts a workbook into delimited text, every sheet in order.
type XLSX struct{}

// Name returns the preprocessor name.
func (p *XLSX) Name() string { return "xlsx" }

// Binary reports that the preprocessor reads the undecoded file.
func (p *XLSX) Binary() bool { return true }

// Process reads the workbook and writes its rows using the format delimiter.
func (p *XLSX) Process(data []byte, spec config.FormatSpec) ([]byte, error) {
	sep, err := spec.Separator()
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = sep
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if err := cw.Write(row); err != nil {
				return nil, fmt.Errorf("writing sheet %q: %w", sheet, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("writing rows: %w", err)
	}
	return buf.Bytes(), nil
}
