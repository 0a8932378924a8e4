// Package schema reshapes raw source columns onto the canonical output schema.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

// API field names understood by the API projection.
var APIFields = []string{
	"account_id", "date", "amount", "payee_id", "payee_name", "category_id",
	"category", "memo", "cleared", "approved", "flag_color", "import_id",
}

// DefaultAPIColumns is the API projection used when a format does not name one.
var DefaultAPIColumns = APIFields

var spaceRun = regexp.MustCompile(`\s{2,}`)

// Map produces a table whose columns are exactly target. Source columns that
// share a name are merged into one space-joined value; target columns missing
// from the source are filled with "". Rows are never rejected.
func Map(raw model.Table, target []string) model.Table {
	positions := make(map[string][]int, len(raw.Columns))
	for i, c := range raw.Columns {
		if c == model.ColSkip {
			continue
		}
		positions[c] = append(positions[c], i)
	}

	out := model.Table{
		Columns: append([]string(nil), target...),
		Rows:    make([][]string, len(raw.Rows)),
	}
	for r, row := range raw.Rows {
		mapped := make([]string, len(target))
		for t, name := range target {
			mapped[t] = cell(row, positions[name])
		}
		out.Rows[r] = mapped
	}
	return out
}

func cell(row []string, idx []int) string {
	switch len(idx) {
	case 0:
		return ""
	case 1:
		return at(row, idx[0])
	}
	parts := make([]string, len(idx))
	for i, p := range idx {
		parts[i] = at(row, p)
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.Join(parts, " "), " "))
}

func at(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Targets returns the de-duplicated union of the output and API columns plus any
// working column (the cd flag indicator) the later stages read.
func Targets(fc model.FormatConfig) []string {
	seen := make(map[string]bool)
	var cols []string
	add := func(names ...string) {
		for _, n := range names {
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			cols = append(cols, n)
		}
	}
	add(fc.OutputColumns...)
	add(fc.APIColumns...)
	add(model.ColDate, model.ColPayee, model.ColCategory, model.ColMemo, model.ColInflow, model.ColOutflow)
	if fc.CDFlag != nil {
		add(fc.CDFlag.Column)
	}
	return cols
}

// Check reports output or API columns that are neither source columns nor known
// canonical/API fields. Such a column can only come from a configuration typo.
func Check(fc model.FormatConfig) error {
	known := make(map[string]bool)
	for _, c := range model.CanonicalColumns {
		known[c] = true
	}
	for _, c := range APIFields {
		known[c] = true
	}
	for _, c := range fc.InputColumns {
		known[c] = true
	}
	for _, c := range fc.OutputColumns {
		if !known[c] {
			return fmt.Errorf("output column %q is not an input column or a known field", c)
		}
	}
	for _, c := range fc.APIColumns {
		if !known[c] {
			return fmt.Errorf("api column %q is not an input column or a known field", c)
		}
	}
	return nil
}
