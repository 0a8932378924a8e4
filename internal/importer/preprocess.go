package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/normalize"
)

// FixLineBreaks joins a line onto the previous one when it starts with one of
// the characters given as preprocessor arguments.
type FixLineBreaks struct{}

// Name returns the preprocessor name.
func (p *FixLineBreaks) Name() string { return "fix_line_breaks" }

// Process removes line breaks that precede any argument string.
func (p *FixLineBreaks) Process(data []byte, spec config.FormatSpec) ([]byte, error) {
	out := data
	for _, arg := range spec.PreprocessorArgs {
		if arg == "" {
			continue
		}
		a := []byte(arg)
		out = bytes.ReplaceAll(out, append([]byte("\r\n"), a...), a)
		out = bytes.ReplaceAll(out, append([]byte("\n"), a...), a)
	}
	return out, nil
}

// StripHTML extracts the text of markup-wrapped cells, as found in exports
// that are HTML tables saved with a spreadsheet extension.
type StripHTML struct{}

var tagText = regexp.MustCompile(`>([^<]*)<`)

// Name returns the preprocessor name.
func (p *StripHTML) Name() string { return "strip_html" }

// Process keeps, per cell, the first non-blank text between tags. Cells
// without any text are removed, as are rows left empty.
func (p *StripHTML) Process(data []byte, spec config.FormatSpec) ([]byte, error) {
	sep, err := spec.Separator()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		var cells []string
		for _, cell := range strings.Split(strings.TrimRight(line, "\r"), string(sep)) {
			if text, ok := cellText(cell); ok {
				cells = append(cells, text)
			}
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString(strings.Join(cells, string(sep)))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func cellText(cell string) (string, bool) {
	if !strings.Contains(cell, "<") {
		text := strings.TrimSpace(cell)
		return text, text != ""
	}
	for _, m := range tagText.FindAllStringSubmatch(cell, -1) {
		if text := strings.TrimSpace(m[1]); text != "" {
			return text, true
		}
	}
	return "", false
}

// ParseFromMemo rewrites the Payee, Memo and Date cells from named groups
// matched in the Memo cell. Each argument is a regular expression; all are
// tried in order against the original memo.
//
// Recognised groups: payee, memo, purchaser, date (dd-mm-yyyy).
type ParseFromMemo struct{}

// memoDateLayout is the layout of a date captured from a memo.
const memoDateLayout = "02-01-2006"

// Name returns the preprocessor name.
func (p *ParseFromMemo) Name() string { return "parse_from_memo" }

// Process rewrites every row whose memo matches at least one expression.
func (p *ParseFromMemo) Process(data []byte, spec config.FormatSpec) ([]byte, error) {
	var parsers []*regexp.Regexp
	for _, arg := range spec.PreprocessorArgs {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		re, err := regexp.Compile(arg)
		if err != nil {
			return nil, fmt.Errorf("compiling memo parser %q: %w", arg, err)
		}
		parsers = append(parsers, re)
	}
	if len(parsers) == 0 {
		return nil, errors.New("parse_from_memo needs at least one regular expression argument")
	}

	memoCol := indexOf(spec.InputColumns, model.ColMemo)
	if memoCol < 0 {
		return nil, errors.New("parse_from_memo needs a Memo input column")
	}
	payeeCol := indexOf(spec.InputColumns, model.ColPayee)
	dateCol := indexOf(spec.InputColumns, model.ColDate)
	layout, err := normalize.FormatLayout(spec.DateFormat)
	if err != nil {
		return nil, err
	}
	sep, err := spec.Separator()
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	for _, rec := range records {
		if memoCol >= len(rec) {
			continue
		}
		original := rec[memoCol]
		for _, re := range parsers {
			m := re.FindStringSubmatch(original)
			if m == nil {
				continue
			}
			group := func(name string) string {
				if i := re.SubexpIndex(name); i >= 0 {
					return m[i]
				}
				return ""
			}

			var memo []string
			if v := group("memo"); v != "" {
				memo = append(memo, v)
			}
			if v := group("purchaser"); v != "" {
				memo = append(memo, "purchased by "+v)
			}
			if len(memo) > 0 {
				rec[memoCol] = strings.Join(memo, " ")
			}
			if v := group("date"); v != "" && dateCol >= 0 && dateCol < len(rec) {
				if d, err := time.Parse(memoDateLayout, v); err == nil {
					rec[dateCol] = d.Format(layout)
				}
			}
			if v := group("payee"); v != "" && payeeCol >= 0 && payeeCol < len(rec) {
				rec[payeeCol] = v
			}
		}
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = sep
	if err := cw.WriteAll(records); err != nil {
		return nil, fmt.Errorf("writing rows: %w", err)
	}
	return buf.Bytes(), nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if strings.TrimSpace(v) == s {
			return i
		}
	}
	return -1
}
