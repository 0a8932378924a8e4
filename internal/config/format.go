package config

import (
	"fmt"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

// Merge returns a copy of f with its zero fields taken from defaults.
func (f FormatSpec) Merge(defaults FormatSpec) FormatSpec {
	out := f
	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	list := func(dst *[]string, def []string) {
		if len(*dst) == 0 && len(def) > 0 {
			*dst = append([]string(nil), def...)
		}
	}
	flag := func(dst **bool, def *bool) {
		if *dst == nil {
			*dst = def
		}
	}
	num := func(dst **int, def *int) {
		if *dst == nil {
			*dst = def
		}
	}

	str(&out.SourcePath, defaults.SourcePath)
	str(&out.FilenamePattern, defaults.FilenamePattern)
	str(&out.Extension, defaults.Extension)
	str(&out.Encoding, defaults.Encoding)
	str(&out.Delimiter, defaults.Delimiter)
	str(&out.DateFormat, defaults.DateFormat)
	str(&out.OutputPrefix, defaults.OutputPrefix)
	str(&out.OutputExtension, defaults.OutputExtension)
	str(&out.Preprocessor, defaults.Preprocessor)
	str(&out.AccountID, defaults.AccountID)
	list(&out.InputColumns, defaults.InputColumns)
	list(&out.OutputColumns, defaults.OutputColumns)
	list(&out.APIColumns, defaults.APIColumns)
	list(&out.CDFlag, defaults.CDFlag)
	list(&out.PreprocessorArgs, defaults.PreprocessorArgs)
	flag(&out.UseRegex, defaults.UseRegex)
	flag(&out.DateDedupe, defaults.DateDedupe)
	flag(&out.PayeeToMemo, defaults.PayeeToMemo)
	flag(&out.DeleteSource, defaults.DeleteSource)
	num(&out.HeaderRows, defaults.HeaderRows)
	num(&out.FooterRows, defaults.FooterRows)
	if out.CurrencyDivisor.IsZero() {
		out.CurrencyDivisor = defaults.CurrencyDivisor
	}
	return out
}

// FormatConfig converts f into the pipeline's immutable FormatConfig.
func (f FormatSpec) FormatConfig() (model.FormatConfig, error) {
	fc := model.FormatConfig{
		Name:            f.Name,
		InputColumns:    trimAll(f.InputColumns),
		OutputColumns:   trimAll(f.OutputColumns),
		APIColumns:      trimAll(f.APIColumns),
		DateFormat:      f.DateFormat,
		DateDedupe:      f.Dedupe(),
		CurrencyDivisor: f.CurrencyDivisor,
		PayeeToMemo:     boolOr(f.PayeeToMemo),
		AccountID:       f.AccountID,
	}

	flags := trimAll(f.CDFlag)
	switch {
	case len(flags) == 0:
	case len(flags) == 3 && flags[0] != "" && flags[1] != "":
		fc.CDFlag = &model.CDFlag{Column: flags[0], OutflowMarker: flags[1], InflowMarker: flags[2]}
	default:
		return model.FormatConfig{}, fmt.Errorf("format %q: cd_flag must be [column, outflow marker, inflow marker], got %q", f.Name, f.CDFlag)
	}
	return fc, nil
}

// Regex reports whether FilenamePattern is a regular expression.
func (f FormatSpec) Regex() bool { return boolOr(f.UseRegex) }

// Dedupe reports whether blank dates are forward-filled.
func (f FormatSpec) Dedupe() bool { return boolOr(f.DateDedupe) }

// RemoveSource reports whether the source file is deleted after export.
func (f FormatSpec) RemoveSource() bool { return boolOr(f.DeleteSource) }

// Header returns the number of leading rows to skip.
func (f FormatSpec) Header() int { return intOr(f.HeaderRows) }

// Footer returns the number of trailing rows to skip.
func (f FormatSpec) Footer() int { return intOr(f.FooterRows) }

// Separator returns the delimiter rune, accepting a literal `\t` for tab.
func (f FormatSpec) Separator() (rune, error) {
	d := f.Delimiter
	if d == `\t` || d == "tab" {
		return '\t', nil
	}
	if d == "" {
		return ',', nil
	}
	r := []rune(d)
	if len(r) != 1 {
		return 0, fmt.Errorf("format %q: delimiter %q must be a single character", f.Name, d)
	}
	return r[0], nil
}

func boolOr(p *bool) bool {
	return p != nil && *p
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
