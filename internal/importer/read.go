package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFE, 0xFF},
	{0xFF, 0xFE},
}

// Decode turns raw file bytes into text. A byte order mark wins; then the
// named encoding (any WHATWG label, e.g. "windows-1252", "iso-8859-1",
// "utf-16le"); then valid UTF-8 is taken as is; anything else is read as
// windows-1252, which never fails.
func Decode(data []byte, encoding string) (string, error) {
	for _, bom := range boms {
		if bytes.HasPrefix(data, bom) {
			out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
			if err != nil {
				return "", fmt.Errorf("decoding: %w", err)
			}
			return string(out), nil
		}
	}

	if encoding != "" {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
		}
		out, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", encoding, err)
		}
		return string(out), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding windows-1252: %w", err)
	}
	return string(out), nil
}

// ReadTable splits text into rows. The first header and last footer lines are
// discarded before parsing; blank rows are skipped. When width is positive,
// short rows are padded with empty cells and long rows lose trailing empty
// cells, so a row only keeps a mismatched width when it carries real data.
func ReadTable(text string, sep rune, header, footer, width int) ([][]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if header < 0 || footer < 0 {
		return nil, fmt.Errorf("negative header (%d) or footer (%d) rows", header, footer)
	}
	if header+footer >= len(lines) {
		return nil, nil
	}
	body := strings.Join(lines[header:len(lines)-footer], "\n")

	cr := csv.NewReader(strings.NewReader(body))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	// leading-space trimming would swallow empty fields of whitespace delimiters
	cr.TrimLeadingSpace = sep != '\t' && sep != ' '

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing rows: %w", err)
	}

	var rows [][]string
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if width > 0 {
			rec = fit(rec, width)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func fit(rec []string, width int) []string {
	for len(rec) < width {
		rec = append(rec, "")
	}
	if len(rec) > width && blank(rec[width:]) {
		rec = rec[:width]
	}
	return rec
}
