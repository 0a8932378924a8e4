// Package normalize turns bank-specific date and money strings into canonical values.
package normalize

import (
	"fmt"
	"strings"
	"unicode"
)

// ISOPattern is the strftime pattern assumed when a format names none.
const ISOPattern = "%Y-%m-%d"

// Directives accept the unpadded forms strptime accepts ("5" and "05").
// %f maps to Go's fractional seconds, which Go only recognises right after a
// '.' or ','.
var directives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "1",
	'd': "2",
	'e': "_2",
	'H': "15",
	'I': "3",
	'M': "4",
	'S': "5",
	'f': "000000",
	'p': "PM",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
}

// padded replaces the lenient parse forms when a date is written back out.
var padded = map[byte]string{
	'm': "01",
	'd': "02",
	'e': "_2",
	'I': "03",
	'M': "04",
	'S': "05",
}

// Layout converts a strftime pattern into a Go time layout for parsing.
func Layout(pattern string) (string, error) {
	return layout(pattern, false)
}

// FormatLayout converts a strftime pattern into a Go time layout that writes
// zero-padded fields, as strftime does.
func FormatLayout(pattern string) (string, error) {
	return layout(pattern, true)
}

func layout(pattern string, pad bool) (string, error) {
	if pattern == "" {
		pattern = ISOPattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			if unicode.IsDigit(rune(c)) {
				return "", fmt.Errorf("date format %q: literal digits are not supported", pattern)
			}
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(pattern) {
			return "", fmt.Errorf("date format %q: trailing %%", pattern)
		}
		if pattern[i] == '%' {
			b.WriteByte('%')
			continue
		}
		d, ok := directives[pattern[i]]
		if !ok {
			return "", fmt.Errorf("date format %q: unsupported directive %%%c", pattern, pattern[i])
		}
		if pattern[i] == 'f' && (i < 2 || (pattern[i-2] != '.' && pattern[i-2] != ',')) {
			return "", fmt.Errorf("date format %q: %%f must follow '.' or ','", pattern)
		}
		if p, ok := padded[pattern[i]]; ok && pad {
			d = p
		}
		b.WriteString(d)
	}
	return b.String(), nil
}
