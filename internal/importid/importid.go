// Package importid builds the import_id keys the budgeting API uses to ignore
// duplicate uploads.
package importid

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const (
	// Prefix starts every key.
	Prefix = "YNAB"
	// MaxLength is the longest key the API accepts.
	MaxLength = 36
)

// ErrTooLong is returned when a key would exceed MaxLength.
var ErrTooLong = errors.New("import id too long")

// Format returns a key like "YNAB:-4000:2025-01-03:1".
func Format(amount int64, date string, occurrence int) string {
	return Prefix + ":" + strconv.FormatInt(amount, 10) + ":" + date + ":" + strconv.Itoa(occurrence)
}

// Generator numbers identical (amount, date) pairs within one batch. The
// counter is never shared between batches: the same file always yields the
// same keys, and the API drops the repeats.
type Generator struct {
	seen map[string]int
}

// NewGenerator returns a Generator with an empty counter.
func NewGenerator() *Generator {
	return &Generator{seen: make(map[string]int)}
}

// Next returns the key for the next row with this amount and date. The
// occurrence is counted even when the key is rejected as too long.
func (g *Generator) Next(amount int64, date string) (string, error) {
	pair := strconv.FormatInt(amount, 10) + ":" + date
	g.seen[pair]++
	id := Format(amount, date, g.seen[pair])
	if len(id) > MaxLength {
		return "", fmt.Errorf("%w: %q has %d characters", ErrTooLong, id, len(id))
	}
	return id, nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
