package normalize

import (
	"strings"
	"time"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

// ParseDate parses s with exactly the given Go layout and returns the calendar
// date in UTC. Surrounding whitespace is trimmed first; nothing else is
// forgiven. ok is false for blank, malformed or impossible dates.
func ParseDate(layout, s string) (date time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// FillDates copies the nearest preceding date into rows whose date is
// unparseable. The first row is never filled. It returns the number of rows filled.
func FillDates(txs []model.Transaction) int {
	filled := 0
	for i := 1; i < len(txs); i++ {
		if txs[i].DateValid || !txs[i-1].DateValid {
			continue
		}
		txs[i].Date = txs[i-1].Date
		txs[i].DateValid = true
		filled++
	}
	return filled
}
