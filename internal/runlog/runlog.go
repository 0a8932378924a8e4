// Package runlog keeps an append-only CSV record of every file a conversion run touched.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of converting one source file.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	RunID     string
	Timestamp time.Time
	Format    string
	Source    string
	Output    string
	Parsed    int
	Dropped   int
	Status    Status
	Error     string
}

// Header is the CSV header of the run log.
const Header = "run_id,timestamp,format,source,output,parsed,dropped,status,error"

const (
	numFields    = 9
	colRunID     = 0
	colTimestamp = 1
	colFormat    = 2
	colSource    = 3
	colOutput    = 4
	colParsed    = 5
	colDropped   = 6
	colStatus    = 7
	colError     = 8
)

// NewRunID returns a fresh identifier shared by every entry of one run.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFormat] = e.Format
	row[colSource] = e.Source
	row[colOutput] = e.Output
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colStatus] = string(e.Status)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	parsed, err := strconv.Atoi(record[colParsed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing parsed %q: %w", record[colParsed], err)
	}
	dropped, err := strconv.Atoi(record[colDropped])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dropped %q: %w", record[colDropped], err)
	}

	return Entry{
		RunID:     record[colRunID],
		Timestamp: ts,
		Format:    record[colFormat],
		Source:    record[colSource],
		Output:    record[colOutput],
		Parsed:    parsed,
		Dropped:   dropped,
		Status:    Status(record[colStatus]),
		Error:     record[colError],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating run log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
