// Package events loads timestamped records from delimited files, such as the
// accident logs published by highway concessionaires, and measures the time
// between them.
package events

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/encoding/charmap"
)

// LoadConfig controls how a file is read
type LoadConfig struct {
	Comma       rune           // Field delimiter, ';' when zero
	Latin1      bool           // Decode the input from ISO-8859-1
	DateColumn  string         // Column holding the date, "data" when empty
	TimeColumn  string         // Optional column holding the time of day, "horario" when empty
	Location    *time.Location // Zone of the wall clock values, UTC when nil
	KeepColumns []string       // Columns copied into Event.Fields; all when empty
}

// DefaultLoadConfig matches semicolon separated latin-1 exports with "data"
// and "horario" columns
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Comma:      ';',
		Latin1:     true,
		DateColumn: "data",
		TimeColumn: "horario",
		Location:   time.UTC,
	}
}

func (cfg LoadConfig) withDefaults() LoadConfig {
	if cfg.Comma == 0 {
		cfg.Comma = ';'
	}
	if cfg.DateColumn == "" {
		cfg.DateColumn = "data"
	}
	if cfg.TimeColumn == "" {
		cfg.TimeColumn = "horario"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return cfg
}

// Event is one row with its parsed timestamp
type Event struct {
	At     time.Time
	Fields map[string]string
	Line   int
}

// RowError reports a row that could not be loaded
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ErrMissingColumn is returned when the date column is not in the header
var ErrMissingColumn = errors.New("events: missing column")

// LoadFile opens path and loads it with Load
func LoadFile(path string, cfg LoadConfig) ([]Event, []RowError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return Load(file, cfg)
}

// Load reads a header row followed by records
// Date and time columns are joined and parsed day first. Rows that fail to
// parse are reported as RowErrors and skipped; only unreadable input or a
// missing date column fails the whole load.
func Load(r io.Reader, cfg LoadConfig) ([]Event, []RowError, error) {
	cfg = cfg.withDefaults()

	r = skipBOM(r)
	if cfg.Latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := normalizeHeader(header)
	dateIdx := indexOf(columns, cfg.DateColumn)
	if dateIdx < 0 {
		return nil, nil, fmt.Errorf("%w %q (have %s)", ErrMissingColumn, cfg.DateColumn, strings.Join(columns, ", "))
	}
	timeIdx := indexOf(columns, cfg.TimeColumn)

	keep := keptColumns(columns, cfg.KeepColumns)

	var events []Event
	var rowErrs []RowError

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, RowError{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read records: %w", err)
		}

		line, _ := reader.FieldPos(0)

		at, err := parseTimestamp(record, dateIdx, timeIdx, cfg.Location)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}

		fields := make(map[string]string, len(keep))
		for _, idx := range keep {
			if idx < len(record) {
				fields[columns[idx]] = strings.TrimSpace(record[idx])
			}
		}

		events = append(events, Event{At: at, Fields: fields, Line: line})
	}

	return events, rowErrs, nil
}

func parseTimestamp(record []string, dateIdx, timeIdx int, loc *time.Location) (time.Time, error) {
	if dateIdx >= len(record) || strings.TrimSpace(record[dateIdx]) == "" {
		return time.Time{}, errors.New("empty date")
	}

	value := strings.TrimSpace(record[dateIdx])
	if timeIdx >= 0 && timeIdx < len(record) {
		if clock := strings.TrimSpace(record[timeIdx]); clock != "" {
			value += " " + clock
		}
	}

	at, err := dateparse.ParseIn(value, loc, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return at, nil
}

// normalizeHeader trims names and drops a leading byte order mark
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}
	return columns
}

// indexOf finds a column by case-insensitive name, -1 when absent
func indexOf(columns []string, name string) int {
	for i, column := range columns {
		if strings.EqualFold(column, name) {
			return i
		}
	}
	return -1
}

func keptColumns(columns, keep []string) []int {
	var idx []int
	if len(keep) == 0 {
		for i := range columns {
			idx = append(idx, i)
		}
		return idx
	}
	for _, name := range keep {
		if i := indexOf(columns, name); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark. It must run on the raw
// bytes, before any charset decoder sees them.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
