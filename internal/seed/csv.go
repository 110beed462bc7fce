// Package seed migrates historical universal ban list data. It parses
// courtroom spreadsheet CSV exports and loads them into the service
// database, and writes compressed UBL archives for offline use.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"uhc/internal/domain"
)

// Expected header names, matched case-insensitively after trimming.
// Column order in the export varies between spreadsheet revisions, so
// the header row is authoritative.
var requiredColumns = []string{"ign", "uuid", "reason", "date banned", "expiry date"}

// dateLayouts covers the formats seen across spreadsheet revisions.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// permanentExpiry stands in for bans filed without an expiry. The
// courtroom wrote "Never" or left the cell blank for permanent bans.
var permanentExpiry = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// RowError describes a single row that could not be converted.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ParseResult holds the converted entries plus per-row failures. A
// spreadsheet with a few broken rows still imports the rest.
type ParseResult struct {
	Entries []domain.BanEntry
	Skipped []RowError
}

// ParseCSV reads a courtroom spreadsheet export. The first row must be
// a header naming at least the required columns; extra columns such as
// "case link" and "banned by" are used when present.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		entry, err := convertRow(cols, row)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// columnMap maps canonical column names to their index in the header.
type columnMap map[string]int

func mapColumns(header []string) (columnMap, error) {
	cols := make(columnMap, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("header is missing column %q", want)
		}
	}
	return cols, nil
}

func (c columnMap) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func convertRow(cols columnMap, row []string) (domain.BanEntry, error) {
	ign := cols.get(row, "ign")
	if ign == "" {
		return domain.BanEntry{}, fmt.Errorf("empty ign")
	}

	id, err := domain.NormalizeUUID(cols.get(row, "uuid"))
	if err != nil {
		return domain.BanEntry{}, fmt.Errorf("uuid: %w", err)
	}

	reason := cols.get(row, "reason")
	if reason == "" {
		return domain.BanEntry{}, fmt.Errorf("empty reason")
	}

	created, err := parseDate(cols.get(row, "date banned"))
	if err != nil {
		return domain.BanEntry{}, fmt.Errorf("date banned: %w", err)
	}

	expires, err := parseExpiry(cols.get(row, "expiry date"), created)
	if err != nil {
		return domain.BanEntry{}, fmt.Errorf("expiry date: %w", err)
	}

	entry := domain.BanEntry{
		IGN:       ign,
		UUID:      id,
		Reason:    reason,
		Link:      cols.get(row, "case link"),
		Created:   created,
		Expires:   expires,
		CreatedBy: cols.get(row, "banned by"),
	}
	if err := entry.Validate(); err != nil {
		return domain.BanEntry{}, err
	}
	return entry, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseExpiry(raw string, created time.Time) (time.Time, error) {
	switch strings.ToLower(raw) {
	case "", "never", "permanent", "perma":
		return permanentExpiry, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !t.After(created) {
		return time.Time{}, fmt.Errorf("expiry %s is not after ban date %s", t.Format("2006-01-02"), created.Format("2006-01-02"))
	}
	return t, nil
}
