package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// Ref points at one column of a CSV file.
type Ref struct {
	Location string `yaml:"path" json:"path"`
	Column   string `yaml:"column,omitempty" json:"column,omitempty"`
}

// ParseRef parses "location[:column]". The column is split off at the last
// colon unless what follows contains a slash (so "az://acct/c/f.csv" keeps
// its scheme). defaultColumn is used when no column is given.
func ParseRef(s, defaultColumn string) Ref {
	if i := strings.LastIndex(s, ":"); i > 0 && !strings.ContainsAny(s[i+1:], `/\`) && i < len(s)-1 {
		return Ref{Location: s[:i], Column: s[i+1:]}
	}
	return Ref{Location: s, Column: defaultColumn}
}

func (r Ref) String() string {
	return r.Location + ":" + r.Column
}

// ReadCSV parses CSV from r and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func ReadCSV(r io.Reader, name string) ([]Row, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", name)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[strings.TrimSpace(h)] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadCSV opens location through the loader and parses it.
func (l *Loader) LoadCSV(ctx context.Context, location string) ([]Row, error) {
	rc, err := l.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	return ReadCSV(rc, location)
}

// Column extracts a single column from rows.
func Column(rows []Row, name string) ([]string, error) {
	out := make([]string, len(rows))
	for i, row := range rows {
		v, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("csv: column %q not found", name)
		}
		out[i] = v
	}
	return out, nil
}

// LoadColumn loads the column named by ref.
func (l *Loader) LoadColumn(ctx context.Context, ref Ref) ([]string, error) {
	rows, err := l.LoadCSV(ctx, ref.Location)
	if err != nil {
		return nil, err
	}
	values, err := Column(rows, ref.Column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Location, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("csv: %s has no data rows", ref.Location)
	}

	slog.Debug("Loaded column", "location", ref.Location, "column", ref.Column, "rows", len(values))
	return values, nil
}

// LoadColumns loads every ref concurrently, preserving order.
func (l *Loader) LoadColumns(ctx context.Context, refs []Ref) ([][]string, error) {
	out := make([][]string, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			values, err := l.LoadColumn(ctx, ref)
			if err != nil {
				return err
			}
			out[i] = values
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
