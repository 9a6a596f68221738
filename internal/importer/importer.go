package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"open-producten/internal/domain"
)

const (
	columnURI  = "URI"
	columnName = "UniformeProductnaam"
)

// UPNWriter replaces the stored uniform product name list.
type UPNWriter interface {
	Sync(ctx context.Context, entries []domain.UniformProductName) (int, error)
}

// CSVImporter reads the national uniform product name list and syncs it into
// the catalog.
type CSVImporter struct {
	reader *csv.Reader
	repo   UPNWriter
}

func NewCSVImporter(r io.Reader, repo UPNWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.LazyQuotes = true
	return &CSVImporter{reader: csvr, repo: repo}
}

// Result summarizes an import run.
type Result struct {
	Read    int
	Created int
}

// Run parses every row and syncs the list in one go. Entries absent from the
// file are marked deleted by the writer, so a failed parse writes nothing.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{columnURI, columnName} {
		if _, ok := index[col]; !ok {
			return Result{}, fmt.Errorf("missing column %q", col)
		}
	}

	var (
		entries []domain.UniformProductName
		seen    = map[string]int{}
		line    = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Result{}, fmt.Errorf("read row %d: %w", line, err)
		}

		uri := pick(record, index, columnURI)
		name := pick(record, index, columnName)
		if uri == "" && name == "" {
			continue
		}
		if uri == "" || name == "" {
			return Result{}, fmt.Errorf("row %d: %s and %s are required", line, columnURI, columnName)
		}
		// last row wins for repeated uris
		if pos, dup := seen[uri]; dup {
			entries[pos].Name = name
			continue
		}
		seen[uri] = len(entries)
		entries = append(entries, domain.UniformProductName{URI: uri, Name: name})
	}

	created, err := i.repo.Sync(ctx, entries)
	if err != nil {
		return Result{}, fmt.Errorf("sync uniform product names: %w", err)
	}
	return Result{Read: len(entries), Created: created}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
