package table

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is reserved for formats the reader cannot handle.
// The tab-separated fallback currently applies to every unrecognized
// suffix, so ReadFile never returns it.
var ErrUnsupportedFormat = errors.New("table: unsupported format")

// ReadFile infers the file format from its name suffix and parses it.
// Dispatch order: compression suffix first (decompress, then re-evaluate
// the inner suffix), then tab-delimited suffixes, comma-delimited,
// spreadsheet, and finally a permissive tab-separated fallback for files
// with no extension or a nonstandard one.
func ReadFile(path string) (*Table, error) {
	name := strings.ToLower(filepath.Base(path))

	if strings.HasSuffix(name, ".gz") {
		return readCompressed(path, strings.TrimSuffix(name, ".gz"))
	}

	switch {
	case strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".tsv"):
		return readDelimitedFile(path, '\t')
	case strings.HasSuffix(name, ".csv"):
		return readDelimitedFile(path, ',')
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return readWorkbook(path)
	default:
		return readDelimitedFile(path, '\t')
	}
}

func readCompressed(path, innerName string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
	}
	defer zr.Close()

	delim := '\t'
	if strings.HasSuffix(innerName, ".csv") {
		delim = ','
	}
	return readDelimited(zr, delim)
}

func readDelimitedFile(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readDelimited(f, delim)
}

// readDelimited streams records without pre-declaring a row count.
// Ragged rows and loose quoting are common in pipeline exports, so both
// are tolerated.
func readDelimited(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, record)
	}

	return build(header, records), nil
}

// readWorkbook parses the first sheet of a spreadsheet workbook using the
// streaming row iterator.
func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return &Table{}, nil
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(cols) == 0 {
			continue
		}
		records = append(records, cols)
	}

	return build(header, records), nil
}
