// Package catalog reads the curated project index: a spreadsheet
// published as CSV with one row per archive project. The catalog is
// fetched once at construction and queried in memory after that.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"protex/internal/transport"
)

var (
	// ErrUnavailable reports a catalog fetch or parse failure. There is
	// no degraded mode; construction fails outright.
	ErrUnavailable = errors.New("catalog: unavailable")

	// ErrProjectNotFound reports an identifier absent from the catalog.
	ErrProjectNotFound = errors.New("catalog: project not found")
)

// Well-known catalog columns. Only Identifier and Title are guaranteed;
// everything else is optional and filters degrade to no-ops without it.
const (
	ColIdentifier = "Identifier"
	ColTitle      = "Title"
	ColTissue     = "Tissue / Cell type (detailed)"
	ColOrganism   = "Organism"
	ColSamples    = "TOTAL SAMPLES"
)

// Catalog holds the parsed project index.
type Catalog struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Fetch retrieves and parses the catalog CSV export.
func Fetch(ctx context.Context, ht *transport.HTTPTransfer, url string) (*Catalog, error) {
	var cat *Catalog

	callback := func(resp *http.Response) error {
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &transport.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		}

		parsed, err := parse(resp.Body)
		if err != nil {
			return err
		}
		cat = parsed
		return nil
	}

	if err := ht.Get(ctx, url, callback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return cat, nil
}

func parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		rows = append(rows, record)
	}

	return &Catalog{header: header, index: index, rows: rows}, nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.rows)
}

func (c *Catalog) cell(row []string, col string) string {
	i, ok := c.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Filter narrows the project listing. All text filters are
// case-insensitive substring matches; Limit <= 0 returns everything.
type Filter struct {
	Search   string // matches against Title
	Tissue   string
	Organism string
	Limit    int
}

// View is an ordered projection of catalog rows.
type View struct {
	Columns []string
	Rows    [][]string
}

// Projects returns the filtered project listing restricted to the
// display columns present in this catalog.
func (c *Catalog) Projects(f Filter) View {
	display := []string{ColIdentifier, ColTitle, ColTissue, ColOrganism, ColSamples}
	var columns []string
	for _, col := range display {
		if _, ok := c.index[col]; ok {
			columns = append(columns, col)
		}
	}

	view := View{Columns: columns}
	for _, row := range c.rows {
		if !contains(c.cell(row, ColTitle), f.Search) {
			continue
		}
		if !contains(c.cell(row, ColTissue), f.Tissue) {
			continue
		}
		if !contains(c.cell(row, ColOrganism), f.Organism) {
			continue
		}

		projected := make([]string, len(columns))
		for i, col := range columns {
			projected[i] = c.cell(row, col)
		}
		view.Rows = append(view.Rows, projected)

		if f.Limit > 0 && len(view.Rows) >= f.Limit {
			break
		}
	}
	return view
}

// contains reports whether s contains the filter substring, ignoring
// case. An empty filter matches everything.
func contains(s, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(filter))
}

// Info returns one catalog entry as a column→value map, dropping empty
// values.
func (c *Catalog) Info(identifier string) (map[string]string, error) {
	for _, row := range c.rows {
		if c.cell(row, ColIdentifier) != identifier {
			continue
		}
		info := make(map[string]string)
		for _, col := range c.header {
			if v := c.cell(row, col); v != "" {
				info[col] = v
			}
		}
		return info, nil
	}
	return nil, fmt.Errorf("%s: %w", identifier, ErrProjectNotFound)
}

// Tissues returns the sorted distinct tissue values.
func (c *Catalog) Tissues() []string {
	return c.distinct(ColTissue)
}

// Organisms returns the sorted distinct organism values.
func (c *Catalog) Organisms() []string {
	return c.distinct(ColOrganism)
}

func (c *Catalog) distinct(col string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, row := range c.rows {
		v := c.cell(row, col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
