package table

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestReadCSVRoundTrip(t *testing.T) {
	path := writeFile(t, "data.csv", "Protein,Abundance,Tissue\nP12345,1.5,liver\nQ67890,2.25,brain\nA11111,,heart\n")

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if tbl.NumRows() != 3 || tbl.NumCols() != 3 {
		t.Fatalf("expected 3×3, got %d×%d", tbl.NumRows(), tbl.NumCols())
	}

	names := tbl.ColumnNames()
	want := []string{"Protein", "Abundance", "Tissue"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("column %d: expected %s, got %s", i, name, names[i])
		}
	}
}

func TestReadTSV(t *testing.T) {
	path := writeFile(t, "data.tsv", "id\tvalue\nx\t1\ny\t2\n")

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if tbl.NumRows() != 2 || tbl.NumCols() != 2 {
		t.Fatalf("expected 2×2, got %d×%d", tbl.NumRows(), tbl.NumCols())
	}
}

func TestReadGzipTransparency(t *testing.T) {
	content := "id\tvalue\nx\t1\ny\t2\nz\t3\n"
	plain := writeFile(t, "data.tsv", content)

	dir := t.TempDir()
	compressed := filepath.Join(dir, "data.tsv.gz")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatalf("failed to create gz file: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write gz content: %v", err)
	}
	zw.Close()
	f.Close()

	plainTable, err := ReadFile(plain)
	if err != nil {
		t.Fatalf("read plain failed: %v", err)
	}
	gzTable, err := ReadFile(compressed)
	if err != nil {
		t.Fatalf("read compressed failed: %v", err)
	}

	if gzTable.NumRows() != plainTable.NumRows() || gzTable.NumCols() != plainTable.NumCols() {
		t.Fatalf("compressed table %d×%d differs from plain %d×%d",
			gzTable.NumRows(), gzTable.NumCols(), plainTable.NumRows(), plainTable.NumCols())
	}
	for i, row := range plainTable.Rows {
		for j, cell := range row {
			if gzTable.Rows[i][j] != cell {
				t.Fatalf("cell (%d,%d) differs: %v vs %v", i, j, gzTable.Rows[i][j], cell)
			}
		}
	}
}

func TestReadUnknownSuffixFallsBackToTab(t *testing.T) {
	path := writeFile(t, "proteinGroups", "id\tvalue\nx\t1\n")

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if tbl.NumCols() != 2 {
		t.Fatalf("fallback did not parse as tab-separated: %d columns", tbl.NumCols())
	}
}

func TestColumnTypeInference(t *testing.T) {
	path := writeFile(t, "typed.csv", "name,score,note\na,1.5,\nb,2,fine\nc,,\n")

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if tbl.Columns[0].Numeric {
		t.Fatal("name column inferred numeric")
	}
	if !tbl.Columns[1].Numeric {
		t.Fatal("score column not inferred numeric despite missing values")
	}
	if tbl.Columns[2].Numeric {
		t.Fatal("note column inferred numeric")
	}

	if tbl.Rows[0][1].Kind != KindFloat || tbl.Rows[0][1].Num != 1.5 {
		t.Fatalf("unexpected cell: %+v", tbl.Rows[0][1])
	}
	if tbl.Rows[2][1].Kind != KindMissing {
		t.Fatalf("empty cell not missing: %+v", tbl.Rows[2][1])
	}
}

func TestReadRaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.tsv", "a\tb\tc\n1\t2\n1\t2\t3\t4\n")

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if tbl.NumRows() != 2 || tbl.NumCols() != 3 {
		t.Fatalf("expected 2×3, got %d×%d", tbl.NumRows(), tbl.NumCols())
	}
	if tbl.Rows[0][2].Kind != KindMissing {
		t.Fatal("short row not padded with missing")
	}
}

func TestReadWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Protein", "Intensity"},
		{"P12345", 10.5},
		{"Q67890", 20.0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("bad coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	f.Close()

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if tbl.NumRows() != 2 || tbl.NumCols() != 2 {
		t.Fatalf("expected 2×2, got %d×%d", tbl.NumRows(), tbl.NumCols())
	}
	if !tbl.Columns[1].Numeric {
		t.Fatal("intensity column not inferred numeric")
	}
}
