package archive

import (
	"errors"
	"testing"

	"protex/internal/core/types"
)

func fd(name string, size uint64) types.FileDescriptor {
	return types.FileDescriptor{
		Name:        name,
		Size:        types.Bytes(size),
		DownloadURL: "https://example.org/" + name,
	}
}

func TestSelectTableEligibility(t *testing.T) {
	files := []types.FileDescriptor{
		fd("readme.txt", 500),       // below size threshold
		fd("raw_data.zip", 900_000), // unrecognized suffix
		fd("protein_quant.tsv", 200_000),
	}

	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "protein_quant.tsv" {
		t.Fatalf("expected protein_quant.tsv, got %s", best.Name)
	}
}

func TestSelectTableThresholdIsStrict(t *testing.T) {
	files := []types.FileDescriptor{
		fd("results.csv", 50_000), // exactly at the threshold, not above
	}

	if _, err := SelectTable(files, ""); !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}

	files[0].Size++
	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "results.csv" {
		t.Fatalf("expected results.csv, got %s", best.Name)
	}
}

func TestSelectTableKeywordPrecedence(t *testing.T) {
	// "diann" is a later keyword than "protein"; the earlier keyword must
	// win regardless of listing order or size.
	files := []types.FileDescriptor{
		fd("diann_report.tsv", 900_000),
		fd("proteinGroups.txt", 100_000),
	}

	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "proteinGroups.txt" {
		t.Fatalf("expected proteinGroups.txt, got %s", best.Name)
	}
}

func TestSelectTableKeywordBeforeSize(t *testing.T) {
	files := []types.FileDescriptor{
		fd("huge_unnamed_table.tsv", 5_000_000),
		fd("abundance_matrix.csv", 60_000),
	}

	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "abundance_matrix.csv" {
		t.Fatalf("expected abundance_matrix.csv, got %s", best.Name)
	}
}

func TestSelectTableFallbackToLargest(t *testing.T) {
	files := []types.FileDescriptor{
		fd("table_a.tsv", 100_000),
		fd("table_b.tsv", 300_000),
		fd("table_c.tsv", 300_000), // same size, later in the listing
	}

	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "table_b.tsv" {
		t.Fatalf("expected first-of-largest table_b.tsv, got %s", best.Name)
	}
}

func TestSelectTablePatternNarrows(t *testing.T) {
	files := []types.FileDescriptor{
		fd("proteinGroups.txt", 100_000),
		fd("peptides_filtered.tsv", 100_000),
	}

	best, err := SelectTable(files, "PEPTIDES")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "peptides_filtered.tsv" {
		t.Fatalf("expected peptides_filtered.tsv, got %s", best.Name)
	}
}

func TestSelectTablePatternMissFallsBack(t *testing.T) {
	files := []types.FileDescriptor{
		fd("proteinGroups.txt", 100_000),
		fd("other_table.tsv", 900_000),
	}

	withPattern, err := SelectTable(files, "nomatch")
	if err != nil {
		t.Fatalf("SelectTable with pattern failed: %v", err)
	}
	withoutPattern, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable without pattern failed: %v", err)
	}
	if withPattern.Name != withoutPattern.Name {
		t.Fatalf("pattern miss changed selection: %s vs %s", withPattern.Name, withoutPattern.Name)
	}
}

func TestSelectTableCompressedSuffixes(t *testing.T) {
	files := []types.FileDescriptor{
		fd("quant_table.TSV.GZ", 100_000),
	}

	best, err := SelectTable(files, "")
	if err != nil {
		t.Fatalf("SelectTable failed: %v", err)
	}
	if best.Name != "quant_table.TSV.GZ" {
		t.Fatalf("expected compressed table, got %s", best.Name)
	}
}

func TestSelectTableEmptyListing(t *testing.T) {
	if _, err := SelectTable(nil, ""); !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
}
