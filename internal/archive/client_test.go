package archive

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"protex/internal/core/types"
)

func newListingServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/file/byProject", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("accession") {
		case "PXD000001":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"fileName":"proteinGroups.txt","fileType":"SEARCH","fileSizeBytes":204800,"downloadLink":"https://example.org/proteinGroups.txt"},
				{"fileName":"","fileType":"RAW","fileSizeBytes":1024,"downloadLink":"https://example.org/unnamed"},
				{"fileName":"sample.raw","fileType":"RAW","fileSizeBytes":9000000,"downloadLink":"https://example.org/sample.raw"}
			]`))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListFiles(t *testing.T) {
	srv := newListingServer(t)
	client := NewClient(srv.URL)

	files, err := client.ListFiles(t.Context(), "PXD000001")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	// The unnamed row must be dropped.
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Name != "proteinGroups.txt" {
		t.Fatalf("unexpected first file: %s", files[0].Name)
	}
	if files[0].Size != types.Bytes(204800) {
		t.Fatalf("unexpected size: %d", files[0].Size)
	}
	if files[1].MediaType != "RAW" {
		t.Fatalf("unexpected media type: %s", files[1].MediaType)
	}
}

func TestListFilesUnknownProject(t *testing.T) {
	srv := newListingServer(t)
	client := NewClient(srv.URL)

	_, err := client.ListFiles(t.Context(), "UNKNOWN123")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
