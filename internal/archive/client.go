// Package archive talks to the remote file repository: it lists a
// project's files and picks the one best representing its results table.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"protex/internal/core/types"
	"protex/internal/transport"
)

// ErrProjectNotFound reports an accession the archive does not know.
var ErrProjectNotFound = errors.New("archive: project not found")

// Client queries the archive's per-project file listing API.
type Client struct {
	baseURL      string
	httpTransfer *transport.HTTPTransfer
}

type ClientOption func(*Client)

func ClientWithTransfer(ht *transport.HTTPTransfer) ClientOption {
	return func(c *Client) {
		c.httpTransfer = ht
	}
}

// NewClient creates a listing client against the given API base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpTransfer: transport.NewHTTPTransfer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListFiles retrieves the file listing for the given project accession.
// Listing rows without a file name are dropped so every returned
// descriptor has a usable name.
func (c *Client) ListFiles(ctx context.Context, accession string) ([]types.FileDescriptor, error) {
	listURL := fmt.Sprintf("%s/file/byProject?accession=%s", c.baseURL, url.QueryEscape(accession))

	var files []types.FileDescriptor

	callback := func(resp *http.Response) error {
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: %w", accession, ErrProjectNotFound)
		}

		var listing []types.FileDescriptor
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			return fmt.Errorf("decode listing: %w", err)
		}

		files = make([]types.FileDescriptor, 0, len(listing))
		for _, fd := range listing {
			if fd.Name == "" {
				continue
			}
			files = append(files, fd)
		}
		return nil
	}

	headers := transport.HTTPRequestHeaders(map[string]string{"Accept": "application/json"})
	if err := c.httpTransfer.Get(ctx, listURL, callback, headers); err != nil {
		return nil, err
	}
	return files, nil
}
