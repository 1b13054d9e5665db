// Package download streams remote files to local paths, optionally
// through the name-keyed cache.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"protex/internal/cache"
	"protex/internal/core/progress"
	"protex/internal/core/types"
	"protex/internal/transport"
)

// ErrDownload reports a failed transfer: network error, timeout or
// non-success response status.
var ErrDownload = errors.New("download: transfer failed")

const DefaultTimeout = 5 * time.Minute

type Option func(*Downloader)

// WithCache enables cache-aware fetching. Without it every fetch writes
// to a fresh temporary file.
func WithCache(c *cache.Cache) Option {
	return func(d *Downloader) {
		d.cache = c
	}
}

func WithTransfer(ht *transport.HTTPTransfer) Option {
	return func(d *Downloader) {
		d.httpTransfer = ht
	}
}

func WithS3Transfer(st *transport.S3Transfer) Option {
	return func(d *Downloader) {
		d.s3Transfer = st
	}
}

func WithLimiter(limiter *types.RateLimiter) Option {
	return func(d *Downloader) {
		d.limiter = limiter
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) {
		d.timeout = timeout
	}
}

func WithProgress(p *progress.Progress) Option {
	return func(d *Downloader) {
		d.progress = p
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(d *Downloader) {
		d.log = log
	}
}

// Downloader fetches listing entries one at a time. No retries and no
// partial-write recovery: a mid-stream failure leaves a truncated file
// at the destination.
type Downloader struct {
	cache        *cache.Cache
	httpTransfer *transport.HTTPTransfer
	s3Transfer   *transport.S3Transfer
	limiter      *types.RateLimiter
	timeout      time.Duration
	progress     *progress.Progress
	log          *slog.Logger
}

func New(opts ...Option) *Downloader {
	d := &Downloader{
		httpTransfer: transport.NewHTTPTransfer(),
		limiter:      types.DefaultRateLimiter(),
		timeout:      DefaultTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch returns a local path holding the descriptor's content. With a
// cache attached, an existing entry under the same name is returned
// without touching the network; the hit is by name only, never verified
// against content.
func (d *Downloader) Fetch(ctx context.Context, fd types.FileDescriptor) (string, error) {
	if d.cache != nil && d.cache.Has(fd.Name) {
		path := d.cache.Path(fd.Name)
		d.log.Info("using cached file", "name", fd.Name, "path", path)
		return path, nil
	}

	u, err := url.Parse(fd.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid download link %q", ErrDownload, fd.DownloadURL)
	}

	ctx, cancel := types.NewTimeoutSubContext(ctx, d.timeout)
	defer cancel()

	d.log.Info("downloading", "name", fd.Name, "size", fd.Size.String())

	var path string
	if u.Scheme == "s3" {
		path, err = d.fetchS3(ctx, u, fd)
	} else {
		path, err = d.fetchHTTP(ctx, fd)
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w: %v", fd.Name, ErrDownload, err)
	}

	return path, nil
}

// createDest opens the destination file: the cache location when caching
// is enabled, otherwise a throwaway temporary file whose name keeps the
// remote suffix so format inference still works. It must only be called
// once the remote response is known good, so a failed request never
// plants an empty cache entry that later fetches would treat as a hit.
func (d *Downloader) createDest(name string) (*os.File, error) {
	if d.cache != nil {
		return os.Create(d.cache.Path(name))
	}
	return os.CreateTemp("", "protex-*-"+filepath.Base(name))
}

func (d *Downloader) fetchHTTP(ctx context.Context, fd types.FileDescriptor) (string, error) {
	var path string

	callback := func(resp *http.Response) error {
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &transport.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		}

		dest, err := d.createDest(fd.Name)
		if err != nil {
			return err
		}
		defer dest.Close()
		path = dest.Name()

		size := resp.ContentLength
		if size < 0 {
			size = fd.Size.Int64()
		}
		return d.stream(ctx, resp.Body, dest, fd.Name, size)
	}

	if err := d.httpTransfer.Get(ctx, fd.DownloadURL, callback); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Downloader) fetchS3(ctx context.Context, u *url.URL, fd types.FileDescriptor) (string, error) {
	if d.s3Transfer == nil {
		return "", fmt.Errorf("no s3 transfer configured for %s", fd.DownloadURL)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	var path string
	err := d.s3Transfer.Get(ctx, bucket, key, func(body io.ReadCloser, size int64) error {
		defer body.Close()

		dest, err := d.createDest(fd.Name)
		if err != nil {
			return err
		}
		defer dest.Close()
		path = dest.Name()

		if size < 0 {
			size = fd.Size.Int64()
		}
		return d.stream(ctx, body, dest, fd.Name, size)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// stream copies the response body to the destination in fixed-size
// chunks, applying the rate limit and driving the progress bar.
func (d *Downloader) stream(ctx context.Context, body io.Reader, dest *os.File, name string, size int64) error {
	rwOpts := []types.RWOption{
		types.RWWithIOReader(body),
		types.RWWithIOWriter(dest),
		types.RWWithReadLimiter(d.limiter),
	}

	var bar *progress.Bar
	if d.progress != nil {
		bar = d.progress.AddBar(name, size)
		rwOpts = append(rwOpts, types.RWWithReaderCallback(func(n int64) {
			bar.Inc(n)
		}))
	}

	rw := types.NewReaderWriter(rwOpts...)
	n, err := rw.Transfer(ctx)
	if bar != nil {
		if err != nil {
			bar.Abort()
		} else {
			bar.Done()
		}
	}
	if err != nil {
		return err
	}

	d.log.Debug("transfer complete", "name", name, "bytes", n)
	return nil
}
