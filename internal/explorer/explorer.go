// Package explorer wires the pipeline together: catalog lookup, file
// listing, selection, cache-aware download and table parsing.
package explorer

import (
	"context"
	"fmt"
	"os"

	"protex/internal/archive"
	"protex/internal/cache"
	"protex/internal/catalog"
	"protex/internal/config"
	"protex/internal/core/logger"
	"protex/internal/core/progress"
	"protex/internal/core/types"
	"protex/internal/download"
	"protex/internal/table"
	"protex/internal/transport"
)

type Option func(*Explorer)

func WithLogger(log *logger.Logger) Option {
	return func(e *Explorer) {
		e.log = log
	}
}

// WithCacheDisabled makes every load write to a temporary file that is
// deleted right after parsing.
func WithCacheDisabled() Option {
	return func(e *Explorer) {
		e.useCache = false
	}
}

// Explorer is the resolver facade. All remote calls are synchronous and
// block until completion or timeout; there is no retry anywhere.
type Explorer struct {
	cfg      *config.Config
	log      *logger.Logger
	useCache bool

	catalog    *catalog.Catalog
	archive    *archive.Client
	downloader *download.Downloader
	cache      *cache.Cache
	progress   *progress.Progress
}

// New constructs an explorer. The catalog is fetched here; if that
// fails the explorer cannot be built at all.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Explorer, error) {
	e := &Explorer{
		cfg:      cfg,
		useCache: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.NewLogger()
	}

	ht := transport.NewHTTPTransfer()

	catalogCtx, cancel := types.NewTimeoutSubContext(ctx, cfg.CatalogTimeoutDuration())
	defer cancel()

	cat, err := catalog.Fetch(catalogCtx, ht, cfg.CatalogExportURL())
	if err != nil {
		return nil, err
	}
	e.catalog = cat
	e.log.Info("catalog loaded", "projects", cat.Len())

	e.archive = archive.NewClient(cfg.ArchiveURL, archive.ClientWithTransfer(ht))

	downloadOpts := []download.Option{
		download.WithTransfer(ht),
		download.WithLimiter(types.NewRateLimiter(cfg.RateLimit)),
		download.WithTimeout(cfg.DownloadTimeoutDuration()),
		download.WithLogger(e.log.WithGroup("download").Logger),
	}

	if e.useCache {
		fileCache, err := cache.New(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		e.cache = fileCache
		downloadOpts = append(downloadOpts, download.WithCache(fileCache))
	}

	s3Opts := []transport.S3TransferOption{transport.S3WithRegion(cfg.S3Region)}
	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, transport.S3WithEndpoint(cfg.S3Endpoint))
	}
	if st, err := transport.NewS3Transfer(s3Opts...); err == nil {
		downloadOpts = append(downloadOpts, download.WithS3Transfer(st))
	} else {
		e.log.Warn("s3 transfer unavailable", "error", err)
	}

	if !cfg.NoProgress {
		e.progress = progress.NewProgress()
		downloadOpts = append(downloadOpts, download.WithProgress(e.progress))
	}

	e.downloader = download.New(downloadOpts...)
	return e, nil
}

// Close shuts down the progress display, blocking until any remaining
// bar has finished rendering. Call it once, after the last load.
func (e *Explorer) Close() {
	if e.progress != nil {
		e.progress.Wait()
	}
}

// Projects returns the filtered catalog listing.
func (e *Explorer) Projects(f catalog.Filter) catalog.View {
	return e.catalog.Projects(f)
}

// Info returns one catalog entry as a key-value mapping.
func (e *Explorer) Info(identifier string) (map[string]string, error) {
	return e.catalog.Info(identifier)
}

// Tissues returns the sorted distinct tissue values in the catalog.
func (e *Explorer) Tissues() []string {
	return e.catalog.Tissues()
}

// Organisms returns the sorted distinct organism values in the catalog.
func (e *Explorer) Organisms() []string {
	return e.catalog.Organisms()
}

// ListFiles returns the project's remote file listing without selecting
// or downloading anything.
func (e *Explorer) ListFiles(ctx context.Context, identifier string) ([]types.FileDescriptor, error) {
	ctx, cancel := types.NewTimeoutSubContext(ctx, e.cfg.CatalogTimeoutDuration())
	defer cancel()
	return e.archive.ListFiles(ctx, identifier)
}

// Load resolves the identifier to its best results file, fetches it and
// parses it into a table. With caching disabled the downloaded file is
// removed as soon as it has been parsed.
func (e *Explorer) Load(ctx context.Context, identifier, namePattern string) (*table.Table, error) {
	e.log.Info("loading project", "accession", identifier)

	files, err := e.ListFiles(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: empty listing: %w", identifier, archive.ErrProjectNotFound)
	}

	best, err := archive.SelectTable(files, namePattern)
	if err != nil {
		return nil, err
	}
	e.log.Info("selected file", "name", best.Name, "size", best.Size.String())

	path, err := e.downloader.Fetch(ctx, best)
	if err != nil {
		return nil, err
	}

	tbl, err := table.ReadFile(path)

	if !e.useCache {
		if rmErr := os.Remove(path); rmErr != nil {
			e.log.Warn("failed to remove temporary file", "path", path, "error", rmErr)
		}
	}

	if err != nil {
		return nil, err
	}

	e.log.Info("table ready", "rows", tbl.NumRows(), "columns", tbl.NumCols())
	return tbl, nil
}

// ClearCache deletes all cached downloads and recreates the empty root.
// It works even when this explorer was built with caching disabled.
func (e *Explorer) ClearCache() error {
	fileCache := e.cache
	if fileCache == nil {
		var err error
		fileCache, err = cache.New(e.cfg.CacheDir)
		if err != nil {
			return err
		}
	}
	if err := fileCache.Clear(); err != nil {
		return err
	}
	e.log.Info("cache cleared", "root", fileCache.Root())
	return nil
}
