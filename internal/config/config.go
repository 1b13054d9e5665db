package config

import (
	"os"
	"path/filepath"
	"time"

	"protex/internal/core/types"
)

const (
	// DefaultSheetID is the published catalog spreadsheet.
	DefaultSheetID = "1M6hc3vmk1bNchMvEwXsIyyO5iq3mAzP877HTXzhzg38"

	// DefaultArchiveURL is the PRIDE archive REST API base.
	DefaultArchiveURL = "https://www.ebi.ac.uk/pride/ws/archive/v2"

	DefaultCatalogTimeout  = 30 * time.Second
	DefaultDownloadTimeout = 5 * time.Minute
)

// Config is the top-level configuration structure.
type Config struct {
	Debug bool `yaml:"debug"`

	// Catalog settings
	CatalogSheetID string `yaml:"catalog_sheet_id"` // Published spreadsheet ID
	CatalogURL     string `yaml:"catalog_url"`      // Full CSV export URL, overrides the sheet ID when set
	CatalogTimeout string `yaml:"catalog_timeout"`  // Timeout for catalog and listing requests

	// Archive settings
	ArchiveURL string `yaml:"archive_url"` // File listing API base URL

	// Download settings
	CacheDir        string      `yaml:"cache_dir"`        // Flat directory for cached downloads
	DownloadTimeout string      `yaml:"download_timeout"` // Upper bound on a whole transfer
	RateLimit       types.Bytes `yaml:"rate_limit"`       // Download rate limit, 0 = unlimited
	S3Region        string      `yaml:"s3_region"`        // Region for s3:// download links
	S3Endpoint      string      `yaml:"s3_endpoint"`      // Custom endpoint for S3-compatible mirrors
	NoProgress      bool        `yaml:"no_progress"`      // Disable the transfer bar
}

// DefaultConfig returns a config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		CatalogSheetID: DefaultSheetID,
		ArchiveURL:     DefaultArchiveURL,
		CacheDir:       DefaultCacheDir(),
		S3Region:       "us-east-1",
	}
}

// DefaultCacheDir is a flat cache directory under the user's home,
// falling back to the system temp directory when home is unknown.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "protex-cache")
	}
	return filepath.Join(home, ".protex-cache")
}

// CatalogExportURL resolves the effective catalog CSV endpoint.
func (c *Config) CatalogExportURL() string {
	if c.CatalogURL != "" {
		return c.CatalogURL
	}
	return "https://docs.google.com/spreadsheets/d/" + c.CatalogSheetID + "/export?format=csv"
}

// CatalogTimeoutDuration returns the catalog timeout with fallback to the default.
func (c *Config) CatalogTimeoutDuration() time.Duration {
	return ParseDuration(c.CatalogTimeout, DefaultCatalogTimeout)
}

// DownloadTimeoutDuration returns the download timeout with fallback to the default.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	return ParseDuration(c.DownloadTimeout, DefaultDownloadTimeout)
}

// ParseDuration parses a duration string with fallback to default.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	if dur, err := time.ParseDuration(durationStr); err == nil {
		return dur
	}
	return defaultDuration
}
