package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"protex/internal/cache"
	"protex/internal/catalog"
	"protex/internal/config"
	"protex/internal/core/logger"
	"protex/internal/core/types"
	"protex/internal/explorer"
	"protex/internal/table"

	"github.com/alecthomas/kong"
)

type ProjectsCmd struct {
	Search   string `short:"s" long:"search" help:"Filter by title substring"`
	Tissue   string `short:"t" long:"tissue" help:"Filter by tissue / cell type substring"`
	Organism string `short:"o" long:"organism" help:"Filter by organism substring"`
	Limit    int    `short:"l" long:"limit" help:"Maximum number of rows to show"`
}

type InfoCmd struct {
	Accession string `arg:"" help:"Project accession (e.g. PXD004732)"`
}

type FilesCmd struct {
	Accession string `arg:"" help:"Project accession"`
}

type LoadCmd struct {
	Accession string `arg:"" help:"Project accession"`
	Pattern   string `short:"p" long:"pattern" help:"Prefer files whose name contains this text"`
	Out       string `short:"O" long:"out" help:"Write the parsed table to this CSV file"`
	Preview   int    `long:"preview" default:"10" help:"Rows to print when no output file is given"`
}

type TissuesCmd struct{}

type OrganismsCmd struct{}

type ClearCacheCmd struct{}

type CLI struct {
	Config     string `short:"c" long:"config" help:"Path to YAML config file"`
	Debug      bool   `long:"debug" help:"Enable debug logging"`
	Quiet      bool   `short:"q" long:"quiet" help:"Only log warnings and errors"`
	NoCache    bool   `long:"no-cache" help:"Do not keep downloaded files"`
	NoProgress bool   `long:"no-progress" help:"Disable the download progress bar"`

	Projects   ProjectsCmd   `cmd:"projects" help:"List catalog projects"`
	Info       InfoCmd       `cmd:"info" help:"Show one project's catalog entry"`
	Files      FilesCmd      `cmd:"files" help:"List a project's remote files"`
	Load       LoadCmd       `cmd:"load" help:"Download and parse a project's results table"`
	Tissues    TissuesCmd    `cmd:"tissues" help:"List distinct tissue values"`
	Organisms  OrganismsCmd  `cmd:"organisms" help:"List distinct organism values"`
	ClearCache ClearCacheCmd `cmd:"clear-cache" help:"Delete all cached downloads"`
}

func (c *CLI) loadConfig() *config.Config {
	cfg := config.DefaultConfig()
	config.LoadYAMLWithDefaults(c.Config, cfg)
	if c.Debug {
		cfg.Debug = true
	}
	if c.NoProgress {
		cfg.NoProgress = true
	}
	return cfg
}

func (c *CLI) newLogger(cfg *config.Config) *logger.Logger {
	level := logger.LevelInfo
	if c.Quiet {
		level = logger.LevelWarn
	}
	if cfg.Debug {
		level = logger.LevelDebug
	}
	// Loggers constructed elsewhere without an explicit level pick up the
	// flag-selected one too.
	logger.SetDefaultLevel(level)
	return logger.NewLogger(logger.WithLevel(level))
}

func (c *CLI) newExplorer(ctx context.Context) (*explorer.Explorer, error) {
	cfg := c.loadConfig()
	opts := []explorer.Option{explorer.WithLogger(c.newLogger(cfg))}
	if c.NoCache {
		opts = append(opts, explorer.WithCacheDisabled())
	}
	return explorer.New(ctx, cfg, opts...)
}

func (c *ProjectsCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}

	view := exp.Projects(catalog.Filter{
		Search:   c.Search,
		Tissue:   c.Tissue,
		Organism: c.Organism,
		Limit:    c.Limit,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(view.Columns, "\t"))
	for _, row := range view.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	fmt.Printf("\n%d projects\n", len(view.Rows))
	return nil
}

func (c *InfoCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}

	info, err := exp.Info(c.Accession)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, key := range sortedKeys(info) {
		fmt.Fprintf(w, "%s\t%s\n", key, info[key])
	}
	return w.Flush()
}

func (c *FilesCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}

	files, err := exp.ListFiles(ctx, c.Accession)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE")
	for _, fd := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\n", fd.Name, fd.MediaType, fd.Size)
	}
	w.Flush()

	fmt.Printf("\n%d files\n", len(files))
	return nil
}

func (c *LoadCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}
	defer exp.Close()

	tbl, err := exp.Load(ctx, c.Accession, c.Pattern)
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := writeCSV(c.Out, tbl); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows × %d columns to %s\n", tbl.NumRows(), tbl.NumCols(), c.Out)
		return nil
	}

	printPreview(tbl, c.Preview)
	return nil
}

func (c *TissuesCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}

	for _, tissue := range exp.Tissues() {
		fmt.Println(tissue)
	}
	return nil
}

func (c *OrganismsCmd) Run(cliRoot *CLI) error {
	ctx, cancel := types.DefaultSignalNotifySubContext()
	defer cancel()

	exp, err := cliRoot.newExplorer(ctx)
	if err != nil {
		return err
	}

	for _, organism := range exp.Organisms() {
		fmt.Println(organism)
	}
	return nil
}

// Run clears the cache without touching the network; no catalog fetch is
// needed to delete local files.
func (c *ClearCacheCmd) Run(cliRoot *CLI) error {
	cfg := cliRoot.loadConfig()
	fileCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		return err
	}
	if err := fileCache.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cache cleared: %s\n", fileCache.Root())
	return nil
}

func writeCSV(path string, tbl *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, tbl.NumCols())
	for _, row := range tbl.Rows {
		for i, cell := range row {
			record[i] = cell.Value()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printPreview(tbl *table.Table, limit int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(tbl.ColumnNames(), "\t"))
	for i, row := range tbl.Rows {
		if limit > 0 && i >= limit {
			break
		}
		values := make([]string, len(row))
		for j, cell := range row {
			values[j] = cell.Value()
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	w.Flush()

	fmt.Printf("\n%d rows × %d columns\n", tbl.NumRows(), tbl.NumCols())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func main() {
	var cliRoot CLI
	kctx := kong.Parse(
		&cliRoot,
		kong.Name("protex"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Description("protex - resolve, fetch and parse curated proteomics result tables"),
	)
	if err := kctx.Run(&cliRoot, &cliRoot); err != nil {
		logger.NewLogger().Fatal("command failed", "error", err)
	}
}
