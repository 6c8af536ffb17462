package main

import (
	"context"
	"fmt"
	"os"

	"cutoffrank/app"
	"cutoffrank/internal"
	"cutoffrank/internal/config"
	"cutoffrank/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	source string
	sheet  string
	output string
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "cutoffrank",
		Short: "Look up KCET college cutoff ranks and build a sorted shortlist",
		Long: `cutoffrank reads the KCET cutoff spreadsheet and answers cutoff lookups.

The dataset source defaults to DATASET_URL and may be an http(s) URL, a
file:// URL or a local .xlsx/.csv path.

Example: cutoffrank lookup GM "RV College of Engineering" "Computer Science"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "Dataset URL or path (default $DATASET_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "Worksheet to read (default first sheet)")

	rootCmd.AddCommand(
		newCategoriesCmd(opts),
		newCollegesCmd(opts),
		newBranchesCmd(opts),
		newLookupCmd(opts),
		newSummaryCmd(opts),
		newSessionCmd(opts),
	)

	return rootCmd
}

// loadService reads configuration, applies flag overrides and loads the
// dataset. A load failure is returned as is so the process exits non-zero.
func (o *options) loadService(ctx context.Context) (*app.SelectionService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Log.Level))

	if o.source != "" {
		cfg.Dataset.URL = o.source
	}
	if o.sheet != "" {
		cfg.Dataset.Sheet = o.sheet
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c.Service, nil
}
