package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/config"
	"github.com/sells-group/imagery-cli/internal/fetcher"
	"github.com/sells-group/imagery-cli/internal/imagery"
	"github.com/sells-group/imagery-cli/internal/model"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Fetch, filter and save US photo imagery layers",
	Long: `Fetches the imagery index from --url (or reads --input when --url is empty),
keeps US photo TMS/WMS layers, rewrites their URL templates, sorts them by name
and writes the result to --output.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("url", config.DefaultIndexURL, "imagery index URL; empty reads --input")
	filterCmd.Flags().StringP("output", "o", "src/assets/filtered.json", "path of the filtered GeoJSON")
	filterCmd.Flags().StringP("input", "i", "src/assets/imagery.geojson", "local imagery index used when --url is empty")
	filterCmd.Flags().Bool("strict", false, "abort when a candidate layer lacks a url or name")
	rootCmd.AddCommand(filterCmd)
}

// applyFilterFlags overrides config values with explicitly set flags.
func applyFilterFlags(cmd *cobra.Command, c *config.ImageryConfig) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		c.URL, _ = flags.GetString("url")
	}
	if flags.Changed("output") {
		c.Output, _ = flags.GetString("output")
	}
	if flags.Changed("input") {
		c.Input, _ = flags.GetString("input")
	}
	if flags.Changed("strict") {
		c.Strict, _ = flags.GetBool("strict")
	}
}

func runFilter(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	applyFilterFlags(cmd, &cfg.Imagery)
	if err := cfg.Validate("filter"); err != nil {
		return err
	}

	rc := imagery.RunConfig{
		URL:     cfg.Imagery.URL,
		Input:   cfg.Imagery.Input,
		Output:  cfg.Imagery.Output,
		Options: imagery.Options{Strict: cfg.Imagery.Strict},
	}
	dl := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{UserAgent: cfg.Imagery.UserAgent})

	stats, err := imagery.Run(ctx, dl, rc)
	recordRun(ctx, rc, stats, err)
	if err != nil {
		return eris.Wrap(err, "filter")
	}

	printStats(cmd.OutOrStdout(), stats)
	return nil
}

// runSource names where a run read its index from.
func runSource(rc imagery.RunConfig) string {
	if rc.URL != "" {
		return rc.URL
	}
	return rc.Input
}

func newRunRecord(rc imagery.RunConfig, stats imagery.Stats, runErr error) *model.Run {
	run := &model.Run{
		Source:   runSource(rc),
		Output:   rc.Output,
		Status:   model.RunStatusComplete,
		Original: stats.Original,
		Filtered: stats.Filtered,
		Removed:  stats.Removed,
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
	}
	return run
}

func printStats(out io.Writer, s imagery.Stats) {
	_, _ = fmt.Fprintln(out, "\nStatistics:")
	_, _ = fmt.Fprintf(out, "Original features: %d\n", s.Original)
	_, _ = fmt.Fprintf(out, "Filtered features: %d\n", s.Filtered)
	_, _ = fmt.Fprintf(out, "Removed features: %d\n", s.Removed)
	_, _ = fmt.Fprintf(out, "Countrywide layers: %d\n", s.Countrywide)
	_, _ = fmt.Fprintf(out, "Worldwide layers: %d\n", s.Worldwide)
	if s.Extent != nil {
		_, _ = fmt.Fprintf(out, "Coverage extent: %.4f,%.4f,%.4f,%.4f\n",
			s.Extent.Min(0), s.Extent.Min(1), s.Extent.Max(0), s.Extent.Max(1))
	}
	zap.L().Debug("filter statistics",
		zap.Int("original", s.Original),
		zap.Int("filtered", s.Filtered),
		zap.Int("removed", s.Removed),
	)
}
