package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/imagery-cli/internal/imagery"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Build the tile-source catalog from the filtered imagery",
	Long:  "Reads the filtered GeoJSON written by filter and groups its layers into countrywide and other tile sources with attribution and max zoom defaults.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		if flags.Changed("input") {
			cfg.Imagery.Output, _ = flags.GetString("input")
		}
		if flags.Changed("output") {
			cfg.Sources.Output, _ = flags.GetString("output")
		}
		if flags.Changed("format") {
			cfg.Sources.Format, _ = flags.GetString("format")
		}
		if err := cfg.Validate("sources"); err != nil {
			return err
		}

		fc, err := imagery.Read(cfg.Imagery.Output)
		if err != nil {
			return eris.Wrap(err, "sources")
		}

		catalog := imagery.BuildCatalog(fc)
		if err := imagery.WriteCatalog(cfg.Sources.Output, cfg.Sources.Format, catalog); err != nil {
			return eris.Wrap(err, "sources")
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tile sources: %d (countrywide %d, other %d)\n",
			len(catalog.All), len(catalog.Countrywide), len(catalog.Other))
		return nil
	},
}

func init() {
	sourcesCmd.Flags().StringP("input", "i", "src/assets/filtered.json", "filtered GeoJSON to read")
	sourcesCmd.Flags().StringP("output", "o", "src/assets/sources.json", "catalog output path")
	sourcesCmd.Flags().String("format", "json", "catalog format (json, yaml)")
	rootCmd.AddCommand(sourcesCmd)
}
