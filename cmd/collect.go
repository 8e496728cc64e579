package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tubescribe/tubescribe/internal"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [URL list file]",
	Short: "Scrape video metadata into the catalog CSV",
	Long: `Collect reads a list of YouTube video URLs (one per line, first CSV
field), scrapes each video's page for ID, title, publish date, and
duration, and appends the records to the catalog CSV. Videos with
missing metadata are dropped with a notice; the catalog header is
written only once.`,
	Example: `  # Scrape the default input list into the default catalog
  tubescribe collect

  # Explicit input and output files
  tubescribe collect my_urls.csv -o my_catalog.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := config.InputFile
		if len(args) == 1 {
			inputFile = args[0]
		}

		urls, err := internal.ReadURLList(inputFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("no video URLs found in %s", inputFile)
		}

		ui := internal.NewUIManager(config.Verbose, config.Quiet)
		collector := internal.NewCollector(internal.NewPageFetcher(), ui, config.Verbose)

		records, err := collector.Collect(cmd.Context(), urls)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no video metadata could be scraped")
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			outputFile = config.CatalogFile
		}

		catalog := internal.NewCatalog(outputFile, ui)
		if err := catalog.Append(records); err != nil {
			return err
		}

		ui.Printf("Videos information have been extracted and exported to %s\n", outputFile)
		return nil
	},
}

func init() {
	collectCmd.Flags().StringP("output", "o", "", "Catalog CSV path (default from config)")
	rootCmd.AddCommand(collectCmd)
}
