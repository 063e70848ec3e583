package cmd

import (
	"os"

	"github.com/kbroman/errorgrams/pkg/report"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flag variables are typically global
var (
	analyzeInput  string
	analyzeFormat string
	analyzeTop    int
	analyzeLimit  int
)

//nolint:gochecknoglobals // Cobra commands are typically global
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank error trigrams and report their coverage",
	Long: `Extracts error messages from a corpus, ranks the word trigrams found in
them and reports what fraction of the messages the top K trigrams cover.
Without --input the corpus is fetched from the search API.`,
	Example: `  errorgrams analyze --input corpus.json --top 30
  errorgrams analyze --input corpus.json --format json --limit 0`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		format, err := report.ParseFormat(analyzeFormat)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("top") {
			cfg.Analysis.TopK = analyzeTop
		}

		if cmd.Flags().Changed("limit") {
			cfg.Analysis.ReportLimit = analyzeLimit
		}

		if err := cfg.Analysis.Validate(); err != nil {
			return err
		}

		rep, err := analyze(cmd.Context(), cfg, analyzeInput)
		if err != nil {
			return err
		}

		renderer, err := report.NewRenderer(cfg.Analysis.ReportLimit)
		if err != nil {
			return err
		}

		return renderer.Render(os.Stdout, rep, format)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "corpus file written by fetch (default: query the API)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", string(report.FormatText), "output format (text, json)")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "number of top trigrams to compute coverage for (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "maximum ranked rows to print, 0 for all (default from config)")
}
