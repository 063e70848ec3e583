package cmd

import (
	"fmt"

	"github.com/kbroman/errorgrams/pkg/corpus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flag variables are typically global
var fetchOut string

//nolint:gochecknoglobals // Cobra commands are typically global
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download matching posts from the search API into a corpus file",
	Long: `Runs the configured Stack Exchange search, following result pages until
the API reports no more results, the quota runs out or stackexchange.maxPages
is reached, and writes the posts to a JSON file for later analysis.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client, cleanup, err := newSearchClient(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		posts, err := client.Posts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch posts: %w", err)
		}

		if err := corpus.Save(fetchOut, posts); err != nil {
			return fmt.Errorf("failed to save corpus: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"posts": len(posts),
			"out":   fetchOut,
		}).Info("Corpus saved")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOut, "out", "corpus.json", "file to write the fetched posts to")
}
