package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
)

// ErrTrigramRequired is returned when sample is run without --trigram
var ErrTrigramRequired = errors.New("--trigram is required")

//nolint:gochecknoglobals // Cobra flag variables are typically global
var (
	sampleInput   string
	sampleTrigram string
	sampleN       int
	sampleSeed    uint64
)

//nolint:gochecknoglobals // Cobra commands are typically global
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print error messages that contain a trigram",
	Long: `Prints a random sample of the extracted error messages containing the
given trigram. Use --seed to make the sample reproducible.`,
	Example: `  errorgrams sample --input corpus.json --trigram "there is no" --n 5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if sampleTrigram == "" {
			return ErrTrigramRequired
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rep, err := analyze(cmd.Context(), cfg, sampleInput)
		if err != nil {
			return err
		}

		seed := sampleSeed
		if !cmd.Flags().Changed("seed") {
			seed = rand.Uint64()
		}

		rng := rand.New(rand.NewPCG(seed, seed))

		samples := rep.Sample(sampleTrigram, sampleN, rng)
		if len(samples) == 0 {
			logger.WithField("trigram", sampleTrigram).Info("No error messages contain the trigram")
			return nil
		}

		for i, s := range samples {
			if i > 0 {
				fmt.Fprintln(os.Stdout, "---")
			}

			fmt.Fprintln(os.Stdout, s)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&sampleInput, "input", "", "corpus file written by fetch (default: query the API)")
	sampleCmd.Flags().StringVar(&sampleTrigram, "trigram", "", "trigram the sampled messages must contain")
	sampleCmd.Flags().IntVar(&sampleN, "n", 5, "number of messages to print, 0 for all")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "random seed (default: random)")
}
