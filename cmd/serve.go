package cmd

import (
	"fmt"

	"github.com/kbroman/errorgrams/pkg/api"
	"github.com/kbroman/errorgrams/pkg/api/handlers"
	"github.com/kbroman/errorgrams/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flag variables are typically global
var serveInput string

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Analyze a corpus and serve the report over HTTP",
	Long: `Runs one analysis and serves the result from a read-only REST API,
together with Prometheus metrics and an optional health check endpoint.
Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rep, err := analyze(cmd.Context(), cfg, serveInput)
		if err != nil {
			return err
		}

		reports := handlers.NewReportHolder(rep)

		logger.WithFields(logrus.Fields{
			"run_id":   rep.RunID,
			"api_addr": cfg.API.Addr,
		}).Info("Report ready")

		srv, err := server.NewServer(logger, &cfg.Server, api.NewService(&cfg.API, reports, logger))
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveInput, "input", "", "corpus file written by fetch (default: query the API)")
}
