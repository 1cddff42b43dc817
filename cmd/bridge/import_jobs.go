package main

import (
	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/invoicing"
)

var importJobsCmd = &cobra.Command{
	Use:   "import-jobs",
	Short: "Descarga los archivos de trabajo del buzón del cliente",
	RunE:  runImportJobs,
}

func init() {
	rootCmd.AddCommand(importJobsCmd)
}

func runImportJobs(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return nil
	}
	importer := invoicing.NewJobImporter(rt.dial, rt.cfg.Jobs, rt.staging, rt.log)
	if err := importer.ImportJobs(cmd.Context()); err != nil {
		rt.log.Error().Err(err).Msg("la ingesta de trabajos terminó con error")
	}
	return nil
}
