package main

import (
	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/invoicing"
	"github.com/tu-usuario/invoice-bridge/internal/domain/invoice"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/render"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convierte los archivos de trabajo en pares de documentos xml+txt",
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return nil
	}
	processor := invoicing.NewProcessor(
		invoice.NewParser(rt.log),
		render.NewXMLBuilder(),
		render.NewTxtBuilder(),
		rt.staging,
		rt.snapshots,
		rt.lifecycle,
		rt.dial,
		rt.cfg.Jobs,
		rt.log,
	)
	if err := processor.ProcessJobs(cmd.Context()); err != nil {
		rt.log.Error().Err(err).Msg("el procesado de trabajos terminó con error")
	}
	return nil
}
