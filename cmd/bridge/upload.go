package main

import (
	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/distribution"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Sube los pares de documentos al sistema de facturación",
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return nil
	}
	uploader := distribution.NewUploader(rt.staging, rt.lifecycle, rt.dial, rt.cfg.InvoiceInbound, rt.log)
	if err := uploader.UploadInvoices(cmd.Context()); err != nil {
		rt.log.Error().Err(err).Msg("la subida de documentos terminó con error")
	}
	return nil
}
