package main

import (
	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/distribution"
)

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Descarga los quittungsfiles del sistema de facturación",
	RunE:  runReceipts,
}

func init() {
	rootCmd.AddCommand(receiptsCmd)
}

func runReceipts(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return nil
	}
	fetcher := distribution.NewReceiptFetcher(rt.staging, rt.lifecycle, rt.dial, rt.cfg.InvoiceReceipts, rt.log)
	if err := fetcher.FetchReceipts(cmd.Context()); err != nil {
		rt.log.Error().Err(err).Msg("la descarga de quittungsfiles terminó con error")
	}
	return nil
}
