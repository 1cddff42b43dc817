package main

import (
	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/distribution"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/mail"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Correlaciona quittungsfiles, arma los zips y notifica por correo",
	RunE:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return nil
	}
	sender := distribution.NewBundleSender(
		rt.staging,
		rt.snapshots,
		rt.lifecycle,
		mail.NewMailer(rt.cfg.Mail),
		rt.dial,
		rt.cfg.Archive,
		rt.log,
	)
	if err := sender.SendBundles(cmd.Context()); err != nil {
		rt.log.Error().Err(err).Msg("el envío de paquetes terminó con error")
	}
	return nil
}
