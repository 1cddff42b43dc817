package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/ftp"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/mail"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Puente de facturación: trabajos del cliente -> documentos -> confirmaciones -> notificaciones",
	Long: `bridge es el servicio por lotes que conecta el sistema del cliente con el
sistema de facturación: descarga archivos de trabajo, los convierte en pares
de documentos xml+txt, los sube, correlaciona los quittungsfiles de vuelta y
notifica cada paquete por correo.

Cada subcomando es una etapa independiente pensada para correr por cron.
Las etapas terminan siempre con código 0: los fallos quedan en el log (y en
las alertas por correo si hay ADMIN_EMAIL configurado), nunca en el exit code.`,
}

// Execute es el punto de entrada del CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime son las dependencias compartidas que cada etapa arma al arrancar.
type runtime struct {
	cfg       *config.Config
	log       *logger.Logger
	staging   *storage.Staging
	lifecycle *storage.Lifecycle
	snapshots *storage.SnapshotStore
	dial      ports.MailboxDialer
}

// newRuntime carga la configuración y construye las dependencias comunes.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "no se pudo cargar la configuración:", err)
		return nil, err
	}

	logCfg := logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}
	var log *logger.Logger
	if hook := mail.NewAlertHook(cfg.Mail); hook != nil {
		log = logger.New(logCfg, hook)
	} else {
		log = logger.New(logCfg)
	}

	staging, err := storage.NewStaging(cfg.Staging.Root)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo preparar el área de staging")
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		log:       log,
		staging:   staging,
		lifecycle: storage.NewLifecycle(log),
		snapshots: storage.NewSnapshotStore(staging.Data()),
		dial: func(host string) (ports.Mailbox, error) {
			return ftp.Dial(host)
		},
	}, nil
}
