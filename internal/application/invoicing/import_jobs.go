package invoicing

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/application/session"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// jobFilePattern identifica los archivos de trabajo en el buzón del cliente.
var jobFilePattern = regexp.MustCompile(`^\w+\d+\.data$`)

// JobImporter descarga los archivos de trabajo del buzón del cliente al
// staging local. No hay deduplicación: cada corrida vuelve a descargar todo
// lo que siga presente en el buzón (brecha conocida del sistema origen, se
// conserva a propósito).
type JobImporter struct {
	dial    ports.MailboxDialer
	box     config.Mailbox
	staging *storage.Staging
	log     *logger.Logger
}

// NewJobImporter crea la etapa de ingesta de trabajos.
func NewJobImporter(dial ports.MailboxDialer, box config.Mailbox, staging *storage.Staging, log *logger.Logger) *JobImporter {
	return &JobImporter{dial: dial, box: box, staging: staging, log: log}
}

// ImportJobs lista el buzón y descarga cada archivo de trabajo. Un fallo de
// conexión o login aborta la etapa completa; un fallo por archivo se
// registra y ese archivo se salta.
func (i *JobImporter) ImportJobs(ctx context.Context) error {
	mb, err := session.Open(i.dial, i.box, i.log)
	if err != nil {
		return err
	}
	defer mb.Close()

	names, err := mb.List(jobFilePattern)
	if err != nil {
		i.log.Error().Err(err).Msg("no se pudo listar el buzón de trabajos")
		return fmt.Errorf("listar buzón de trabajos: %w", err)
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		localPath := filepath.Join(i.staging.Jobs(), name)
		if err := mb.Get(name, localPath); err != nil {
			i.log.Error().Err(err).Str("file", name).Msg("no se pudo descargar el archivo de trabajo")
			continue
		}
		i.log.Info().Str("file", name).Msg("archivo de trabajo descargado")
	}
	return nil
}
