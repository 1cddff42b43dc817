package distribution

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

// receiptPattern identifica los quittungsfiles en el buzón de salida del
// sistema de facturación.
var receiptPattern = regexp.MustCompile(`^quittungsfile\d+_\d+\.txt$`)

// ReceiptFetcher descarga los quittungsfiles al staging local. El archivo
// remoto se elimina solo después de confirmada la escritura local.
type ReceiptFetcher struct {
	staging   *storage.Staging
	lifecycle *storage.Lifecycle
	dial      ports.MailboxDialer
	box       config.Mailbox
	log       *logger.Logger
}

// NewReceiptFetcher crea la etapa de descarga de quittungsfiles.
func NewReceiptFetcher(staging *storage.Staging, lifecycle *storage.Lifecycle, dial ports.MailboxDialer, box config.Mailbox, log *logger.Logger) *ReceiptFetcher {
	return &ReceiptFetcher{staging: staging, lifecycle: lifecycle, dial: dial, box: box, log: log}
}

// FetchReceipts lista el buzón y descarga cada quittungsfile. Un fallo de
// conexión aborta la etapa; un fallo por archivo se registra, deja el
// remoto intacto y sigue con el resto.
func (f *ReceiptFetcher) FetchReceipts(ctx context.Context) error {
	mb, err := session.Open(f.dial, f.box, f.log)
	if err != nil {
		return err
	}
	defer mb.Close()

	names, err := mb.List(receiptPattern)
	if err != nil {
		f.log.Error().Err(err).Msg("no se pudo listar el buzón de quittungsfiles")
		return fmt.Errorf("listar buzón de quittungsfiles: %w", err)
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		localPath := filepath.Join(f.staging.Receipts(), name)
		if err := mb.Get(name, localPath); err != nil {
			f.log.Error().Err(err).Str("file", name).Msg("no se pudo descargar el quittungsfile")
			continue
		}
		f.log.Info().Str("file", name).Msg("quittungsfile descargado")
		_ = f.lifecycle.ResolveRemote(mb, name, false)
	}
	return nil
}
