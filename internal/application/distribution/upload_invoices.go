// Package distribution contiene las etapas posteriores del pipeline: subida
// de documentos al sistema de facturación, descarga de quittungsfiles y
// armado/envío de los paquetes de notificación.
package distribution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/application/session"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// documentPattern identifica los documentos renderizados listos para subir.
var documentPattern = regexp.MustCompile(`^\w+_\d+_invoice\.(xml|txt)$`)

// Uploader sube el par xml+txt de cada factura al buzón de entrada del
// sistema de facturación. Un documento sin pareja es un defecto: se pone en
// cuarentena y no se sube nada de esa factura.
type Uploader struct {
	staging   *storage.Staging
	lifecycle *storage.Lifecycle
	dial      ports.MailboxDialer
	box       config.Mailbox
	log       *logger.Logger
}

// NewUploader crea la etapa de subida de documentos.
func NewUploader(staging *storage.Staging, lifecycle *storage.Lifecycle, dial ports.MailboxDialer, box config.Mailbox, log *logger.Logger) *Uploader {
	return &Uploader{staging: staging, lifecycle: lifecycle, dial: dial, box: box, log: log}
}

// UploadInvoices agrupa los documentos por factura, sube los pares completos
// y ajusta el staging: el xml subido se elimina y el txt subido pasa a
// invoices/ como copia para la correlación de quittungsfiles. Una factura
// con par incompleto se cuarentena; el resto del lote continúa.
func (u *Uploader) UploadInvoices(ctx context.Context) error {
	pairs, orphans, err := u.collectDocuments()
	if err != nil {
		u.log.Error().Err(err).Msg("no se pudo listar el staging de documentos")
		return err
	}

	for _, orphan := range orphans {
		u.log.Error().Str("file", orphan).Msg("documento de factura sin pareja, se pone en cuarentena")
		_ = u.lifecycle.Resolve(orphan, true)
	}
	if len(pairs) == 0 {
		return nil
	}

	mb, err := session.Open(u.dial, u.box, u.log)
	if err != nil {
		return err
	}
	defer mb.Close()

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.uploadPair(mb, pair)
	}
	return nil
}

// documentPair es el par de documentos de una misma factura.
type documentPair struct {
	base string
	xml  string
	txt  string
}

// collectDocuments recorre xml/ y txt/ y separa los pares completos de los
// documentos huérfanos. Los artefactos ya en cuarentena (.sav) se ignoran.
func (u *Uploader) collectDocuments() ([]documentPair, []string, error) {
	xmlFiles, err := listDocuments(u.staging.XML(), ".xml")
	if err != nil {
		return nil, nil, fmt.Errorf("listar %s: %w", u.staging.XML(), err)
	}
	txtFiles, err := listDocuments(u.staging.Txt(), ".txt")
	if err != nil {
		return nil, nil, fmt.Errorf("listar %s: %w", u.staging.Txt(), err)
	}

	var pairs []documentPair
	var orphans []string
	for base, xmlPath := range xmlFiles {
		txtPath, ok := txtFiles[base]
		if !ok {
			orphans = append(orphans, xmlPath)
			continue
		}
		pairs = append(pairs, documentPair{base: base, xml: xmlPath, txt: txtPath})
		delete(txtFiles, base)
	}
	for _, txtPath := range txtFiles {
		orphans = append(orphans, txtPath)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].base < pairs[j].base })
	sort.Strings(orphans)
	return pairs, orphans, nil
}

// listDocuments indexa los documentos de una carpeta por su nombre base.
func listDocuments(dir, ext string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !documentPattern.MatchString(name) || !strings.HasSuffix(name, ext) {
			continue
		}
		files[strings.TrimSuffix(name, ext)] = filepath.Join(dir, name)
	}
	return files, nil
}

// uploadPair sube ambos documentos de una factura. Un fallo de subida deja
// el par intacto para el próximo intento; tras el éxito el xml se elimina y
// el txt se mueve a invoices/.
func (u *Uploader) uploadPair(mb ports.Mailbox, pair documentPair) {
	if err := mb.Put(pair.xml, pair.base+".xml"); err != nil {
		u.log.Error().Err(err).Str("file", pair.base+".xml").Msg("no se pudo subir el documento xml")
		return
	}
	if err := mb.Put(pair.txt, pair.base+".txt"); err != nil {
		u.log.Error().Err(err).Str("file", pair.base+".txt").Msg("no se pudo subir el documento de texto")
		return
	}
	u.log.Info().Str("invoice", pair.base).Msg("par de documentos subido")

	_ = u.lifecycle.Resolve(pair.xml, false)
	copyPath := filepath.Join(u.staging.Invoices(), pair.base+".txt")
	if err := os.Rename(pair.txt, copyPath); err != nil {
		u.log.Warn().Err(err).Str("file", pair.txt).Msg("no se pudo mover la copia txt a invoices/")
	}
}
