package invoicing

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/application/session"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
	"github.com/tu-usuario/invoice-bridge/internal/domain/invoice"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// Renderers de los dos documentos de la factura.
type xmlRenderer interface {
	Build(inv *entity.InvoiceJob) ([]byte, error)
}

type txtRenderer interface {
	Build(inv *entity.InvoiceJob, now time.Time) (string, error)
}

// Processor convierte los archivos de trabajo descargados en el par de
// documentos renderizados más el snapshot persistido, y limpia el archivo de
// trabajo local y remoto según el resultado: eliminado en éxito, cuarentena
// (.sav local, .broken remoto) en fallo fatal de parseo o renderizado.
type Processor struct {
	parser    *invoice.Parser
	xml       xmlRenderer
	txt       txtRenderer
	staging   *storage.Staging
	snapshots *storage.SnapshotStore
	lifecycle *storage.Lifecycle
	dial      ports.MailboxDialer
	box       config.Mailbox
	log       *logger.Logger
	now       func() time.Time
}

// NewProcessor crea la etapa de parseo y renderizado.
func NewProcessor(
	parser *invoice.Parser,
	xml xmlRenderer,
	txt txtRenderer,
	staging *storage.Staging,
	snapshots *storage.SnapshotStore,
	lifecycle *storage.Lifecycle,
	dial ports.MailboxDialer,
	box config.Mailbox,
	log *logger.Logger,
) *Processor {
	return &Processor{
		parser:    parser,
		xml:       xml,
		txt:       txt,
		staging:   staging,
		snapshots: snapshots,
		lifecycle: lifecycle,
		dial:      dial,
		box:       box,
		log:       log,
		now:       time.Now,
	}
}

// WithClock fija la fuente de fecha actual (para tests).
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// ProcessJobs procesa todos los archivos de trabajo del staging. Cada
// archivo es una unidad: un fallo lo pone en cuarentena y el lote sigue con
// el resto. La sesión remota para la limpieza es best-effort; sin ella los
// archivos remotos quedan como están.
func (p *Processor) ProcessJobs(ctx context.Context) error {
	files, err := p.collectJobFiles()
	if err != nil {
		p.log.Error().Err(err).Msg("no se pudo listar el staging de trabajos")
		return err
	}
	if len(files) == 0 {
		return nil
	}

	var remote ports.Mailbox
	if p.dial != nil {
		remote, err = session.Open(p.dial, p.box, p.log)
		if err != nil {
			// Sin sesión la limpieza remota se salta; el procesado local continúa.
			remote = nil
		} else {
			defer remote.Close()
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.processSingleJob(path, remote)
	}
	return nil
}

func (p *Processor) collectJobFiles() ([]string, error) {
	entries, err := os.ReadDir(p.staging.Jobs())
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !jobFilePattern.MatchString(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(p.staging.Jobs(), entry.Name()))
	}
	return files, nil
}

// processSingleJob parsea, valida, renderiza y persiste una factura. Ningún
// fallo de esta unidad pasa del límite del artefacto: también un pánico se
// recupera acá y el archivo de trabajo va a cuarentena como cualquier otro
// fallo fatal.
func (p *Processor) processSingleJob(path string, remote ports.Mailbox) {
	name := filepath.Base(path)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("file", name).
				Msg("pánico procesando el archivo de trabajo, se descarta")
			p.abandonJob(path, remote)
		}
	}()

	inv, err := p.parser.ParseFile(path)
	if err != nil {
		p.log.Error().Err(err).Str("file", name).Msg("el archivo de trabajo no se pudo parsear, se descarta")
		p.abandonJob(path, remote)
		return
	}
	if !inv.Validate() {
		p.log.Error().Int("invoice", inv.InvoiceNumber).Str("file", name).
			Msg("a la factura le faltan valores obligatorios, se descarta")
		p.abandonJob(path, remote)
		return
	}

	xmlBytes, err := p.xml.Build(inv)
	if err != nil {
		p.log.Error().Err(err).Int("invoice", inv.InvoiceNumber).
			Msg("no se pudo renderizar el documento xml, no se escribe ningún documento")
		p.abandonJob(path, remote)
		return
	}
	txtContent, err := p.txt.Build(inv, p.now())
	if err != nil {
		p.log.Error().Err(err).Int("invoice", inv.InvoiceNumber).
			Msg("no se pudo renderizar el documento de texto, no se escribe ningún documento")
		p.abandonJob(path, remote)
		return
	}

	base := inv.DocumentBaseName()
	xmlPath := filepath.Join(p.staging.XML(), base+".xml")
	txtPath := filepath.Join(p.staging.Txt(), base+".txt")
	if err := os.WriteFile(xmlPath, xmlBytes, 0o644); err != nil {
		p.log.Error().Err(err).Str("file", xmlPath).Msg("no se pudo escribir el documento xml")
		return
	}
	if err := os.WriteFile(txtPath, []byte(txtContent), 0o644); err != nil {
		p.log.Error().Err(err).Str("file", txtPath).Msg("no se pudo escribir el documento de texto")
		// No dejar un sobreviviente sin pareja.
		_ = p.lifecycle.Resolve(xmlPath, false)
		return
	}
	p.log.Info().Str("file", base+".xml").Msg("documento generado")
	p.log.Info().Str("file", base+".txt").Msg("documento generado")

	if err := p.snapshots.Save(inv); err != nil {
		p.log.Error().Err(err).Int("invoice", inv.InvoiceNumber).Msg("no se pudo persistir el snapshot de la factura")
		return
	}

	// La unidad terminó bien: el archivo de trabajo ya no hace falta.
	_ = p.lifecycle.Resolve(path, false)
	if remote != nil {
		_ = p.lifecycle.ResolveRemote(remote, name, false)
	}
}

// abandonJob pone en cuarentena el archivo de trabajo local (.sav) y marca
// el remoto como roto (.broken) para inspección manual.
func (p *Processor) abandonJob(path string, remote ports.Mailbox) {
	_ = p.lifecycle.Resolve(path, true)
	if remote != nil {
		_ = p.lifecycle.ResolveRemote(remote, filepath.Base(path), true)
	}
}
