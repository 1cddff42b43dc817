package distribution

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/application/session"
	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/archive"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

var (
	// invoiceTokenPattern encuentra las referencias a facturas dentro del
	// cuerpo de un quittungsfile.
	invoiceTokenPattern = regexp.MustCompile(`K\d+_\d+_invoice\.txt`)
	// invoiceNumberPattern extrae el número de factura de un token.
	invoiceNumberPattern = regexp.MustCompile(`_(\d+)_invoice`)
)

// BundleSender correlaciona cada quittungsfile con las facturas que
// confirma, arma el zip del paquete, lo envía por correo al remitente y lo
// sube al buzón de archivo del cliente. Tras un paquete notificado sus
// snapshots y copias txt se purgan; el quittungsfile se elimina cuando
// todos sus paquetes terminaron bien.
type BundleSender struct {
	staging    *storage.Staging
	snapshots  *storage.SnapshotStore
	lifecycle  *storage.Lifecycle
	mailer     ports.Mailer
	dial       ports.MailboxDialer
	archiveBox config.Mailbox
	log        *logger.Logger
}

// NewBundleSender crea la etapa de correlación y notificación.
func NewBundleSender(
	staging *storage.Staging,
	snapshots *storage.SnapshotStore,
	lifecycle *storage.Lifecycle,
	mailer ports.Mailer,
	dial ports.MailboxDialer,
	archiveBox config.Mailbox,
	log *logger.Logger,
) *BundleSender {
	return &BundleSender{
		staging:    staging,
		snapshots:  snapshots,
		lifecycle:  lifecycle,
		mailer:     mailer,
		dial:       dial,
		archiveBox: archiveBox,
		log:        log,
	}
}

// SendBundles procesa todos los quittungsfiles del staging. La sesión con
// el buzón de archivo es perezosa y best-effort: sin ella los zips se
// envían por correo igual y solo se omite la subida. Un paquete fallido
// conserva el quittungsfile para el próximo intento; los paquetes ya
// notificados no se repiten porque sus snapshots ya no existen.
func (s *BundleSender) SendBundles(ctx context.Context) error {
	receipts, err := s.collectReceipts()
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo listar el staging de quittungsfiles")
		return err
	}

	var archiveSession ports.Mailbox
	archiveTried := false
	openArchive := func() ports.Mailbox {
		if archiveSession != nil || archiveTried {
			return archiveSession
		}
		archiveTried = true
		if s.dial == nil {
			return nil
		}
		mb, err := session.Open(s.dial, s.archiveBox, s.log)
		if err != nil {
			return nil
		}
		archiveSession = mb
		return archiveSession
	}
	defer func() {
		if archiveSession != nil {
			archiveSession.Close()
		}
	}()

	for _, receiptPath := range receipts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.processReceipt(receiptPath, openArchive) {
			_ = s.lifecycle.Resolve(receiptPath, false)
		}
	}
	return nil
}

func (s *BundleSender) collectReceipts() ([]string, error) {
	entries, err := os.ReadDir(s.staging.Receipts())
	if err != nil {
		return nil, err
	}
	var receipts []string
	for _, entry := range entries {
		if entry.IsDir() || !receiptPattern.MatchString(entry.Name()) {
			continue
		}
		receipts = append(receipts, filepath.Join(s.staging.Receipts(), entry.Name()))
	}
	sort.Strings(receipts)
	return receipts, nil
}

// processReceipt arma y despacha los paquetes de un quittungsfile, uno por
// dirección de correo del remitente. Devuelve true cuando ningún paquete
// falló y el quittungsfile puede eliminarse.
func (s *BundleSender) processReceipt(receiptPath string, openArchive func() ports.Mailbox) bool {
	name := filepath.Base(receiptPath)
	numbers, err := s.scanReceipt(receiptPath)
	if err != nil {
		s.log.Error().Err(err).Str("file", name).Msg("no se pudo leer el quittungsfile")
		return false
	}

	groups := s.groupBySender(numbers)
	emails := make([]string, 0, len(groups))
	for email := range groups {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	ok := true
	for _, email := range emails {
		if !s.dispatchBundle(receiptPath, email, groups[email], openArchive) {
			ok = false
		}
	}
	return ok
}

// scanReceipt extrae del cuerpo del quittungsfile los números de factura
// confirmados, sin duplicados y en orden de aparición. Un token sin número
// extraíble se registra y se ignora.
func (s *BundleSender) scanReceipt(receiptPath string) ([]int, error) {
	content, err := os.ReadFile(receiptPath)
	if err != nil {
		return nil, err
	}

	var numbers []int
	seen := make(map[int]bool)
	for _, line := range strings.Split(string(content), "\n") {
		for _, token := range invoiceTokenPattern.FindAllString(line, -1) {
			match := invoiceNumberPattern.FindStringSubmatch(token)
			if match == nil {
				s.log.Warn().Str("token", token).Str("file", filepath.Base(receiptPath)).
					Err(domain.ErrInvalidInvoiceFileName).Msg("token de factura sin número, se ignora")
				continue
			}
			n, err := strconv.Atoi(match[1])
			if err != nil {
				s.log.Warn().Str("token", token).Err(domain.ErrInvalidInvoiceFileName).
					Msg("token de factura sin número, se ignora")
				continue
			}
			if !seen[n] {
				seen[n] = true
				numbers = append(numbers, n)
			}
		}
	}
	return numbers, nil
}

// groupBySender carga el snapshot de cada factura y la agrupa por la
// dirección de correo del remitente. Una factura sin snapshot ya fue
// notificada (o nunca se procesó) y se salta.
func (s *BundleSender) groupBySender(numbers []int) map[string][]*entity.InvoiceJob {
	groups := make(map[string][]*entity.InvoiceJob)
	for _, n := range numbers {
		inv, err := s.snapshots.Load(n)
		if err != nil {
			s.log.Warn().Err(err).Int("invoice", n).Msg("factura confirmada sin snapshot, se salta")
			continue
		}
		groups[inv.Sender.Email] = append(groups[inv.Sender.Email], inv)
	}
	return groups
}

// dispatchBundle arma el zip de un grupo, lo envía por correo, lo sube al
// buzón de archivo y purga los artefactos del grupo. Devuelve false si el
// paquete no llegó a notificarse.
func (s *BundleSender) dispatchBundle(receiptPath, email string, invoices []*entity.InvoiceJob, openArchive func() ports.Mailbox) bool {
	receiptName := strings.TrimSuffix(filepath.Base(receiptPath), ".txt")

	var invoicePaths []string
	for _, inv := range invoices {
		path := filepath.Join(s.staging.Invoices(), inv.DocumentBaseName()+".txt")
		if _, err := os.Stat(path); err != nil {
			s.log.Warn().Int("invoice", inv.InvoiceNumber).Err(domain.ErrMissingInvoiceFile).
				Msg("sin copia local del txt, la factura queda fuera del paquete")
			continue
		}
		invoicePaths = append(invoicePaths, path)
	}

	zipPath, err := archive.BuildBundle(s.staging.Zip(), receiptPath, invoicePaths)
	if err != nil {
		s.log.Error().Err(err).Str("receipt", receiptName).Msg("no se pudo armar el zip del paquete")
		return false
	}

	if err := s.mailer.SendBundle(email, receiptName, zipPath); err != nil {
		s.log.Error().Err(err).Str("to", email).Str("receipt", receiptName).
			Msg("no se pudo enviar la notificación del paquete")
		_ = s.lifecycle.Resolve(zipPath, false)
		return false
	}
	s.log.Info().Str("to", email).Str("receipt", receiptName).Msg("paquete notificado")

	if mb := openArchive(); mb != nil {
		remoteName := receiptName + ".zip"
		if err := mb.Put(zipPath, remoteName); err != nil {
			s.log.Warn().Err(err).Str("file", remoteName).Msg("no se pudo subir el zip al buzón de archivo")
		} else {
			s.log.Info().Str("file", remoteName).Msg("zip subido al buzón de archivo")
		}
	}
	_ = s.lifecycle.Resolve(zipPath, false)

	for _, inv := range invoices {
		_ = s.lifecycle.Resolve(s.snapshots.Path(inv.InvoiceNumber), false)
		_ = s.lifecycle.Resolve(filepath.Join(s.staging.Invoices(), inv.DocumentBaseName()+".txt"), false)
	}
	return true
}
