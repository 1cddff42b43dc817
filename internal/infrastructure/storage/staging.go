package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Subcarpetas del área de staging.
const (
	dirJobs     = "jobs"
	dirXML      = "xml"
	dirTxt      = "txt"
	dirData     = "data"
	dirZip      = "zip"
	dirReceipts = "receipts"
	dirInvoices = "invoices"
)

// Staging es la disposición del área de staging local: una raíz con una
// subcarpeta por etapa del ciclo de vida de los artefactos.
type Staging struct {
	root string
}

// NewStaging crea la estructura de carpetas si no existe y devuelve el layout.
func NewStaging(root string) (*Staging, error) {
	s := &Staging{root: root}
	for _, dir := range []string{s.Jobs(), s.XML(), s.Txt(), s.Data(), s.Zip(), s.Receipts(), s.Invoices()} {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return nil, fmt.Errorf("crear carpeta de staging %s: %w", dir, err)
		}
	}
	return s, nil
}

// Root devuelve la raíz del staging.
func (s *Staging) Root() string { return s.root }

// Jobs archivos de trabajo descargados (*.data).
func (s *Staging) Jobs() string { return filepath.Join(s.root, dirJobs) }

// XML documentos de factura renderizados en markup.
func (s *Staging) XML() string { return filepath.Join(s.root, dirXML) }

// Txt documentos de factura renderizados en texto de ancho fijo.
func (s *Staging) Txt() string { return filepath.Join(s.root, dirTxt) }

// Data snapshots persistidos de las facturas.
func (s *Staging) Data() string { return filepath.Join(s.root, dirData) }

// Zip archivos zip de paquetes receipt+facturas.
func (s *Staging) Zip() string { return filepath.Join(s.root, dirZip) }

// Receipts quittungsfiles descargados.
func (s *Staging) Receipts() string { return filepath.Join(s.root, dirReceipts) }

// Invoices copias txt de facturas ya subidas, para la correlación posterior.
func (s *Staging) Invoices() string { return filepath.Join(s.root, dirInvoices) }
