package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
)

// snapshotVersion versión del formato persistido. Un snapshot con otra
// versión se rechaza en la carga en lugar de interpretarse mal.
const snapshotVersion = 1

// snapshotRecord es el registro auto-descriptivo que se persiste por factura
// entre la generación y la notificación.
type snapshotRecord struct {
	Version int                `json:"version"`
	Invoice *entity.InvoiceJob `json:"invoice"`
}

// SnapshotStore persiste las facturas parseadas como registros JSON
// versionados en la carpeta data/ del staging, una por número de factura.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore crea el almacén de snapshots sobre la carpeta indicada.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Path devuelve la ruta del snapshot de una factura.
func (s *SnapshotStore) Path(invoiceNumber int) string {
	return filepath.Join(s.dir, strconv.Itoa(invoiceNumber)+".json")
}

// Save escribe el snapshot de la factura.
func (s *SnapshotStore) Save(inv *entity.InvoiceJob) error {
	record := snapshotRecord{Version: snapshotVersion, Invoice: inv}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar snapshot de la factura %d: %w", inv.InvoiceNumber, err)
	}
	path := s.Path(inv.InvoiceNumber)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir snapshot %s: %w", path, err)
	}
	return nil
}

// Load lee el snapshot de una factura por su número.
func (s *SnapshotStore) Load(invoiceNumber int) (*entity.InvoiceJob, error) {
	path := s.Path(invoiceNumber)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer snapshot %s: %w", path, err)
	}
	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("deserializar snapshot %s: %w", path, err)
	}
	if record.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot %s con versión desconocida %d", path, record.Version)
	}
	if record.Invoice == nil {
		return nil, fmt.Errorf("snapshot %s sin factura", path)
	}
	return record.Invoice, nil
}
