package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tu-usuario/invoice-bridge/internal/domain"
)

// invoicesFolder carpeta interna del zip donde van las copias de facturas.
const invoicesFolder = "invoices"

// BuildBundle arma el archivo zip de un paquete: el quittungsfile en la raíz
// y cada copia txt de factura bajo invoices/. Devuelve la ruta del zip
// creado en zipDir; el nombre es aleatorio para no chocar entre ejecuciones.
func BuildBundle(zipDir, receiptPath string, invoicePaths []string) (string, error) {
	path := filepath.Join(zipDir, uuid.NewString()+".zip")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("crear %s: %w", path, domain.ErrArchiveNotCreatable)
	}
	zw := zip.NewWriter(f)

	if err := addFile(zw, receiptPath, filepath.Base(receiptPath)); err != nil {
		zw.Close()
		f.Close()
		os.Remove(path)
		return "", err
	}
	for _, invoicePath := range invoicePaths {
		entry := invoicesFolder + "/" + filepath.Base(invoicePath)
		if err := addFile(zw, invoicePath, entry); err != nil {
			zw.Close()
			f.Close()
			os.Remove(path)
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("zip: cerrar %s: %w", path, err)
	}
	return path, nil
}

func addFile(zw *zip.Writer, path, entryName string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("zip: abrir %s: %w", path, err)
	}
	defer src.Close()

	fw, err := zw.Create(entryName)
	if err != nil {
		return fmt.Errorf("zip: crear entrada %s: %w", entryName, err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return fmt.Errorf("zip: escribir entrada %s: %w", entryName, err)
	}
	return nil
}
