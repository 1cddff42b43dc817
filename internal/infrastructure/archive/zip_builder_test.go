package archive_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/archive"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readZipEntries devuelve el contenido del zip indexado por nombre de entrada.
func readZipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = string(data)
	}
	return entries
}

// TestBuildBundle verifica la estructura del paquete: el quittungsfile en la
// raíz del zip y cada copia de factura bajo invoices/.
func TestBuildBundle(t *testing.T) {
	dir := t.TempDir()
	receipt := writeFile(t, dir, "quittungsfile1_1.txt", "K1_101_invoice.txt ok")
	inv1 := writeFile(t, dir, "K1_101_invoice.txt", "factura 101")
	inv2 := writeFile(t, dir, "K1_102_invoice.txt", "factura 102")

	zipDir := t.TempDir()
	path, err := archive.BuildBundle(zipDir, receipt, []string{inv1, inv2})
	require.NoError(t, err)
	assert.Equal(t, zipDir, filepath.Dir(path))
	assert.Equal(t, ".zip", filepath.Ext(path))

	entries := readZipEntries(t, path)
	assert.Equal(t, map[string]string{
		"quittungsfile1_1.txt":        "K1_101_invoice.txt ok",
		"invoices/K1_101_invoice.txt": "factura 101",
		"invoices/K1_102_invoice.txt": "factura 102",
	}, entries)
}

func TestBuildBundle_SoloQuittungsfile(t *testing.T) {
	dir := t.TempDir()
	receipt := writeFile(t, dir, "quittungsfile1_1.txt", "sin facturas")

	path, err := archive.BuildBundle(t.TempDir(), receipt, nil)
	require.NoError(t, err)

	entries := readZipEntries(t, path)
	assert.Len(t, entries, 1)
}

// TestBuildBundle_NombresUnicos verifica que dos paquetes del mismo
// quittungsfile no chocan entre sí.
func TestBuildBundle_NombresUnicos(t *testing.T) {
	dir := t.TempDir()
	receipt := writeFile(t, dir, "quittungsfile1_1.txt", "contenido")
	zipDir := t.TempDir()

	path1, err := archive.BuildBundle(zipDir, receipt, nil)
	require.NoError(t, err)
	path2, err := archive.BuildBundle(zipDir, receipt, nil)
	require.NoError(t, err)

	assert.NotEqual(t, path1, path2)
}

func TestBuildBundle_CarpetaInexistente(t *testing.T) {
	dir := t.TempDir()
	receipt := writeFile(t, dir, "quittungsfile1_1.txt", "contenido")

	_, err := archive.BuildBundle(filepath.Join(dir, "no-existe"), receipt, nil)
	assert.ErrorIs(t, err, domain.ErrArchiveNotCreatable)
}

// TestBuildBundle_FacturaAusente verifica que una copia de factura
// desaparecida aborta el paquete y no deja un zip parcial.
func TestBuildBundle_FacturaAusente(t *testing.T) {
	dir := t.TempDir()
	receipt := writeFile(t, dir, "quittungsfile1_1.txt", "contenido")
	zipDir := t.TempDir()

	_, err := archive.BuildBundle(zipDir, receipt, []string{filepath.Join(dir, "no-existe.txt")})
	require.Error(t, err)

	leftovers, err := os.ReadDir(zipDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "no debe quedar un zip parcial")
}
