package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la primitiva borrar-o-cuarentena. El caso límite importante: un
// archivo ya ausente cuenta como resuelto, no como fallo.
// ──────────────────────────────────────────────────────────────────────────────

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("contenido"), 0o644))
	return path
}

func TestResolve_Eliminar(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	path := writeTempFile(t, t.TempDir(), "job1.data")

	require.NoError(t, lc.Resolve(path, false))
	assert.NoFileExists(t, path)
}

func TestResolve_Cuarentena(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	path := writeTempFile(t, t.TempDir(), "job1.data")

	require.NoError(t, lc.Resolve(path, true))
	assert.NoFileExists(t, path)
	assert.FileExists(t, path+storage.QuarantineSuffix)
}

func TestResolve_ArchivoAusente(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	path := filepath.Join(t.TempDir(), "no-existe.data")

	assert.NoError(t, lc.Resolve(path, false), "resolver un archivo ausente cuenta como éxito")
	assert.NoError(t, lc.Resolve(path, true))
}

// fakeRemoteFS registra las operaciones remotas del ciclo de vida.
type fakeRemoteFS struct {
	deleted []string
	renamed map[string]string
	fail    error
}

func (f *fakeRemoteFS) Delete(name string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeRemoteFS) Rename(name, newName string) error {
	if f.fail != nil {
		return f.fail
	}
	if f.renamed == nil {
		f.renamed = make(map[string]string)
	}
	f.renamed[name] = newName
	return nil
}

func TestResolveRemote_Eliminar(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	remote := &fakeRemoteFS{}

	require.NoError(t, lc.ResolveRemote(remote, "job1.data", false))
	assert.Equal(t, []string{"job1.data"}, remote.deleted)
}

func TestResolveRemote_MarcaComoRoto(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	remote := &fakeRemoteFS{}

	require.NoError(t, lc.ResolveRemote(remote, "job1.data", true))
	assert.Equal(t, "job1.data"+storage.BrokenSuffix, remote.renamed["job1.data"])
}

// TestResolveRemote_Fallo verifica que el fallo remoto se devuelve pero sin
// pánico ni efectos colaterales: la decisión de seguir es del llamador.
func TestResolveRemote_Fallo(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	remote := &fakeRemoteFS{fail: errors.New("550 permiso denegado")}

	assert.Error(t, lc.ResolveRemote(remote, "job1.data", false))
	assert.Empty(t, remote.deleted)
}

func TestResolveRemote_SinSesion(t *testing.T) {
	lc := storage.NewLifecycle(logger.Nop())
	assert.NoError(t, lc.ResolveRemote(nil, "job1.data", false))
}
