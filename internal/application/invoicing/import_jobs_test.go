package invoicing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-bridge/internal/application/invoicing"
	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// fakeMailbox simula un buzón remoto en memoria.
type fakeMailbox struct {
	files   map[string]string
	getErr  map[string]error
	putErr  map[string]error
	uploads map[string]string
	deleted []string
	renamed map[string]string
	closed  bool
}

func newFakeMailbox(files map[string]string) *fakeMailbox {
	if files == nil {
		files = make(map[string]string)
	}
	return &fakeMailbox{
		files:   files,
		getErr:  make(map[string]error),
		putErr:  make(map[string]error),
		uploads: make(map[string]string),
		renamed: make(map[string]string),
	}
}

func (f *fakeMailbox) Login(user, password string) error { return nil }
func (f *fakeMailbox) ChangeDirectory(path string) error { return nil }

func (f *fakeMailbox) List(pattern *regexp.Regexp) ([]string, error) {
	var names []string
	for name := range f.files {
		if pattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeMailbox) Get(remoteName, localPath string) error {
	if err := f.getErr[remoteName]; err != nil {
		return err
	}
	content, ok := f.files[remoteName]
	if !ok {
		return errors.New("550 no such file")
	}
	return os.WriteFile(localPath, []byte(content), 0o644)
}

func (f *fakeMailbox) Put(localPath, remoteName string) error {
	if err := f.putErr[remoteName]; err != nil {
		return err
	}
	content, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.uploads[remoteName] = string(content)
	return nil
}

func (f *fakeMailbox) Delete(name string) error {
	f.deleted = append(f.deleted, name)
	delete(f.files, name)
	return nil
}

func (f *fakeMailbox) Rename(name, newName string) error {
	f.renamed[name] = newName
	return nil
}

func (f *fakeMailbox) Close() error {
	f.closed = true
	return nil
}

func dialerFor(mb ports.Mailbox, err error) ports.MailboxDialer {
	return func(host string) (ports.Mailbox, error) { return mb, err }
}

func newTestStaging(t *testing.T) *storage.Staging {
	t.Helper()
	s, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la etapa de ingesta: filtro por patrón de nombre, continuación
// tras fallos por archivo y aborto ante fallo de conexión.
// ──────────────────────────────────────────────────────────────────────────────

func TestImportJobs_DescargaSoloArchivosDeTrabajo(t *testing.T) {
	mb := newFakeMailbox(map[string]string{
		"job500.data": "contenido 500",
		"job501.data": "contenido 501",
		"leeme.txt":   "no es un trabajo",
		".data":       "tampoco",
	})
	staging := newTestStaging(t)
	importer := invoicing.NewJobImporter(dialerFor(mb, nil), config.Mailbox{Host: "h"}, staging, logger.Nop())

	require.NoError(t, importer.ImportJobs(context.Background()))

	assert.FileExists(t, filepath.Join(staging.Jobs(), "job500.data"))
	assert.FileExists(t, filepath.Join(staging.Jobs(), "job501.data"))
	assert.NoFileExists(t, filepath.Join(staging.Jobs(), "leeme.txt"))
	assert.True(t, mb.closed, "la sesión debe cerrarse al terminar")
}

// TestImportJobs_FalloPorArchivo verifica que una descarga fallida no frena
// el resto del lote y deja el archivo remoto intacto.
func TestImportJobs_FalloPorArchivo(t *testing.T) {
	mb := newFakeMailbox(map[string]string{
		"job500.data": "contenido 500",
		"job501.data": "contenido 501",
	})
	mb.getErr["job500.data"] = errors.New("426 transfer aborted")
	staging := newTestStaging(t)
	importer := invoicing.NewJobImporter(dialerFor(mb, nil), config.Mailbox{Host: "h"}, staging, logger.Nop())

	require.NoError(t, importer.ImportJobs(context.Background()))

	assert.NoFileExists(t, filepath.Join(staging.Jobs(), "job500.data"))
	assert.FileExists(t, filepath.Join(staging.Jobs(), "job501.data"))
}

func TestImportJobs_FalloDeConexion(t *testing.T) {
	staging := newTestStaging(t)
	importer := invoicing.NewJobImporter(
		dialerFor(nil, errors.New("connection refused")),
		config.Mailbox{Host: "h"}, staging, logger.Nop(),
	)

	err := importer.ImportJobs(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnectionFailed)
}
